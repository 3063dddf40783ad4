// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the Prompty backend.
var (
	// Counters.
	RegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Total number of user registrations",
		},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"},
	)

	SkillCompletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skill_completions_total",
			Help: "Total number of skill completion reports",
		},
		[]string{"path"},
	)

	XPAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xp_awarded_total",
			Help: "Total XP awarded to users",
		},
		[]string{"path"},
	)

	AchievementsUnlockedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievements_unlocked_total",
			Help: "Total number of achievements unlocked",
		},
		[]string{"achievement"},
	)

	LevelUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "level_ups_total",
			Help: "Total number of level-up events",
		},
	)

	// Gauges.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Current number of live sessions",
		},
	)
)

// RecordRegistration records a successful user registration.
func RecordRegistration() {
	RegistrationsTotal.Inc()
}

// RecordLogin records a login attempt with its outcome.
func RecordLogin(status string) {
	LoginsTotal.WithLabelValues(status).Inc()
}

// RecordSkillCompletion records a skill completion report.
func RecordSkillCompletion(path string) {
	SkillCompletionsTotal.WithLabelValues(path).Inc()
}

// RecordXPAwarded records XP granted for a completion.
func RecordXPAwarded(path string, xp int) {
	XPAwardedTotal.WithLabelValues(path).Add(float64(xp))
}

// RecordAchievementUnlocked records an achievement unlock event.
func RecordAchievementUnlocked(achievementID string) {
	AchievementsUnlockedTotal.WithLabelValues(achievementID).Inc()
}

// RecordLevelUp records a level-up event.
func RecordLevelUp() {
	LevelUpsTotal.Inc()
}

// SessionOpened increments the live session gauge.
func SessionOpened() {
	ActiveSessions.Inc()
}

// SessionClosed decrements the live session gauge.
func SessionClosed() {
	ActiveSessions.Dec()
}
