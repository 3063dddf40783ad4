package leaderboard

import (
	"context"
	"testing"

	"github.com/prompty-labs/prompty-backend/internal/models"
	"github.com/prompty-labs/prompty-backend/pkg/logger"
)

// Mock repositories for testing

type mockUserRepository struct {
	users []models.User
}

func (m *mockUserRepository) ListByXP(limit int) ([]models.User, error) {
	users := make([]models.User, len(m.users))
	copy(users, m.users)
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

type mockProgressRepository struct {
	completed map[uint]int64
}

func (m *mockProgressRepository) CountCompleted(userID uint) (int64, error) {
	return m.completed[userID], nil
}

type mockAchievementRepository struct {
	counts map[uint]int64
}

func (m *mockAchievementRepository) CountByUser(userID uint) (int64, error) {
	return m.counts[userID], nil
}

func setupTestService() (*Service, *mockUserRepository, *mockProgressRepository, *mockAchievementRepository) {
	userRepo := &mockUserRepository{}
	progressRepo := &mockProgressRepository{completed: make(map[uint]int64)}
	achievementRepo := &mockAchievementRepository{counts: make(map[uint]int64)}
	log := logger.New("debug", "text", "stdout")

	service := NewServiceWithInterfaces(userRepo, progressRepo, achievementRepo, log)
	return service, userRepo, progressRepo, achievementRepo
}

func TestGetLeaderboard_RankedByXP(t *testing.T) {
	service, userRepo, _, _ := setupTestService()

	userRepo.users = []models.User{
		{ID: 2, Name: "Bea", Level: 3, XP: 1200},
		{ID: 1, Name: "Ada", Level: 2, XP: 550},
		{ID: 3, Name: "Cal", Level: 1, XP: 100},
	}

	entries, err := service.GetLeaderboard(context.Background(), "xp", 10)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].UserID != 2 || entries[0].Rank != 1 {
		t.Errorf("Expected Bea at rank 1, got user %d at rank %d", entries[0].UserID, entries[0].Rank)
	}
	if entries[2].UserID != 3 || entries[2].Rank != 3 {
		t.Errorf("Expected Cal at rank 3, got user %d at rank %d", entries[2].UserID, entries[2].Rank)
	}
}

func TestGetLeaderboard_RankedByCompletedSkills(t *testing.T) {
	service, userRepo, progressRepo, _ := setupTestService()

	userRepo.users = []models.User{
		{ID: 1, Name: "Ada", Level: 2, XP: 550},
		{ID: 2, Name: "Bea", Level: 1, XP: 400},
	}
	progressRepo.completed[1] = 2
	progressRepo.completed[2] = 4

	entries, err := service.GetLeaderboard(context.Background(), "completed_skills", 10)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}

	if entries[0].UserID != 2 {
		t.Errorf("Expected Bea first by completed skills, got user %d", entries[0].UserID)
	}
	if entries[0].CompletedSkills != 4 {
		t.Errorf("Expected 4 completed skills, got %d", entries[0].CompletedSkills)
	}
}

func TestGetLeaderboard_Limit(t *testing.T) {
	service, userRepo, _, _ := setupTestService()

	userRepo.users = []models.User{
		{ID: 1, Name: "Ada", XP: 300},
		{ID: 2, Name: "Bea", XP: 200},
		{ID: 3, Name: "Cal", XP: 100},
	}

	entries, err := service.GetLeaderboard(context.Background(), "xp", 2)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("Expected 2 entries with limit 2, got %d", len(entries))
	}
}

func TestGetLeaderboard_InvalidMetric(t *testing.T) {
	service, _, _, _ := setupTestService()

	if _, err := service.GetLeaderboard(context.Background(), "bogus", 10); err == nil {
		t.Error("Expected error for invalid metric")
	}
}

func TestGetLeaderboard_TieBreaksOnUserID(t *testing.T) {
	service, userRepo, _, _ := setupTestService()

	userRepo.users = []models.User{
		{ID: 5, Name: "Eve", XP: 500},
		{ID: 2, Name: "Bea", XP: 500},
	}

	entries, err := service.GetLeaderboard(context.Background(), "xp", 10)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}

	if entries[0].UserID != 2 {
		t.Errorf("Expected lower user ID first on XP tie, got user %d", entries[0].UserID)
	}
}

func TestGetUserRank(t *testing.T) {
	service, userRepo, _, _ := setupTestService()

	userRepo.users = []models.User{
		{ID: 2, Name: "Bea", XP: 1200},
		{ID: 1, Name: "Ada", XP: 550},
	}

	rank, err := service.GetUserRank(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetUserRank failed: %v", err)
	}
	if rank != 2 {
		t.Errorf("Expected rank 2, got %d", rank)
	}

	if _, err := service.GetUserRank(context.Background(), 999); err == nil {
		t.Error("Expected error for unknown user")
	}
}
