// Package catalog holds the static skill tree and achievement definitions.
//
// The catalog is immutable after Load: it is built once at startup and passed
// by reference into the services that consume it.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Skill is one node in a skill path. Name is the human-readable title shown to
// learners; the API addresses skills by slug (see Slugify).
type Skill struct {
	Name        string `yaml:"name" json:"name"`
	XP          int    `yaml:"xp" json:"xp"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Path is an ordered skill tree (e.g. "prompting-basics").
type Path struct {
	ID     string  `yaml:"id" json:"id"`
	Title  string  `yaml:"title" json:"title"`
	Skills []Skill `yaml:"skills" json:"skills"`
}

// Criteria describes when an achievement unlocks. Value is compared against
// the named metric with the given operator.
//
// Supported metrics:
//   - completed_skills: number of completed skill nodes
//   - total_xp:         the user's XP
//   - level:            the user's level
//   - distinct_days:    number of distinct calendar days with a completion
//   - paths_completed:  number of skill paths fully completed
type Criteria struct {
	Metric   string `yaml:"metric" json:"metric"`
	Operator string `yaml:"operator" json:"operator"`
	Value    int    `yaml:"value" json:"value"`
}

// Achievement is a static achievement definition. Unlock state per user lives
// in the user_achievements table, not here.
type Achievement struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Criteria    Criteria `yaml:"criteria" json:"criteria"`
}

// Catalog is the loaded, validated configuration.
type Catalog struct {
	paths        []Path
	achievements []Achievement
	xpBySkill    map[string]int // "pathID/skillSlug" -> xp
}

type catalogFile struct {
	Paths        []Path        `yaml:"paths"`
	Achievements []Achievement `yaml:"achievements"`
}

var validMetrics = map[string]bool{
	"completed_skills": true,
	"total_xp":         true,
	"level":            true,
	"distinct_days":    true,
	"paths_completed":  true,
}

var validOperators = map[string]bool{
	"<":  true,
	"<=": true,
	">":  true,
	">=": true,
	"==": true,
}

// Load reads a catalog from the given YAML file, or the embedded defaults when
// path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultCatalogYAML
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
		data = fileData
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return New(file.Paths, file.Achievements)
}

// New builds and validates a catalog from explicit definitions.
func New(paths []Path, achievements []Achievement) (*Catalog, error) {
	c := &Catalog{
		paths:        paths,
		achievements: achievements,
		xpBySkill:    make(map[string]int),
	}

	seenPaths := make(map[string]bool)
	for _, p := range paths {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog path with empty id")
		}
		if seenPaths[p.ID] {
			return nil, fmt.Errorf("duplicate catalog path %q", p.ID)
		}
		seenPaths[p.ID] = true

		for _, s := range p.Skills {
			// Skill names must survive the slug round trip, otherwise the
			// API slug could never address this skill.
			slug := Slugify(s.Name)
			if Titleize(slug) != s.Name {
				return nil, fmt.Errorf("skill name %q in path %q does not round-trip through its slug %q", s.Name, p.ID, slug)
			}
			if s.XP < 0 {
				return nil, fmt.Errorf("skill %q in path %q has negative xp", s.Name, p.ID)
			}

			key := p.ID + "/" + slug
			if _, exists := c.xpBySkill[key]; exists {
				return nil, fmt.Errorf("duplicate skill %q in path %q", s.Name, p.ID)
			}
			c.xpBySkill[key] = s.XP
		}
	}

	seenAchievements := make(map[string]bool)
	for _, a := range achievements {
		if a.ID == "" {
			return nil, fmt.Errorf("achievement with empty id")
		}
		if seenAchievements[a.ID] {
			return nil, fmt.Errorf("duplicate achievement %q", a.ID)
		}
		seenAchievements[a.ID] = true

		if !validMetrics[a.Criteria.Metric] {
			return nil, fmt.Errorf("achievement %q has unknown metric %q", a.ID, a.Criteria.Metric)
		}
		if !validOperators[a.Criteria.Operator] {
			return nil, fmt.Errorf("achievement %q has unknown operator %q", a.ID, a.Criteria.Operator)
		}
	}

	return c, nil
}

// XPForSkill returns the XP reward for completing a skill, addressed by path
// ID and skill slug. Unknown pairs award 0.
func (c *Catalog) XPForSkill(pathID, skillSlug string) int {
	return c.xpBySkill[pathID+"/"+skillSlug]
}

// Paths returns the skill paths in declaration order.
func (c *Catalog) Paths() []Path {
	return c.paths
}

// Achievements returns the achievement definitions in declaration order.
// Declaration order is also evaluation order.
func (c *Catalog) Achievements() []Achievement {
	return c.achievements
}

// Achievement looks up a definition by ID.
func (c *Catalog) Achievement(id string) (Achievement, bool) {
	for _, a := range c.achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// SkillCount returns the number of skills in a path, used to detect fully
// completed paths.
func (c *Catalog) SkillCount(pathID string) int {
	for _, p := range c.paths {
		if p.ID == pathID {
			return len(p.Skills)
		}
	}
	return 0
}

// Slugify converts a skill title to its API slug: "Context Setting" ->
// "context-setting".
func Slugify(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", "-"))
}

// Titleize is the inverse of Slugify: "context-setting" -> "Context Setting".
func Titleize(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
