package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_CanonicalTables(t *testing.T) {
	c := Default()

	if c.Points.HabitCompletion != 10 || c.Points.StreakBonus != 50 || c.Points.Reflection != 25 {
		t.Fatalf("unexpected default point values: %+v", c.Points)
	}
	if len(c.Levels) != 5 {
		t.Fatalf("expected 5 level rows, got %d", len(c.Levels))
	}
	if c.Levels[0].Threshold != 0 || c.Levels[0].Name != "Novizio" {
		t.Fatalf("unexpected first level row: %+v", c.Levels[0])
	}
	if c.Levels[4].Threshold != 2000 || c.Levels[4].Name != "Guru" {
		t.Fatalf("unexpected last level row: %+v", c.Levels[4])
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crescita_config.yml")
	raw := `
server:
  addr: ":9999"
points:
  habit_completion: 15
challenges:
  - "Sveglia alle 6"
  - "Niente zuccheri"
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Addr != ":9999" {
		t.Fatalf("addr override lost: %q", c.Server.Addr)
	}
	if c.Points.HabitCompletion != 15 {
		t.Fatalf("points override lost: %d", c.Points.HabitCompletion)
	}
	if c.Points.StreakBonus != 50 {
		t.Fatalf("unset point value should default to 50, got %d", c.Points.StreakBonus)
	}
	if len(c.Challenges) != 2 {
		t.Fatalf("expected 2 challenges, got %d", len(c.Challenges))
	}
	if len(c.Levels) != 5 {
		t.Fatalf("level table should default, got %d rows", len(c.Levels))
	}
}

func TestLoad_RejectsUnorderedLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crescita_config.yml")
	raw := `
levels:
  - {threshold: 0, name: "A"}
  - {threshold: 500, name: "B"}
  - {threshold: 100, name: "C"}
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for descending thresholds")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CRESCITA_ADDR", ":4321")
	t.Setenv("CRESCITA_HABIT_POINTS", "20")
	t.Setenv("CRESCITA_STREAK_BONUS", "not-a-number")

	c := Default()
	c.ApplyEnv()

	if c.Server.Addr != ":4321" {
		t.Fatalf("env addr not applied: %q", c.Server.Addr)
	}
	if c.Points.HabitCompletion != 20 {
		t.Fatalf("env habit points not applied: %d", c.Points.HabitCompletion)
	}
	if c.Points.StreakBonus != 50 {
		t.Fatalf("unparsable env value should be ignored, got %d", c.Points.StreakBonus)
	}
}
