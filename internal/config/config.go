package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version    string   `yaml:"version" json:"version"`
	Server     Server   `yaml:"server" json:"server"`
	Storage    Storage  `yaml:"storage" json:"storage"`
	Points     Points   `yaml:"points" json:"points"`
	Levels     []Level  `yaml:"levels" json:"levels"`
	Palette    []string `yaml:"palette" json:"palette"`
	Challenges []string `yaml:"challenges" json:"challenges"`
	Quotes     []Quote  `yaml:"quotes" json:"quotes"`
}

type Server struct {
	Addr string `yaml:"addr" json:"addr"`
}

type Storage struct {
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

// Points holds the award values for each point source.
type Points struct {
	HabitCompletion int `yaml:"habit_completion" json:"habit_completion"`
	StreakBonus     int `yaml:"streak_bonus" json:"streak_bonus"`
	Reflection      int `yaml:"reflection" json:"reflection"`
}

// Level is one row of the ascending level table.
type Level struct {
	Threshold int    `yaml:"threshold" json:"threshold"`
	Name      string `yaml:"name" json:"name"`
	Badge     string `yaml:"badge" json:"badge"`
	Color     string `yaml:"color" json:"color"`
}

type Quote struct {
	Text   string `yaml:"text" json:"text"`
	Author string `yaml:"author" json:"author"`
}

func defaultLevels() []Level {
	return []Level{
		{Threshold: 0, Name: "Novizio", Badge: "🌱", Color: "#22c55e"},
		{Threshold: 100, Name: "Apprendista", Badge: "🌿", Color: "#16a34a"},
		{Threshold: 250, Name: "Praticante", Badge: "⭐", Color: "#fbbf24"},
		{Threshold: 750, Name: "Costante", Badge: "🔥", Color: "#f97316"},
		{Threshold: 2000, Name: "Guru", Badge: "👑", Color: "#8b5cf6"},
	}
}

func defaultPalette() []string {
	return []string{"#2563eb", "#10b981", "#8b5cf6", "#f97316", "#ec4899", "#06b6d4"}
}

func defaultChallenges() []string {
	return []string{
		"Meditazione Mattutina",
		"Lettura Serale",
		"Niente Social",
		"10.000 Passi",
	}
}

func defaultQuotes() []Quote {
	return []Quote{
		{Text: "La motivazione ti fa iniziare. L'abitudine ti fa continuare.", Author: "Jim Ryun"},
		{Text: "Le abitudini sono l'interruttore della produttività.", Author: "James Clear"},
		{Text: "La disciplina è il ponte tra gli obiettivi e il successo.", Author: "Jim Rohn"},
		{Text: "Non devi essere grande per iniziare, ma devi iniziare per essere grande.", Author: "Zig Ziglar"},
		{Text: "Il successo è la somma di piccoli sforzi ripetuti giorno dopo giorno.", Author: "Robert Collier"},
	}
}

func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

func (c *Config) ApplyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8274"
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "data"
	}
	if c.Points.HabitCompletion == 0 {
		c.Points.HabitCompletion = 10
	}
	if c.Points.StreakBonus == 0 {
		c.Points.StreakBonus = 50
	}
	if c.Points.Reflection == 0 {
		c.Points.Reflection = 25
	}
	if len(c.Levels) == 0 {
		c.Levels = defaultLevels()
	}
	if len(c.Palette) == 0 {
		c.Palette = defaultPalette()
	}
	if len(c.Challenges) == 0 {
		c.Challenges = defaultChallenges()
	}
	if len(c.Quotes) == 0 {
		c.Quotes = defaultQuotes()
	}
}

// Validate enforces the level-table invariants: at least one row, the first
// at threshold 0, thresholds strictly ascending.
func (c *Config) Validate() error {
	if len(c.Levels) == 0 {
		return fmt.Errorf("level table is empty")
	}
	if c.Levels[0].Threshold != 0 {
		return fmt.Errorf("first level threshold must be 0, got %d", c.Levels[0].Threshold)
	}
	for i := 1; i < len(c.Levels); i++ {
		if c.Levels[i].Threshold <= c.Levels[i-1].Threshold {
			return fmt.Errorf("level thresholds must ascend: row %d (%d) after %d",
				i, c.Levels[i].Threshold, c.Levels[i-1].Threshold)
		}
	}
	return nil
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &c, nil
}
