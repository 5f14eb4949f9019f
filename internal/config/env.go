package config

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnv overlays CRESCITA_* environment variables onto the config.
// Unset or unparsable variables leave the existing value alone.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("CRESCITA_ADDR")); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("CRESCITA_DATA_DIR")); v != "" {
		c.Storage.DataDir = v
	}
	if v := getEnvInt("CRESCITA_HABIT_POINTS"); v > 0 {
		c.Points.HabitCompletion = v
	}
	if v := getEnvInt("CRESCITA_STREAK_BONUS"); v > 0 {
		c.Points.StreakBonus = v
	}
	if v := getEnvInt("CRESCITA_REFLECTION_POINTS"); v > 0 {
		c.Points.Reflection = v
	}
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}
