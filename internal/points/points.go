package points

import (
	"time"

	"crescita/internal/config"
	"crescita/internal/metrics"
	"crescita/internal/model"
)

// Engine derives point totals and levels from the document. Points are
// never stored as the source of truth: every total is a pure fold over the
// completion and reflection history, so a skipped mutation path (import,
// crash between update and save) can never leave the counter drifted.
type Engine struct {
	values config.Points
	levels []config.Level
}

func NewEngine(cfg *config.Config) *Engine {
	return &Engine{values: cfg.Points, levels: cfg.Levels}
}

// Total folds the document into its point total:
// per habit, completedDays·completion + floor(longestStreak/7)·bonus,
// plus reflection·reflections. Never negative.
func (e *Engine) Total(doc *model.Document, today time.Time) int {
	total := 0
	for i := range doc.Habits {
		m := metrics.ForHabit(&doc.Habits[i], today)
		total += m.CompletedDays * e.values.HabitCompletion
		total += m.LongestStreak / 7 * e.values.StreakBonus
	}
	total += len(doc.Reflections) * e.values.Reflection
	if total < 0 {
		total = 0
	}
	return total
}

// LevelInfo is one resolved row of the level table.
type LevelInfo struct {
	Level     int    `json:"level"`
	Threshold int    `json:"threshold"`
	Name      string `json:"name"`
	Badge     string `json:"badge"`
	Color     string `json:"color"`
}

func (e *Engine) info(idx int) LevelInfo {
	row := e.levels[idx]
	return LevelInfo{
		Level:     idx + 1,
		Threshold: row.Threshold,
		Name:      row.Name,
		Badge:     row.Badge,
		Color:     row.Color,
	}
}

// LevelFor returns the highest table row whose threshold the points meet.
// The table always starts at threshold 0, so level 1 always matches.
func (e *Engine) LevelFor(pts int) LevelInfo {
	idx := 0
	for i := range e.levels {
		if pts >= e.levels[i].Threshold {
			idx = i
		}
	}
	return e.info(idx)
}

// MaxLevel is the number of rows in the table.
func (e *Engine) MaxLevel() int { return len(e.levels) }

// Progress describes the position between the current and next level.
type Progress struct {
	Points        int       `json:"points"`
	Level         LevelInfo `json:"level"`
	NextThreshold int       `json:"nextThreshold"`
	PointsToNext  int       `json:"pointsToNext"`
	Percent       int       `json:"percent"`
}

// ProgressFor resolves the level for the given points and how far along the
// climb to the next threshold they sit. At the top level the bar is full
// and PointsToNext is zero.
func (e *Engine) ProgressFor(pts int) Progress {
	lvl := e.LevelFor(pts)
	p := Progress{Points: pts, Level: lvl}

	if lvl.Level >= len(e.levels) {
		p.NextThreshold = e.levels[len(e.levels)-1].Threshold
		p.Percent = 100
		return p
	}

	p.NextThreshold = e.levels[lvl.Level].Threshold
	p.PointsToNext = p.NextThreshold - pts
	if p.PointsToNext < 0 {
		p.PointsToNext = 0
	}
	span := p.NextThreshold - lvl.Threshold
	if span > 0 {
		p.Percent = 100 * (pts - lvl.Threshold) / span
	}
	if p.Percent > 100 {
		p.Percent = 100
	}
	return p
}
