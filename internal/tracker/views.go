package tracker

import (
	"time"

	"crescita/internal/badge"
	"crescita/internal/clock"
	"crescita/internal/dateutil"
	"crescita/internal/metrics"
	"crescita/internal/model"
	"crescita/internal/points"
)

// HabitView pairs a habit with its derived metrics for list responses.
type HabitView struct {
	model.Habit
	Metrics metrics.Metrics `json:"metrics"`
}

func (s *Service) ListHabits() []HabitView {
	doc := s.store.Snapshot()
	today := clock.Today(s.clk)

	out := make([]HabitView, 0, len(doc.Habits))
	for i := range doc.Habits {
		out = append(out, HabitView{
			Habit:   doc.Habits[i],
			Metrics: metrics.ForHabit(&doc.Habits[i], today),
		})
	}
	return out
}

func (s *Service) GetHabit(id model.HabitID) (HabitView, error) {
	doc := s.store.Snapshot()
	h := doc.HabitByID(id)
	if h == nil {
		return HabitView{}, ErrHabitNotFound
	}
	return HabitView{
		Habit:   *h,
		Metrics: metrics.ForHabit(h, clock.Today(s.clk)),
	}, nil
}

// EarnedBadge is a persisted badge id resolved against the definition table.
type EarnedBadge struct {
	badge.Definition
	Earned bool `json:"earned"`
}

// Status is the dashboard header: points, level progress, badge wall, and
// the week summary.
type Status struct {
	Today    string          `json:"today"`
	Progress points.Progress `json:"progress"`
	Badges   []EarnedBadge   `json:"badges"`
	Summary  metrics.Summary `json:"summary"`
}

func (s *Service) Status() Status {
	doc := s.store.Snapshot()
	today := clock.Today(s.clk)

	badges := make([]EarnedBadge, 0, len(badge.Definitions()))
	for _, def := range badge.Definitions() {
		badges = append(badges, EarnedBadge{Definition: def, Earned: doc.HasBadge(def.ID)})
	}

	return Status{
		Today:    dateutil.DayKey(today),
		Progress: s.engine.ProgressFor(s.engine.Total(&doc, today)),
		Badges:   badges,
		Summary:  metrics.Summarize(&doc, today),
	}
}

// Stats is the per-habit statistics view.
type Stats struct {
	Summary metrics.Summary `json:"summary"`
	Habits  []HabitView     `json:"habits"`
}

func (s *Service) Stats() Stats {
	doc := s.store.Snapshot()
	today := clock.Today(s.clk)

	habits := make([]HabitView, 0, len(doc.Habits))
	for i := range doc.Habits {
		habits = append(habits, HabitView{
			Habit:   doc.Habits[i],
			Metrics: metrics.ForHabit(&doc.Habits[i], today),
		})
	}
	return Stats{
		Summary: metrics.Summarize(&doc, today),
		Habits:  habits,
	}
}

// Calendar renders the 42-cell month grid. Zero year/month default to the
// current month.
type Calendar struct {
	Year  int               `json:"year"`
	Month int               `json:"month"`
	Cells []metrics.DayCell `json:"cells"`
}

func (s *Service) Calendar(year int, month time.Month) Calendar {
	today := clock.Today(s.clk)
	if year == 0 || month == 0 {
		year, month = today.Year(), today.Month()
	}
	doc := s.store.Snapshot()
	return Calendar{
		Year:  year,
		Month: int(month),
		Cells: metrics.MonthGrid(&doc, year, month, today),
	}
}
