package tracker

import (
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"crescita/internal/badge"
	"crescita/internal/clock"
	"crescita/internal/config"
	"crescita/internal/dateutil"
	"crescita/internal/metrics"
	"crescita/internal/model"
	"crescita/internal/points"
	"crescita/internal/store"
	"crescita/internal/telemetry"
)

var (
	ErrHabitNotFound      = errors.New("habit not found")
	ErrReflectionNotFound = errors.New("reflection not found")
	ErrEmptyName          = errors.New("habit name is empty")
	ErrEmptyText          = errors.New("reflection text is empty")
	ErrFutureDate         = errors.New("day is in the future")
	ErrBeforeStart        = errors.New("day precedes the habit start date")
	ErrBadStartDate       = errors.New("start date must be YYYY-MM-DD")
	ErrFutureStart        = errors.New("start date is in the future")
	ErrBadColor           = errors.New("color must be a #rrggbb value")
)

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Service owns every habit and reflection mutation. All writes go through
// the store's Update so the document on disk always reflects a settled
// state: refreshed point total, level, and badge set.
type Service struct {
	store   *store.Store
	engine  *points.Engine
	clk     clock.Clock
	events  telemetry.Recorder
	logger  *log.Logger
	palette []string
}

func NewService(st *store.Store, cfg *config.Config, clk clock.Clock, events telemetry.Recorder, logger *log.Logger) *Service {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if events == nil {
		events = telemetry.NopRecorder{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:   st,
		engine:  points.NewEngine(cfg),
		clk:     clk,
		events:  events,
		logger:  logger,
		palette: cfg.Palette,
	}
}

// Outcome summarizes what a mutation changed beyond its direct edit: the
// refreshed point total and anything worth celebrating.
type Outcome struct {
	Points      int                `json:"points"`
	Delta       int                `json:"delta"`
	StreakBonus bool               `json:"streakBonus"`
	NewBadges   []badge.Definition `json:"newBadges"`
	LevelUp     *points.LevelInfo  `json:"levelUp,omitempty"`
}

// settle recomputes the derived state after a mutation: point total, level
// row, and badge unlocks. Called inside a store Update so the settled
// document is what gets persisted.
func (s *Service) settle(doc *model.Document, today time.Time, prevPoints int) Outcome {
	total := s.engine.Total(doc, today)
	out := Outcome{Points: total, Delta: total - prevPoints}

	lvl := s.engine.LevelFor(total)
	increased := lvl.Level > doc.LastLevel
	if increased {
		doc.LastLevel = lvl.Level
		if lvl.Level > 1 {
			up := lvl
			out.LevelUp = &up
			s.events.Record(telemetry.EventLevelUp, telemetry.Metadata{"level": lvl.Level, "name": lvl.Name})
		}
	}

	snap := badge.Snapshot{
		HabitCount:     len(doc.Habits),
		Level:          lvl.Level,
		LevelIncreased: increased,
	}
	for i := range doc.Habits {
		m := metrics.ForHabit(&doc.Habits[i], today)
		snap.CurrentStreaks = append(snap.CurrentStreaks, m.CurrentStreak)
	}
	for _, id := range badge.Evaluate(doc.Badges, snap) {
		doc.Badges = append(doc.Badges, id)
		if def, ok := badge.Lookup(id); ok {
			out.NewBadges = append(out.NewBadges, def)
		}
		s.events.Record(telemetry.EventBadgeEarned, telemetry.Metadata{"badge": id})
	}

	doc.Points = total
	return out
}

// Reconcile refreshes the stored point total from the completion history.
// Run at startup and after every import: the fold is the source of truth,
// the persisted counter only mirrors it. The level floor is raised to match
// so an imported document does not replay old level-up celebrations.
func (s *Service) Reconcile() error {
	today := clock.Today(s.clk)
	_, err := s.store.Update(func(doc *model.Document) error {
		doc.Points = s.engine.Total(doc, today)
		if lvl := s.engine.LevelFor(doc.Points); lvl.Level > doc.LastLevel {
			doc.LastLevel = lvl.Level
		}
		return nil
	})
	return err
}

type HabitUpsert struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	StartDate   string `json:"startDate"`
}

type HabitPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	StartDate   *string `json:"startDate"`
}

func (s *Service) CreateHabit(in HabitUpsert) (model.Habit, Outcome, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Habit{}, Outcome{}, ErrEmptyName
	}
	if in.Color != "" && !colorPattern.MatchString(in.Color) {
		return model.Habit{}, Outcome{}, ErrBadColor
	}

	now := s.clk.Now()
	start := in.StartDate
	if start == "" {
		start = dateutil.DayKey(now)
	} else {
		d, err := dateutil.ParseDayKey(start)
		if err != nil {
			return model.Habit{}, Outcome{}, ErrBadStartDate
		}
		if dateutil.IsFutureDay(d, dateutil.Midnight(now)) {
			return model.Habit{}, Outcome{}, ErrFutureStart
		}
	}

	var created model.Habit
	var out Outcome
	_, err := s.store.Update(func(doc *model.Document) error {
		color := in.Color
		if color == "" && len(s.palette) > 0 {
			color = s.palette[len(doc.Habits)%len(s.palette)]
		}
		created = model.Habit{
			ID:          model.HabitID(uuid.NewString()),
			Name:        name,
			Description: strings.TrimSpace(in.Description),
			Color:       color,
			StartDate:   start,
			Completions: map[string]model.Completion{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		prev := doc.Points
		doc.Habits = append(doc.Habits, created)
		s.events.Record(telemetry.EventHabitCreated, telemetry.Metadata{"habit_id": string(created.ID)})
		out = s.settle(doc, dateutil.Midnight(now), prev)
		return nil
	})
	if err != nil {
		return model.Habit{}, Outcome{}, err
	}
	return created, out, nil
}

func (s *Service) UpdateHabit(id model.HabitID, p HabitPatch) (model.Habit, error) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return model.Habit{}, ErrEmptyName
	}
	if p.Color != nil && !colorPattern.MatchString(*p.Color) {
		return model.Habit{}, ErrBadColor
	}
	var newStart time.Time
	if p.StartDate != nil {
		d, err := dateutil.ParseDayKey(*p.StartDate)
		if err != nil {
			return model.Habit{}, ErrBadStartDate
		}
		if dateutil.IsFutureDay(d, clock.Today(s.clk)) {
			return model.Habit{}, ErrFutureStart
		}
		newStart = d
	}

	var updated model.Habit
	_, err := s.store.Update(func(doc *model.Document) error {
		h := doc.HabitByID(id)
		if h == nil {
			return ErrHabitNotFound
		}
		if p.Name != nil {
			h.Name = strings.TrimSpace(*p.Name)
		}
		if p.Description != nil {
			h.Description = strings.TrimSpace(*p.Description)
		}
		if p.Color != nil {
			h.Color = *p.Color
		}
		if p.StartDate != nil {
			h.StartDate = *p.StartDate
			// Moving the start forward orphans earlier completion entries;
			// prune them so the habit never carries pre-start days and the
			// point fold settles against the surviving history.
			for key := range h.Completions {
				d, err := dateutil.ParseDayKey(key)
				if err != nil || d.Before(newStart) {
					delete(h.Completions, key)
				}
			}
		}
		h.UpdatedAt = s.clk.Now()
		updated = *h
		s.events.Record(telemetry.EventHabitUpdated, telemetry.Metadata{"habit_id": string(id)})
		s.settle(doc, clock.Today(s.clk), doc.Points)
		return nil
	})
	if err != nil {
		return model.Habit{}, err
	}
	return updated, nil
}

func (s *Service) DeleteHabit(id model.HabitID) (Outcome, error) {
	var out Outcome
	_, err := s.store.Update(func(doc *model.Document) error {
		idx := -1
		for i := range doc.Habits {
			if doc.Habits[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrHabitNotFound
		}
		prev := doc.Points
		doc.Habits = append(doc.Habits[:idx], doc.Habits[idx+1:]...)
		s.events.Record(telemetry.EventHabitDeleted, telemetry.Metadata{"habit_id": string(id)})
		out = s.settle(doc, clock.Today(s.clk), prev)
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}

// ToggleResult is the response of a completion toggle: the new completion
// state for the day plus the settled reward state.
type ToggleResult struct {
	Habit     model.Habit     `json:"habit"`
	Day       string          `json:"day"`
	Completed bool            `json:"completed"`
	Metrics   metrics.Metrics `json:"metrics"`
	Outcome   Outcome         `json:"outcome"`
}

// ToggleCompletion flips the habit's completion on the given day (today
// when empty). Future days and days before the habit's start are rejected.
// Toggling twice returns the document to its prior point total.
func (s *Service) ToggleCompletion(id model.HabitID, day string) (ToggleResult, error) {
	now := s.clk.Now()
	today := dateutil.Midnight(now)

	if day == "" {
		day = dateutil.DayKey(today)
	}
	d, err := dateutil.ParseDayKey(day)
	if err != nil {
		return ToggleResult{}, ErrBadStartDate
	}
	if dateutil.IsFutureDay(d, today) {
		return ToggleResult{}, ErrFutureDate
	}

	var res ToggleResult
	_, err = s.store.Update(func(doc *model.Document) error {
		h := doc.HabitByID(id)
		if h == nil {
			return ErrHabitNotFound
		}
		start, serr := dateutil.ParseDayKey(h.StartDate)
		if serr == nil && d.Before(start) {
			return ErrBeforeStart
		}

		before := metrics.LongestStreak(h)
		prev := doc.Points

		completed := !h.CompletedOn(day)
		h.Completions[day] = model.Completion{Completed: completed, Timestamp: now}
		h.UpdatedAt = now

		if completed {
			s.events.Record(telemetry.EventCompletionMarked, telemetry.Metadata{"habit_id": string(id), "day": day})
		} else {
			s.events.Record(telemetry.EventCompletionUndone, telemetry.Metadata{"habit_id": string(id), "day": day})
		}

		out := s.settle(doc, today, prev)
		out.StreakBonus = completed && metrics.LongestStreak(h)/7 > before/7

		res = ToggleResult{
			Habit:     *h,
			Day:       day,
			Completed: completed,
			Metrics:   metrics.ForHabit(h, today),
			Outcome:   out,
		}
		return nil
	})
	if err != nil {
		return ToggleResult{}, err
	}
	return res, nil
}
