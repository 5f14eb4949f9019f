package metrics

import (
	"math"
	"sort"
	"time"

	"crescita/internal/dateutil"
	"crescita/internal/model"
)

// Metrics are derived per habit from its sparse completion map. All fields
// are recomputed on demand; nothing here is cached or persisted.
type Metrics struct {
	TotalDays      int  `json:"totalDays"`
	CompletedDays  int  `json:"completedDays"`
	Percentage     int  `json:"percentage"`
	CurrentStreak  int  `json:"currentStreak"`
	LongestStreak  int  `json:"longestStreak"`
	CompletedToday bool `json:"completedToday"`
}

// ForHabit computes the habit's metrics as of the given day. The caller
// supplies today; this package never reads the wall clock.
func ForHabit(h *model.Habit, today time.Time) Metrics {
	today = dateutil.Midnight(today)
	start, err := dateutil.ParseDayKey(h.StartDate)
	if err != nil {
		start = today
	}

	total := dateutil.DaysInclusive(start, today)
	completed := 0
	for _, c := range h.Completions {
		if c.Completed {
			completed++
		}
	}

	pct := int(math.Round(100 * float64(completed) / float64(total)))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}

	return Metrics{
		TotalDays:      total,
		CompletedDays:  completed,
		Percentage:     pct,
		CurrentStreak:  currentStreak(h, start, today),
		LongestStreak:  LongestStreak(h),
		CompletedToday: h.CompletedOn(dateutil.DayKey(today)),
	}
}

// currentStreak walks backward from today counting consecutive completed
// days, stopping at the first gap or at the habit's start date.
func currentStreak(h *model.Habit, start, today time.Time) int {
	streak := 0
	day := today
	for !day.Before(start) {
		if !h.CompletedOn(dateutil.DayKey(day)) {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak scans the distinct completed dates in ascending order; a
// gap of exactly one calendar day extends the run, anything else resets it.
func LongestStreak(h *model.Habit) int {
	days := make([]time.Time, 0, len(h.Completions))
	for key, c := range h.Completions {
		if !c.Completed {
			continue
		}
		d, err := dateutil.ParseDayKey(key)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if dateutil.DaysBetween(days[i-1], days[i]) == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// Summary aggregates across all habits for the statistics view.
type Summary struct {
	ActiveHabits     int `json:"activeHabits"`
	WeekSuccessRate  int `json:"weekSuccessRate"`
	TotalCompletions int `json:"totalCompletions"`
}

// Summarize computes the dashboard aggregates: habit count, success rate
// over the trailing seven days (only days on or after each habit's start
// count as possible), and the all-time completion total.
func Summarize(doc *model.Document, today time.Time) Summary {
	today = dateutil.Midnight(today)
	s := Summary{ActiveHabits: len(doc.Habits)}

	possible, done := 0, 0
	for i := 0; i < 7; i++ {
		day := today.AddDate(0, 0, -i)
		key := dateutil.DayKey(day)
		for j := range doc.Habits {
			h := &doc.Habits[j]
			start, err := dateutil.ParseDayKey(h.StartDate)
			if err != nil || day.Before(start) {
				continue
			}
			possible++
			if h.CompletedOn(key) {
				done++
			}
		}
	}
	if possible > 0 {
		s.WeekSuccessRate = int(math.Round(100 * float64(done) / float64(possible)))
	}

	for j := range doc.Habits {
		for _, c := range doc.Habits[j].Completions {
			if c.Completed {
				s.TotalCompletions++
			}
		}
	}
	return s
}
