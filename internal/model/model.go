package model

import "time"

type HabitID string
type ReflectionID string
type QuoteID string

// Completion marks a habit done (or explicitly undone) on one local
// calendar day. Keys in Habit.Completions are local YYYY-MM-DD strings.
type Completion struct {
	Completed bool      `json:"completed"`
	Timestamp time.Time `json:"timestamp"`
}

type Habit struct {
	ID          HabitID               `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Color       string                `json:"color"`
	StartDate   string                `json:"startDate"`
	Completions map[string]Completion `json:"completions"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// CompletedOn reports whether the habit was marked done on the given day key.
func (h *Habit) CompletedOn(key string) bool {
	c, ok := h.Completions[key]
	return ok && c.Completed
}

// Reflection is immutable once created, except for deletion.
type Reflection struct {
	ID   ReflectionID `json:"id"`
	Date time.Time    `json:"date"`
	Text string       `json:"text"`
}

type FavoriteQuote struct {
	ID        QuoteID   `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	DateAdded time.Time `json:"dateAdded"`
}

// ChallengeRunLength is the fixed length of a challenge attempt in days.
const ChallengeRunLength = 7

// ChallengeRun is an in-progress challenge attempt.
type ChallengeRun struct {
	Active    bool      `json:"active"`
	StartedAt time.Time `json:"startedAt"`
	Days      []bool    `json:"days"`
}

// ChallengeHistoryEntry records one finished attempt. CompletedDate is set
// only when all seven days were done.
type ChallengeHistoryEntry struct {
	StartDate          time.Time  `json:"startDate"`
	EndDate            time.Time  `json:"endDate"`
	DaysCompleted      int        `json:"daysCompleted"`
	MaxConsecutiveDays int        `json:"maxConsecutiveDays"`
	CompletedDate      *time.Time `json:"completedDate,omitempty"`
}

type ChallengeState struct {
	Run     *ChallengeRun           `json:"run,omitempty"`
	History []ChallengeHistoryEntry `json:"history"`
}

// BackupVersion tags the persisted document format. Imports with any other
// version are rejected wholesale.
const BackupVersion = 1

// Document is the entire persisted state. It is loaded once at startup and
// rewritten in full on every mutation.
type Document struct {
	Habits         []Habit                   `json:"habits"`
	Reflections    []Reflection              `json:"reflections"`
	Challenges     map[string]ChallengeState `json:"challenges"`
	FavoriteQuotes []FavoriteQuote           `json:"favoriteQuotes"`
	Points         int                       `json:"points"`
	Badges         []string                  `json:"badges"`
	LastLevel      int                       `json:"lastLevel"`
	BackupVersion  int                       `json:"backupVersion"`
}

// HabitByID returns a pointer into the document's habit slice, or nil.
func (d *Document) HabitByID(id HabitID) *Habit {
	for i := range d.Habits {
		if d.Habits[i].ID == id {
			return &d.Habits[i]
		}
	}
	return nil
}

// HasBadge reports whether the badge id has already been earned.
func (d *Document) HasBadge(id string) bool {
	for _, b := range d.Badges {
		if b == id {
			return true
		}
	}
	return false
}
