package telemetry

import "time"

type EventType string

const (
	EventHabitCreated      EventType = "habit_created"
	EventHabitUpdated      EventType = "habit_updated"
	EventHabitDeleted      EventType = "habit_deleted"
	EventCompletionMarked  EventType = "completion_marked"
	EventCompletionUndone  EventType = "completion_undone"
	EventReflectionSaved   EventType = "reflection_saved"
	EventReflectionDeleted EventType = "reflection_deleted"
	EventBadgeEarned       EventType = "badge_earned"
	EventLevelUp           EventType = "level_up"
	EventChallengeStarted  EventType = "challenge_started"
	EventChallengeFinished EventType = "challenge_finished"
	EventBackupImported    EventType = "backup_imported"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  Metadata  `json:"metadata,omitempty"`
}

type Metadata map[string]any

// Recorder is the write side used by the tracker; recording must never fail
// a user mutation, so implementations swallow their own errors.
type Recorder interface {
	Record(eventType EventType, metadata Metadata)
}

// NopRecorder drops every event.
type NopRecorder struct{}

func (NopRecorder) Record(EventType, Metadata) {}
