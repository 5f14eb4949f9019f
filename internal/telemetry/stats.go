package telemetry

import "time"

type Stats struct {
	Since              string            `json:"since"`
	EventCounts        map[EventType]int `json:"event_counts"`
	CompletionsMarked  int               `json:"completions_marked"`
	CompletionsUndone  int               `json:"completions_undone"`
	NetCompletions     int               `json:"net_completions"`
	ReflectionsSaved   int               `json:"reflections_saved"`
	BadgesEarned       int               `json:"badges_earned"`
	LevelUps           int               `json:"level_ups"`
	ChallengesFinished int               `json:"challenges_finished"`
}

// CalculateStats folds a session's events into usage counters.
func CalculateStats(events []Event, since time.Time) Stats {
	stats := Stats{
		Since:       since.Format("2006-01-02"),
		EventCounts: make(map[EventType]int),
	}

	for _, e := range events {
		stats.EventCounts[e.Type]++

		switch e.Type {
		case EventCompletionMarked:
			stats.CompletionsMarked++
		case EventCompletionUndone:
			stats.CompletionsUndone++
		case EventReflectionSaved:
			stats.ReflectionsSaved++
		case EventBadgeEarned:
			stats.BadgesEarned++
		case EventLevelUp:
			stats.LevelUps++
		case EventChallengeFinished:
			stats.ChallengesFinished++
		}
	}
	stats.NetCompletions = stats.CompletionsMarked - stats.CompletionsUndone
	return stats
}
