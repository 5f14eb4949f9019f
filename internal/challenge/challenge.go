package challenge

import (
	"errors"
	"strings"
	"time"

	"crescita/internal/clock"
	"crescita/internal/config"
	"crescita/internal/model"
	"crescita/internal/store"
	"crescita/internal/telemetry"
)

var (
	ErrUnknownChallenge = errors.New("unknown challenge")
	ErrNoActiveRun      = errors.New("challenge has no active run")
	ErrDayOutOfRange    = errors.New("challenge day out of range")
)

// Engine manages the fixed catalogue of seven-day challenges. The catalogue
// comes from configuration; the document only stores run state and history
// keyed by the challenge slug.
type Engine struct {
	store  *store.Store
	clk    clock.Clock
	events telemetry.Recorder
	names  []string
	slugs  []string
}

func NewEngine(st *store.Store, cfg *config.Config, clk clock.Clock, events telemetry.Recorder) *Engine {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if events == nil {
		events = telemetry.NopRecorder{}
	}
	e := &Engine{store: st, clk: clk, events: events, names: cfg.Challenges}
	for _, n := range cfg.Challenges {
		e.slugs = append(e.slugs, Slug(n))
	}
	return e
}

// Slug derives the stable document key for a challenge name.
func Slug(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func (e *Engine) nameFor(slug string) (string, bool) {
	for i, s := range e.slugs {
		if s == slug {
			return e.names[i], true
		}
	}
	return "", false
}

// Stats are derived from a challenge's finished attempts.
type Stats struct {
	Attempts      int        `json:"attempts"`
	Completed     int        `json:"completed"`
	SuccessRate   int        `json:"successRate"`
	BestStreak    int        `json:"bestStreak"`
	LastCompleted *time.Time `json:"lastCompleted,omitempty"`
	Badge         string     `json:"badge,omitempty"`
}

// ComputeStats folds the history: an attempt counts as completed only when
// all seven days were done. The badge tiers are checked in order; the first
// match wins.
func ComputeStats(history []model.ChallengeHistoryEntry) Stats {
	s := Stats{Attempts: len(history)}
	for _, h := range history {
		if h.DaysCompleted == model.ChallengeRunLength {
			s.Completed++
			if h.CompletedDate != nil {
				d := *h.CompletedDate
				s.LastCompleted = &d
			}
		}
		if h.MaxConsecutiveDays > s.BestStreak {
			s.BestStreak = h.MaxConsecutiveDays
		}
	}
	if s.Attempts > 0 {
		s.SuccessRate = 100 * s.Completed / s.Attempts
	}

	switch {
	case s.Completed >= 5:
		s.Badge = "🏆 Maestro"
	case s.SuccessRate == 100 && s.Attempts >= 2:
		s.Badge = "⭐ Perfetto"
	case s.BestStreak >= 10:
		s.Badge = "🔥 Streak King"
	}
	return s
}

// MaxConsecutive is the longest run of true values in the day grid.
func MaxConsecutive(days []bool) int {
	longest, run := 0, 0
	for _, d := range days {
		if d {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

// View is one catalogue entry with its current run and lifetime stats.
type View struct {
	Slug     string              `json:"slug"`
	Name     string              `json:"name"`
	Active   bool                `json:"active"`
	Progress int                 `json:"progress"`
	Run      *model.ChallengeRun `json:"run,omitempty"`
	Stats    Stats               `json:"stats"`
}

func (e *Engine) List() []View {
	doc := e.store.Snapshot()

	out := make([]View, 0, len(e.names))
	for i, name := range e.names {
		slug := e.slugs[i]
		v := View{Slug: slug, Name: name}
		if cs, ok := doc.Challenges[slug]; ok {
			v.Stats = ComputeStats(cs.History)
			if cs.Run != nil && cs.Run.Active {
				v.Active = true
				v.Run = cs.Run
				for _, d := range cs.Run.Days {
					if d {
						v.Progress++
					}
				}
			}
		}
		out = append(out, v)
	}
	return out
}

// Toggle activates an inactive challenge or deactivates an active one.
// Deactivation archives the attempt into history when at least one day was
// done; an untouched run is discarded silently.
func (e *Engine) Toggle(slug string) (View, error) {
	if _, ok := e.nameFor(slug); !ok {
		return View{}, ErrUnknownChallenge
	}

	now := e.clk.Now()
	_, err := e.store.Update(func(doc *model.Document) error {
		cs := doc.Challenges[slug]

		if cs.Run != nil && cs.Run.Active {
			done := 0
			for _, d := range cs.Run.Days {
				if d {
					done++
				}
			}
			if done > 0 {
				entry := model.ChallengeHistoryEntry{
					StartDate:          cs.Run.StartedAt,
					EndDate:            now,
					DaysCompleted:      done,
					MaxConsecutiveDays: MaxConsecutive(cs.Run.Days),
				}
				if done == model.ChallengeRunLength {
					d := now
					entry.CompletedDate = &d
				}
				cs.History = append(cs.History, entry)
				e.events.Record(telemetry.EventChallengeFinished, telemetry.Metadata{
					"challenge": slug, "days_completed": done,
				})
			}
			cs.Run = nil
		} else {
			cs.Run = &model.ChallengeRun{
				Active:    true,
				StartedAt: now,
				Days:      make([]bool, model.ChallengeRunLength),
			}
			e.events.Record(telemetry.EventChallengeStarted, telemetry.Metadata{"challenge": slug})
		}

		doc.Challenges[slug] = cs
		return nil
	})
	if err != nil {
		return View{}, err
	}
	return e.view(slug)
}

// SetDay marks or unmarks one day of the active run. Days are zero-based.
func (e *Engine) SetDay(slug string, day int, done bool) (View, error) {
	if _, ok := e.nameFor(slug); !ok {
		return View{}, ErrUnknownChallenge
	}
	if day < 0 || day >= model.ChallengeRunLength {
		return View{}, ErrDayOutOfRange
	}

	_, err := e.store.Update(func(doc *model.Document) error {
		cs := doc.Challenges[slug]
		if cs.Run == nil || !cs.Run.Active {
			return ErrNoActiveRun
		}
		cs.Run.Days[day] = done
		doc.Challenges[slug] = cs
		return nil
	})
	if err != nil {
		return View{}, err
	}
	return e.view(slug)
}

func (e *Engine) view(slug string) (View, error) {
	for _, v := range e.List() {
		if v.Slug == slug {
			return v, nil
		}
	}
	return View{}, ErrUnknownChallenge
}
