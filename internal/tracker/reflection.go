package tracker

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"crescita/internal/clock"
	"crescita/internal/model"
	"crescita/internal/telemetry"
)

// SaveReflection appends a new journal entry. Entries are immutable; the
// only other operation is deletion.
func (s *Service) SaveReflection(text string) (model.Reflection, Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Reflection{}, Outcome{}, ErrEmptyText
	}

	now := s.clk.Now()
	var created model.Reflection
	var out Outcome
	_, err := s.store.Update(func(doc *model.Document) error {
		created = model.Reflection{
			ID:   model.ReflectionID(uuid.NewString()),
			Date: now,
			Text: text,
		}
		prev := doc.Points
		doc.Reflections = append(doc.Reflections, created)
		s.events.Record(telemetry.EventReflectionSaved, telemetry.Metadata{"reflection_id": string(created.ID)})
		out = s.settle(doc, clock.Today(s.clk), prev)
		return nil
	})
	if err != nil {
		return model.Reflection{}, Outcome{}, err
	}
	return created, out, nil
}

func (s *Service) DeleteReflection(id model.ReflectionID) (Outcome, error) {
	var out Outcome
	_, err := s.store.Update(func(doc *model.Document) error {
		idx := -1
		for i := range doc.Reflections {
			if doc.Reflections[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return ErrReflectionNotFound
		}
		prev := doc.Points
		doc.Reflections = append(doc.Reflections[:idx], doc.Reflections[idx+1:]...)
		s.events.Record(telemetry.EventReflectionDeleted, telemetry.Metadata{"reflection_id": string(id)})
		out = s.settle(doc, clock.Today(s.clk), prev)
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}

// Reflections returns the journal newest-first.
func (s *Service) Reflections() []model.Reflection {
	doc := s.store.Snapshot()
	out := doc.Reflections
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
