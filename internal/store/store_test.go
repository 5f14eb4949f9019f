package store

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"crescita/internal/model"
)

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestOpen_MissingFileSeedsDefault(t *testing.T) {
	s, err := Open(t.TempDir(), discard())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	doc := s.Snapshot()
	if len(doc.Habits) != 0 || doc.Points != 0 {
		t.Fatalf("expected empty seed, got %+v", doc)
	}
	if doc.BackupVersion != model.BackupVersion {
		t.Fatalf("seed should carry backup version %d, got %d", model.BackupVersion, doc.BackupVersion)
	}
	if doc.LastLevel != 1 {
		t.Fatalf("seed should start at level 1, got %d", doc.LastLevel)
	}
}

func TestOpen_CorruptFileFallsBackToSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crescita.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	s, err := Open(dir, discard())
	if err != nil {
		t.Fatalf("open should recover, got %v", err)
	}
	if got := len(s.Snapshot().Habits); got != 0 {
		t.Fatalf("expected seeded document, got %d habits", got)
	}
	if _, err := os.Stat(path + ".corrupt"); err != nil {
		t.Fatalf("corrupt file should be kept aside: %v", err)
	}
}

func TestUpdate_PersistsFullDocument(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, discard())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	_, err = s.Update(func(doc *model.Document) error {
		doc.Habits = append(doc.Habits, model.Habit{ID: "h1", Name: "Meditazione"})
		doc.Points = 10
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "crescita.json"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var onDisk model.Document
	if err := json.Unmarshal(b, &onDisk); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(onDisk.Habits) != 1 || onDisk.Habits[0].Name != "Meditazione" || onDisk.Points != 10 {
		t.Fatalf("unexpected persisted document: %+v", onDisk)
	}

	reopened, err := Open(dir, discard())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := len(reopened.Snapshot().Habits); got != 1 {
		t.Fatalf("expected 1 habit after reopen, got %d", got)
	}
}

func TestUpdate_ErrorLeavesStateUntouched(t *testing.T) {
	s, err := Open(t.TempDir(), discard())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	boom := errors.New("boom")
	if _, err := s.Update(func(doc *model.Document) error {
		doc.Points = 999
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected fn error back, got %v", err)
	}
	if got := s.Snapshot().Points; got != 0 {
		t.Fatalf("failed update must not mutate state, got points=%d", got)
	}
}

func TestSnapshot_IsIsolated(t *testing.T) {
	s, err := Open(t.TempDir(), discard())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.Update(func(doc *model.Document) error {
		doc.Habits = append(doc.Habits, model.Habit{
			ID:          "h1",
			Name:        "Lettura",
			Completions: map[string]model.Completion{"2024-01-01": {Completed: true}},
		})
		return nil
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	snap := s.Snapshot()
	snap.Habits[0].Name = "mutated"
	snap.Habits[0].Completions["2024-01-02"] = model.Completion{Completed: true}

	fresh := s.Snapshot()
	if fresh.Habits[0].Name != "Lettura" {
		t.Fatalf("snapshot mutation leaked into store")
	}
	if len(fresh.Habits[0].Completions) != 1 {
		t.Fatalf("completion map is shared with snapshot")
	}
}

func TestReplace(t *testing.T) {
	s, err := Open(t.TempDir(), discard())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	err = s.Replace(model.Document{
		Habits:        []model.Habit{{ID: "h9", Name: "Corsa"}},
		BackupVersion: model.BackupVersion,
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	doc := s.Snapshot()
	if len(doc.Habits) != 1 || doc.Habits[0].ID != "h9" {
		t.Fatalf("replace did not take: %+v", doc.Habits)
	}
	if doc.Reflections == nil || doc.Badges == nil {
		t.Fatalf("replace must normalize nil collections")
	}
}
