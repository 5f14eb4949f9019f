package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"crescita/internal/model"
)

const fileName = "crescita.json"

// Store holds the aggregate document: loaded once at startup, kept in
// memory, and rewritten in full after every mutation. A crash between the
// in-memory update and the write loses that single update but never
// corrupts prior state.
type Store struct {
	mu     sync.RWMutex
	path   string
	logger *log.Logger
	doc    model.Document
}

func Open(dataDir string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	s := &Store{
		path:   filepath.Join(dataDir, fileName),
		logger: logger,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.doc = Seed()
			return nil
		}
		return err
	}

	var loaded model.Document
	if err := json.Unmarshal(b, &loaded); err != nil {
		// Corrupt storage is recoverable: keep the broken file aside for
		// inspection and start from the seeded default.
		s.logger.Printf(`{"level":"error","msg":"storage_corrupt","path":%q,"error":%q}`, s.path, err.Error())
		if renameErr := os.Rename(s.path, s.path+".corrupt"); renameErr != nil {
			s.logger.Printf(`{"level":"warn","msg":"storage_corrupt_keep_failed","error":%q}`, renameErr.Error())
		}
		s.doc = Seed()
		return nil
	}
	normalize(&loaded)
	s.doc = loaded
	return nil
}

func (s *Store) saveLocked() error {
	b, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

// Snapshot returns a deep copy of the document; callers may read it freely
// without holding any lock.
func (s *Store) Snapshot() model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDocument(s.doc)
}

// Update runs fn against the live document and persists the result. When fn
// returns an error nothing is written and the in-memory state is restored.
func (s *Store) Update(fn func(doc *model.Document) error) (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := cloneDocument(s.doc)
	if err := fn(&work); err != nil {
		return model.Document{}, err
	}
	normalize(&work)

	prev := s.doc
	s.doc = work
	if err := s.saveLocked(); err != nil {
		s.doc = prev
		return model.Document{}, fmt.Errorf("persist document: %w", err)
	}
	return cloneDocument(s.doc), nil
}

// Replace swaps in a whole new document (import path).
func (s *Store) Replace(doc model.Document) error {
	_, err := s.Update(func(cur *model.Document) error {
		*cur = doc
		return nil
	})
	return err
}

// Seed is the default document used for first runs and corrupt-storage
// recovery.
func Seed() model.Document {
	doc := model.Document{}
	normalize(&doc)
	return doc
}

func normalize(d *model.Document) {
	if d.Habits == nil {
		d.Habits = []model.Habit{}
	}
	for i := range d.Habits {
		if d.Habits[i].Completions == nil {
			d.Habits[i].Completions = map[string]model.Completion{}
		}
	}
	if d.Reflections == nil {
		d.Reflections = []model.Reflection{}
	}
	if d.Challenges == nil {
		d.Challenges = map[string]model.ChallengeState{}
	}
	for k, cs := range d.Challenges {
		if cs.History == nil {
			cs.History = []model.ChallengeHistoryEntry{}
		}
		if cs.Run != nil && len(cs.Run.Days) != model.ChallengeRunLength {
			days := make([]bool, model.ChallengeRunLength)
			copy(days, cs.Run.Days)
			cs.Run.Days = days
		}
		d.Challenges[k] = cs
	}
	if d.FavoriteQuotes == nil {
		d.FavoriteQuotes = []model.FavoriteQuote{}
	}
	if d.Badges == nil {
		d.Badges = []string{}
	}
	if d.Points < 0 {
		d.Points = 0
	}
	if d.LastLevel < 1 {
		d.LastLevel = 1
	}
	if d.BackupVersion == 0 {
		d.BackupVersion = model.BackupVersion
	}
}

func cloneDocument(d model.Document) model.Document {
	out := d

	out.Habits = make([]model.Habit, len(d.Habits))
	for i, h := range d.Habits {
		comps := make(map[string]model.Completion, len(h.Completions))
		for k, v := range h.Completions {
			comps[k] = v
		}
		h.Completions = comps
		out.Habits[i] = h
	}

	out.Reflections = append([]model.Reflection{}, d.Reflections...)
	out.FavoriteQuotes = append([]model.FavoriteQuote{}, d.FavoriteQuotes...)
	out.Badges = append([]string{}, d.Badges...)

	out.Challenges = make(map[string]model.ChallengeState, len(d.Challenges))
	for k, cs := range d.Challenges {
		cp := model.ChallengeState{
			History: append([]model.ChallengeHistoryEntry{}, cs.History...),
		}
		if cs.Run != nil {
			run := *cs.Run
			run.Days = append([]bool{}, cs.Run.Days...)
			cp.Run = &run
		}
		out.Challenges[k] = cp
	}
	return out
}
