package ops

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"crescita/internal/model"
	"crescita/internal/store"
)

func TestExportName(t *testing.T) {
	d := time.Date(2024, 5, 10, 15, 30, 0, 0, time.Local)
	if got := ExportName(d); got != "crescitax-backup-20240510.json" {
		t.Fatalf("unexpected export name: %s", got)
	}
}

func TestExportParseRoundtrip(t *testing.T) {
	doc := store.Seed()
	doc.Habits = append(doc.Habits, model.Habit{
		ID:          "h1",
		Name:        "Meditazione",
		StartDate:   "2024-05-01",
		Completions: map[string]model.Completion{"2024-05-01": {Completed: true}},
	})
	doc.Points = 10

	b, err := Export(doc, time.Date(2024, 5, 10, 8, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	var envelope map[string]any
	if err := json.Unmarshal(b, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if _, ok := envelope["exportDate"]; !ok {
		t.Fatalf("envelope missing exportDate")
	}
	if envelope["backupVersion"].(float64) != float64(model.BackupVersion) {
		t.Fatalf("envelope carries wrong version: %v", envelope["backupVersion"])
	}

	parsed, err := Parse(b)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(parsed.Habits) != 1 || parsed.Habits[0].Name != "Meditazione" || parsed.Points != 10 {
		t.Fatalf("roundtrip lost data: %+v", parsed)
	}
}

func TestParse_RejectsWrongOrMissingVersion(t *testing.T) {
	cases := map[string]string{
		"future version":  `{"backupVersion": 2, "habits": []}`,
		"missing version": `{"habits": []}`,
	}
	for name, payload := range cases {
		if _, err := Parse([]byte(payload)); !errors.Is(err, ErrBackupVersion) {
			t.Fatalf("%s: expected ErrBackupVersion, got %v", name, err)
		}
	}
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Fatalf("garbage payload should fail")
	}
}

func TestImport_RejectedVersionLeavesDocumentUntouched(t *testing.T) {
	st, err := store.Open(t.TempDir(), log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := st.Update(func(doc *model.Document) error {
		doc.Habits = append(doc.Habits, model.Habit{ID: "h1", Name: "Corsa"})
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	h := NewHandler(st, nil, nil, nil)
	req := httptest.NewRequest("POST", "/api/import", strings.NewReader(`{"backupVersion":2,"habits":[]}`))
	rec := httptest.NewRecorder()
	h.Import(rec, req)

	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := len(st.Snapshot().Habits); got != 1 {
		t.Fatalf("rejected import must not touch the document, got %d habits", got)
	}
}

func TestImport_ReplacesDocument(t *testing.T) {
	st, err := store.Open(t.TempDir(), log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	payload, err := Export(model.Document{
		Habits:        []model.Habit{{ID: "h2", Name: "Lettura", StartDate: "2024-05-01"}},
		BackupVersion: model.BackupVersion,
	}, time.Now())
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	h := NewHandler(st, nil, nil, nil)
	req := httptest.NewRequest("POST", "/api/import", strings.NewReader(string(payload)))
	rec := httptest.NewRecorder()
	h.Import(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	doc := st.Snapshot()
	if len(doc.Habits) != 1 || doc.Habits[0].ID != "h2" {
		t.Fatalf("import did not replace document: %+v", doc.Habits)
	}
}

func TestExportHandler_SetsDownloadHeaders(t *testing.T) {
	st, err := store.Open(t.TempDir(), log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	h := NewHandler(st, nil, nil, nil)
	req := httptest.NewRequest("GET", "/api/export", nil)
	rec := httptest.NewRecorder()
	h.Export(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "crescitax-backup-") || !strings.Contains(cd, ".json") {
		t.Fatalf("unexpected Content-Disposition: %s", cd)
	}
	if _, err := Parse(rec.Body.Bytes()); err != nil {
		t.Fatalf("export payload must parse back: %v", err)
	}
}

func TestArchiveRoundtrip(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "crescita.json"), []byte(`{"habits":[]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(src, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "nested", "note.txt"), []byte("ciao"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	if err := ArchiveDataDir(src, archive); err != nil {
		t.Fatalf("archive: %v", err)
	}

	target := t.TempDir()
	if err := UnpackDataDir(archive, target); err != nil {
		t.Fatalf("unpack: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(target, "nested", "note.txt"))
	if err != nil {
		t.Fatalf("read restored file: %v", err)
	}
	if string(b) != "ciao" {
		t.Fatalf("restored content mismatch: %q", b)
	}
}

func TestSanitizeEntryPath(t *testing.T) {
	if _, err := sanitizeEntryPath("../evil"); err == nil {
		t.Fatalf("traversal path must be rejected")
	}
	if _, err := sanitizeEntryPath("/abs/path"); err == nil {
		t.Fatalf("absolute path must be rejected")
	}
	if rel, err := sanitizeEntryPath("sub/file.json"); err != nil || rel != filepath.Clean("sub/file.json") {
		t.Fatalf("valid path rejected: %v %s", err, rel)
	}
}
