package ops

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crescita/internal/model"
)

// ErrBackupVersion rejects imports whose format tag is missing or unknown.
// The document is never partially applied: an import either replaces the
// whole state or leaves it untouched.
var ErrBackupVersion = errors.New("unsupported backup version")

// Backup is the export envelope: the full document plus the export moment.
type Backup struct {
	model.Document
	ExportDate time.Time `json:"exportDate"`
}

// ExportName is the suggested download filename for an export made today.
func ExportName(today time.Time) string {
	return "crescitax-backup-" + today.Format("20060102") + ".json"
}

// Export serializes the document into the backup envelope.
func Export(doc model.Document, now time.Time) ([]byte, error) {
	return json.MarshalIndent(Backup{Document: doc, ExportDate: now}, "", "  ")
}

// Parse validates and decodes a backup payload. The version field is probed
// before the full decode so a wrong-format file fails fast.
func Parse(b []byte) (model.Document, error) {
	var probe struct {
		BackupVersion *int `json:"backupVersion"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return model.Document{}, fmt.Errorf("parse backup: %w", err)
	}
	if probe.BackupVersion == nil || *probe.BackupVersion != model.BackupVersion {
		return model.Document{}, ErrBackupVersion
	}

	var bk Backup
	if err := json.Unmarshal(b, &bk); err != nil {
		return model.Document{}, fmt.Errorf("parse backup: %w", err)
	}
	return bk.Document, nil
}
