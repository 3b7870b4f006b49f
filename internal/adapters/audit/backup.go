package audit

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"starcuak/internal/domain"
)

// WriteBackup snapshots an ingested raw table to a binary file so a batch
// can be replayed after a reset. The write goes through a temp file and a
// rename so a crash never leaves a truncated snapshot behind.
func WriteBackup(path string, t domain.RawTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("backup dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".backup-*")
	if err != nil {
		return fmt.Errorf("backup tmp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(t); err != nil {
		tmp.Close()
		return fmt.Errorf("backup encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("backup close: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// ReadBackup loads a snapshot written by WriteBackup.
func ReadBackup(path string) (domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("backup open: %w", err)
	}
	defer f.Close()

	var t domain.RawTable
	if err := gob.NewDecoder(f).Decode(&t); err != nil {
		return domain.RawTable{}, fmt.Errorf("backup decode: %w", err)
	}
	return t, nil
}
