// Package backup reads and writes the JSON snapshot of all stored items and settings.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jain13abhi/dockfinity-costing-app/internal/costing"
)

// Version is written into every export.
const Version = "1.0.0"

// ErrInvalid marks a snapshot that cannot be restored.
var ErrInvalid = errors.New("invalid backup")

// Data is the top-level structure for import/export of all application data.
type Data struct {
	Version   string              `json:"version"`
	CreatedAt string              `json:"created_at"`
	Settings  costing.AppSettings `json:"settings"`
	Items     []costing.Item      `json:"items"`
}

// New builds a snapshot stamped with at.
func New(settings costing.AppSettings, items []costing.Item, at time.Time) Data {
	if items == nil {
		items = []costing.Item{}
	}
	return Data{
		Version:   Version,
		CreatedAt: at.UTC().Format(time.RFC3339),
		Settings:  settings,
		Items:     items,
	}
}

// Export writes d as indented JSON.
func Export(w io.Writer, d Data) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode backup data: %w", err)
	}
	return nil
}

// ExportFile writes d to path, creating parent directories as needed.
func ExportFile(path string, d Data) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	if err := Export(f, d); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// Import decodes and validates a snapshot. Nothing is applied; the caller
// decides how to persist the result.
func Import(r io.Reader) (Data, error) {
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Data{}, fmt.Errorf("%w: failed to parse backup: %v", ErrInvalid, err)
	}
	if d.Version == "" {
		return Data{}, fmt.Errorf("%w: missing version field", ErrInvalid)
	}
	if err := costing.ValidateSettings(d.Settings); err != nil {
		return Data{}, fmt.Errorf("%w: settings: %w", ErrInvalid, err)
	}
	if d.Items == nil {
		d.Items = []costing.Item{}
	}

	seen := make(map[string]int, len(d.Items))
	for i, it := range d.Items {
		if err := costing.ValidateItem(it); err != nil {
			return Data{}, fmt.Errorf("%w: item %d (%q): %w", ErrInvalid, i, it.Name, err)
		}
		if it.ID == "" {
			continue
		}
		if prev, ok := seen[it.ID]; ok {
			return Data{}, fmt.Errorf("%w: item %d repeats id %q from item %d", ErrInvalid, i, it.ID, prev)
		}
		seen[it.ID] = i
	}
	return d, nil
}

// ImportFile reads a snapshot from path.
func ImportFile(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	defer f.Close()
	return Import(f)
}
