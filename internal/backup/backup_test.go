package backup

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jain13abhi/dockfinity-costing-app/internal/costing"
)

func sampleData() Data {
	it := costing.DefaultItem()
	it.ID = "item-1"
	return New(costing.DefaultSettings(), []costing.Item{it}, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
}

func TestExportImportRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleData()))
	assert.Contains(t, buf.String(), `"version": "1.0.0"`)
	assert.Contains(t, buf.String(), `"created_at": "2026-03-01T10:00:00Z"`)

	got, err := Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleData(), got)
}

func TestExportFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "backup.json")
	require.NoError(t, ExportFile(path, sampleData()))

	got, err := ImportFile(path)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "item-1", got.Items[0].ID)
}

func TestNewNeverLeavesNilItems(t *testing.T) {
	d := New(costing.DefaultSettings(), nil, time.Now())
	assert.NotNil(t, d.Items)
}

func TestImportDefaultsMissingItems(t *testing.T) {
	raw := `{"version":"1.0.0","settings":{"circleBaseRate":230,"circleAddPerKg":12,"circleExtraAddPerKg":8,"bagStandardKg":80}}`
	got, err := Import(strings.NewReader(raw))
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}

func TestImportRejects(t *testing.T) {
	settings := `"settings":{"circleBaseRate":230,"circleAddPerKg":12,"circleExtraAddPerKg":8,"bagStandardKg":80}`
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"malformed", `{"version":`, "failed to parse backup"},
		{"missing version", `{` + settings + `}`, "missing version"},
		{"bad settings", `{"version":"1.0.0","settings":{"bagStandardKg":0}}`, "settings.bagStandardKg"},
		{"bad item", `{"version":"1.0.0",` + settings + `,"items":[{"name":"x"}]}`, `item 0 ("x")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(strings.NewReader(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestImportRejectsDuplicateIDs(t *testing.T) {
	d := sampleData()
	d.Items = append(d.Items, d.Items[0])

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, d))
	_, err := Import(&buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), `item 1 repeats id "item-1"`)
}

func TestImportFileMissing(t *testing.T) {
	_, err := ImportFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
