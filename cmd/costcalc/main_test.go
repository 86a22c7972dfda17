package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jain13abhi/dockfinity-costing-app/internal/costing"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestYAMLMatchesDefaultItem(t *testing.T) {
	var it costing.Item
	require.NoError(t, decodeFile(filepath.Join("testdata", "item.yaml"), nil, &it))
	assert.Equal(t, costing.DefaultItem(), it)
}

func TestRunTable(t *testing.T) {
	code, out, errOut := runCLI(t, "", "-item", filepath.Join("testdata", "item.yaml"))
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Standard 7in tin")
	assert.Regexp(t, `Per kg rate\s+332\.50`, out)
	assert.Regexp(t, `Per piece rate\s+35\.49`, out)
	assert.Regexp(t, `Scrap credit\s+-186\.18`, out)
}

func TestRunJSONWithOffsetAndSettings(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.json")
	raw, err := json.Marshal(costing.AppSettings{CircleBaseRate: 200, BagStandardKg: 80})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(settingsPath, raw, 0o644))

	code, out, errOut := runCLI(t, "", "-item", filepath.Join("testdata", "item.yaml"),
		"-settings", settingsPath, "-offset", "5", "-json")
	require.Equal(t, 0, code, errOut)

	var res costing.CalcResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 205.0, res.Debug.BoxCircleRate)
	assert.Equal(t, 205.0, res.Debug.CoverCircleRate)
}

func TestRunReadsStdin(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "item.yaml"))
	require.NoError(t, err)

	code, out, errOut := runCLI(t, string(raw), "-item", "-", "-json")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `"perKgRate": 332.5`)
}

func TestRunErrors(t *testing.T) {
	code, _, errOut := runCLI(t, "")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "-item is required")

	code, _, _ = runCLI(t, "", "-bogus")
	assert.Equal(t, 2, code)

	code, _, errOut = runCLI(t, "", "-item", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "read ")

	code, _, errOut = runCLI(t, "name: x\ncolour: red\n", "-item", "-")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "parse -")

	code, _, errOut = runCLI(t, "name: x\n", "-item", "-")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "box.circleDiameterIn:")

	raw, err := os.ReadFile(filepath.Join("testdata", "item.yaml"))
	require.NoError(t, err)
	disabledInf := strings.Replace(string(raw), "kunda:\n  enabled: true\n  weightG: 1.5\n  rate: 300\n",
		"kunda:\n  enabled: false\n  weightG: 1.5\n  rate: .inf\n", 1)
	require.NotEqual(t, string(raw), disabledInf)
	code, out, errOut := runCLI(t, disabledInf, "-item", "-", "-json")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "kunda.rate: must be a finite number")

	code, _, errOut = runCLI(t, "", "-item", filepath.Join("testdata", "item.yaml"), "-offset", "-1000")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "box.circleRate")
}
