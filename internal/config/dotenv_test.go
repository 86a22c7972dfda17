package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDotEnv_LoadsValuesAndIgnoresNoise(t *testing.T) {
	unsetenv(t, "A")
	unsetenv(t, "B")
	unsetenv(t, "C")

	path := writeDotEnv(t, `
# comment

A=one
export B=two
C="three"
`)
	require.NoError(t, loadDotEnv(path))

	assert.Equal(t, "one", os.Getenv("A"))
	assert.Equal(t, "two", os.Getenv("B"))
	assert.Equal(t, "three", os.Getenv("C"))
}

func TestLoadDotEnv_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("KEEP", "already")

	require.NoError(t, loadDotEnv(writeDotEnv(t, "KEEP=fromfile\n")))
	assert.Equal(t, "already", os.Getenv("KEEP"))
}

func TestLoadDotEnv_StripsSingleQuotes(t *testing.T) {
	unsetenv(t, "Q")

	require.NoError(t, loadDotEnv(writeDotEnv(t, "Q='hello world'\n")))
	assert.Equal(t, "hello world", os.Getenv("Q"))
}

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
