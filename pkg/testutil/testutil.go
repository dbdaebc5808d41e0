// Package testutil provides the shared helpers the package tests are
// built on: line-oriented file fixtures, zip archive builders for the
// vendor layouts, and a scripted prompter so merge logic runs headless.
package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteLines writes lines to path with a trailing newline, creating
// parent directories as needed.
func WriteLines(t *testing.T, path string, lines []string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	data := strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

// ReadLines reads path and returns its lines, without the final empty
// element a trailing newline would produce.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}

// MakeZip builds a zip archive at path from a map of entry name to
// content. Entries with a trailing slash become directories.
func MakeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	w := zip.NewWriter(f)
	for name, content := range entries {
		if strings.HasSuffix(name, "/") {
			_, err := w.Create(name)
			require.NoError(t, err)
			continue
		}
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}
