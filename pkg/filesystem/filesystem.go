// Package filesystem holds the small file helpers the importer is built
// on: whole-file line reading and writing with the trailing newline
// convention library files use, mode-preserving copies, and existence
// checks. All helpers operate directly on the OS filesystem.
package filesystem

import (
	"io"
	"os"
	"strings"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
)

// ReadLines reads a whole file and splits it into lines. A single
// trailing newline is not reported as an extra empty line, matching how
// library files are written back.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return []string{}, nil
	}
	return strings.Split(text, "\n"), nil
}

// WriteLines writes lines to path joined by newlines, with a final
// trailing newline.
func WriteLines(path string, lines []string) error {
	data := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	return nil
}

// CopyFile streams src to dst, preserving the source mode.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsEmptyFile reports whether path exists and has zero length.
func IsEmptyFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() == 0
}
