// Package archive reads vendor component zipfiles. It opens the
// archive, detects which vendor layout it follows and hands the
// importer the text and binary artifacts the layout names.
package archive

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/ledger"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/logging"
)

// entry is one member of the archive index. Directories implied by
// nested file names are indexed even when the zip carries no explicit
// entry for them.
type entry struct {
	name  string
	isDir bool
}

// Archive is an open vendor zipfile.
type Archive struct {
	path    string
	device  string
	zr      *zip.ReadCloser
	entries []entry
	files   map[string]*zip.File
	logger  zerolog.Logger
}

// Open opens the zipfile at path. The device name every record will be
// canonicalized to is the archive file name without its extension.
func Open(zipPath string) (*Archive, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrArchiveRead,
			"cannot read %s as a zip archive", zipPath)
	}

	base := filepath.Base(zipPath)
	a := &Archive{
		path:   zipPath,
		device: strings.TrimSuffix(base, filepath.Ext(base)),
		zr:     zr,
		files:  make(map[string]*zip.File),
		logger: logging.GetLogger("archive"),
	}
	a.index()

	a.logger.Debug().Str("archive", zipPath).Str("device", a.device).
		Int("entries", len(a.entries)).Msg("Opened archive")
	return a, nil
}

// Close releases the underlying zipfile.
func (a *Archive) Close() error {
	return a.zr.Close()
}

// Path returns the archive path on disk.
func (a *Archive) Path() string {
	return a.path
}

// Device returns the canonical device name derived from the archive
// file name.
func (a *Archive) Device() string {
	return a.device
}

// index builds the entry list in archive order, synthesizing parent
// directories that nested member names imply.
func (a *Archive) index() {
	seen := make(map[string]bool)
	add := func(name string, isDir bool) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		a.entries = append(a.entries, entry{name: name, isDir: isDir})
	}

	for _, f := range a.zr.File {
		name := strings.TrimSuffix(f.Name, "/")
		isDir := strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir()

		parts := strings.Split(name, "/")
		for i := 1; i < len(parts); i++ {
			add(strings.Join(parts[:i], "/"), true)
		}
		add(name, isDir)
		if !isDir {
			a.files[name] = f
		}
	}
}

// ReadFile returns the contents of one archive member.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, errors.Newf(errors.ErrArchiveRead,
			"%s has no member %s", a.path, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrArchiveRead,
			"cannot open member %s", name)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrArchiveRead,
			"cannot read member %s", name)
	}
	return data, nil
}

// ReadLines returns one text member split into lines. Vendor archives
// mix CRLF and LF endings, so both are accepted.
func (a *Archive) ReadLines(name string) ([]string, error) {
	data, err := a.ReadFile(name)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{}, nil
	}
	return strings.Split(text, "\n"), nil
}

// Extract streams one archive member to destPath and records the new
// file in the ledger. Parent directories must already exist.
func (a *Archive) Extract(name, destPath string, led *ledger.Ledger) error {
	f, ok := a.files[name]
	if !ok {
		return errors.Newf(errors.ErrArchiveRead,
			"%s has no member %s", a.path, name)
	}
	rc, err := f.Open()
	if err != nil {
		return errors.Wrapf(err, errors.ErrArchiveRead,
			"cannot open member %s", name)
	}
	defer rc.Close()

	led.RecordExtract(destPath)
	out, err := os.Create(destPath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate,
			"cannot create %s", destPath)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return errors.Wrapf(err, errors.ErrFileWrite,
			"cannot extract %s", name)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite,
			"cannot extract %s", name)
	}

	a.logger.Debug().Str("member", name).Str("dest", destPath).
		Msg("Extracted archive member")
	return nil
}

// hasFile reports whether the archive holds a file member with this
// exact path.
func (a *Archive) hasFile(name string) bool {
	_, ok := a.files[name]
	return ok
}

// hasDir reports whether the archive holds a directory with this exact
// path, explicit or implied.
func (a *Archive) hasDir(name string) bool {
	for _, e := range a.entries {
		if e.isDir && e.name == name {
			return true
		}
	}
	return false
}

// findDir returns the first directory, in archive order, whose base
// name ends with suffix.
func (a *Archive) findDir(suffix string) (string, bool) {
	for _, e := range a.entries {
		if e.isDir && strings.HasSuffix(path.Base(e.name), suffix) {
			return e.name, true
		}
	}
	return "", false
}

// findFile returns the first file under dir, at any depth and in
// archive order, whose name ends with suffix. Pass "." to search the
// whole archive.
func (a *Archive) findFile(dir, suffix string) (string, bool) {
	prefix := ""
	if dir != "." {
		prefix = dir + "/"
	}
	for _, e := range a.entries {
		if e.isDir || !strings.HasPrefix(e.name, prefix) {
			continue
		}
		if strings.HasSuffix(e.name, suffix) {
			return e.name, true
		}
	}
	return "", false
}

// children returns the immediate members of dir in archive order. Pass
// "." for the archive root.
func (a *Archive) children(dir string) []entry {
	prefix := ""
	if dir != "." {
		prefix = dir + "/"
	}
	var out []entry
	for _, e := range a.entries {
		if !strings.HasPrefix(e.name, prefix) || e.name == dir {
			continue
		}
		if strings.Contains(e.name[len(prefix):], "/") {
			continue
		}
		out = append(out, e)
	}
	return out
}
