// Package ledger records every filesystem side effect of an import run
// in the order it happened. The ledger is a plain value owned by the
// caller, so batch runs and tests never share state. On a failed run it
// is shown to the operator and can drive a best-effort rollback; files
// modified in place get a pre-image copy taken first so their rollback
// is exact.
package ledger

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/filesystem"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/logging"
)

// Kind classifies one recorded side effect
type Kind string

const (
	// KindMkdir records a directory created by the run
	KindMkdir Kind = "MKDIR"
	// KindTouchFile records a file created by the run
	KindTouchFile Kind = "TOUCH_FILE"
	// KindModifiedFile records a file modified in place, with a pre-image
	KindModifiedFile Kind = "MODIFIED_FILE"
	// KindExtractedFile records a file extracted from the archive
	KindExtractedFile Kind = "EXTRACTED_FILE"
)

// Entry is one recorded side effect
type Entry struct {
	Kind     Kind      `yaml:"kind"`
	Path     string    `yaml:"path"`
	PreImage string    `yaml:"pre_image,omitempty"`
	At       time.Time `yaml:"at"`
}

// Ledger is the append-only record of one import run's side effects
type Ledger struct {
	RunID   string    `yaml:"run_id"`
	Started time.Time `yaml:"started"`
	Entries []Entry   `yaml:"entries"`

	preImageDir string
}

// New creates a ledger for a fresh run. preImageDir is where pre-image
// copies of modified files are kept; it is created lazily on first use.
// An empty preImageDir disables pre-images, leaving MODIFIED_FILE
// entries unrecoverable.
func New(preImageDir string) *Ledger {
	return &Ledger{
		RunID:       uuid.NewString(),
		Started:     time.Now(),
		preImageDir: preImageDir,
	}
}

// Empty reports whether the run has performed any side effects
func (l *Ledger) Empty() bool {
	return len(l.Entries) == 0
}

// RecordMkdir records a directory created by the run
func (l *Ledger) RecordMkdir(path string) {
	l.append(Entry{Kind: KindMkdir, Path: path})
}

// RecordTouch records a file created by the run
func (l *Ledger) RecordTouch(path string) {
	l.append(Entry{Kind: KindTouchFile, Path: path})
}

// RecordExtract records a file extracted from the archive
func (l *Ledger) RecordExtract(path string) {
	l.append(Entry{Kind: KindExtractedFile, Path: path})
}

// RecordModify captures a pre-image copy of path and records the
// in-place modification about to happen. Call it before the write.
func (l *Ledger) RecordModify(path string) error {
	preImage := ""
	if l.preImageDir != "" {
		if err := os.MkdirAll(l.preImageDir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate,
				"failed to create pre-image directory %s", l.preImageDir)
		}
		preImage = filepath.Join(l.preImageDir,
			fmt.Sprintf("%03d-%s", len(l.Entries), filepath.Base(path)))
		if err := filesystem.CopyFile(path, preImage); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess,
				"failed to copy pre-image of %s", path)
		}
	}
	l.append(Entry{Kind: KindModifiedFile, Path: path, PreImage: preImage})
	return nil
}

func (l *Ledger) append(e Entry) {
	e.At = time.Now()
	l.Entries = append(l.Entries, e)
}

// Rollback walks the ledger newest-first and reverses what it can:
// created and extracted files are deleted, modified files are restored
// from their pre-images, created directories are removed once empty.
// Every failure is collected rather than stopping the walk.
func (l *Ledger) Rollback() []error {
	logger := logging.GetLogger("ledger")
	var problems []error

	for i := len(l.Entries) - 1; i >= 0; i-- {
		e := l.Entries[i]
		var err error
		switch e.Kind {
		case KindTouchFile, KindExtractedFile:
			err = os.Remove(e.Path)
			if os.IsNotExist(err) {
				err = nil
			}
		case KindModifiedFile:
			if e.PreImage == "" {
				err = errors.Newf(errors.ErrFileAccess,
					"no pre-image recorded for %s", e.Path)
			} else {
				err = filesystem.CopyFile(e.PreImage, e.Path)
			}
		case KindMkdir:
			err = os.Remove(e.Path)
			if os.IsNotExist(err) || stderrors.Is(err, syscall.ENOTEMPTY) {
				// a directory that gained foreign content stays
				err = nil
			}
		}
		if err != nil {
			logger.Warn().Str("path", e.Path).Str("kind", string(e.Kind)).
				Err(err).Msg("Rollback step failed")
			problems = append(problems, err)
		} else {
			logger.Debug().Str("path", e.Path).Str("kind", string(e.Kind)).
				Msg("Rolled back")
		}
	}
	return problems
}

// Export writes the ledger as YAML to path, creating parent directories
// as needed. Returns the path written.
func (l *Ledger) Export(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create ledger directory %s", dir)
	}

	data, err := yaml.Marshal(l)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to marshal ledger")
	}

	path := filepath.Join(dir, fmt.Sprintf("ledger-%s.yaml", l.RunID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite,
			"failed to write ledger %s", path)
	}
	return path, nil
}
