// Package lockfile serializes imports that write into the same library
// directories. Each target directory carries one advisory lock file; a
// second import aiming at any of the same directories fails fast
// instead of interleaving staged writes.
package lockfile

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/logging"
)

// LockFileName is the advisory lock file kept in each library directory.
const LockFileName = ".kicad-import.lock"

// Guard holds the locks of one import run.
type Guard struct {
	locks  []*flock.Flock
	logger zerolog.Logger
}

// Acquire takes a non-blocking exclusive lock in every directory,
// creating directories that do not exist yet. Either every lock is held
// on return or none is.
func Acquire(dirs []string) (*Guard, error) {
	g := &Guard{logger: logging.GetLogger("lockfile")}

	seen := make(map[string]bool)
	for _, dir := range dirs {
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true

		if err := os.MkdirAll(dir, 0755); err != nil {
			g.Release()
			return nil, errors.Wrapf(err, errors.ErrDirCreate,
				"failed to create %s", dir)
		}

		fl := flock.New(filepath.Join(dir, LockFileName))
		ok, err := fl.TryLock()
		if err != nil {
			g.Release()
			return nil, errors.Wrapf(err, errors.ErrFileAccess,
				"cannot lock %s", dir)
		}
		if !ok {
			g.Release()
			return nil, errors.Newf(errors.ErrLibraryLocked,
				"another import is writing to %s", dir).
				WithDetail("dir", dir)
		}
		g.locks = append(g.locks, fl)
		g.logger.Debug().Str("dir", dir).Msg("Locked library directory")
	}
	return g, nil
}

// Release drops every held lock. The lock files themselves stay behind.
func (g *Guard) Release() {
	for i := len(g.locks) - 1; i >= 0; i-- {
		if err := g.locks[i].Unlock(); err != nil {
			g.logger.Warn().Err(err).Str("lock", g.locks[i].Path()).
				Msg("Failed to release library lock")
		}
	}
	g.locks = nil
}
