// Package importer drives one archive import end to end: detect the
// vendor layout, transform both library records, stage every artifact
// and only then promote the staged files over the originals.
package importer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/archive"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/config"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/filesystem"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/footprint"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/ledger"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/library"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/lockfile"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/logging"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/paths"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/record"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/types"
)

// Importer imports vendor archives into the local libraries.
type Importer struct {
	cfg      *config.Config
	paths    paths.Paths
	prompter types.Prompter
	logger   zerolog.Logger
}

// New returns an importer writing into the configured libraries.
func New(cfg *config.Config, p paths.Paths, prompter types.Prompter) *Importer {
	return &Importer{
		cfg:      cfg,
		paths:    p,
		prompter: prompter,
		logger:   logging.GetLogger("importer"),
	}
}

// Run is one import attempt. The ledger is carried even when the run
// failed so the caller can offer to roll the recorded writes back; a
// nil Run means the failure happened before anything was written.
type Run struct {
	Result *types.ImportResult
	Ledger *ledger.Ledger
}

// Import runs the whole import of one zipfile.
//
// The work is phased so failures cannot half-modify a library: first
// both source records are read and transformed without touching disk,
// then every artifact is staged beside its target, and only when the
// full set staged cleanly are the staged files renamed over the
// originals.
func (imp *Importer) Import(ctx context.Context, zipPath string) (*Run, error) {
	logger := imp.logger.With().Str("archive", zipPath).Logger()

	a, err := archive.Open(zipPath)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	layout, err := a.DetectLayout()
	if err != nil {
		return nil, err
	}

	device := a.Device()
	logger.Info().Str("device", device).
		Str("remote", layout.Remote.String()).Msg("Importing archive")

	docSource, err := imp.prepareDocSource(ctx, a, layout, device)
	if err != nil {
		return nil, err
	}
	symbolSource, err := imp.prepareSymbolSource(a, layout, device)
	if err != nil {
		return nil, err
	}

	guard, err := lockfile.Acquire([]string{
		imp.cfg.Libraries.Symbols,
		imp.cfg.Libraries.Footprints,
		imp.cfg.Libraries.Models,
	})
	if err != nil {
		return nil, err
	}
	defer guard.Release()

	preDir, err := imp.preImageDir()
	if err != nil {
		return nil, err
	}
	led := ledger.New(preDir)
	run := &Run{Ledger: led}

	docTarget := filepath.Join(imp.cfg.Libraries.Symbols, layout.Remote.DocLibName())
	docStaged, err := library.NewDocMerger().Stage(ctx, docSource, docTarget,
		device, led, imp.prompter)
	if err != nil {
		return run, err
	}

	stager := footprint.NewStager(a, layout, led, imp.prompter)
	model, err := stager.StageModel(ctx, imp.cfg.Libraries.Models)
	if err != nil {
		return run, err
	}

	modelName := ""
	if model.Staged() {
		modelName = model.Name
	}
	prettyDir := filepath.Join(imp.cfg.Libraries.Footprints, layout.Remote.PrettyDirName())
	footprints, err := stager.StageFootprints(ctx, prettyDir, imp.cfg.Model.Token, modelName)
	if err != nil {
		return run, err
	}

	symbolTarget := filepath.Join(imp.cfg.Libraries.Symbols, layout.Remote.SymbolLibName())
	symbolStaged, err := library.NewSymbolMerger().Stage(ctx, symbolSource, symbolTarget,
		device, led, imp.prompter)
	if err != nil {
		return run, err
	}

	// Promotion: every artifact staged, renames are the only writes left.
	// The model lands before the footprints that reference it.
	if err := imp.promote(led, docStaged.Target, docStaged.Stage); err != nil {
		return run, err
	}
	if err := imp.promote(led, model.Target, model.Stage); err != nil {
		return run, err
	}
	for _, fp := range footprints {
		if err := imp.promote(led, fp.Target, fp.Stage); err != nil {
			return run, err
		}
	}
	if err := imp.promote(led, symbolStaged.Target, symbolStaged.Stage); err != nil {
		return run, err
	}

	result := &types.ImportResult{
		RunID:   led.RunID,
		Device:  device,
		Remote:  layout.Remote,
		Archive: zipPath,
	}
	result.Artifacts = append(result.Artifacts, types.ArtifactResult{
		Kind: types.KindDescription, Name: device, Target: docTarget, Status: docStaged.Status,
	})
	if model.Status != types.StatusMissing {
		result.Artifacts = append(result.Artifacts, types.ArtifactResult{
			Kind: types.KindModel3D, Name: model.Name, Target: model.Target, Status: model.Status,
		})
	}
	for _, fp := range footprints {
		result.Artifacts = append(result.Artifacts, types.ArtifactResult{
			Kind: types.KindFootprint, Name: fp.Name, Target: fp.Target, Status: fp.Status,
		})
	}
	result.Artifacts = append(result.Artifacts, types.ArtifactResult{
		Kind: types.KindSymbol, Name: device, Target: symbolTarget, Status: symbolStaged.Status,
	})

	if imp.cfg.Zap {
		if err := os.Remove(zipPath); err != nil {
			logger.Warn().Err(err).Msg("Failed to delete source archive")
		} else {
			result.Zapped = true
			logger.Info().Msg("Deleted source archive")
		}
	}

	os.RemoveAll(preDir)
	run.Result = result

	logger.Info().Int("added", result.Added()).Int("replaced", result.Replaced()).
		Int("skipped", result.Skipped()).Msg("Import complete")
	return run, nil
}

// prepareDocSource reads the documentation record from the archive, or
// synthesizes a minimal one when the archive ships none, and applies
// the rename and operator edits.
func (imp *Importer) prepareDocSource(ctx context.Context, a *archive.Archive,
	layout archive.Layout, device string) ([]string, error) {

	var lines []string
	if layout.DocFile != "" {
		var err error
		if lines, err = a.ReadLines(layout.DocFile); err != nil {
			return nil, err
		}
	} else {
		imp.logger.Debug().Str("device", device).
			Msg("Archive has no documentation file, synthesizing record")
		lines = library.SynthesizeDocRecord(device)
	}

	format := library.DocFormat()
	rec, err := record.Find(lines, format, device)
	if err != nil {
		return nil, annotate(err, layout.DocFile)
	}
	source := library.Rename(rec.Extract(lines), format, device)
	return library.EditDocFields(ctx, source, imp.prompter)
}

// prepareSymbolSource reads the symbol record from the archive and
// applies the rename and footprint qualification.
func (imp *Importer) prepareSymbolSource(a *archive.Archive, layout archive.Layout,
	device string) ([]string, error) {

	lines, err := a.ReadLines(layout.SymbolFile)
	if err != nil {
		return nil, err
	}

	format := library.SymbolFormat()
	rec, err := record.Find(lines, format, device)
	if err != nil {
		return nil, annotate(err, layout.SymbolFile)
	}
	source := library.Rename(rec.Extract(lines), format, device)
	return library.QualifyFootprint(source, layout.Remote), nil
}

// promote renames one staged file over its target, recording the
// target's fate first so a rollback restores it exactly.
func (imp *Importer) promote(led *ledger.Ledger, target, stage string) error {
	if stage == "" {
		return nil
	}
	if filesystem.Exists(target) {
		if err := led.RecordModify(target); err != nil {
			return err
		}
	} else {
		led.RecordTouch(target)
	}
	if err := os.Rename(stage, target); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to promote %s", target)
	}
	imp.logger.Debug().Str("target", target).Msg("Promoted staged file")
	return nil
}

func (imp *Importer) preImageDir() (string, error) {
	cache := imp.paths.CacheDir()
	if err := os.MkdirAll(cache, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", cache)
	}
	dir, err := os.MkdirTemp(cache, "preimage-")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrDirCreate, "failed to create pre-image directory")
	}
	return dir, nil
}

// annotate attaches the archive member a record error came from.
func annotate(err error, file string) error {
	if file == "" {
		return err
	}
	if importErr, ok := errors.AsImportError(err); ok {
		importErr.WithDetail("file", file)
	}
	return err
}

// ListArchives returns the zipfiles in sourceDir, sorted by name.
func ListArchives(sourceDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(sourceDir, "*.zip"))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput,
			"cannot scan %s for archives", sourceDir)
	}
	return matches, nil
}
