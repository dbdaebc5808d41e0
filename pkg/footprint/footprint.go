// Package footprint stages the footprint definition files and the
// optional 3D model a vendor archive ships. Every file is staged
// beside its target with the promotion suffix; nothing lands at a
// final path until the importer promotes the whole set.
package footprint

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/archive"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/filesystem"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/ledger"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/library"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/logging"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/types"
)

// Stager stages the physical artifacts of one archive.
type Stager struct {
	archive  *archive.Archive
	layout   archive.Layout
	led      *ledger.Ledger
	prompter types.Prompter
	logger   zerolog.Logger
}

// NewStager returns a stager bound to one open archive and the run's
// ledger.
func NewStager(a *archive.Archive, layout archive.Layout, led *ledger.Ledger,
	prompter types.Prompter) *Stager {

	return &Stager{
		archive:  a,
		layout:   layout,
		led:      led,
		prompter: prompter,
		logger:   logging.GetLogger("footprint"),
	}
}

// StagedFootprint is the outcome of staging one footprint definition.
type StagedFootprint struct {
	Name   string
	Target string
	Stage  string
	Status types.ArtifactStatus
}

// StageFootprints writes a staged copy of every footprint definition in
// the archive into prettyDir. When modelName is set, a model reference
// block pointing at modelToken/modelName becomes the last lines before
// each file's closing line. An existing target footprint is staged only
// after the operator confirms the overwrite; declining skips that
// footprint alone.
func (s *Stager) StageFootprints(ctx context.Context, prettyDir, modelToken,
	modelName string) ([]StagedFootprint, error) {

	members := s.archive.Footprints(s.layout)
	if len(members) == 0 {
		return nil, nil
	}
	if err := s.ensureDir(prettyDir); err != nil {
		return nil, err
	}

	var out []StagedFootprint
	for _, member := range members {
		name := path.Base(member)
		target := filepath.Join(prettyDir, name)
		staged := StagedFootprint{Name: name, Target: target, Status: types.StatusAdded}

		if filesystem.Exists(target) {
			confirmed, err := s.prompter.Confirm(ctx, fmt.Sprintf(
				"Footprint already exists at %s. Overwrite existing footprint?", target), true)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrPromptFailed,
					"footprint overwrite prompt failed")
			}
			if !confirmed {
				s.logger.Info().Str("footprint", name).
					Msg("Footprint overwrite declined")
				staged.Status = types.StatusSkipped
				out = append(out, staged)
				continue
			}
			staged.Status = types.StatusReplaced
		}

		lines, err := s.archive.ReadLines(member)
		if err != nil {
			return nil, err
		}
		if modelName != "" {
			lines = withModelBlock(lines, modelToken, modelName)
		}

		stage := library.StagePath(target)
		s.led.RecordTouch(stage)
		if err := filesystem.WriteLines(stage, lines); err != nil {
			return nil, err
		}
		staged.Stage = stage
		out = append(out, staged)

		s.logger.Debug().Str("footprint", name).Str("stage", stage).
			Str("status", staged.Status.String()).Msg("Staged footprint")
	}
	return out, nil
}

// withModelBlock inserts the model reference immediately before the
// file's closing line.
func withModelBlock(lines []string, token, name string) []string {
	if len(lines) == 0 {
		return lines
	}
	block := []string{
		"  (model \"" + token + "/" + name + "\"",
		"    (offset (xyz 0 0 0))",
		"    (scale (xyz 1 1 1))",
		"    (rotate (xyz 0 0 0))",
		"  )",
	}
	out := make([]string, 0, len(lines)+len(block))
	out = append(out, lines[:len(lines)-1]...)
	out = append(out, block...)
	out = append(out, lines[len(lines)-1])
	return out
}

func (s *Stager) ensureDir(dir string) error {
	if filesystem.Exists(dir) {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
	}
	s.led.RecordMkdir(dir)
	return nil
}
