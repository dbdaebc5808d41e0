package footprint

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/filesystem"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/library"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/types"
)

// StagedModel is the outcome of staging the archive's 3D model.
type StagedModel struct {
	Name   string
	Target string
	Stage  string
	Status types.ArtifactStatus
}

// Staged reports whether a model copy is waiting for promotion, which
// is what decides if footprints get a model reference block.
func (m StagedModel) Staged() bool {
	return m.Status == types.StatusAdded || m.Status == types.StatusReplaced
}

// StageModel writes a staged copy of the first 3D model found in the
// archive beside its target in modelDir. Overwriting an existing model
// needs the operator's confirmation; declining stages nothing and
// leaves the existing model alone.
func (s *Stager) StageModel(ctx context.Context, modelDir string) (StagedModel, error) {
	models := s.archive.Models(s.layout)
	if len(models) == 0 {
		return StagedModel{Status: types.StatusMissing}, nil
	}

	member := models[0]
	name := path.Base(member)
	target := filepath.Join(modelDir, name)
	staged := StagedModel{Name: name, Target: target, Status: types.StatusAdded}

	if filesystem.Exists(target) {
		confirmed, err := s.prompter.Confirm(ctx, fmt.Sprintf(
			"Model already exists at %s. Overwrite existing model?", target), true)
		if err != nil {
			return StagedModel{}, errors.Wrap(err, errors.ErrPromptFailed,
				"model overwrite prompt failed")
		}
		if !confirmed {
			s.logger.Info().Str("model", name).Msg("Model overwrite declined")
			staged.Status = types.StatusSkipped
			return staged, nil
		}
		staged.Status = types.StatusReplaced
	}

	if err := s.ensureDir(modelDir); err != nil {
		return StagedModel{}, err
	}
	stage := library.StagePath(target)
	if err := s.archive.Extract(member, stage, s.led); err != nil {
		return StagedModel{}, err
	}
	staged.Stage = stage

	s.logger.Info().Str("model", name).Str("stage", stage).Msg("Staged 3D model")
	return staged, nil
}
