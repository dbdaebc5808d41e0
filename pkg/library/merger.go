package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/filesystem"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/ledger"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/logging"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/record"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/types"
)

// StageSuffix marks a staged library file awaiting promotion.
const StageSuffix = "~"

// StagePath returns the staging path for a target file.
func StagePath(target string) string {
	return target + StageSuffix
}

// Merger merges one transformed source record into a consolidated
// target library file, producing a complete staged replacement beside
// it. The merger never promotes: renaming staged files over their
// originals is the orchestrator's job, done only after every artifact
// of the run has staged successfully.
type Merger struct {
	format     record.Format
	template   []string
	kind       types.ArtifactKind
	confirmFmt string
	logger     zerolog.Logger
}

// NewDocMerger returns the merger for documentation libraries (.dcm)
func NewDocMerger() *Merger {
	return &Merger{
		format:     DocFormat(),
		template:   DocTemplate,
		kind:       types.KindDescription,
		confirmFmt: "%s definition already exists in %s, replace it?",
		logger:     logging.GetLogger("library.doc"),
	}
}

// NewSymbolMerger returns the merger for symbol libraries (.lib)
func NewSymbolMerger() *Merger {
	return &Merger{
		format:     SymbolFormat(),
		template:   SymbolTemplate,
		kind:       types.KindSymbol,
		confirmFmt: "%s lib already in %s, replace it?",
		logger:     logging.GetLogger("library.symbol"),
	}
}

// Kind returns the artifact kind this merger produces
func (m *Merger) Kind() types.ArtifactKind {
	return m.kind
}

// Format returns the record format this merger operates on
func (m *Merger) Format() record.Format {
	return m.format
}

// Staged is the outcome of one merge: the target file, the staged
// replacement (empty when the merge was skipped), and what happened.
type Staged struct {
	Target string
	Stage  string
	Status types.ArtifactStatus
}

// Stage merges the transformed source record lines into the target
// library and writes the fully merged result to the staging path.
//
// The target is created from the format's empty template when absent or
// zero-length. An existing record for the device is replaced, header
// block included, after the operator confirms; declining discards the
// merge and leaves the target untouched. Without an existing record the
// source lines are inserted immediately before the file trailer. The
// staged file is complete and valid before Stage returns.
func (m *Merger) Stage(ctx context.Context, source []string, target, device string,
	led *ledger.Ledger, prompter types.Prompter) (*Staged, error) {

	if err := m.ensureTarget(target, led); err != nil {
		return nil, err
	}

	lines, err := filesystem.ReadLines(target)
	if err != nil {
		return nil, err
	}

	loc, err := record.Locate(lines, m.format, device)
	if err != nil {
		if importErr, ok := errors.AsImportError(err); ok {
			importErr.WithDetail("file", target)
		}
		return nil, err
	}

	var merged []string
	status := types.StatusAdded
	if loc.Match != nil {
		confirmed, err := prompter.Confirm(ctx,
			fmt.Sprintf(m.confirmFmt, device, target), true)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrPromptFailed, "replace prompt failed")
		}
		if !confirmed {
			m.logger.Info().Str("device", device).Str("file", target).
				Msg("Replacement declined, target left untouched")
			return &Staged{Target: target, Status: types.StatusSkipped}, nil
		}
		merged = splice(lines, loc.Match.ReplaceStart(), loc.Match.End, source)
		status = types.StatusReplaced
	} else {
		at := loc.Trailer
		if at < 0 {
			at = len(lines)
		}
		merged = splice(lines, at, at, source)
	}

	stage := StagePath(target)
	led.RecordTouch(stage)
	if err := filesystem.WriteLines(stage, merged); err != nil {
		return nil, err
	}

	m.logger.Debug().Str("device", device).Str("stage", stage).
		Str("status", status.String()).Msg("Staged merge")
	return &Staged{Target: target, Stage: stage, Status: status}, nil
}

// ensureTarget makes sure the target library exists and is non-empty,
// writing the format's minimal template otherwise. Every side effect is
// recorded in the ledger.
func (m *Merger) ensureTarget(target string, led *ledger.Ledger) error {
	if filesystem.Exists(target) {
		if !filesystem.IsEmptyFile(target) {
			return nil
		}
		if err := led.RecordModify(target); err != nil {
			return err
		}
		return filesystem.WriteLines(target, m.template)
	}

	dir := filepath.Dir(target)
	if !filesystem.Exists(dir) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
		}
		led.RecordMkdir(dir)
	}
	led.RecordTouch(target)
	return filesystem.WriteLines(target, m.template)
}

// splice returns lines with [from, to) replaced by insert
func splice(lines []string, from, to int, insert []string) []string {
	out := make([]string, 0, len(lines)-(to-from)+len(insert))
	out = append(out, lines[:from]...)
	out = append(out, insert...)
	out = append(out, lines[to:]...)
	return out
}
