package library_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/ledger"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/library"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/testutil"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/types"
)

var docSource = []string{
	"#",
	"# LM358",
	"#",
	"$CMP LM358",
	"D Dual Op-Amp",
	"F http://x/lm358.pdf",
	"$ENDCMP",
}

// docTargetWithLM358 holds two records so merges must leave the
// unrelated one byte-identical.
var docTargetWithLM358 = []string{
	"EESchema-DOCLIB  Version 2.0",
	"#",
	"# AD797",
	"#",
	"$CMP AD797",
	"D Low noise op-amp",
	"$ENDCMP",
	"#",
	"# LM358",
	"#",
	"$CMP LM358",
	"D Old description",
	"$ENDCMP",
	"#End Doc Library",
}

func newLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	return ledger.New(t.TempDir())
}

func TestStageIntoMissingTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "device.dcm")
	led := newLedger(t)
	prompter := &testutil.ScriptPrompter{}

	staged, err := library.NewDocMerger().Stage(context.Background(),
		docSource, target, "LM358", led, prompter)
	require.NoError(t, err)

	assert.Equal(t, types.StatusAdded, staged.Status)
	assert.Equal(t, target, staged.Target)
	assert.Equal(t, target+"~", staged.Stage)
	assert.Empty(t, prompter.ConfirmPrompts, "no record to replace, no prompt")

	// The target itself only holds the empty template until promotion.
	assert.Equal(t, library.DocTemplate, testutil.ReadLines(t, target))

	want := []string{
		"EESchema-DOCLIB  Version 2.0",
		"#",
		"# LM358",
		"#",
		"$CMP LM358",
		"D Dual Op-Amp",
		"F http://x/lm358.pdf",
		"$ENDCMP",
		"#End Doc Library",
	}
	assert.Equal(t, want, testutil.ReadLines(t, staged.Stage))
}

func TestStageIntoEmptyTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "device.dcm")
	require.NoError(t, os.WriteFile(target, nil, 0644))
	led := newLedger(t)

	staged, err := library.NewDocMerger().Stage(context.Background(),
		docSource, target, "LM358", led, &testutil.ScriptPrompter{})
	require.NoError(t, err)

	assert.Equal(t, types.StatusAdded, staged.Status)
	assert.Equal(t, library.DocTemplate, testutil.ReadLines(t, target))
}

func TestStageAppendsBeforeTrailer(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "device.dcm")
	existing := []string{
		"EESchema-DOCLIB  Version 2.0",
		"#",
		"# AD797",
		"#",
		"$CMP AD797",
		"D Low noise op-amp",
		"$ENDCMP",
		"#End Doc Library",
	}
	testutil.WriteLines(t, target, existing)

	staged, err := library.NewDocMerger().Stage(context.Background(),
		docSource, target, "LM358", newLedger(t), &testutil.ScriptPrompter{})
	require.NoError(t, err)

	assert.Equal(t, types.StatusAdded, staged.Status)
	want := append([]string{}, existing[:7]...)
	want = append(want, docSource...)
	want = append(want, "#End Doc Library")
	assert.Equal(t, want, testutil.ReadLines(t, staged.Stage))

	// Staging never rewrites the target in place.
	assert.Equal(t, existing, testutil.ReadLines(t, target))
}

func TestStageAppendsAtEOFWithoutTrailer(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "device.dcm")
	existing := []string{
		"EESchema-DOCLIB  Version 2.0",
		"$CMP AD797",
		"$ENDCMP",
	}
	testutil.WriteLines(t, target, existing)

	staged, err := library.NewDocMerger().Stage(context.Background(),
		docSource, target, "LM358", newLedger(t), &testutil.ScriptPrompter{})
	require.NoError(t, err)

	assert.Equal(t, append(existing, docSource...), testutil.ReadLines(t, staged.Stage))
}

func TestStageReplacesExistingRecord(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "device.dcm")
	testutil.WriteLines(t, target, docTargetWithLM358)
	prompter := &testutil.ScriptPrompter{Confirms: []bool{true}}

	staged, err := library.NewDocMerger().Stage(context.Background(),
		docSource, target, "LM358", newLedger(t), prompter)
	require.NoError(t, err)

	assert.Equal(t, types.StatusReplaced, staged.Status)
	require.Len(t, prompter.ConfirmPrompts, 1)
	assert.Contains(t, prompter.ConfirmPrompts[0], "LM358 definition already exists in")

	// Old record and its header block are gone, the unrelated record
	// and the trailer survive untouched.
	want := []string{
		"EESchema-DOCLIB  Version 2.0",
		"#",
		"# AD797",
		"#",
		"$CMP AD797",
		"D Low noise op-amp",
		"$ENDCMP",
		"#",
		"# LM358",
		"#",
		"$CMP LM358",
		"D Dual Op-Amp",
		"F http://x/lm358.pdf",
		"$ENDCMP",
		"#End Doc Library",
	}
	assert.Equal(t, want, testutil.ReadLines(t, staged.Stage))
}

func TestStageDeclinedReplacement(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "device.dcm")
	testutil.WriteLines(t, target, docTargetWithLM358)
	prompter := &testutil.ScriptPrompter{Confirms: []bool{false}}

	staged, err := library.NewDocMerger().Stage(context.Background(),
		docSource, target, "LM358", newLedger(t), prompter)
	require.NoError(t, err)

	assert.Equal(t, types.StatusSkipped, staged.Status)
	assert.Empty(t, staged.Stage)
	assert.NoFileExists(t, target+"~")
	assert.Equal(t, docTargetWithLM358, testutil.ReadLines(t, target))
}

func TestStageIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "device.dcm")
	merger := library.NewDocMerger()

	staged, err := merger.Stage(context.Background(),
		docSource, target, "LM358", newLedger(t), &testutil.ScriptPrompter{})
	require.NoError(t, err)
	require.NoError(t, os.Rename(staged.Stage, target))
	first := testutil.ReadLines(t, target)

	staged, err = merger.Stage(context.Background(), docSource, target, "LM358",
		newLedger(t), &testutil.ScriptPrompter{Confirms: []bool{true}})
	require.NoError(t, err)

	assert.Equal(t, types.StatusReplaced, staged.Status)
	assert.Equal(t, first, testutil.ReadLines(t, staged.Stage))
}

func TestStageDuplicateRecordsFailBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "device.dcm")
	testutil.WriteLines(t, target, []string{
		"EESchema-DOCLIB  Version 2.0",
		"$CMP LM358",
		"$ENDCMP",
		"$CMP LM358",
		"$ENDCMP",
		"#End Doc Library",
	})

	_, err := library.NewDocMerger().Stage(context.Background(),
		docSource, target, "LM358", newLedger(t), &testutil.ScriptPrompter{})

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMultipleDevices))
	assert.Equal(t, target, errors.GetErrorDetails(err)["file"])
	assert.NoFileExists(t, target+"~")
}

func TestSymbolMergerStage(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "device.lib")
	source := []string{
		"#",
		"# LM358",
		"#",
		"DEF LM358 U 0 40 Y Y 4 F N",
		"F2 \"SAMACSYS:FP1\" 0 40 50 H I C CNN",
		"ENDDEF",
	}

	staged, err := library.NewSymbolMerger().Stage(context.Background(),
		source, target, "LM358", newLedger(t), &testutil.ScriptPrompter{})
	require.NoError(t, err)

	assert.Equal(t, types.KindSymbol, library.NewSymbolMerger().Kind())
	want := []string{
		"EESchema-LIBRARY Version 2.4",
		"#encoding utf-8",
		"#",
		"# LM358",
		"#",
		"DEF LM358 U 0 40 Y Y 4 F N",
		"F2 \"SAMACSYS:FP1\" 0 40 50 H I C CNN",
		"ENDDEF",
		"# End Library",
	}
	assert.Equal(t, want, testutil.ReadLines(t, staged.Stage))
}

func TestStageRecordsLedgerEntries(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "libs", "device.dcm")
	led := newLedger(t)

	staged, err := library.NewDocMerger().Stage(context.Background(),
		docSource, target, "LM358", led, &testutil.ScriptPrompter{})
	require.NoError(t, err)

	kinds := map[string]ledger.Kind{}
	for _, e := range led.Entries {
		kinds[e.Path] = e.Kind
	}
	assert.Equal(t, ledger.KindMkdir, kinds[filepath.Join(dir, "libs")])
	assert.Equal(t, ledger.KindTouchFile, kinds[target])
	assert.Equal(t, ledger.KindTouchFile, kinds[staged.Stage])
}
