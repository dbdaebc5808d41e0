package footprint_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/archive"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/footprint"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/ledger"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/testutil"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/types"
)

const moduleText = "(module LM358\n  (pad 1 smd rect)\n)\n"

func newStager(t *testing.T, entries map[string]string,
	prompter types.Prompter) (*footprint.Stager, *ledger.Ledger) {

	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "LM358.zip")
	testutil.MakeZip(t, zipPath, entries)

	a, err := archive.Open(zipPath)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	layout, err := a.DetectLayout()
	require.NoError(t, err)

	led := ledger.New(t.TempDir())
	return footprint.NewStager(a, layout, led, prompter), led
}

func TestStageFootprintsVerbatim(t *testing.T) {
	s, _ := newStager(t, map[string]string{
		"LM358.lib":       "DEF LM358 U\nENDDEF\n",
		"LM358.kicad_mod": moduleText,
	}, &testutil.ScriptPrompter{})
	prettyDir := filepath.Join(t.TempDir(), "SNAPEDA.pretty")

	staged, err := s.StageFootprints(context.Background(), prettyDir, "${MODELS}", "")
	require.NoError(t, err)
	require.Len(t, staged, 1)

	assert.Equal(t, "LM358.kicad_mod", staged[0].Name)
	assert.Equal(t, types.StatusAdded, staged[0].Status)
	assert.Equal(t, filepath.Join(prettyDir, "LM358.kicad_mod"), staged[0].Target)
	assert.Equal(t, staged[0].Target+"~", staged[0].Stage)

	want := []string{"(module LM358", "  (pad 1 smd rect)", ")"}
	assert.Equal(t, want, testutil.ReadLines(t, staged[0].Stage))
	assert.NoFileExists(t, staged[0].Target, "promotion is not staging's job")
}

func TestStageFootprintsWithModelBlock(t *testing.T) {
	s, _ := newStager(t, map[string]string{
		"LM358.lib":       "DEF LM358 U\nENDDEF\n",
		"LM358.kicad_mod": moduleText,
	}, &testutil.ScriptPrompter{})
	prettyDir := filepath.Join(t.TempDir(), "SNAPEDA.pretty")

	staged, err := s.StageFootprints(context.Background(), prettyDir,
		"${KICAD_IMPORT_3DMODEL_DIR}", "LM358.step")
	require.NoError(t, err)
	require.Len(t, staged, 1)

	want := []string{
		"(module LM358",
		"  (pad 1 smd rect)",
		"  (model \"${KICAD_IMPORT_3DMODEL_DIR}/LM358.step\"",
		"    (offset (xyz 0 0 0))",
		"    (scale (xyz 1 1 1))",
		"    (rotate (xyz 0 0 0))",
		"  )",
		")",
	}
	assert.Equal(t, want, testutil.ReadLines(t, staged[0].Stage))
}

func TestStageFootprintsOverwrite(t *testing.T) {
	prompter := &testutil.ScriptPrompter{Confirms: []bool{true}}
	s, _ := newStager(t, map[string]string{
		"LM358.lib":       "DEF LM358 U\nENDDEF\n",
		"LM358.kicad_mod": moduleText,
	}, prompter)
	prettyDir := filepath.Join(t.TempDir(), "SNAPEDA.pretty")
	existing := []string{"(module LM358 stale)"}
	testutil.WriteLines(t, filepath.Join(prettyDir, "LM358.kicad_mod"), existing)

	staged, err := s.StageFootprints(context.Background(), prettyDir, "${MODELS}", "")
	require.NoError(t, err)
	require.Len(t, staged, 1)

	assert.Equal(t, types.StatusReplaced, staged[0].Status)
	require.Len(t, prompter.ConfirmPrompts, 1)
	assert.Contains(t, prompter.ConfirmPrompts[0], "Footprint already exists at")

	// The target keeps its old content until promotion.
	assert.Equal(t, existing, testutil.ReadLines(t, staged[0].Target))
}

func TestStageFootprintsOverwriteDeclined(t *testing.T) {
	s, _ := newStager(t, map[string]string{
		"LM358.lib":           "DEF LM358 U\nENDDEF\n",
		"LM358.kicad_mod":     moduleText,
		"LM358-alt.kicad_mod": "(module LM358-alt\n)\n",
	}, &testutil.ScriptPrompter{Confirms: []bool{false}})
	prettyDir := filepath.Join(t.TempDir(), "SNAPEDA.pretty")
	existing := []string{"(module LM358 stale)"}
	testutil.WriteLines(t, filepath.Join(prettyDir, "LM358.kicad_mod"), existing)

	staged, err := s.StageFootprints(context.Background(), prettyDir, "${MODELS}", "")
	require.NoError(t, err)
	require.Len(t, staged, 2)

	byName := map[string]footprint.StagedFootprint{}
	for _, f := range staged {
		byName[f.Name] = f
	}

	declined := byName["LM358.kicad_mod"]
	assert.Equal(t, types.StatusSkipped, declined.Status)
	assert.Empty(t, declined.Stage)
	assert.NoFileExists(t, declined.Target+"~")
	assert.Equal(t, existing, testutil.ReadLines(t, declined.Target))

	// Declining one footprint does not abandon the rest.
	other := byName["LM358-alt.kicad_mod"]
	assert.Equal(t, types.StatusAdded, other.Status)
	assert.FileExists(t, other.Stage)
}

func TestStageFootprintsRecordsLedger(t *testing.T) {
	s, led := newStager(t, map[string]string{
		"LM358.lib":       "DEF LM358 U\nENDDEF\n",
		"LM358.kicad_mod": moduleText,
	}, &testutil.ScriptPrompter{})
	prettyDir := filepath.Join(t.TempDir(), "SNAPEDA.pretty")

	staged, err := s.StageFootprints(context.Background(), prettyDir, "${MODELS}", "")
	require.NoError(t, err)

	kinds := map[string]ledger.Kind{}
	for _, e := range led.Entries {
		kinds[e.Path] = e.Kind
	}
	assert.Equal(t, ledger.KindMkdir, kinds[prettyDir])
	assert.Equal(t, ledger.KindTouchFile, kinds[staged[0].Stage])
}

func TestStageFootprintsNoneInArchive(t *testing.T) {
	s, led := newStager(t, map[string]string{
		"LM358.lib": "DEF LM358 U\nENDDEF\n",
	}, &testutil.ScriptPrompter{})
	prettyDir := filepath.Join(t.TempDir(), "SNAPEDA.pretty")

	staged, err := s.StageFootprints(context.Background(), prettyDir, "${MODELS}", "")
	require.NoError(t, err)

	assert.Empty(t, staged)
	assert.NoDirExists(t, prettyDir, "no footprints, no side effects")
	assert.True(t, led.Empty())
}
