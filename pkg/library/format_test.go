package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/record"
)

func TestDocFormatPredicates(t *testing.T) {
	f := DocFormat()

	name, ok := f.Opens("$CMP LM358")
	assert.True(t, ok)
	assert.Equal(t, "LM358", name)

	name, ok = f.Opens("$CMP  LM358_Texas ")
	assert.True(t, ok)
	assert.Equal(t, "LM358_Texas", name)

	_, ok = f.Opens("$ENDCMP")
	assert.False(t, ok)
	_, ok = f.Opens("DEF LM358 U 0 40 Y Y 4 F N")
	assert.False(t, ok)

	assert.True(t, f.Closes("$ENDCMP"))
	assert.False(t, f.Closes("$CMP LM358"))
}

func TestSymbolFormatPredicates(t *testing.T) {
	f := SymbolFormat()

	name, ok := f.Opens("DEF LM358 U 0 40 Y Y 4 F N")
	assert.True(t, ok)
	assert.Equal(t, "LM358", name)

	_, ok = f.Opens("DEF")
	assert.False(t, ok)
	_, ok = f.Opens("ENDDEF")
	assert.False(t, ok)

	assert.True(t, f.Closes("ENDDEF"))
	assert.False(t, f.Closes("DEF LM358 U 0 40 Y Y 4 F N"))
}

func TestIsTrailer(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"#End Doc Library", true},
		{"# End Library", true},
		{"#  end of library", true},
		{"# END LIB", true},
		{"#end", false},
		{"#encoding utf-8", false},
		{"# Endless", false},
		{"ENDDEF", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTrailer(tt.line))
		})
	}
}

func TestHeaderCommentPredicates(t *testing.T) {
	f := DocFormat()

	assert.True(t, f.IsHeaderComment("#"))
	assert.True(t, f.IsHeaderComment("#   "))
	assert.False(t, f.IsHeaderComment("# LM358"))

	assert.True(t, f.IsComment("# LM358"))
	assert.True(t, f.IsComment("#encoding utf-8"))
	assert.False(t, f.IsComment("$CMP LM358"))
}

func TestTemplates(t *testing.T) {
	assert.Equal(t, []string{
		"EESchema-DOCLIB  Version 2.0",
		"#End Doc Library",
	}, DocTemplate)

	assert.Equal(t, []string{
		"EESchema-LIBRARY Version 2.4",
		"#encoding utf-8",
		"# End Library",
	}, SymbolTemplate)

	// each template's last line must scan as the trailer
	assert.True(t, IsTrailer(DocTemplate[len(DocTemplate)-1]))
	assert.True(t, IsTrailer(SymbolTemplate[len(SymbolTemplate)-1]))
}

func TestSynthesizeDocRecord(t *testing.T) {
	lines := SynthesizeDocRecord("LM358")
	assert.Equal(t, []string{
		"#",
		"# LM358",
		"#",
		"$CMP LM358",
		"D",
		"F",
		"$ENDCMP",
	}, lines)

	// the synthesized record must be findable like any archive source
	rec, err := record.Find(lines, DocFormat(), "LM358")
	require.NoError(t, err)
	assert.Equal(t, "LM358", rec.Name)
	assert.Equal(t, 0, rec.HeaderStart)
	assert.Equal(t, len(lines), rec.End)
}
