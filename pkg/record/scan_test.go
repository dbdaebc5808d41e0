package record_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/record"
)

var trailerPattern = regexp.MustCompile(`(?i)^#\s*end\s`)

// testFormat mirrors the description format shape without depending on
// pkg/library, keeping these tests about the scan machinery itself.
func testFormat() record.Format {
	return record.Format{
		Name: "description",
		Opens: func(line string) (string, bool) {
			if !strings.HasPrefix(line, "$CMP ") {
				return "", false
			}
			return strings.TrimSpace(line[5:]), true
		},
		Closes:          func(line string) bool { return strings.HasPrefix(line, "$ENDCMP") },
		IsHeaderComment: func(line string) bool { return strings.TrimSpace(line) == "#" },
		IsComment:       func(line string) bool { return strings.HasPrefix(line, "#") },
		IsTrailer:       func(line string) bool { return trailerPattern.MatchString(line) },
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name        string
		lines       []string
		device      string
		want        record.Record
		wantErrCode errors.ErrorCode
	}{
		{
			name: "record with header block",
			lines: []string{
				"#",
				"# LM358",
				"#",
				"$CMP LM358",
				"D Dual Op-Amp",
				"F http://x/lm358.pdf",
				"$ENDCMP",
			},
			device: "LM358",
			want:   record.Record{Name: "LM358", Start: 3, End: 7, HeaderStart: 0},
		},
		{
			name: "record without header",
			lines: []string{
				"EESchema-DOCLIB  Version 2.0",
				"$CMP LM358",
				"D Dual Op-Amp",
				"$ENDCMP",
			},
			device: "LM358",
			want:   record.Record{Name: "LM358", Start: 1, End: 4, HeaderStart: -1},
		},
		{
			name: "non-comment line breaks header block",
			lines: []string{
				"#",
				"stray content",
				"$CMP LM358",
				"$ENDCMP",
			},
			device: "LM358",
			want:   record.Record{Name: "LM358", Start: 2, End: 4, HeaderStart: -1},
		},
		{
			name: "longer name still prefix matches",
			lines: []string{
				"$CMP LM358_Texas",
				"$ENDCMP",
			},
			device: "LM358",
			want:   record.Record{Name: "LM358_Texas", Start: 0, End: 2, HeaderStart: -1},
		},
		{
			name: "wrong device",
			lines: []string{
				"$CMP AD797",
				"$ENDCMP",
			},
			device:      "LM358",
			wantErrCode: errors.ErrUnexpectedDevice,
		},
		{
			name: "second opener before close",
			lines: []string{
				"$CMP LM358",
				"$CMP LM358",
				"$ENDCMP",
			},
			device:      "LM358",
			wantErrCode: errors.ErrMultipleDevices,
		},
		{
			name: "record never closes",
			lines: []string{
				"$CMP LM358",
				"D Dual Op-Amp",
			},
			device:      "LM358",
			wantErrCode: errors.ErrRecordNotFound,
		},
		{
			name: "no record at all",
			lines: []string{
				"#",
				"# nothing here",
			},
			device:      "LM358",
			wantErrCode: errors.ErrRecordNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := record.Find(tt.lines, testFormat(), tt.device)
			if tt.wantErrCode != "" {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, tt.wantErrCode),
					"want code %s, got %v", tt.wantErrCode, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindHeaderFolding(t *testing.T) {
	lines := []string{
		"#",
		"# LM358",
		"#",
		"$CMP LM358",
		"D Dual Op-Amp",
		"$ENDCMP",
	}

	rec, err := record.Find(lines, testFormat(), "LM358")
	require.NoError(t, err)

	assert.Equal(t, 0, rec.ReplaceStart())
	assert.Equal(t, lines, rec.Extract(lines))
}

func TestExtractIsACopy(t *testing.T) {
	lines := []string{"$CMP LM358", "D x", "$ENDCMP"}
	rec, err := record.Find(lines, testFormat(), "LM358")
	require.NoError(t, err)

	extracted := rec.Extract(lines)
	extracted[1] = "D changed"
	assert.Equal(t, "D x", lines[1])
}

func TestLocate(t *testing.T) {
	target := []string{
		"EESchema-DOCLIB  Version 2.0", // 0
		"#",                            // 1
		"# AD797",                      // 2
		"#",                            // 3
		"$CMP AD797",                   // 4
		"D Precision Op-Amp",           // 5
		"$ENDCMP",                      // 6
		"#",                            // 7
		"# LM358",                      // 8
		"#",                            // 9
		"$CMP LM358",                   // 10
		"D Dual Op-Amp",                // 11
		"$ENDCMP",                      // 12
		"#End Doc Library",             // 13
	}

	t.Run("existing record found with header", func(t *testing.T) {
		loc, err := record.Locate(target, testFormat(), "LM358")
		require.NoError(t, err)
		require.NotNil(t, loc.Match)
		assert.Equal(t, "LM358", loc.Match.Name)
		assert.Equal(t, 10, loc.Match.Start)
		assert.Equal(t, 13, loc.Match.End)
		assert.Equal(t, 7, loc.Match.HeaderStart)
		assert.Equal(t, 13, loc.Trailer)
	})

	t.Run("absent record still finds trailer", func(t *testing.T) {
		loc, err := record.Locate(target, testFormat(), "NE555")
		require.NoError(t, err)
		assert.Nil(t, loc.Match)
		assert.Equal(t, 13, loc.Trailer)
	})

	t.Run("prefix match counts as existing", func(t *testing.T) {
		loc, err := record.Locate(target, testFormat(), "AD797")
		require.NoError(t, err)
		require.NotNil(t, loc.Match)
		assert.Equal(t, "AD797", loc.Match.Name)
	})

	t.Run("empty template has no match", func(t *testing.T) {
		loc, err := record.Locate([]string{
			"EESchema-DOCLIB  Version 2.0",
			"#End Doc Library",
		}, testFormat(), "LM358")
		require.NoError(t, err)
		assert.Nil(t, loc.Match)
		assert.Equal(t, 1, loc.Trailer)
	})

	t.Run("missing trailer reported as absent", func(t *testing.T) {
		loc, err := record.Locate([]string{
			"$CMP AD797",
			"$ENDCMP",
		}, testFormat(), "LM358")
		require.NoError(t, err)
		assert.Nil(t, loc.Match)
		assert.Equal(t, -1, loc.Trailer)
	})
}

func TestLocateErrors(t *testing.T) {
	tests := []struct {
		name        string
		lines       []string
		device      string
		wantErrCode errors.ErrorCode
	}{
		{
			name: "same device twice",
			lines: []string{
				"$CMP LM358",
				"$ENDCMP",
				"$CMP LM358",
				"$ENDCMP",
				"#End Doc Library",
			},
			device:      "LM358",
			wantErrCode: errors.ErrMultipleDevices,
		},
		{
			name: "two prefix matching records",
			lines: []string{
				"$CMP LM358",
				"$ENDCMP",
				"$CMP LM358N",
				"$ENDCMP",
				"#End Doc Library",
			},
			device:      "LM358",
			wantErrCode: errors.ErrMultipleDevices,
		},
		{
			name: "opener inside open record",
			lines: []string{
				"$CMP LM358",
				"$CMP AD797",
				"$ENDCMP",
				"#End Doc Library",
			},
			device:      "LM358",
			wantErrCode: errors.ErrMultipleDevices,
		},
		{
			name: "matched record never closes",
			lines: []string{
				"$CMP LM358",
				"D Dual Op-Amp",
			},
			device:      "LM358",
			wantErrCode: errors.ErrRecordNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := record.Locate(tt.lines, testFormat(), tt.device)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.wantErrCode),
				"want code %s, got %v", tt.wantErrCode, err)
		})
	}
}
