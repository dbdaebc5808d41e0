// Package library implements the two KiCad legacy library formats the
// importer merges into: the symbol format (.lib, DEF/ENDDEF records)
// and the documentation format (.dcm, $CMP/$ENDCMP records). It
// provides the record.Format predicates for each, the minimal empty
// templates, the source-record transforms, and the merge-and-stage
// operation both formats share.
package library

import (
	"regexp"
	"strings"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/record"
)

// trailerPattern matches the file-level end marker of both formats,
// e.g. "#End Doc Library" and "# End Library".
var trailerPattern = regexp.MustCompile(`(?i)^#\s*end\s`)

const (
	symbolOpenPrefix  = "DEF "
	symbolClosePrefix = "ENDDEF"
	docOpenPrefix     = "$CMP "
	docClosePrefix    = "$ENDCMP"

	footprintFieldPrefix   = "F2"
	descriptionFieldPrefix = "D"
	datasheetFieldPrefix   = "F"
)

// DocTemplate is the minimal valid empty documentation library.
var DocTemplate = []string{
	"EESchema-DOCLIB  Version 2.0",
	"#End Doc Library",
}

// SymbolTemplate is the minimal valid empty symbol library.
var SymbolTemplate = []string{
	"EESchema-LIBRARY Version 2.4",
	"#encoding utf-8",
	"# End Library",
}

// DocFormat returns the record predicates for the documentation format.
// A record opens with "$CMP <name>" where the name is the rest of the
// line, and closes with "$ENDCMP".
func DocFormat() record.Format {
	return record.Format{
		Name: "description",
		Opens: func(line string) (string, bool) {
			if !strings.HasPrefix(line, docOpenPrefix) {
				return "", false
			}
			return strings.TrimSpace(line[len(docOpenPrefix):]), true
		},
		Closes:          func(line string) bool { return strings.HasPrefix(line, docClosePrefix) },
		IsHeaderComment: isHeaderComment,
		IsComment:       isComment,
		IsTrailer:       IsTrailer,
	}
}

// SymbolFormat returns the record predicates for the symbol format. A
// record opens with "DEF <name> ..." where the name is the second
// whitespace-separated field, and closes with "ENDDEF".
func SymbolFormat() record.Format {
	return record.Format{
		Name: "symbol",
		Opens: func(line string) (string, bool) {
			if !strings.HasPrefix(line, symbolOpenPrefix) {
				return "", false
			}
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return "", false
			}
			return fields[1], true
		},
		Closes:          func(line string) bool { return strings.HasPrefix(line, symbolClosePrefix) },
		IsHeaderComment: isHeaderComment,
		IsComment:       isComment,
		IsTrailer:       IsTrailer,
	}
}

// SynthesizeDocRecord builds a minimal documentation source record for
// archives that ship no documentation file, so every import still ends
// up with a doc entry the operator can fill in.
func SynthesizeDocRecord(device string) []string {
	return []string{
		"#",
		"# " + device,
		"#",
		docOpenPrefix + device,
		descriptionFieldPrefix,
		datasheetFieldPrefix,
		docClosePrefix,
	}
}

// IsTrailer reports whether the line is a file-level end marker.
func IsTrailer(line string) bool {
	return trailerPattern.MatchString(line)
}

func isHeaderComment(line string) bool {
	return strings.TrimSpace(line) == "#"
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "#")
}
