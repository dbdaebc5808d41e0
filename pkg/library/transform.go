package library

import (
	"context"
	"strings"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/record"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/types"
)

// Rename returns a copy of the source record lines with the component
// name on the opening line replaced by the canonical device identifier.
// Vendors decorate names with suffixes; the local libraries key records
// by the plain device name.
func Rename(lines []string, format record.Format, device string) []string {
	out := copyLines(lines)
	for i, line := range out {
		if name, ok := format.Opens(line); ok {
			if name != device {
				out[i] = strings.Replace(line, name, device, 1)
			}
			break
		}
	}
	return out
}

// QualifyFootprint returns a copy of the symbol record lines with every
// footprint reference field rewritten to the library-qualified
// <remote>:<footprint> form. Quoting around the value is preserved.
func QualifyFootprint(lines []string, remote types.RemoteType) []string {
	format := SymbolFormat()
	out := copyLines(lines)
	inRecord := false
	for i, line := range out {
		if !inRecord {
			if _, ok := format.Opens(line); ok {
				inRecord = true
			}
			continue
		}
		if format.Closes(line) {
			break
		}
		if !strings.HasPrefix(line, footprintFieldPrefix) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		footprint := strings.Trim(fields[1], "\"")
		if footprint == "" {
			continue
		}
		out[i] = strings.Replace(line, footprint, remote.String()+":"+footprint, 1)
	}
	return out
}

// EditDocFields returns a copy of the documentation record lines with
// the description field offered to the operator for editing and the
// datasheet field normalized. Empty answers keep the current value.
func EditDocFields(ctx context.Context, lines []string, prompter types.Prompter) ([]string, error) {
	format := DocFormat()
	out := copyLines(lines)
	inRecord := false
	for i, line := range out {
		if !inRecord {
			if _, ok := format.Opens(line); ok {
				inRecord = true
			}
			continue
		}
		if format.Closes(line) {
			break
		}
		rest := ""
		if len(line) >= 2 {
			rest = strings.TrimSpace(line[2:])
		}
		switch {
		case strings.HasPrefix(line, descriptionFieldPrefix):
			description, err := prompter.Input(ctx, "Device description", rest)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrPromptFailed, "description prompt failed")
			}
			if description != "" {
				out[i] = descriptionFieldPrefix + " " + description
			}
		case strings.HasPrefix(line, datasheetFieldPrefix):
			if rest != "" {
				out[i] = datasheetFieldPrefix + " " + rest
			}
		}
	}
	return out, nil
}

func copyLines(lines []string) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}
