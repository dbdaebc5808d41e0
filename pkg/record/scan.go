package record

import (
	"strings"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
)

// Find scans source lines for the record belonging to device and
// returns it with its header block folded in. The first record opener
// must carry a name that literally starts with the device identifier;
// anything else means the archive holds a different component than its
// filename promised. A second opener before the record closes, or a
// record that never closes, is malformed input.
func Find(lines []string, format Format, device string) (Record, error) {
	rec := Record{Start: -1, End: -1, HeaderStart: -1}

	for i, line := range lines {
		if rec.Start < 0 {
			if name, ok := format.Opens(line); ok {
				if !strings.HasPrefix(name, device) {
					return Record{}, errors.Newf(errors.ErrUnexpectedDevice,
						"record %q does not belong to device %q", name, device)
				}
				rec.Name = name
				rec.Start = i
				continue
			}
			if format.IsHeaderComment(line) {
				if rec.HeaderStart < 0 {
					rec.HeaderStart = i
				}
				continue
			}
			if format.IsComment(line) {
				continue
			}
			// header must immediately precede the record
			rec.HeaderStart = -1
			continue
		}

		if _, ok := format.Opens(line); ok {
			return Record{}, errors.Newf(errors.ErrMultipleDevices,
				"second record opens before %q closes", rec.Name)
		}
		if format.Closes(line) {
			rec.End = i + 1
			return rec, nil
		}
	}

	if rec.Start >= 0 {
		return Record{}, errors.Newf(errors.ErrRecordNotFound,
			"record %q has no closing marker", rec.Name)
	}
	return Record{}, errors.Newf(errors.ErrRecordNotFound,
		"no record found for device %q", device)
}

// Location is the result of scanning a target library file: the
// existing record whose name prefix-matches the device, if any, and the
// index of the file trailer, -1 when the file has none.
type Location struct {
	Match   *Record
	Trailer int
}

// Locate scans a target library file for an existing record of the
// given device and for the insertion point. Records belonging to other
// devices flow past untouched. Finding a second prefix-matching record,
// or any opener while the matched record is still open, violates the
// one-record-per-device invariant and aborts the import.
func Locate(lines []string, format Format, device string) (Location, error) {
	loc := Location{Trailer: -1}
	headerStart := -1
	var open *Record

	for i, line := range lines {
		if open != nil {
			if _, ok := format.Opens(line); ok {
				return Location{}, errors.Newf(errors.ErrMultipleDevices,
					"record opens before %q closes", open.Name)
			}
			if format.Closes(line) {
				open.End = i + 1
				loc.Match = open
				open = nil
			}
			continue
		}

		if name, ok := format.Opens(line); ok {
			if strings.HasPrefix(name, device) {
				if loc.Match != nil {
					return Location{}, errors.Newf(errors.ErrMultipleDevices,
						"device %q appears more than once", device)
				}
				open = &Record{Name: name, Start: i, End: -1, HeaderStart: headerStart}
			}
			headerStart = -1
			continue
		}
		if format.IsTrailer(line) {
			if loc.Trailer < 0 {
				loc.Trailer = i
			}
			headerStart = -1
			continue
		}
		if format.IsHeaderComment(line) {
			if headerStart < 0 {
				headerStart = i
			}
			continue
		}
		if format.IsComment(line) {
			continue
		}
		headerStart = -1
	}

	if open != nil {
		return Location{}, errors.Newf(errors.ErrRecordNotFound,
			"record %q has no closing marker", open.Name)
	}
	return loc, nil
}
