// Package record implements the shared line-range scan both library
// formats are built on. A library file is an ordered sequence of lines;
// a record is the contiguous block belonging to one component, opened
// by a format-specific marker carrying the component name and closed by
// a format-specific closing marker. A contiguous run of blank comment
// lines immediately preceding the opener is folded into the record so
// replacing it never leaves an orphaned header behind.
//
// The scans are plain functions over line slices. They never touch the
// filesystem and never mutate their input.
package record

// Format bundles the line predicates that distinguish one library
// format from the other. Concrete formats live in pkg/library.
type Format struct {
	// Name identifies the format in log output ("symbol", "description")
	Name string

	// Opens reports whether the line opens a record, and if so extracts
	// the component name embedded in it
	Opens func(line string) (name string, ok bool)

	// Closes reports whether the line closes an open record
	Closes func(line string) bool

	// IsHeaderComment reports whether the line is a blank structural
	// comment, the kind that starts a record's header block
	IsHeaderComment func(line string) bool

	// IsComment reports whether the line is any comment. Comment lines
	// extend a header block already started; any other line breaks it.
	IsComment func(line string) bool

	// IsTrailer reports whether the line is the file-level end marker
	IsTrailer func(line string) bool
}

// Record is a named contiguous block of lines within a library file.
// End is exclusive. HeaderStart is the index of the first line of the
// header block folded into the record, or -1 when the record has none.
type Record struct {
	Name        string
	Start       int
	End         int
	HeaderStart int
}

// ReplaceStart returns the first line index belonging to the record for
// replacement purposes, folding in the header block when present.
func (r Record) ReplaceStart() int {
	if r.HeaderStart >= 0 {
		return r.HeaderStart
	}
	return r.Start
}

// Extract returns a copy of the record's lines, header block included.
func (r Record) Extract(lines []string) []string {
	out := make([]string, r.End-r.ReplaceStart())
	copy(out, lines[r.ReplaceStart():r.End])
	return out
}
