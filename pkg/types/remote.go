package types

import (
	"fmt"
	"strings"
)

// RemoteType identifies the vendor convention an archive was downloaded
// from. Each remote owns one consolidated library set on disk, named
// after the remote: OCTOPART.lib, OCTOPART.dcm, OCTOPART.pretty and so
// on.
type RemoteType int

const (
	// RemoteOctopart is the Octopart/CommonParts layout with KiCad files
	// at the archive root
	RemoteOctopart RemoteType = iota
	// RemoteSamacsys is the Samacsys/Component Search Engine layout with
	// a per-device directory containing a KiCad subdirectory
	RemoteSamacsys
	// RemoteUltraLibrarian is the Ultra Librarian layout with a KiCAD
	// directory at the archive root
	RemoteUltraLibrarian
	// RemoteSnapeda is the SnapEDA layout with all files flat at the
	// archive root
	RemoteSnapeda
)

// AllRemoteTypes lists every known remote in detection priority order.
var AllRemoteTypes = []RemoteType{
	RemoteOctopart,
	RemoteSamacsys,
	RemoteUltraLibrarian,
	RemoteSnapeda,
}

// String returns the canonical library basename for the remote
func (r RemoteType) String() string {
	switch r {
	case RemoteOctopart:
		return "OCTOPART"
	case RemoteSamacsys:
		return "SAMACSYS"
	case RemoteUltraLibrarian:
		return "ULTRA_LIBRARIAN"
	case RemoteSnapeda:
		return "SNAPEDA"
	default:
		return "UNKNOWN"
	}
}

// ParseRemoteType parses a string into a RemoteType value
func ParseRemoteType(s string) (RemoteType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OCTOPART":
		return RemoteOctopart, nil
	case "SAMACSYS":
		return RemoteSamacsys, nil
	case "ULTRA_LIBRARIAN", "ULTRALIBRARIAN":
		return RemoteUltraLibrarian, nil
	case "SNAPEDA":
		return RemoteSnapeda, nil
	default:
		return RemoteOctopart, fmt.Errorf("unknown remote type: %s", s)
	}
}

// SymbolLibName returns the symbol library filename for the remote,
// e.g. SAMACSYS.lib
func (r RemoteType) SymbolLibName() string {
	return r.String() + ".lib"
}

// DocLibName returns the documentation library filename for the remote,
// e.g. SAMACSYS.dcm
func (r RemoteType) DocLibName() string {
	return r.String() + ".dcm"
}

// PrettyDirName returns the footprint directory name for the remote,
// e.g. SAMACSYS.pretty
func (r RemoteType) PrettyDirName() string {
	return r.String() + ".pretty"
}
