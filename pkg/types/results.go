package types

// ArtifactKind identifies one of the four artifact groups an archive
// can contribute to the local libraries.
type ArtifactKind int

const (
	// KindDescription is the documentation record merged into <remote>.dcm
	KindDescription ArtifactKind = iota
	// KindSymbol is the symbol record merged into <remote>.lib
	KindSymbol
	// KindFootprint is a footprint file copied into <remote>.pretty
	KindFootprint
	// KindModel3D is a 3D model file copied into the shared model directory
	KindModel3D
)

// String returns a human readable name for the artifact kind
func (k ArtifactKind) String() string {
	switch k {
	case KindDescription:
		return "description"
	case KindSymbol:
		return "symbol"
	case KindFootprint:
		return "footprint"
	case KindModel3D:
		return "3d model"
	default:
		return "unknown"
	}
}

// ArtifactStatus describes what happened to one artifact during an
// import run.
type ArtifactStatus int

const (
	// StatusAdded means the artifact was new and written
	StatusAdded ArtifactStatus = iota
	// StatusReplaced means an existing artifact was overwritten
	StatusReplaced
	// StatusSkipped means the operator declined to replace an existing artifact
	StatusSkipped
	// StatusMissing means the archive carried no such artifact
	StatusMissing
)

// String returns a human readable name for the artifact status
func (s ArtifactStatus) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusReplaced:
		return "replaced"
	case StatusSkipped:
		return "skipped"
	case StatusMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// ArtifactResult reports the outcome for one artifact
type ArtifactResult struct {
	Kind   ArtifactKind
	Name   string
	Target string
	Status ArtifactStatus
}

// ImportResult reports the outcome of one import run
type ImportResult struct {
	RunID     string
	Device    string
	Remote    RemoteType
	Archive   string
	Artifacts []ArtifactResult
	Zapped    bool
}

// Added returns how many artifacts were newly added
func (r *ImportResult) Added() int {
	return r.countStatus(StatusAdded)
}

// Replaced returns how many artifacts replaced existing ones
func (r *ImportResult) Replaced() int {
	return r.countStatus(StatusReplaced)
}

// Skipped returns how many artifacts the operator declined
func (r *ImportResult) Skipped() int {
	return r.countStatus(StatusSkipped)
}

func (r *ImportResult) countStatus(status ArtifactStatus) int {
	n := 0
	for _, a := range r.Artifacts {
		if a.Status == status {
			n++
		}
	}
	return n
}
