package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/KJ7LNW/Import-LIB-KiCad-Plugin/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/KJ7LNW/Import-LIB-KiCad-Plugin/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/KJ7LNW/Import-LIB-KiCad-Plugin/internal/version.Date={{.Date}}
)
