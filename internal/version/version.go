package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/ipChrisLee/drm/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/ipChrisLee/drm/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/ipChrisLee/drm/internal/version.Date={{.Date}}
)
