// version provides build information for the trackapi binaries.
//
// The variables are overridden at build time with -ldflags, e.g:
//
//	go build -ldflags "-X github.com/mahaseva-integrations/trackapi/internal/version.version=v1.0.0"
package version

var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

// Info describes the running build.
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
}

// Get returns the build information compiled into the binary.
func Get() Info {
	return Info{
		Version:   version,
		BuildDate: buildDate,
		GitCommit: gitCommit,
	}
}
