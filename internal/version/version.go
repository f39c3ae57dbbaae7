package version

import "fmt"

// These variables are populated at build time via -ldflags.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// String renders the build identity shown by `huntdash version` and the
// dashboard footer.
func String() string {
	base := "huntdash " + Version
	if Commit != "" {
		base += fmt.Sprintf(" (%s)", Commit)
	}
	if Date != "" {
		base += fmt.Sprintf(" built %s", Date)
	}
	return base
}
