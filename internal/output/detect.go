package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// SupportsColor reports whether w is a terminal that accepts ANSI colors.
// NO_COLOR and CLICOLOR_FORCE are honored through termenv.
func SupportsColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return termenv.NewOutput(w).EnvColorProfile() != termenv.Ascii
}

// ResolveMode turns ModeAuto into ModeStyled or ModePlain for w.
func ResolveMode(mode Mode, w io.Writer) Mode {
	if mode != ModeAuto {
		return mode
	}
	if SupportsColor(w) {
		return ModeStyled
	}
	return ModePlain
}
