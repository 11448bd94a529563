// Package output creates termenv outputs with the colour profile shared by the
// CLI renderers and the log handler.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorEnv overrides colour detection: "never" disables colours, "always"
// forces ANSI colours.
const ColorEnv = "JMODEL_COLOR"

// ColorProfile returns the colour profile to use. NO_COLOR wins over everything.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	switch os.Getenv(ColorEnv) {
	case "never":
		return termenv.Ascii
	case "always":
		return termenv.ANSI
	}
	return termenv.EnvColorProfile()
}

// New creates a termenv.Output writing to w, or to stderr when w is nil.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	opts = append(opts,
		termenv.WithProfile(ColorProfile()),
		termenv.WithTTY(true),
	)
	return termenv.NewOutput(w, opts...)
}

// Paint renders s in the hex colour using the profile of out.
func Paint(out *termenv.Output, s, hex string) string {
	return out.String(s).Foreground(out.Color(hex)).String()
}
