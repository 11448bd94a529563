// Package style holds the colours and icons shared by the CLI renderers and
// the log handler.
package style

import "github.com/charmbracelet/lipgloss"

// Colours.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Teal   = lipgloss.Color("#0E9384")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
)

// KindColor returns the colour used to print classpath entries of kind, given
// by its classpath file name (src, lib, con, var, prj).
func KindColor(kind string) lipgloss.Color {
	switch kind {
	case "src":
		return Green
	case "lib":
		return Iris
	case "con", "var":
		return Teal
	case "prj":
		return Yellow
	default:
		return Slate
	}
}
