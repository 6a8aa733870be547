package ui

import "strings"

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                          string
	Title, Muted, Accent, Success, Error, Pending string
	BoxUnchecked, BoxChecked                      string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
	SymDone, SymPending                           string
}

var current = themes["dark"]

var themes = map[string]Theme{
	"dark": {
		Name:  "dark",
		Title: bold, Muted: fgGray, Accent: "\033[96m",
		Success: fgGreen, Error: fgRed, Pending: fgYellow,
		BoxUnchecked: "☐", BoxChecked: "☑",
		CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
		H: "─", V: "│",
		SymDone: "✔", SymPending: "❗",
	},
	"light": {
		Name:  "light",
		Title: bold + fgBlue, Muted: dim, Accent: fgBlue,
		Success: "\033[32;1m", Error: fgRed, Pending: "\033[35m",
		BoxUnchecked: "☐", BoxChecked: "☑",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		SymDone: "✔", SymPending: "❗",
	},
	"mono": {
		Name:         "mono",
		BoxUnchecked: "[ ]", BoxChecked: "[x]",
		CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
		H: "-", V: "|",
		SymDone: "x", SymPending: "!",
	},
}

// ThemeNames lists the accepted theme names.
func ThemeNames() []string { return []string{"dark", "light", "mono"} }

// ValidTheme reports whether name is a known theme.
func ValidTheme(name string) bool {
	_, ok := themes[strings.ToLower(name)]
	return ok
}

// SetTheme switches the palette; unknown names fall back to dark.
func SetTheme(name string) {
	t, ok := themes[strings.ToLower(name)]
	if !ok {
		t = themes["dark"]
	}
	current = t
}

// Expose what renderers need
func Current() Theme { return current }
