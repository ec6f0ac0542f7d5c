// Package scheme holds the static table of named color palettes.
//
// Each [Scheme] has eight colors: palette[0] is the background and
// palette[1..7] are the line colors layers draw from. Schemes are looked up
// by a normalized key (see [NormalizeKey]), so "Catppuccin Mocha",
// "catppuccin_mocha" and "CATPPUCCIN-MOCHA" all resolve to the same entry.
//
// The first entry is "Default", whose colors match the generator's built-in
// palette.
package scheme

import "strings"

// Random is the reserved scheme name that picks a table entry per slug.
const Random = "random"

// Scheme is a named palette.
type Scheme struct {
	Name    string
	Palette [8]string
}

// Background returns palette[0].
func (s Scheme) Background() string { return s.Palette[0] }

// Foreground returns the seven line colors.
func (s Scheme) Foreground() []string {
	fg := make([]string, 7)
	copy(fg, s.Palette[1:])
	return fg
}

// Key returns the normalized lookup key of the scheme.
func (s Scheme) Key() string { return NormalizeKey(s.Name) }

var schemes = [...]Scheme{
	{"Default", [8]string{"#2d2d2d", "#b5524a", "#5ea85e", "#c8a64e", "#737d8e", "#a87a96", "#5a8a8e", "#d5d5d5"}},
	{"Dracula", [8]string{"#282a36", "#ff5555", "#50fa7b", "#f1fa8c", "#bd93f9", "#ff79c6", "#8be9fd", "#f8f8f2"}},
	{"Nord", [8]string{"#2e3440", "#bf616a", "#a3be8c", "#ebcb8b", "#81a1c1", "#b48ead", "#88c0d0", "#eceff4"}},
	{"Gruvbox Dark", [8]string{"#282828", "#fb4934", "#b8bb26", "#fabd2f", "#83a598", "#d3869b", "#8ec07c", "#ebdbb2"}},
	{"Gruvbox Light", [8]string{"#fbf1c7", "#9d0006", "#79740e", "#b57614", "#076678", "#8f3f71", "#427b58", "#3c3836"}},
	{"Solarized Dark", [8]string{"#002b36", "#dc322f", "#859900", "#b58900", "#268bd2", "#d33682", "#2aa198", "#eee8d5"}},
	{"Solarized Light", [8]string{"#fdf6e3", "#dc322f", "#859900", "#b58900", "#268bd2", "#d33682", "#2aa198", "#073642"}},
	{"Monokai", [8]string{"#272822", "#f92672", "#a6e22e", "#f4bf75", "#66d9ef", "#ae81ff", "#a1efe4", "#f8f8f2"}},
	{"One Dark", [8]string{"#282c34", "#e06c75", "#98c379", "#e5c07b", "#61afef", "#c678dd", "#56b6c2", "#abb2bf"}},
	{"One Light", [8]string{"#fafafa", "#e45649", "#50a14f", "#c18401", "#4078f2", "#a626a4", "#0184bc", "#383a42"}},
	{"Catppuccin Mocha", [8]string{"#1e1e2e", "#f38ba8", "#a6e3a1", "#f9e2af", "#89b4fa", "#f5c2e7", "#94e2d5", "#cdd6f4"}},
	{"Catppuccin Macchiato", [8]string{"#24273a", "#ed8796", "#a6da95", "#eed49f", "#8aadf4", "#f5bde6", "#8bd5ca", "#cad3f5"}},
	{"Catppuccin Frappe", [8]string{"#303446", "#e78284", "#a6d189", "#e5c890", "#8caaee", "#f4b8e4", "#81c8be", "#c6d0f5"}},
	{"Catppuccin Latte", [8]string{"#eff1f5", "#d20f39", "#40a02b", "#df8e1d", "#1e66f5", "#ea76cb", "#179299", "#4c4f69"}},
	{"TokyoNight", [8]string{"#1a1b26", "#f7768e", "#9ece6a", "#e0af68", "#7aa2f7", "#bb9af7", "#7dcfff", "#c0caf5"}},
	{"TokyoNight Storm", [8]string{"#24283b", "#f7768e", "#9ece6a", "#e0af68", "#7aa2f7", "#bb9af7", "#7dcfff", "#a9b1d6"}},
	{"TokyoNight Day", [8]string{"#e1e2e7", "#f52a65", "#587539", "#8c6c3e", "#2e7de9", "#9854f1", "#007197", "#3760bf"}},
	{"Rose Pine", [8]string{"#191724", "#eb6f92", "#31748f", "#f6c177", "#9ccfd8", "#c4a7e7", "#ebbcba", "#e0def4"}},
	{"Rose Pine Moon", [8]string{"#232136", "#eb6f92", "#3e8fb0", "#f6c177", "#9ccfd8", "#c4a7e7", "#ea9a97", "#e0def4"}},
	{"Rose Pine Dawn", [8]string{"#faf4ed", "#b4637a", "#286983", "#ea9d34", "#56949f", "#907aa9", "#d7827e", "#575279"}},
	{"Everforest", [8]string{"#2d353b", "#e67e80", "#a7c080", "#dbbc7f", "#7fbbb3", "#d699b6", "#83c092", "#d3c6aa"}},
	{"Kanagawa", [8]string{"#1f1f28", "#c34043", "#76946a", "#c0a36e", "#7e9cd8", "#957fb8", "#6a9589", "#dcd7ba"}},
	{"Ayu Dark", [8]string{"#0a0e14", "#f07178", "#c2d94c", "#ffb454", "#59c2ff", "#d2a6ff", "#95e6cb", "#b3b1ad"}},
	{"Ayu Mirage", [8]string{"#1f2430", "#f28779", "#d5ff80", "#ffd173", "#73d0ff", "#dfbfff", "#95e6cb", "#cccac2"}},
	{"Ayu Light", [8]string{"#fafafa", "#f07171", "#86b300", "#f2ae49", "#399ee6", "#a37acc", "#4cbf99", "#5c6166"}},
	{"Material", [8]string{"#263238", "#f07178", "#c3e88d", "#ffcb6b", "#82aaff", "#c792ea", "#89ddff", "#eeffff"}},
	{"Palenight", [8]string{"#292d3e", "#ff5370", "#c3e88d", "#ffcb6b", "#82aaff", "#c792ea", "#89ddff", "#a6accd"}},
	{"Night Owl", [8]string{"#011627", "#ef5350", "#22da6e", "#addb67", "#82aaff", "#c792ea", "#21c7a8", "#d6deeb"}},
	{"Cobalt2", [8]string{"#193549", "#ff628c", "#3ad900", "#ffc600", "#0088ff", "#fb94ff", "#80fcff", "#ffffff"}},
	{"Oceanic Next", [8]string{"#1b2b34", "#ec5f67", "#99c794", "#fac863", "#6699cc", "#c594c5", "#5fb3b3", "#d8dee9"}},
	{"Tomorrow Night", [8]string{"#1d1f21", "#cc6666", "#b5bd68", "#f0c674", "#81a2be", "#b294bb", "#8abeb7", "#c5c8c6"}},
	{"Zenburn", [8]string{"#3f3f3f", "#cc9393", "#7f9f7f", "#f0dfaf", "#8cd0d3", "#dc8cc3", "#93e0e3", "#dcdccc"}},
	{"Horizon", [8]string{"#1c1e26", "#e95678", "#29d398", "#fab795", "#26bbd9", "#ee64ac", "#59e1e3", "#d5d8da"}},
	{"Synthwave 84", [8]string{"#262335", "#fe4450", "#72f1b8", "#fede5d", "#03edf9", "#ff7edb", "#36f9f6", "#ffffff"}},
	{"Sumi-e", [8]string{"#f2efe6", "#1c1c1c", "#3a3a3a", "#5b5b5b", "#8c1c13", "#6b6356", "#2f4f4f", "#9e9e9e"}},
	{"Indigo Washi", [8]string{"#1b2a41", "#e8dcc4", "#c9a66b", "#a3b18a", "#8d99ae", "#d98f6b", "#7aa6a1", "#f4f1ea"}},
	{"Hinoki", [8]string{"#e9dcc3", "#7a4b2a", "#a0522d", "#5c6b3c", "#3e5c76", "#8b6f47", "#4a3728", "#b08d57"}},
}

var byKey = func() map[string]int {
	m := make(map[string]int, len(schemes))
	for i, s := range schemes {
		m[NormalizeKey(s.Name)] = i
	}
	return m
}()

// NormalizeKey lowercases name and maps spaces and underscores to hyphens.
func NormalizeKey(name string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '_' {
			return '-'
		}
		return r
	}, strings.ToLower(name))
}

// All returns a copy of the scheme table in order.
func All() []Scheme {
	out := make([]Scheme, len(schemes))
	copy(out, schemes[:])
	return out
}

// Len is the number of schemes in the table.
func Len() int { return len(schemes) }

// At returns the scheme at table position i.
func At(i int) Scheme { return schemes[i] }

// Default returns the first scheme.
func Default() Scheme { return schemes[0] }

// Lookup resolves a scheme by name after normalization.
func Lookup(name string) (Scheme, bool) {
	i, ok := byKey[NormalizeKey(name)]
	if !ok {
		return Scheme{}, false
	}
	return schemes[i], true
}

// Names returns display names in table order.
func Names() []string {
	names := make([]string, len(schemes))
	for i, s := range schemes {
		names[i] = s.Name
	}
	return names
}

// Keys returns normalized keys in table order, with Random appended.
func Keys() []string {
	keys := make([]string, 0, len(schemes)+1)
	for _, s := range schemes {
		keys = append(keys, s.Key())
	}
	return append(keys, Random)
}

// Valid reports whether name resolves to a scheme or is Random.
func Valid(name string) bool {
	if NormalizeKey(name) == Random {
		return true
	}
	_, ok := Lookup(name)
	return ok
}
