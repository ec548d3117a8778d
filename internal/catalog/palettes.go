// Package catalog holds the fixed lookup tables of the CV generator: the
// colour palette registry and the language/level catalog.
package catalog

import "github.com/jonathan/cv-generator/internal/types"

// palettes is the ordered registry. The first entry is the default.
var palettes = []types.Palette{
	{Name: "Blue Ocean", HeaderBg: "#E6F2FF", ContactBg: "#F0F9FF", Divider: "#93C5FD"},
	{Name: "Sky Blue", HeaderBg: "#E0F2FE", ContactBg: "#F0F9FF", Divider: "#7DD3FC"},
	{Name: "Indigo", HeaderBg: "#E0E7FF", ContactBg: "#EEF2FF", Divider: "#A5B4FC"},
	{Name: "Teal", HeaderBg: "#F0FDFA", ContactBg: "#F5FFFE", Divider: "#5EEAD4"},
	{Name: "Default Gray", HeaderBg: "#F3F4F6", ContactBg: "#F9FAFB", Divider: "#D1D5DB"},
}

// Palettes returns a copy of the registry in display order
func Palettes() []types.Palette {
	out := make([]types.Palette, len(palettes))
	copy(out, palettes)
	return out
}

// DefaultPalette returns the first registry entry
func DefaultPalette() types.Palette {
	return palettes[0]
}

// PaletteByName looks a palette up by its exact name.
// The returned value is a copy.
func PaletteByName(name string) (types.Palette, bool) {
	for _, p := range palettes {
		if p.Name == name {
			return p, true
		}
	}
	return types.Palette{}, false
}

// IsRegistered reports whether p is value-equal to a registry entry
func IsRegistered(p types.Palette) bool {
	for _, candidate := range palettes {
		if candidate == p {
			return true
		}
	}
	return false
}
