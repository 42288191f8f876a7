package graph

import (
	"fmt"
	"sort"
	"strings"
)

// Palette provides color schemes for the node network
type Palette struct {
	Name        string
	NodeColors  []string
	EdgeOpacity float64
	Background  string
}

// DefaultPalette returns a default color palette with vibrant colors
func DefaultPalette() *Palette {
	return &Palette{
		Name: "default",
		NodeColors: []string{
			"#4285F4", // Blue
			"#EA4335", // Red
			"#FBBC05", // Yellow
			"#34A853", // Green
			"#673AB7", // Purple
			"#00BCD4", // Cyan
			"#FF5722", // Deep Orange
		},
		EdgeOpacity: 0.6,
		Background:  "#101018",
	}
}

// GlowPalette returns the soft emissive palette used by the sphere scenes
func GlowPalette() *Palette {
	return &Palette{
		Name: "glow",
		NodeColors: []string{
			"#00FF88", // Mint
			"#00E5FF", // Aqua
			"#7C4DFF", // Violet
			"#FF4081", // Pink
			"#FFD740", // Amber
		},
		EdgeOpacity: 0.45,
		Background:  "#000000",
	}
}

// NeonPalette returns a high-contrast palette
func NeonPalette() *Palette {
	return &Palette{
		Name: "neon",
		NodeColors: []string{
			"#FF6D00", // Amber
			"#2979FF", // Blue
			"#00E676", // Green
			"#F50057", // Pink
			"#651FFF", // Deep Purple
			"#C6FF00", // Lime
		},
		EdgeOpacity: 0.8,
		Background:  "#212121",
	}
}

var palettes = map[string]func() *Palette{
	"default": DefaultPalette,
	"glow":    GlowPalette,
	"neon":    NeonPalette,
}

// GetPalette returns a named palette
func GetPalette(name string) (*Palette, error) {
	ctor, ok := palettes[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown palette: %s", name)
	}
	return ctor(), nil
}

// PaletteNames lists the registered palettes in alphabetical order
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
