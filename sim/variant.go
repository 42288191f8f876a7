package sim

import (
	"fmt"
	"sort"
	"strings"
)

// Variant is a named scene flavor. Variants share the core and only change
// input defaults and presentation flags.
type Variant struct {
	Name         string
	Strategy     string // Interaction strategy used when the config leaves it empty
	Picker       string // Picker used when the config leaves it empty
	Transparent  bool   // Passthrough background for AR
	HandTracking bool   // Hand joints drive the grip position
	Immersive    bool   // Runs inside an XR session
}

var variants = map[string]Variant{
	"desktop": {
		Name:     "desktop",
		Strategy: "pointer",
		Picker:   "ray",
	},
	"ar": {
		Name:        "ar",
		Strategy:    "xr",
		Picker:      "xr",
		Transparent: true,
		Immersive:   true,
	},
	"vr-hands": {
		Name:         "vr-hands",
		Strategy:     "xr",
		Picker:       "xr",
		HandTracking: true,
		Immersive:    true,
	},
}

// GetVariant returns a variant by name; an empty name selects desktop
func GetVariant(name string) (Variant, error) {
	if name == "" {
		name = "desktop"
	}
	v, ok := variants[strings.ToLower(name)]
	if !ok {
		return Variant{}, fmt.Errorf("unknown variant: %s", name)
	}
	return v, nil
}

// VariantNames lists the registered variants in alphabetical order
func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
