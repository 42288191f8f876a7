package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/TFMV/glowgraph/config"
	"github.com/TFMV/glowgraph/graph"
	"github.com/TFMV/glowgraph/sim"
	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
)

// swatch paints a block in hex, or prints the hex when it does not parse
func swatch(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	r, g, b := c.RGB255()
	return color.RGB(int(r), int(g), int(b)).Sprint("██")
}

func palettesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "palettes",
		Aliases: []string{"colors"},
		Short:   "List the node color palettes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			banner(w, "palettes")
			for _, name := range graph.PaletteNames() {
				p, err := graph.GetPalette(name)
				if err != nil {
					return err
				}
				blocks := make([]string, 0, len(p.NodeColors))
				for _, hex := range p.NodeColors {
					blocks = append(blocks, swatch(hex))
				}
				fmt.Fprintf(w, "  %-8s %s  %s\n", Info.Sprint(name), strings.Join(blocks, ""),
					Subtle.Sprintf("%d colors, edge opacity %.2f, background %s", len(p.NodeColors), p.EdgeOpacity, p.Background))
			}
			return nil
		},
	}
}

func variantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the scene variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			banner(w, "variants")
			for _, name := range sim.VariantNames() {
				v, err := sim.GetVariant(name)
				if err != nil {
					return err
				}
				var flags []string
				if v.Immersive {
					flags = append(flags, "immersive")
				}
				if v.Transparent {
					flags = append(flags, "passthrough")
				}
				if v.HandTracking {
					flags = append(flags, "hand tracking")
				}
				fmt.Fprintf(w, "  %-9s strategy=%-8s picker=%-6s %s\n", Info.Sprint(name), v.Strategy, v.Picker, Subtle.Sprint(strings.Join(flags, ", ")))
			}
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default scene config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "glowgraph.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			Good.Fprintf(cmd.OutOrStdout(), "  Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
