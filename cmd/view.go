package cmd

import (
	"github.com/TFMV/glowgraph/viewer"
	"github.com/spf13/cobra"
)

func viewCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Drive the scene live in the terminal",
		Long: "Opens a full-screen terminal view of the network. Move the cursor with the\n" +
			"arrow keys, press space to grab the nearest node and again to let go.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScene(cmd, g)
			if err != nil {
				return err
			}
			// the terminal belongs to the viewer, so scene logging stays off
			debug := g.debug
			g.debug = false
			scene, err := newScene(cfg, nil, g, cmd.ErrOrStderr())
			g.debug = debug
			if err != nil {
				return err
			}
			return viewer.Run(cmd.Context(), scene)
		},
	}
}
