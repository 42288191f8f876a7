// Package cmd holds the glowgraph command tree.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/TFMV/glowgraph/config"
	"github.com/TFMV/glowgraph/metrics"
	"github.com/TFMV/glowgraph/sim"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

// globals are the persistent flags shared by every subcommand
type globals struct {
	configPath string
	debug      bool
	variant    string
	seed       uint64
	nodes      int
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "glowgraph",
		Short: "glowgraph: an interactive glowing node network",
		Long: Brand.Sprint("glowgraph") + " builds a spring-linked network of glowing spheres,\n" +
			"lets pointers and XR controllers drag it, and relaxes it every frame.\n" +
			Subtle.Sprint("Render it offline, replay input traces, or drive it live in the terminal."),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.debug {
				log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds)
				log.Println("Debug mode enabled")
			} else {
				log.SetFlags(log.LstdFlags)
			}
		},
	}
	root.SetVersionTemplate("glowgraph {{ .Version }}\n")

	flags := root.PersistentFlags()
	flags.StringVarP(&g.configPath, "config", "c", "", "Scene config file (YAML, TOML or JSON)")
	flags.BoolVar(&g.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&g.variant, "variant", "", "Scene variant: "+joinNames(sim.VariantNames()))
	flags.Uint64Var(&g.seed, "seed", 0, "Override the random seed")
	flags.IntVarP(&g.nodes, "nodes", "n", 0, "Override the number of nodes")

	root.AddCommand(
		buildCmd(g),
		simulateCmd(g),
		viewCmd(g),
		palettesCmd(),
		variantsCmd(),
		initCmd(),
	)
	return root
}

// Execute runs the command tree until it finishes or ctx is cancelled
func Execute(ctx context.Context) error {
	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		Bad.Fprintf(root.ErrOrStderr(), "glowgraph: %v\n", err)
		return err
	}
	return nil
}

// loadScene reads the config file (or the defaults) and applies flag overrides
func loadScene(cmd *cobra.Command, g *globals) (*config.Scene, error) {
	cfg := config.Default()
	if g.configPath != "" {
		loaded, err := config.Load(g.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("variant") {
		cfg.Variant = g.variant
	}
	if flags.Changed("seed") {
		cfg.Seed = g.seed
	}
	if flags.Changed("nodes") {
		cfg.Graph.Nodes = g.nodes
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newScene builds the scene, logging grab transitions to w in debug mode
func newScene(cfg *config.Scene, reg *metrics.Registry, g *globals, w io.Writer) (*sim.Scene, error) {
	scene, err := sim.New(*cfg, reg)
	if err != nil {
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}
	if g.debug {
		scene.SetLogger(log.New(w, "scene: ", log.LstdFlags|log.Lmicroseconds))
	}
	return scene, nil
}
