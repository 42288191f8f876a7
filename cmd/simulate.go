package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/TFMV/glowgraph/ingest"
	"github.com/TFMV/glowgraph/metrics"
	"github.com/TFMV/glowgraph/physics"
	"github.com/spf13/cobra"
)

// loadTrace reads an input trace, picking the processor by file extension
func loadTrace(path string) (*ingest.Trace, error) {
	processor, err := ingest.GetProcessor(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	trace, err := processor.ProcessData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to process trace: %w", err)
	}
	if trace.Name == "" {
		trace.Name = filepath.Base(path)
	}
	return trace, nil
}

// seconds converts a frame time to a trace offset
func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func simulateCmd(g *globals) *cobra.Command {
	var (
		frames     int
		dt         float64
		tracePath  string
		relax      int
		metricsOut string
		render     bool
	)
	out := &outputFlags{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the scene for a number of fixed-step frames",
		Long: "Runs the scene headless with a fixed time step. An input trace is replayed\n" +
			"frame by frame through the same queue live input uses.",
		Example: "  glowgraph simulate --frames 300 --trace drag.json -f svg -o after.svg\n" +
			"  glowgraph simulate --relax 2000 --metrics-out metrics.prom",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if frames < 0 {
				return fmt.Errorf("frames must not be negative")
			}
			if dt <= 0 {
				return fmt.Errorf("dt must be positive")
			}
			cfg, err := loadScene(cmd, g)
			if err != nil {
				return err
			}

			var trace *ingest.Trace
			if tracePath != "" {
				if trace, err = loadTrace(tracePath); err != nil {
					return err
				}
				if frames == 0 {
					frames = int(trace.Duration().Seconds()/dt) + 1
				}
			}

			reg := metrics.NewRegistry()
			scene, err := newScene(cfg, reg, g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			immersive := scene.Variant().Immersive
			if immersive {
				scene.SetSessionActive(true)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			start := time.Now()
			replayed, ran := 0, 0
			for ; ran < frames; ran++ {
				if ctx.Err() != nil {
					log.Printf("Simulation interrupted after %d frames", ran)
					break
				}
				if trace != nil {
					replayed += trace.Replay(scene, seconds(float64(ran)*dt), seconds(float64(ran+1)*dt))
				}
				scene.Advance(dt)
			}
			if immersive {
				scene.SetSessionActive(false)
			}

			relaxed := 0
			if relax > 0 {
				relaxed, err = physics.Relax(ctx, scene.Stepper(), relax, dt)
				if err != nil && !errors.Is(err, context.Canceled) {
					return fmt.Errorf("relaxation failed: %w", err)
				}
				if !scene.Stepper().Settled() {
					log.Println("Warning: network did not settle within the relaxation budget")
				}
			}
			snap := scene.Snapshot()

			w := cmd.OutOrStdout()
			var path string
			if render {
				if path, err = out.write(w, snap, cfg); err != nil {
					return err
				}
				if path == "" {
					return writeMetrics(reg, metricsOut)
				}
			}

			stepper := scene.Stepper()
			banner(w, "simulate")
			field(w, "Scene", "%s (%s)", cfg.Name, scene.Variant().Name)
			field(w, "Frames", "%d", ran)
			field(w, "Simulated", "%.2fs", stepper.Elapsed())
			field(w, "Wall time", "%s", time.Since(start).Round(time.Millisecond))
			if trace != nil {
				field(w, "Trace", "%s: %d/%d events, sources %s", trace.Name, replayed, len(trace.Events), joinNames(trace.Sources()))
			}
			if relax > 0 {
				field(w, "Relax steps", "%d", relaxed)
			}
			field(w, "Kinetic energy", "%.6f", stepper.KineticEnergy())
			field(w, "Settled", "%s", status(stepper.Settled()))
			field(w, "Held nodes", "%d", len(scene.Network().HeldNodes()))
			if path != "" {
				field(w, "Output", "%s", Info.Sprint(path))
			}
			if metricsOut != "" {
				field(w, "Metrics", "%s", Info.Sprint(metricsOut))
			}
			return writeMetrics(reg, metricsOut)
		},
	}

	f := cmd.Flags()
	f.IntVar(&frames, "frames", 600, "Number of frames to simulate (0 with --trace runs the whole trace)")
	f.Float64Var(&dt, "dt", 1.0/60, "Fixed time step in seconds")
	f.StringVarP(&tracePath, "trace", "t", "", "Input trace to replay (JSON, YAML, CSV or log)")
	f.IntVar(&relax, "relax", 0, "After the frames, step until settled or this many steps")
	f.StringVar(&metricsOut, "metrics-out", "", "Write Prometheus metrics to this file")
	f.BoolVar(&render, "render", true, "Render the final frame")
	out.register(cmd, "svg")
	return cmd
}

// writeMetrics writes the text exposition of reg to path when set
func writeMetrics(reg *metrics.Registry, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer f.Close()
	if err := reg.WriteText(f); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
