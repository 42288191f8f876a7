// Package sim ties the network, the interaction controller and the physics
// stepper into one per-frame simulation.
//
// Every frame runs in a fixed order: queued input intents are applied, then
// physics advances, then a snapshot is taken for the renderer. Device callbacks
// only ever call Enqueue, so the frame never observes a half-applied gesture.
package sim

import (
	"fmt"
	"log"
	"time"

	"github.com/TFMV/glowgraph/config"
	"github.com/TFMV/glowgraph/graph"
	"github.com/TFMV/glowgraph/interact"
	"github.com/TFMV/glowgraph/metrics"
	"github.com/TFMV/glowgraph/models"
	"github.com/TFMV/glowgraph/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Scene owns one network and everything that moves it
type Scene struct {
	cfg        config.Scene
	variant    Variant
	net        *models.Network
	stepper    *physics.Stepper
	controller *interact.Controller
	queue      *interact.Queue
	metrics    *metrics.Registry
	logger     *log.Logger

	frame   uint64
	active  bool // Immersive session running
	placed  bool // Network already moved in front of the viewer this session
	grabbed map[string]time.Time
	now     func() time.Time
}

// New builds a scene from cfg. reg may be nil to disable metrics.
func New(cfg config.Scene, reg *metrics.Registry) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	variant, err := GetVariant(cfg.Variant)
	if err != nil {
		return nil, err
	}
	s := &Scene{
		cfg:     cfg,
		variant: variant,
		queue:   &interact.Queue{},
		metrics: reg,
		now:     time.Now,
	}
	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

// build constructs the network from the config and adopts it
func (s *Scene) build() error {
	opts, err := GraphOptions(s.cfg)
	if err != nil {
		return err
	}
	net, err := graph.Build(opts)
	if err != nil {
		return fmt.Errorf("failed to build network: %w", err)
	}
	return s.adopt(net)
}

// adopt wires a stepper and controller around net and makes it the live network
func (s *Scene) adopt(net *models.Network) error {
	anchors, err := physics.GetAnchorField(s.cfg.Physics.Anchor, s.cfg.Physics.Amplitude, s.cfg.Physics.Frequency, int64(s.cfg.Seed))
	if err != nil {
		return err
	}
	iopts, err := InteractionOptions(s.cfg, s.variant)
	if err != nil {
		return err
	}
	stepper := physics.NewStepper(net, s.cfg.Physics.Params, anchors)

	s.net = net
	s.stepper = stepper
	s.controller = interact.NewController(net, stepper, iopts)
	s.grabbed = make(map[string]time.Time)
	s.frame = 0
	s.placed = false
	if s.metrics != nil {
		s.metrics.UpdateNetwork(len(net.Nodes), len(net.Edges))
		s.metrics.UpdateSessions(0, 0)
	}
	return nil
}

// GraphOptions converts the graph section of cfg into builder options
func GraphOptions(cfg config.Scene) (graph.Options, error) {
	name := cfg.Graph.Palette
	if name == "" {
		name = "glow"
	}
	palette, err := graph.GetPalette(name)
	if err != nil {
		return graph.Options{}, err
	}
	if len(cfg.Graph.Colors) > 0 {
		palette.NodeColors = append([]string(nil), cfg.Graph.Colors...)
	}
	topology, err := graph.GetTopology(cfg.Graph.Topology)
	if err != nil {
		return graph.Options{}, err
	}
	return graph.Options{
		Name:          cfg.Name,
		NodeCount:     cfg.Graph.Nodes,
		Bounds:        cfg.Graph.Bounds.Bounds(),
		Palette:       palette,
		Topology:      topology,
		MinSeparation: cfg.Graph.MinSeparation,
		MaxAttempts:   cfg.Graph.MaxAttempts,
		Radius:        cfg.Graph.Radius,
		Intensity:     cfg.Graph.Intensity,
		Seed:          cfg.Seed,
	}, nil
}

// InteractionOptions converts the interaction section of cfg into controller
// options, taking the picker and strategy from the variant when unset
func InteractionOptions(cfg config.Scene, v Variant) (interact.Options, error) {
	strategyName := cfg.Interaction.Strategy
	if strategyName == "" {
		strategyName = v.Strategy
	}
	strategy, err := interact.GetStrategy(strategyName)
	if err != nil {
		return interact.Options{}, err
	}
	pickerName := cfg.Interaction.Picker
	if pickerName == "" {
		pickerName = v.Picker
	}
	picker, err := interact.GetPicker(pickerName, cfg.Camera)
	if err != nil {
		return interact.Options{}, err
	}
	camera := cfg.Camera
	return interact.Options{
		Picker:       picker,
		Strategy:     strategy,
		Camera:       &camera,
		Highlight:    cfg.Interaction.Highlight,
		PullHops:     cfg.Interaction.PullHops,
		PullStrength: cfg.Interaction.PullStrength,
		MaxBlend:     cfg.Interaction.MaxBlend,
		RebaseAll:    cfg.Interaction.RebaseAll,
	}, nil
}

// SetLogger enables logging of grabs, releases and session changes
func (s *Scene) SetLogger(l *log.Logger) {
	s.logger = l
}

func (s *Scene) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// Enqueue queues an input intent for the next frame. Safe for concurrent use.
func (s *Scene) Enqueue(in interact.Intent) {
	s.queue.Push(in)
}

// Frame applies pending input, advances physics to now and returns the new state
func (s *Scene) Frame(now time.Time) models.Snapshot {
	s.applyInput()
	start := s.now()
	stats := s.stepper.Tick(now)
	s.finishFrame(stats, s.now().Sub(start))
	return s.Snapshot()
}

// Advance applies pending input and advances physics by a fixed dt
func (s *Scene) Advance(dt float64) models.Snapshot {
	s.applyInput()
	start := s.now()
	stats := s.stepper.Step(dt)
	s.finishFrame(stats, s.now().Sub(start))
	return s.Snapshot()
}

// applyInput drains the queue into the controller
func (s *Scene) applyInput() {
	intents := s.queue.Drain()
	if len(intents) == 0 {
		return
	}
	for _, out := range s.controller.Apply(intents) {
		s.observe(out)
	}
	if s.metrics != nil {
		s.metrics.UpdateSessions(len(s.controller.Sessions()), len(s.net.HeldNodes()))
	}
}

// observe logs and counts one intent outcome
func (s *Scene) observe(out interact.Outcome) {
	in := out.Intent
	if s.metrics != nil {
		s.metrics.RecordIntent(in.Kind.String(), out.Accepted)
	}
	switch in.Kind {
	case interact.GrabStart:
		if s.metrics != nil {
			s.metrics.RecordGrab(in.Source, out.Accepted)
		}
		if out.Accepted {
			s.grabbed[out.Session] = s.now()
			s.logf("grab: %s holds node %d (session %s)", in.Source, out.Node, out.Session)
		}
	case interact.GrabEnd, interact.SourceLost:
		if out.Accepted {
			s.released(out.Session)
			s.logf("release: %s let go of node %d (%s)", in.Source, out.Node, in.Kind)
		}
	}
}

// released records the hold time of a finished session
func (s *Scene) released(session string) {
	started, ok := s.grabbed[session]
	if !ok {
		return
	}
	delete(s.grabbed, session)
	if s.metrics != nil {
		s.metrics.RecordRelease(s.now().Sub(started))
	}
}

func (s *Scene) finishFrame(stats physics.StepStats, took time.Duration) {
	s.frame++
	if s.metrics != nil {
		s.metrics.RecordStep(stats.DT, stats.Clamped, stats.KineticEnergy, s.stepper.Settled(), took)
	}
}

// Snapshot returns the current state without advancing
func (s *Scene) Snapshot() models.Snapshot {
	return s.net.Snapshot(s.frame, s.stepper.Elapsed())
}

// SetSessionActive signals the start or end of an immersive session.
// Ending a session releases every grab as if each source had let go.
func (s *Scene) SetSessionActive(active bool) {
	if s.active == active {
		return
	}
	s.active = active
	if s.metrics != nil {
		s.metrics.SetXRSession(active)
	}
	if active {
		s.logf("session: started (%s)", s.variant.Name)
		return
	}

	for _, sess := range s.controller.Sessions() {
		s.released(sess.ID)
	}
	n := s.controller.ReleaseAll()
	s.queue.Clear()
	s.placed = false
	if s.metrics != nil {
		s.metrics.UpdateSessions(0, 0)
	}
	s.logf("session: ended, released %d grab(s)", n)
}

// SessionActive reports whether an immersive session is running
func (s *Scene) SessionActive() bool {
	return s.active
}

// PlaceInFront moves the whole network so its centre sits distance units along
// the viewer's ray. It only acts once per session and reports whether it moved.
func (s *Scene) PlaceInFront(view models.Ray, distance float64) bool {
	if s.placed || len(s.net.Nodes) == 0 {
		return false
	}
	var centre models.Vec
	for _, n := range s.net.Nodes {
		centre = r3.Add(centre, n.Base)
	}
	centre = r3.Scale(1/float64(len(s.net.Nodes)), centre)

	s.net.Translate(r3.Sub(view.At(distance), centre))
	s.placed = true
	s.logf("placed network %.2f units in front of the viewer", distance)
	return true
}

// Reset rebuilds the network from the config with the same seed, dropping
// every session and pending intent
func (s *Scene) Reset() error {
	s.queue.Clear()
	if err := s.build(); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ResetsTotal.Inc()
	}
	s.logf("reset: rebuilt %d nodes, %d edges", len(s.net.Nodes), len(s.net.Edges))
	return nil
}

// Network returns the live network
func (s *Scene) Network() *models.Network { return s.net }

// Controller returns the interaction controller
func (s *Scene) Controller() *interact.Controller { return s.controller }

// Stepper returns the physics stepper
func (s *Scene) Stepper() *physics.Stepper { return s.stepper }

// Variant returns the scene variant
func (s *Scene) Variant() Variant { return s.variant }

// Config returns the configuration the scene was built from
func (s *Scene) Config() config.Scene { return s.cfg }

// FrameCount returns the number of frames advanced since the last build
func (s *Scene) FrameCount() uint64 { return s.frame }

// Pending returns the number of queued intents
func (s *Scene) Pending() int { return s.queue.Len() }
