package interact

import (
	"math"
	"sort"
	"time"

	"github.com/TFMV/glowgraph/models"
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
)

// VelocityResetter zeroes the velocity of a node that input repositions
type VelocityResetter interface {
	ResetVelocity(id int)
}

// Options configures a Controller
type Options struct {
	Picker   Picker
	Strategy Strategy
	// Camera converts screen pointers into rays; nil leaves them as-is
	Camera *models.Camera
	// Highlight raises HSL lightness of a held node by this amount; 0 disables
	Highlight float64
	// PullHops selects the ring of nodes exactly this many hops from the held node
	// that is drawn toward it while dragging; 0 disables
	PullHops     int
	PullStrength float64
	MaxBlend     float64 // Upper bound of the blend toward the held node, keeps neighbors off it
	// RebaseAll re-baselines every anchor on release instead of only the released node
	RebaseAll bool
}

// DefaultOptions returns pointer-drag options with ray picking
func DefaultOptions() Options {
	return Options{
		Picker:       RayPicker{Scale: 1.5},
		Strategy:     PointerDrag{},
		Highlight:    0.25,
		PullHops:     0,
		PullStrength: 0.6,
		MaxBlend:     0.85,
	}
}

// Session is one active grab tied to one input source
type Session struct {
	ID      string
	Source  string
	Node    int
	Offset  models.Vec   // Node position minus anchor at grab time
	Anchor  models.Vec   // Latest interaction anchor
	Depth   float64      // Distance along the grabbing ray
	Plane   models.Plane // Drag plane for pointer input
	Started time.Time

	pulled []int // Nodes PullHops away from the held node
}

// Outcome reports how one intent was applied
type Outcome struct {
	Intent   Intent
	Accepted bool
	Session  string
	Node     int
}

// Controller owns grab sessions over a network
type Controller struct {
	net      *models.Network
	physics  VelocityResetter
	opts     Options
	sessions map[string]*Session
	holders  map[int]string
	now      func() time.Time
}

// NewController creates a controller. physics may be nil when no stepper runs.
func NewController(net *models.Network, physics VelocityResetter, opts Options) *Controller {
	if opts.Picker == nil {
		opts.Picker = RayPicker{Scale: 1.5}
	}
	if opts.Strategy == nil {
		opts.Strategy = PointerDrag{}
	}
	if opts.MaxBlend <= 0 || opts.MaxBlend > 0.85 {
		opts.MaxBlend = 0.85
	}
	return &Controller{
		net:      net,
		physics:  physics,
		opts:     opts,
		sessions: make(map[string]*Session),
		holders:  make(map[int]string),
		now:      time.Now,
	}
}

// Options returns the configuration in use
func (c *Controller) Options() Options {
	return c.opts
}

// Apply applies intents in order and reports each outcome
func (c *Controller) Apply(intents []Intent) []Outcome {
	outcomes := make([]Outcome, 0, len(intents))
	for _, in := range intents {
		out := Outcome{Intent: in, Node: -1}
		if s, ok := c.sessions[in.Source]; ok && in.Kind != GrabStart {
			out.Session, out.Node = s.ID, s.Node
		}
		switch in.Kind {
		case GrabStart:
			if s, ok := c.GrabStart(in.Source, in.Pointer); ok {
				out.Accepted, out.Session, out.Node = true, s.ID, s.Node
			}
		case GrabMove:
			out.Accepted = c.GrabMove(in.Source, in.Pointer)
		case GrabEnd, SourceLost:
			out.Accepted = c.GrabEnd(in.Source)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// GrabStart picks the node under the pointer and holds it.
// A miss, a node already held by another source, or a source that already
// holds a node are all ignored.
func (c *Controller) GrabStart(source string, p Pointer) (Session, bool) {
	if _, busy := c.sessions[source]; busy {
		return Session{}, false
	}
	p = c.resolve(p)
	hit, ok := c.opts.Picker.Pick(c.net, p)
	if !ok {
		return Session{}, false
	}
	if _, held := c.holders[hit.Node]; held {
		return Session{}, false
	}

	node := &c.net.Nodes[hit.Node]
	s := &Session{
		ID:      uuid.New().String(),
		Source:  source,
		Node:    hit.Node,
		Started: c.now(),
	}
	c.opts.Strategy.Begin(s, hit, p)
	s.Offset = r3.Sub(node.Position, s.Anchor)
	if c.opts.PullHops > 0 {
		s.pulled = c.net.NodesAtHop(hit.Node, c.opts.PullHops)
	}

	node.Held = true
	if c.physics != nil {
		c.physics.ResetVelocity(hit.Node)
	}
	if c.opts.Highlight > 0 {
		node.Color = Highlight(node.BaseColor, c.opts.Highlight)
	}

	c.sessions[source] = s
	c.holders[hit.Node] = source
	return *s, true
}

// GrabMove moves the held node of source so it keeps its grab offset from the
// new anchor. It returns false when source holds nothing.
func (c *Controller) GrabMove(source string, p Pointer) bool {
	s, ok := c.sessions[source]
	if !ok {
		return false
	}
	anchor, ok := c.opts.Strategy.Anchor(s, c.resolve(p))
	if !ok {
		return false
	}
	s.Anchor = anchor

	node := &c.net.Nodes[s.Node]
	target := r3.Add(anchor, s.Offset)
	delta := r3.Sub(target, node.Position)
	node.Position = target
	if c.physics != nil {
		c.physics.ResetVelocity(s.Node)
	}

	c.pull(s, target, delta)
	return true
}

// pull interpolates the session's hop ring toward the held node. The blend
// falls off with distance and never exceeds MaxBlend, so no node lands on target.
func (c *Controller) pull(s *Session, target, delta models.Vec) {
	if len(s.pulled) == 0 || r3.Norm(delta) == 0 {
		return
	}
	for _, id := range s.pulled {
		n := &c.net.Nodes[id]
		if n.Held {
			continue
		}
		gap := r3.Sub(target, n.Position)
		w := math.Min(c.opts.MaxBlend, c.opts.PullStrength/(1+r3.Norm(gap)))
		n.Position = r3.Add(n.Position, r3.Scale(w, gap))
	}
}

// GrabEnd releases the node held by source and bakes the dragged shape into
// the anchors and rest lengths. Releasing an idle source is a no-op.
func (c *Controller) GrabEnd(source string) bool {
	s, ok := c.sessions[source]
	if !ok {
		return false
	}
	delete(c.sessions, source)
	delete(c.holders, s.Node)

	node := &c.net.Nodes[s.Node]
	node.Held = false
	node.Color = node.BaseColor

	if c.opts.RebaseAll {
		c.net.RebaseAll()
	} else {
		node.Base = node.Position
	}
	c.net.RebaseRestLengths()
	return true
}

// SourceLost ends the session of a disconnected input source
func (c *Controller) SourceLost(source string) bool {
	return c.GrabEnd(source)
}

// ReleaseAll ends every session, as when the XR session terminates
func (c *Controller) ReleaseAll() int {
	sources := make([]string, 0, len(c.sessions))
	for src := range c.sessions {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	for _, src := range sources {
		c.GrabEnd(src)
	}
	return len(sources)
}

// Sessions returns copies of the active sessions ordered by source
func (c *Controller) Sessions() []Session {
	result := make([]Session, 0, len(c.sessions))
	for _, s := range c.sessions {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Source < result[j].Source })
	return result
}

// SessionFor returns the active session of source
func (c *Controller) SessionFor(source string) (Session, bool) {
	s, ok := c.sessions[source]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// HeldBy returns the source holding node id
func (c *Controller) HeldBy(id int) (string, bool) {
	src, ok := c.holders[id]
	return src, ok
}

// resolve fills in a ray for screen pointers when a camera is known
func (c *Controller) resolve(p Pointer) Pointer {
	if p.Ray == nil && p.Screen != nil && c.opts.Camera != nil {
		r := c.opts.Camera.Ray(*p.Screen)
		p.Ray = &r
	}
	return p
}

// Highlight returns hex with its HSL lightness raised by boost.
// Unparseable colors are returned unchanged.
func Highlight(hex string, boost float64) string {
	col, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, s, l := col.Hsl()
	return colorful.Hsl(h, s, math.Min(1, l+boost)).Clamped().Hex()
}
