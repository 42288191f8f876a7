// Package interact maps pointer and XR-controller gestures onto grabbed nodes.
//
// Device callbacks never touch the network directly. They push Intents onto a
// Queue, and the Controller applies the drained intents at a fixed point of the
// frame, before the physics step.
package interact

import (
	"fmt"
	"strings"
	"sync"

	"github.com/TFMV/glowgraph/models"
)

// Kind is the type of an input intent
type Kind int

const (
	GrabStart Kind = iota
	GrabMove
	GrabEnd
	// SourceLost is raised when a controller disconnects or the XR session ends abruptly
	SourceLost
)

var kindNames = [...]string{"grab_start", "grab_move", "grab_end", "source_lost"}

// String returns the wire name of the kind
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts the wire names and a few common aliases
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grab_start", "selectstart", "select_start", "start", "down":
		return GrabStart, nil
	case "grab_move", "move", "drag":
		return GrabMove, nil
	case "grab_end", "selectend", "select_end", "end", "up":
		return GrabEnd, nil
	case "source_lost", "lost", "disconnect":
		return SourceLost, nil
	default:
		return 0, fmt.Errorf("unknown intent kind: %q", s)
	}
}

// Pointer carries whichever spatial input the device produced.
// Mice and touch provide Screen, XR controllers provide Ray and/or Position.
type Pointer struct {
	Ray      *models.Ray         `json:"ray,omitempty"`
	Screen   *models.ScreenPoint `json:"screen,omitempty"`
	Position *models.Vec         `json:"position,omitempty"`
}

// RayPointer wraps a world-space ray
func RayPointer(r models.Ray) Pointer {
	return Pointer{Ray: &r}
}

// ScreenPointer wraps a pixel coordinate
func ScreenPointer(x, y float64) Pointer {
	return Pointer{Screen: &models.ScreenPoint{X: x, Y: y}}
}

// GripPointer wraps a controller grip position
func GripPointer(p models.Vec) Pointer {
	return Pointer{Position: &p}
}

// Intent is one queued input event
type Intent struct {
	Kind    Kind    `json:"kind"`
	Source  string  `json:"source"` // Input-source identifier (mouse, left-hand, right-hand, ...)
	Pointer Pointer `json:"pointer"`
}

// Queue buffers intents between device callbacks and the frame tick
type Queue struct {
	mu      sync.Mutex
	pending []Intent
}

// Push appends an intent
func (q *Queue) Push(in Intent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, in)
}

// Drain removes and returns every pending intent in arrival order
func (q *Queue) Drain() []Intent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// Len returns the number of pending intents
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Clear drops every pending intent
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = nil
}
