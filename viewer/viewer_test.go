package viewer

import (
	"fmt"
	"testing"
	"time"

	"github.com/TFMV/glowgraph/config"
	"github.com/TFMV/glowgraph/interact"
	"github.com/TFMV/glowgraph/sim"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T) (Model, *sim.Scene) {
	t.Helper()
	cfg := *config.Default()
	cfg.Physics.Anchor = "still"
	cfg.Graph.Nodes = 8
	scene, err := sim.New(cfg, nil)
	require.NoError(t, err)
	return New(scene), scene
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestNewCentresCursor(t *testing.T) {
	m, scene := newModel(t)
	cam := scene.Config().Camera
	assert.Equal(t, cam.Width/2, m.cursor.X)
	assert.Equal(t, cam.Height/2, m.cursor.Y)
	assert.NotNil(t, m.Init())
}

func TestWindowSizeSetsGrid(t *testing.T) {
	m, _ := newModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.cols)
	assert.Equal(t, 34, m.rows)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 5, Height: 5})
	assert.Equal(t, 20, m.cols)
	assert.Equal(t, 10, m.rows)
}

func TestGrabDragRelease(t *testing.T) {
	m, scene := newModel(t)

	m, _ = update(t, m, runes("n"))
	require.Equal(t, "node 0", m.message)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	assert.False(t, m.holding, "a queued grab is not held yet")
	assert.NotContains(t, m.View(), "HOLDING")
	assert.Equal(t, 1, scene.Pending())

	m, cmd := update(t, m, tickMsg(time.Unix(0, 0)))
	assert.NotNil(t, cmd, "ticks reschedule themselves")
	assert.Len(t, scene.Controller().Sessions(), 1)
	s, held := scene.Controller().SessionFor(Source)
	require.True(t, held)
	assert.True(t, m.holding)
	assert.Equal(t, fmt.Sprintf("holding node %d", s.Node), m.message)
	assert.Contains(t, m.View(), "HOLDING")

	before := m.cursor.X
	m, _ = update(t, m, runes("l"))
	assert.Greater(t, m.cursor.X, before)
	assert.Equal(t, 1, scene.Pending(), "moving while holding drags the node")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.holding)
	m, _ = update(t, m, tickMsg(time.Unix(0, int64(frameInterval))))
	assert.Empty(t, scene.Controller().Sessions())
	assert.Equal(t, uint64(2), m.snap.Frame)
}

func TestRejectedGrabIsNotShownAsHeld(t *testing.T) {
	m, scene := newModel(t)
	m, _ = update(t, m, runes("n"))

	// another source takes the same node earlier in the frame
	scene.Enqueue(interact.Intent{Kind: interact.GrabStart, Source: "mouse", Pointer: interact.ScreenPointer(m.cursor.X, m.cursor.Y)})
	m, _ = update(t, m, runes(" "))
	m, _ = update(t, m, tickMsg(time.Unix(0, 0)))

	_, mouse := scene.Controller().SessionFor("mouse")
	require.True(t, mouse)
	_, keyboard := scene.Controller().SessionFor(Source)
	assert.False(t, keyboard)
	assert.False(t, m.holding)
	assert.Equal(t, "grab rejected", m.message)
	assert.NotContains(t, m.View(), "HOLDING")

	m, _ = update(t, m, runes("l"))
	assert.Zero(t, scene.Pending(), "a rejected grab does not drag")
}

func TestQuitReleasesHeldNode(t *testing.T) {
	m, scene := newModel(t)
	m, _ = update(t, m, runes("n"))
	m, _ = update(t, m, runes(" "))
	m, _ = update(t, m, tickMsg(time.Unix(0, 0)))
	require.True(t, m.holding)
	require.NotEmpty(t, scene.Network().HeldNodes())

	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, scene.Controller().Sessions())
	assert.Empty(t, scene.Network().HeldNodes())
	assert.Zero(t, scene.Pending())
}

func TestMoveWithoutHoldingQueuesNothing(t *testing.T) {
	m, scene := newModel(t)
	m, _ = update(t, m, runes("h"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Zero(t, scene.Pending())
	assert.Less(t, m.cursor.X, scene.Config().Camera.Width/2)
	assert.Less(t, m.cursor.Y, scene.Config().Camera.Height/2)
}

func TestGrabMissesEmptySpace(t *testing.T) {
	m, scene := newModel(t)
	m.cursor.X, m.cursor.Y = 0, 0
	m, _ = update(t, m, runes(" "))
	assert.False(t, m.holding)
	assert.Equal(t, "no node under cursor", m.message)
	assert.Zero(t, scene.Pending())
}

func TestPauseFreezesFrames(t *testing.T) {
	m, _ := newModel(t)
	m, _ = update(t, m, runes("p"))
	m, _ = update(t, m, tickMsg(time.Unix(1, 0)))
	assert.Zero(t, m.snap.Frame)
	assert.Contains(t, m.View(), "[paused]")
}

func TestResetAndQuit(t *testing.T) {
	m, scene := newModel(t)
	m, _ = update(t, m, runes("n"))
	m, _ = update(t, m, runes(" "))
	m, _ = update(t, m, runes("r"))
	assert.False(t, m.holding)
	assert.Equal(t, "network rebuilt", m.message)
	assert.Zero(t, scene.Pending())

	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewDrawsGrid(t *testing.T) {
	m, _ := newModel(t)
	view := m.View()
	assert.Contains(t, view, "glowgraph")
	assert.Contains(t, view, "desktop")
	assert.Contains(t, view, "frame 0")
}
