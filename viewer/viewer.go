// Package viewer is a live terminal front end for a scene. A keyboard cursor
// stands in for the mouse: it grabs, drags and releases nodes through the same
// intent queue a browser pointer would use.
package viewer

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/TFMV/glowgraph/interact"
	"github.com/TFMV/glowgraph/models"
	"github.com/TFMV/glowgraph/render"
	"github.com/TFMV/glowgraph/sim"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Source is the input-source name the keyboard cursor uses
const Source = "keyboard"

// frameInterval paces the simulation at 60 frames per second
const frameInterval = time.Second / 60

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF88")).
			MarginLeft(1)

	sceneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00BFFF"))

	statsStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF88")).
			Padding(0, 1)

	heldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginLeft(1)
)

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Grab  key.Binding
	Next  key.Binding
	Pause key.Binding
	Reset key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right"),
	),
	Grab: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "grab/release"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "n"),
		key.WithHelp("tab", "next node"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.Next, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Grab, k.Next, k.Pause, k.Reset},
		{k.Quit},
	}
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea model driving a scene
type Model struct {
	scene   *sim.Scene
	snap    models.Snapshot
	camera  models.Camera
	cursor  models.ScreenPoint
	holding bool // The controller granted the keyboard a session
	asking  bool // A grab is queued and not yet applied
	paused  bool
	next    int
	cols    int
	rows    int
	help    help.Model
	keys    keyMap
	message string
}

// New creates a viewer for scene with the cursor at the centre of the view
func New(scene *sim.Scene) Model {
	cam := scene.Config().Camera
	return Model{
		scene:  scene,
		snap:   scene.Snapshot(),
		camera: cam,
		cursor: models.ScreenPoint{X: cam.Width / 2, Y: cam.Height / 2},
		cols:   80,
		rows:   24,
		help:   help.New(),
		keys:   keys,
	}
}

// Run starts the viewer and blocks until the user quits or ctx is cancelled
func Run(ctx context.Context, scene *sim.Scene) error {
	p := tea.NewProgram(New(scene), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 20)
		m.rows = max(msg.Height-6, 10)
		m.help.Width = msg.Width

	case tickMsg:
		if !m.paused {
			m.snap = m.scene.Frame(time.Time(msg))
			m.syncGrab()
		}
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.holding || m.asking {
				m.release()
				m.snap = m.scene.Advance(0)
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.move(0, -1)
		case key.Matches(msg, m.keys.Down):
			m.move(0, 1)
		case key.Matches(msg, m.keys.Left):
			m.move(-1, 0)
		case key.Matches(msg, m.keys.Right):
			m.move(1, 0)
		case key.Matches(msg, m.keys.Grab):
			m.toggleGrab()
		case key.Matches(msg, m.keys.Next):
			m.jumpToNext()
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Reset):
			if err := m.scene.Reset(); err != nil {
				m.message = err.Error()
			} else {
				m.holding, m.asking = false, false
				m.snap = m.scene.Snapshot()
				m.message = "network rebuilt"
			}
		}
	}
	return m, nil
}

// cell returns the size of one character cell in camera pixels
func (m Model) cell() (float64, float64) {
	return m.camera.Width / float64(m.cols-2), m.camera.Height / float64(m.rows-2)
}

// move shifts the cursor by whole cells and drags the held node with it
func (m *Model) move(dx, dy int) {
	cw, ch := m.cell()
	m.cursor.X = math.Max(0, math.Min(m.camera.Width, m.cursor.X+float64(dx)*cw))
	m.cursor.Y = math.Max(0, math.Min(m.camera.Height, m.cursor.Y+float64(dy)*ch))
	if m.holding || m.asking {
		m.scene.Enqueue(interact.Intent{Kind: interact.GrabMove, Source: Source, Pointer: interact.ScreenPointer(m.cursor.X, m.cursor.Y)})
	}
}

// toggleGrab releases the held node, or snaps to the nearest node within two
// cells of the cursor and asks to grab it. The grab only counts once a frame
// has applied it and the controller holds a session for the keyboard.
func (m *Model) toggleGrab() {
	if m.holding || m.asking {
		m.release()
		m.message = "released"
		return
	}
	cw, ch := m.cell()
	target, ok := m.nearest(2 * math.Max(cw, ch))
	if !ok {
		m.message = "no node under cursor"
		return
	}
	m.cursor = target
	m.scene.Enqueue(interact.Intent{Kind: interact.GrabStart, Source: Source, Pointer: interact.ScreenPointer(target.X, target.Y)})
	m.asking = true
	m.message = "grabbing"
}

// release queues the end of the keyboard session
func (m *Model) release() {
	m.scene.Enqueue(interact.Intent{Kind: interact.GrabEnd, Source: Source})
	m.holding, m.asking = false, false
}

// syncGrab reads the keyboard session back from the controller after a frame
func (m *Model) syncGrab() {
	s, ok := m.scene.Controller().SessionFor(Source)
	switch {
	case ok && m.asking:
		m.message = fmt.Sprintf("holding node %d", s.Node)
	case !ok && m.asking:
		m.message = "grab rejected"
	}
	m.holding, m.asking = ok, false
}

// nearest returns the projected centre of the node closest to the cursor within reach
func (m Model) nearest(reach float64) (models.ScreenPoint, bool) {
	best, found := reach, false
	var point models.ScreenPoint
	for _, n := range m.snap.Nodes {
		s, _, ok := m.camera.Project(n.Position)
		if !ok {
			continue
		}
		if d := math.Hypot(s.X-m.cursor.X, s.Y-m.cursor.Y); d <= best {
			best, point, found = d, s, true
		}
	}
	return point, found
}

// jumpToNext moves the cursor onto the next node in id order
func (m *Model) jumpToNext() {
	if m.holding || m.asking || len(m.snap.Nodes) == 0 {
		return
	}
	for range m.snap.Nodes {
		n := m.snap.Nodes[m.next%len(m.snap.Nodes)]
		m.next++
		if s, _, ok := m.camera.Project(n.Position); ok {
			m.cursor = s
			m.message = fmt.Sprintf("node %d", n.ID)
			return
		}
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("glowgraph · %s · %s", m.snap.Name, m.scene.Variant().Name)))
	b.WriteString("\n")

	grid := render.ASCIIGrid(m.snap, m.camera, m.cols, m.rows, false)
	b.WriteString(sceneStyle.Render(m.overlayCursor(grid)))
	b.WriteString("\n")

	stepper := m.scene.Stepper()
	stats := fmt.Sprintf("frame %d  t=%.1fs  energy %.4f  sessions %d",
		m.snap.Frame, m.snap.Time, stepper.KineticEnergy(), len(m.scene.Controller().Sessions()))
	if m.paused {
		stats += "  [paused]"
	}
	b.WriteString(statsStyle.Render(stats))
	if m.holding {
		b.WriteString(" " + heldStyle.Render(" HOLDING "))
	}
	if m.message != "" {
		b.WriteString(" " + m.message)
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// overlayCursor draws the cursor as '+' on the grid unless a node is there
func (m Model) overlayCursor(grid string) string {
	lines := strings.Split(strings.TrimSuffix(grid, "\n"), "\n")
	x := int(m.cursor.X*float64(m.cols-2)/m.camera.Width) + 1
	y := int(m.cursor.Y*float64(m.rows-2)/m.camera.Height) + 1
	if y <= 0 || y >= len(lines)-1 {
		return grid
	}
	row := []rune(lines[y])
	if x <= 0 || x >= len(row)-1 {
		return grid
	}
	if row[x] == ' ' || row[x] == '.' {
		row[x] = '+'
	}
	lines[y] = string(row)
	return strings.Join(lines, "\n") + "\n"
}
