package render

import (
	"strings"

	"github.com/TFMV/glowgraph/models"
)

// ASCIIRenderer outputs ASCII art format
type ASCIIRenderer struct{}

// Name returns the name of the renderer
func (r *ASCIIRenderer) Name() string {
	return "ASCII Renderer"
}

// Description returns a description of the renderer
func (r *ASCIIRenderer) Description() string {
	return "Renders the projected network as ASCII art for terminal output"
}

// Render creates an ASCII representation of the snapshot.
// Width and Height are in pixels; each cell covers 10x20 pixels.
func (r *ASCIIRenderer) Render(snap models.Snapshot, options *OutputOptions) ([]byte, error) {
	return []byte(ASCIIGrid(snap, options.camera(), int(options.Width/10), int(options.Height/20), options.Stats)), nil
}

// ASCIIGrid draws the snapshot onto a cols x rows character grid with a border.
// Nearer nodes are drawn over farther ones; held nodes are drawn as '@'.
func ASCIIGrid(snap models.Snapshot, cam models.Camera, cols, rows int, stats bool) string {
	cols = max(cols, 20)
	rows = max(rows, 10)

	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = make([]rune, cols)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	for i := 0; i < cols; i++ {
		grid[0][i] = '-'
		grid[rows-1][i] = '-'
	}
	for i := 0; i < rows; i++ {
		grid[i][0] = '|'
		grid[i][cols-1] = '|'
	}
	grid[0][0] = '+'
	grid[0][cols-1] = '+'
	grid[rows-1][0] = '+'
	grid[rows-1][cols-1] = '+'

	nodes := project(snap, cam)
	cell := func(p projected) (int, int) {
		x := int(p.X*float64(cols-2)/cam.Width) + 1
		y := int(p.Y*float64(rows-2)/cam.Height) + 1
		return clamp(x, 1, cols-2), clamp(y, 1, rows-2)
	}

	for _, e := range snap.Edges {
		if e.A >= len(nodes) || e.B >= len(nodes) || !nodes[e.A].Visible || !nodes[e.B].Visible {
			continue
		}
		x1, y1 := cell(nodes[e.A])
		x2, y2 := cell(nodes[e.B])
		drawLine(grid, x1, y1, x2, y2)
	}

	for _, p := range backToFront(nodes) {
		x, y := cell(p)
		symbol := 'o'
		switch {
		case p.Node.Held:
			symbol = '@'
		case p.Radius >= 6:
			symbol = 'O'
		}
		grid[y][x] = symbol
	}

	if stats && rows > 3 {
		text := []rune(caption(snap))
		for i := 0; i < len(text) && i+2 < cols-1; i++ {
			grid[rows-2][i+2] = text[i]
		}
	}

	var result strings.Builder
	for _, row := range grid {
		result.WriteString(string(row))
		result.WriteRune('\n')
	}
	return result.String()
}

// clamp a value between lo and hi
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// drawLine plots an edge on the grid using Bresenham's algorithm
func drawLine(grid [][]rune, x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 >= x2 {
		sx = -1
	}
	sy := 1
	if y1 >= y2 {
		sy = -1
	}
	err := dx + dy

	for {
		if y1 >= 0 && y1 < len(grid) && x1 >= 0 && x1 < len(grid[y1]) && grid[y1][x1] == ' ' {
			grid[y1][x1] = '.'
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
