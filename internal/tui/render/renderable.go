package render

// Renderable is the shared abstraction for layout blocks.
type Renderable interface {
	Render(area Rect, buf *Buffer)
	DesiredHeight(width int) int
}

// StaticLines wraps already-prepared lines.
type StaticLines []Line

func (s StaticLines) Render(area Rect, buf *Buffer) {
	lines := []Line(s)
	if area.Height > 0 && len(lines) > area.Height {
		lines = lines[:area.Height]
	}
	buf.WriteLines(lines...)
}

func (s StaticLines) DesiredHeight(int) int {
	return len(s)
}

// ColumnRenderable stacks children vertically.
type ColumnRenderable struct {
	children []Renderable
}

// NewColumn creates an empty column.
func NewColumn() *ColumnRenderable {
	return &ColumnRenderable{children: []Renderable{}}
}

// Push appends a child.
func (c *ColumnRenderable) Push(child Renderable) {
	if c == nil || child == nil {
		return
	}
	c.children = append(c.children, child)
}

// Render draws children top to bottom.
func (c *ColumnRenderable) Render(area Rect, buf *Buffer) {
	if c == nil {
		return
	}
	y := area.Y
	for _, child := range c.children {
		height := child.DesiredHeight(area.Width)
		childArea := Rect{X: area.X, Y: y, Width: area.Width, Height: height}
		child.Render(childArea, buf)
		y += height
		if area.Height > 0 && y-area.Y >= area.Height {
			break
		}
	}
}

// DesiredHeight sums all child heights.
func (c *ColumnRenderable) DesiredHeight(width int) int {
	if c == nil {
		return 0
	}
	total := 0
	for _, child := range c.children {
		total += child.DesiredHeight(width)
	}
	return total
}
