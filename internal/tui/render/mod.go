package render

// Rect is a rectangular area in line/column space.
type Rect struct {
	X, Y          int
	Width, Height int
}
