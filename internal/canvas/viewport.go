package canvas

const (
	MinZoom = 0.35
	MaxZoom = 2.5

	// Padding fraction kept around the content box by FitToContent.
	fitPadding = 0.10
)

// Viewport maps world (canvas) coordinates to screen coordinates:
// screen = world*Zoom + Pan. Per-client state, never shared.
type Viewport struct {
	Zoom float64 `json:"zoom"`
	Pan  Point   `json:"pan"`
}

func DefaultViewport() Viewport {
	return Viewport{Zoom: 1}
}

func ClampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// ZoomAt adjusts zoom by delta and re-solves the pan so the world point
// under screenPoint stays under screenPoint (zoom-to-cursor).
func (v *Viewport) ZoomAt(screenPoint Point, delta float64) {
	oldZoom := v.Zoom
	newZoom := ClampZoom(oldZoom + delta)
	if newZoom == oldZoom {
		return
	}
	ratio := newZoom / oldZoom
	v.Pan.X = screenPoint.X - (screenPoint.X-v.Pan.X)*ratio
	v.Pan.Y = screenPoint.Y - (screenPoint.Y-v.Pan.Y)*ratio
	v.Zoom = newZoom
}

// PanBy translates the view unconditionally.
func (v *Viewport) PanBy(delta Point) {
	v.Pan.X += delta.X
	v.Pan.Y += delta.Y
}

// ToWorld converts a screen point to world coordinates.
func (v *Viewport) ToWorld(screen Point) Point {
	return Point{
		X: (screen.X - v.Pan.X) / v.Zoom,
		Y: (screen.Y - v.Pan.Y) / v.Zoom,
	}
}

// ToScreen converts a world point to screen coordinates.
func (v *Viewport) ToScreen(world Point) Point {
	return Point{
		X: world.X*v.Zoom + v.Pan.X,
		Y: world.Y*v.Zoom + v.Pan.Y,
	}
}

// Bounds is an axis-aligned box in world coordinates.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// BoundsOf computes the bounding box of a node set. ok is false for an
// empty set.
func BoundsOf(nodes []*Node) (b Bounds, ok bool) {
	for i, n := range nodes {
		if i == 0 {
			b = Bounds{MinX: n.X, MinY: n.Y, MaxX: n.X, MaxY: n.Y}
			ok = true
			continue
		}
		if n.X < b.MinX {
			b.MinX = n.X
		}
		if n.Y < b.MinY {
			b.MinY = n.Y
		}
		if n.X > b.MaxX {
			b.MaxX = n.X
		}
		if n.Y > b.MaxY {
			b.MaxY = n.Y
		}
	}
	return b, ok
}

// FitToContent picks the zoom (within bounds) that fits the content box
// with the padding fraction on each side, and pans so the box is
// centered in a viewport of the given size.
func (v *Viewport) FitToContent(content Bounds, viewportSize Point) {
	zoom := MaxZoom
	usableX := viewportSize.X * (1 - 2*fitPadding)
	usableY := viewportSize.Y * (1 - 2*fitPadding)
	if content.Width() > 0 && usableX > 0 {
		if z := usableX / content.Width(); z < zoom {
			zoom = z
		}
	}
	if content.Height() > 0 && usableY > 0 {
		if z := usableY / content.Height(); z < zoom {
			zoom = z
		}
	}
	v.Zoom = ClampZoom(zoom)

	centerX := content.MinX + content.Width()/2
	centerY := content.MinY + content.Height()/2
	v.Pan.X = viewportSize.X/2 - centerX*v.Zoom
	v.Pan.Y = viewportSize.Y/2 - centerY*v.Zoom
}
