// Package core holds the terminal-independent types shared by games and the
// platform: the colored screen buffer, input actions, runtime settings and save
// snapshots. It must not import Bubble Tea.
package core

// Rect is an axis-aligned area of the screen.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.H }

// Inset shrinks the rectangle by n cells on every side.
func (r Rect) Inset(n int) Rect {
	out := Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
	out.W = max(out.W, 0)
	out.H = max(out.H, 0)
	return out
}

// SplitTop cuts h rows off the top and returns them and the remainder.
func (r Rect) SplitTop(h int) (top, rest Rect) {
	h = Clamp(h, 0, r.H)
	top = Rect{X: r.X, Y: r.Y, W: r.W, H: h}
	rest = Rect{X: r.X, Y: r.Y + h, W: r.W, H: r.H - h}
	return top, rest
}

// SplitBottom cuts h rows off the bottom and returns the remainder and them.
func (r Rect) SplitBottom(h int) (rest, bottom Rect) {
	h = Clamp(h, 0, r.H)
	rest = Rect{X: r.X, Y: r.Y, W: r.W, H: r.H - h}
	bottom = Rect{X: r.X, Y: r.Bottom() - h, W: r.W, H: h}
	return rest, bottom
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts val to [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts val to [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Wrap maps i into [0, n) with wrap-around in both directions.
func Wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
