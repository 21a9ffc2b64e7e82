package core

import "math"

// Vec2 is a world-space position, velocity or direction.
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64 { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Length() float64 { return math.Hypot(a.X, a.Y) }
func (a Vec2) Distance(b Vec2) float64 { return a.Sub(b).Length() }

func (a Vec2) Normalize() Vec2 {
	l := a.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}

// Mix linearly interpolates between a and b.
func Mix(a, b Vec2, t float64) Vec2 {
	return a.Add(b.Sub(a).Scale(t))
}

func mixf(a, b, t float64) float64 { return a + (b-a)*t }

func roundToInt(f float64) int {
	if f > 0 {
		return int(f + 0.5)
	}
	return int(f - 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// angleOf returns the direction angle of v in radians.
func angleOf(v Vec2) float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	a := math.Atan(v.Y / v.X)
	if v.X < 0 {
		a += math.Pi
	}
	return a
}

func direction(angle float64) Vec2 {
	return Vec2{math.Cos(angle), math.Sin(angle)}
}

// closestPointOnLine projects p onto the segment a-b.
func closestPointOnLine(a, b, p Vec2) Vec2 {
	ab := b.Sub(a)
	den := ab.Dot(ab)
	if den == 0 {
		return a
	}
	t := clampf(p.Sub(a).Dot(ab)/den, 0, 1)
	return a.Add(ab.Scale(t))
}
