// Package curve provides the piecewise-linear characteristic curves used
// by the driver and module models.
package curve

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Point is a single (x, y) sample.
type Point struct {
	X float64
	Y float64
}

// Curve is a piecewise-linear curve over samples sorted ascending by X.
// The zero value is an empty curve. A Curve is never mutated once built.
type Curve struct {
	points []Point
}

// New builds a curve from points. Non-finite samples are dropped and the
// rest are stable-sorted by X, so equal-X samples keep their input order.
func New(points []Point) Curve {
	kept := make([]Point, 0, len(points))
	for _, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			continue
		}
		kept = append(kept, p)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].X < kept[j].X })
	return Curve{points: kept}
}

// FromSamples builds a curve from two parallel sample arrays as decoded
// from a catalog file. Entries may be numbers or numeric strings; pairs
// with anything else are dropped rather than failing the whole curve.
// Entries beyond the shorter array are ignored.
func FromSamples(xs, ys []any) Curve {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	points := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		x, ok := toFloat(xs[i])
		if !ok {
			continue
		}
		y, ok := toFloat(ys[i])
		if !ok {
			continue
		}
		points = append(points, Point{X: x, Y: y})
	}
	return New(points)
}

// Evaluate returns the curve value at target. The second return is false
// only when the curve has no samples. Targets outside the sampled range
// clamp to the first or last Y.
func (c Curve) Evaluate(target float64) (float64, bool) {
	if len(c.points) == 0 {
		return 0, false
	}
	if target <= c.points[0].X {
		return c.points[0].Y, true
	}
	last := c.points[len(c.points)-1]
	if target >= last.X {
		return last.Y, true
	}
	for i := 1; i < len(c.points); i++ {
		if target > c.points[i].X {
			continue
		}
		p0, p1 := c.points[i-1], c.points[i]
		if p1.X == p0.X {
			// Duplicate X, take the later sample
			return p1.Y, true
		}
		ratio := (target - p0.X) / (p1.X - p0.X)
		return p0.Y + ratio*(p1.Y-p0.Y), true
	}
	return last.Y, true
}

func (c Curve) Len() int { return len(c.points) }

func (c Curve) Empty() bool { return len(c.points) == 0 }

// Points returns a copy of the samples in evaluation order.
func (c Curve) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, finite(n)
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil && finite(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil && finite(f)
	default:
		return 0, false
	}
}
