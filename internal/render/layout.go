// File: layout.go
package render

import (
	"math"

	"cgrCore/internal/chem"
)

// bondLength is the distance between neighbours in generated layouts, in
// molfile units.
const bondLength = 1.5

// Layout returns g when its atoms carry 2D coordinates. Otherwise it
// returns a copy with the atoms placed on a circle in id order.
func Layout(g *chem.Graph) *chem.Graph {
	if g.Order() < 2 {
		return g
	}
	minX, minY, maxX, maxY := bounds(g)
	if maxX > minX || maxY > minY {
		return g
	}
	out := g.Clone()
	ids := out.AtomIDs()
	n := float64(len(ids))
	r := bondLength / 2
	if len(ids) > 2 {
		r = bondLength / (2 * math.Sin(math.Pi/n))
	}
	for i, id := range ids {
		rad := 2*math.Pi*float64(i)/n + math.Pi/2
		a := out.Atom(id)
		a.X = r * math.Cos(rad)
		a.Y = r * math.Sin(rad)
	}
	return out
}

func bounds(g *chem.Graph) (minX, minY, maxX, maxY float64) {
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY = -math.MaxFloat64, -math.MaxFloat64
	for _, id := range g.AtomIDs() {
		a := g.Atom(id)
		minX, maxX = math.Min(minX, a.X), math.Max(maxX, a.X)
		minY, maxY = math.Min(minY, a.Y), math.Max(maxY, a.Y)
	}
	return
}

func averageBondLength(g *chem.Graph) float64 {
	edges := g.Edges()
	if len(edges) == 0 {
		return 0
	}
	total := 0.0
	for _, e := range edges {
		a1, a2 := g.Atom(e.N), g.Atom(e.M)
		total += math.Hypot(a1.X-a2.X, a1.Y-a2.Y)
	}
	return total / float64(len(edges))
}

// Point 画布上的像素坐标
type Point struct{ X, Y float64 }

// calcLinePointConfined moves a bond end from the atom centre (x, y) to the
// edge of its label box, towards (x2, y2).
func calcLinePointConfined(x, y, x2, y2 float64, b box) Point {
	w := b.right
	if x2 <= x {
		w = b.left
	}
	h := b.top
	if y2 < y {
		h = b.bottom
	}
	k := math.Atan2(h, w)
	sigx := math.Copysign(1, x2-x)
	sigy := math.Copysign(1, y2-y)
	absRad := math.Atan2(math.Abs(y2-y), math.Abs(x2-x))
	if absRad > k {
		return Point{X: x + sigx*h/math.Tan(absRad), Y: y + sigy*h}
	}
	return Point{X: x + sigx*w, Y: y + sigy*w*math.Tan(absRad)}
}

// AutoGrid computes a grid of cols×rows to neatly hold n items
func AutoGrid(n int) (cols, rows int) {
	if n <= 0 {
		return 1, 1
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = int(math.Ceil(float64(n) / float64(cols)))
	return
}
