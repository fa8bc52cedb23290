// File: render.go
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"cgrCore/internal/chem"
	"cgrCore/internal/mdl"
)

// ErrEmpty is returned for graphs without atoms.
var ErrEmpty = errors.New("render: empty graph")

const (
	colorPlain   = "#000000"
	colorBroken  = "#D32F2F"
	colorFormed  = "#388E3C"
	colorChanged = "#1976D2"
)

// Config 画布参数，由 Calculate 计算
type Config struct {
	Width, Height int     // 画布尺寸
	FontSize      float64 // 字体大小
	ScaleFactor   float64 // 缩放因子

	// 需标记的原子 id
	Marked map[int]bool

	minX, minY float64
	labels     map[int]box
}

// box is the space an atom label takes around the atom centre.
type box struct{ left, right, top, bottom float64 }

var regular = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

func fontFace(size float64) (font.Face, error) {
	f, err := regular()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

// Calculate sizes a canvas whose longer side holds maxSize pixels of
// drawing plus a one font-size margin.
func Calculate(g *chem.Graph, maxSize int) (*Config, error) {
	if g.Order() == 0 {
		return nil, ErrEmpty
	}
	if maxSize <= 0 {
		return nil, fmt.Errorf("render: size must be positive, got %d", maxSize)
	}
	g = Layout(g)
	minX, minY, maxX, maxY := bounds(g)
	rx, ry := maxX-minX, maxY-minY
	span := math.Max(rx, ry)
	if span == 0 {
		span = bondLength
	}
	scale := float64(maxSize) / span

	avgBond := averageBondLength(g)
	if avgBond == 0 {
		avgBond = bondLength
	}
	fontSize := math.Min(avgBond/1.8*scale, float64(maxSize)/16.0)

	cfg := &Config{
		Width:       int(rx*scale) + 2*int(fontSize),
		Height:      int(ry*scale) + 2*int(fontSize),
		FontSize:    fontSize,
		ScaleFactor: scale,
		Marked:      make(map[int]bool),
		minX:        minX,
		minY:        minY,
		labels:      make(map[int]box),
	}
	return cfg, nil
}

// Point returns the canvas position of an atom of the laid out graph.
func (c *Config) Point(a *chem.Atom) Point {
	return Point{
		X: c.FontSize + c.ScaleFactor*(a.X-c.minX),
		Y: float64(c.Height) - c.FontSize - c.ScaleFactor*(a.Y-c.minY),
	}
}

// Graph draws a molecule or condensed graph and returns the PNG bytes.
func Graph(g *chem.Graph, cfg *Config) ([]byte, error) {
	dc, err := draw(g, cfg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func draw(g *chem.Graph, cfg *Config) (*gg.Context, error) {
	if g.Order() == 0 {
		return nil, ErrEmpty
	}
	if cfg.labels == nil {
		cfg.labels = make(map[int]box)
	}
	dc := gg.NewContext(max(cfg.Width, 1), max(cfg.Height, 1))
	// 白底
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	if err := drawGraph(dc, Layout(g), cfg); err != nil {
		return nil, err
	}
	return dc, nil
}

func drawGraph(dc *gg.Context, g *chem.Graph, cfg *Config) error {
	face, err := fontFace(cfg.FontSize)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetLineWidth(cfg.FontSize / 12)

	hs := hydrogens(g)

	// 1) 原子标签，同时记录 padding
	for _, id := range g.AtomIDs() {
		a := g.Atom(id)
		p := cfg.Point(a)
		dc.SetHexColor(colorPlain)
		b := box{}
		if a.Element != "C" || g.Degree(id) == 0 {
			label := a.Element + hydrogenSuffix(hs[id])
			w, _ := dc.MeasureString(label)
			b = box{left: w / 2, right: w / 2, top: cfg.FontSize / 2, bottom: cfg.FontSize / 2}
			dc.DrawStringAnchored(label, p.X, p.Y, 0.5, 0.5)
		}
		if cfg.Marked[id] {
			w, _ := dc.MeasureString("*")
			r := w/4 + cfg.FontSize/4
			dc.DrawStringAnchored("*", p.X-b.left-r, p.Y-r, 0.5, 0.5)
			b.left += w
		}
		if label, changed := chargeLabel(a.Attrs.Get(chem.SPCharge)); label != "" {
			if changed {
				dc.SetHexColor(colorChanged)
			}
			dc.DrawStringAnchored(label, p.X+b.right, p.Y-cfg.FontSize/2, 0, 0.5)
		}
		cfg.labels[id] = b
	}

	// 2) 键
	for _, e := range g.Edges() {
		from, to := cfg.Point(g.Atom(e.N)), cfg.Point(g.Atom(e.M))
		p1 := calcLinePointConfined(from.X, from.Y, to.X, to.Y, cfg.labels[e.N])
		p2 := calcLinePointConfined(to.X, to.Y, from.X, from.Y, cfg.labels[e.M])
		st := bondStyle(e.Bond.Attrs)
		dc.SetHexColor(st.color)
		drawBond(dc, p1, p2, st, cfg.FontSize/6)
	}
	return nil
}

type style struct {
	order  int
	color  string
	dashed bool
}

// bondStyle picks how a bond is drawn from its combined slot. Broken bonds
// keep their substrate order, formed and changed bonds show the product's.
func bondStyle(attrs chem.Attrs) style {
	v := attrs.Get(chem.SPBond)
	if !attrs.Has(chem.SPBond) {
		v = attrs.Get(chem.SBond)
		if v.IsNone() {
			v = attrs.Get(chem.PBond)
		}
	}
	switch v.Kind() {
	case chem.KindScalar:
		n, _ := v.Int()
		return style{order: n, color: colorPlain}
	case chem.KindPair:
		s, p, _ := v.Halves()
		sn, sok := s.Int()
		pn, pok := p.Int()
		switch {
		case !pok:
			return style{order: sn, color: colorBroken}
		case !sok:
			return style{order: pn, color: colorFormed}
		default:
			return style{order: pn, color: colorChanged}
		}
	}
	return style{order: 1, color: colorPlain, dashed: true}
}

func drawBond(dc *gg.Context, p1, p2 Point, st style, delta float64) {
	rad := math.Atan2(p2.Y-p1.Y, p2.X-p1.X)
	dx, dy := math.Sin(rad)*delta, -math.Cos(rad)*delta
	line := func(off float64) {
		dc.DrawLine(p1.X+dx*off, p1.Y+dy*off, p2.X+dx*off, p2.Y+dy*off)
		dc.Stroke()
	}
	if st.dashed {
		dc.SetDash(delta, delta)
		defer dc.SetDash()
	}
	switch st.order {
	case 2:
		line(0.5)
		line(-0.5)
	case 3:
		line(0)
		line(1)
		line(-1)
	case 4:
		line(0)
		dc.SetDash(delta, delta)
		line(1)
		dc.SetDash()
	default:
		line(0)
	}
}

// hydrogens counts implicit hydrogens in the substrate state, or in the
// product state for atoms the substrate lacks.
func hydrogens(g *chem.Graph) map[int]int {
	s := mdl.ImplicitHydrogens(g, chem.Substrate)
	p := mdl.ImplicitHydrogens(g, chem.Product)
	for _, id := range g.AtomIDs() {
		attrs := g.Atom(id).Attrs
		if attrs.Has(chem.SCharge) && attrs.Get(chem.SCharge).IsNone() {
			s[id] = p[id]
		}
	}
	return s
}

func hydrogenSuffix(n int) string {
	switch {
	case n <= 0:
		return ""
	case n == 1:
		return "H"
	}
	return fmt.Sprintf("H%d", n)
}

// chargeLabel formats a combined charge slot. Changes read "s→p"; the
// second result tells whether the charge changes.
func chargeLabel(v chem.Value) (string, bool) {
	if s, p, ok := v.Halves(); ok {
		return chargeText(s) + "→" + chargeText(p), true
	}
	if n, ok := v.Int(); ok && n != 0 {
		return chargeText(v), false
	}
	return "", false
}

func chargeText(v chem.Value) string {
	n, ok := v.Int()
	switch {
	case !ok:
		return ""
	case n == 0:
		return "0"
	case n == 1:
		return "+"
	case n == -1:
		return "-"
	case n > 0:
		return fmt.Sprintf("%d+", n)
	}
	return fmt.Sprintf("%d-", -n)
}
