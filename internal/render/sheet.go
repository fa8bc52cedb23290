// File: sheet.go
package render

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/fogleman/gg"

	"cgrCore/internal/chem"
)

// Sheet draws graphs side by side on an AutoGrid layout of square cells,
// row by row in the given order.
func Sheet(graphs []*chem.Graph, cell int) ([]byte, error) {
	if len(graphs) == 0 {
		return nil, ErrEmpty
	}
	if cell <= 0 {
		return nil, fmt.Errorf("render: cell size must be positive, got %d", cell)
	}
	cols, rows := AutoGrid(len(graphs))
	dc := gg.NewContext(cols*cell, rows*cell)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// inner drawing keeps a margin inside the cell
	inner := cell * 4 / 5
	for i, g := range graphs {
		cfg, err := Calculate(g, inner)
		if err != nil {
			return nil, fmt.Errorf("graph %d: %w", i, err)
		}
		sub, err := draw(g, cfg)
		if err != nil {
			return nil, fmt.Errorf("graph %d: %w", i, err)
		}
		cx := float64(i%cols*cell) + float64(cell)/2
		cy := float64(i/cols*cell) + float64(cell)/2
		dc.DrawImageAnchored(sub.Image(), int(cx), int(cy), 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
