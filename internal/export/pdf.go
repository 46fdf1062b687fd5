// Package export renders a session snapshot into a shareable artifact.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/lenin-jr/Realtime-canvas/internal/canvas"
)

// pxPerMM scales canvas pixels down onto an A4 page.
const pxPerMM = 3.0

// PDF writes the strokes of a snapshot as vector line segments to path.
func PDF(path string, snap canvas.Snapshot) error {
	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()

	for _, st := range snap.Strokes {
		r, g, b := parseHexColor(st.Color)
		p.SetDrawColor(r, g, b)
		width := float64(st.Width) / pxPerMM
		if width <= 0 {
			width = 0.5
		}
		p.SetLineWidth(width)
		for i := 1; i < len(st.Points); i++ {
			p.Line(
				st.Points[i-1].X/pxPerMM, st.Points[i-1].Y/pxPerMM,
				st.Points[i].X/pxPerMM, st.Points[i].Y/pxPerMM,
			)
		}
	}

	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %q: %w", path, err)
	}
	return nil
}

// parseHexColor turns "#rrggbb" into RGB components, defaulting to black.
func parseHexColor(s string) (int, int, int) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
