package frame

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/1broseidon/focusframe/internal/geom"
	"github.com/1broseidon/focusframe/internal/surface"
)

// draw paints the border of r in c onto the surface, which must already be
// sized to r. A failed lock abandons the whole paint.
func (f *Frame) draw(r geom.Rect, c color.NRGBA) {
	f.logger.Debug("draw", "bounds", r, "color", hexColor(c))

	local := r.Local()
	err := f.handle.Draw(local, func(cv surface.Canvas) {
		paintBorder(cv, local.Width(), local.Height(), c)
	})
	switch {
	case err == nil:
	case errors.Is(err, surface.ErrInvalidRegion):
		f.stats.Skipped++
	default:
		f.stats.Dropped++
		f.logger.Warn("focus frame draw dropped", "bounds", r, "error", err)
	}
}

func paintBorder(cv surface.Canvas, width, height int, c color.NRGBA) {
	for _, stripe := range geom.Stripes(width, height, Thickness) {
		cv.Fill(stripe, c)
	}
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.A, c.R, c.G, c.B)
}
