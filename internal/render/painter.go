//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads a binary cell grid into an ebiten.Image and draws it
// scaled to fill the destination image, grounded on
// ui/internal/render.GridPainter.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	return &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h), img: ebiten.NewImage(w, h)}
}

// Blit uploads cells into the painter's image and draws it scaled to fill
// dst.
func (gp *GridPainter) Blit(dst *ebiten.Image, cells []uint8, on, off color.Color) {
	if len(cells) != gp.w*gp.h {
		return
	}
	fillBinaryRGBA(gp.buf, cells, on, off)
	gp.img.ReplacePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	db := dst.Bounds()
	op.GeoM.Scale(float64(db.Dx())/float64(gp.w), float64(db.Dy())/float64(gp.h))
	dst.DrawImage(gp.img, op)
}

// Resize reallocates the painter's backing image if the grid shape changed.
func (gp *GridPainter) Resize(w, h int) {
	if w == gp.w && h == gp.h {
		return
	}
	gp.w, gp.h = w, h
	gp.buf = make([]byte, 4*w*h)
	gp.img = ebiten.NewImage(w, h)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
