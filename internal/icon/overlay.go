package icon

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/justyntemme/shellicon/internal/debug"
)

// keyX, keyY locate the pixel whose colour Compose treats as background.
const keyX, keyY = 1, 1

// Compose draws overlay over base and returns the result as a new Icon the
// size of base. It returns nil when base is nil; a nil overlay leaves the
// base pixels as they are.
//
// After drawing, every pixel with exactly the colour found at (1,1) is made
// transparent. This assumes (1,1) lies in the icon's background; artwork
// that reaches that pixel loses every pixel of the same colour.
func Compose(base, overlay *Icon) *Icon {
	if base == nil {
		return nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, base.Width(), base.Height()))
	draw.Draw(dst, dst.Bounds(), base.img, base.img.Rect.Min, draw.Src)
	if overlay != nil {
		draw.Draw(dst, dst.Bounds(), overlay.img, overlay.img.Rect.Min, draw.Over)
	}

	keyed := makeTransparent(dst, keyX, keyY)
	debug.Log(debug.OVERLAY, "Compose: %dx%d, keyed %d pixels", dst.Rect.Dx(), dst.Rect.Dy(), keyed)
	return &Icon{img: dst}
}

// makeTransparent clears every pixel equal to the one at (x, y) and returns
// how many were cleared. Nothing happens if (x, y) is outside img.
func makeTransparent(img *image.RGBA, x, y int) int {
	if !(image.Point{X: x, Y: y}.In(img.Rect)) {
		return 0
	}
	o := img.PixOffset(x, y)
	var key [4]uint8
	copy(key[:], img.Pix[o:o+4])

	n := 0
	for i := 0; i+3 < len(img.Pix); i += 4 {
		p := img.Pix[i : i+4 : i+4]
		if p[0] == key[0] && p[1] == key[1] && p[2] == key[2] && p[3] == key[3] {
			p[0], p[1], p[2], p[3] = 0, 0, 0, 0
			n++
		}
	}
	return n
}
