// Package icon resolves, caches and badges the icons the Windows shell
// associates with files and folders.
//
// Resolver talks to the shell through shell.Shell and always returns owned
// pixel copies; no native handle outlives a call. Cache memoizes file icons
// per extension for extensions whose icon does not vary per file. Compose
// draws an overlay badge onto an icon.
package icon

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

// Size selects the small (16x16) or large (32x32) shell icon.
type Size int

const (
	Small Size = iota
	Large
)

func (s Size) String() string {
	if s == Large {
		return "large"
	}
	return "small"
}

// ParseSize maps "large" in any case to Large and anything else to Small.
func ParseSize(s string) Size {
	if strings.EqualFold(strings.TrimSpace(s), "large") {
		return Large
	}
	return Small
}

// FolderState selects the open or closed folder icon. The zero value marks
// a file request.
type FolderState int

const (
	NotFolder FolderState = iota
	Open
	Closed
)

func (s FolderState) String() string {
	switch s {
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "file"
	}
}

// Request describes a single icon lookup.
type Request struct {
	Path        string
	LinkOverlay bool
	Size        Size
	Folder      FolderState
}

// Resolve runs the request against r without caching.
func (req Request) Resolve(r *Resolver) *Icon {
	if req.Folder != NotFolder {
		return r.FolderIcon(req.Path, req.Folder, req.LinkOverlay, req.Size)
	}
	return r.FileIcon(req.Path, req.LinkOverlay, req.Size)
}

// Icon is an owned RGBA bitmap. It holds no native resources and is never
// modified after construction, so a single *Icon may be shared freely.
type Icon struct {
	img *image.RGBA
}

// FromImage copies src into a new Icon whose bounds start at the origin.
func FromImage(src image.Image) *Icon {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return &Icon{img: dst}
}

func (i *Icon) ColorModel() color.Model { return color.RGBAModel }

func (i *Icon) Bounds() image.Rectangle { return i.img.Rect }

func (i *Icon) At(x, y int) color.Color { return i.img.At(x, y) }

// Width returns the icon width in pixels.
func (i *Icon) Width() int { return i.img.Rect.Dx() }

// Height returns the icon height in pixels.
func (i *Icon) Height() int { return i.img.Rect.Dy() }

// RGBA returns a copy of the icon's pixels.
func (i *Icon) RGBA() *image.RGBA {
	cp := *i.img
	cp.Pix = append([]uint8(nil), i.img.Pix...)
	return &cp
}

// Equal reports whether both icons have the same size and pixels.
func (i *Icon) Equal(o *Icon) bool {
	if i == nil || o == nil {
		return i == o
	}
	if i.img.Rect != o.img.Rect || len(i.img.Pix) != len(o.img.Pix) {
		return false
	}
	for k := range i.img.Pix {
		if i.img.Pix[k] != o.img.Pix[k] {
			return false
		}
	}
	return true
}

// Scale returns a copy of i resized to fit within px by px, preserving the
// aspect ratio. Icons already that size are returned unchanged.
func Scale(i *Icon, px int) *Icon {
	if i == nil || px <= 0 {
		return i
	}
	w, h := i.Width(), i.Height()
	if max(w, h) == px {
		return i
	}

	var scale float64
	if w > h {
		scale = float64(px) / float64(w)
	} else {
		scale = float64(px) / float64(h)
	}
	nw := max(1, int(float64(w)*scale))
	nh := max(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.BiLinear.Scale(dst, dst.Bounds(), i.img, i.img.Rect, draw.Src, nil)
	return &Icon{img: dst}
}
