//go:build windows

package shell

// Icon handles come from SHGetFileInfoW and ImageList_GetIcon. Pixels are read
// back through GetIconInfo + GetDIBits so the caller ends up with a plain Go
// image and can destroy the handle right away.

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/justyntemme/shellicon/internal/debug"
)

var (
	shell32  = windows.NewLazySystemDLL("shell32.dll")
	comctl32 = windows.NewLazySystemDLL("comctl32.dll")
	user32   = windows.NewLazySystemDLL("user32.dll")
	gdi32    = windows.NewLazySystemDLL("gdi32.dll")

	procSHGetFileInfoW   = shell32.NewProc("SHGetFileInfoW")
	procImageListGetIcon = comctl32.NewProc("ImageList_GetIcon")
	procDestroyIcon      = user32.NewProc("DestroyIcon")
	procGetIconInfo      = user32.NewProc("GetIconInfo")
	procGetDC            = user32.NewProc("GetDC")
	procReleaseDC        = user32.NewProc("ReleaseDC")
	procGetObjectW       = gdi32.NewProc("GetObjectW")
	procGetDIBits        = gdi32.NewProc("GetDIBits")
	procDeleteObject     = gdi32.NewProc("DeleteObject")
)

const (
	BI_RGB         = 0
	DIB_RGB_COLORS = 0
)

// SHFILEINFOW
type shFileInfo struct {
	hIcon         uintptr
	iIcon         int32
	dwAttributes  uint32
	szDisplayName [windows.MAX_PATH]uint16
	szTypeName    [80]uint16
}

// ICONINFO
type iconInfo struct {
	fIcon    int32
	xHotspot uint32
	yHotspot uint32
	hbmMask  uintptr
	hbmColor uintptr
}

// BITMAP
type bitmap struct {
	bmType       int32
	bmWidth      int32
	bmHeight     int32
	bmWidthBytes int32
	bmPlanes     uint16
	bmBitsPixel  uint16
	bmBits       uintptr
}

// BITMAPINFOHEADER
type bitmapInfoHeader struct {
	biSize          uint32
	biWidth         int32
	biHeight        int32
	biPlanes        uint16
	biBitCount      uint16
	biCompression   uint32
	biSizeImage     uint32
	biXPelsPerMeter int32
	biYPelsPerMeter int32
	biClrUsed       uint32
	biClrImportant  uint32
}

// BITMAPINFO with room for the two palette entries GetDIBits may write.
type bitmapInfo struct {
	header bitmapInfoHeader
	colors [2]uint32
}

var errMonochrome = errors.New("monochrome icons are not supported")

// System is the Windows shell backend. It is safe for concurrent use; the
// shell calls it wraps are reentrant.
type System struct{}

// New returns the platform backend.
func New() *System {
	return &System{}
}

// QueryFileInfo wraps SHGetFileInfoW.
func (s *System) QueryFileInfo(path string, attrs Attributes, flags Flags) FileInfo {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		debug.Log(debug.NATIVE, "QueryFileInfo: bad path %q: %v", path, err)
		return FileInfo{}
	}

	var sfi shFileInfo
	ret, _, _ := procSHGetFileInfoW.Call(
		uintptr(unsafe.Pointer(pathPtr)),
		uintptr(attrs),
		uintptr(unsafe.Pointer(&sfi)),
		unsafe.Sizeof(sfi),
		uintptr(flags),
	)
	if ret == 0 {
		debug.Log(debug.NATIVE, "SHGetFileInfoW failed for %q (flags=0x%x)", path, uint32(flags))
		return FileInfo{}
	}

	return FileInfo{
		Status: ImageList(ret),
		Icon:   Handle(sfi.hIcon),
		Index:  sfi.iIcon,
	}
}

// ExtractIcon wraps ImageList_GetIcon.
func (s *System) ExtractIcon(list ImageList, index int32, flags DrawFlags) Handle {
	h, _, _ := procImageListGetIcon.Call(uintptr(list), uintptr(index), uintptr(flags))
	if h == 0 {
		debug.Log(debug.NATIVE, "ImageList_GetIcon failed: list=0x%x index=%d", uintptr(list), index)
	}
	return Handle(h)
}

// DestroyIcon wraps user32 DestroyIcon. The return status is ignored.
func (s *System) DestroyIcon(h Handle) {
	if h == 0 {
		return
	}
	procDestroyIcon.Call(uintptr(h))
}

// IconImage copies the colour bitmap behind h into an NRGBA image. Icons
// without an alpha channel take their transparency from the AND mask.
func (s *System) IconImage(h Handle) (image.Image, error) {
	if h == 0 {
		return nil, errors.New("nil icon handle")
	}

	var ii iconInfo
	if r, _, err := procGetIconInfo.Call(uintptr(h), uintptr(unsafe.Pointer(&ii))); r == 0 {
		return nil, fmt.Errorf("GetIconInfo: %w", err)
	}
	// GetIconInfo hands us copies of both bitmaps; they are ours to delete.
	defer deleteObject(ii.hbmMask)
	defer deleteObject(ii.hbmColor)

	if ii.hbmColor == 0 {
		return nil, errMonochrome
	}

	var bm bitmap
	if r, _, _ := procGetObjectW.Call(ii.hbmColor, unsafe.Sizeof(bm), uintptr(unsafe.Pointer(&bm))); r == 0 {
		return nil, errors.New("GetObjectW failed for icon bitmap")
	}
	width, height := int(bm.bmWidth), int(bm.bmHeight)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid icon size %dx%d", width, height)
	}

	hdc, _, _ := procGetDC.Call(0)
	if hdc == 0 {
		return nil, errors.New("GetDC failed")
	}
	defer procReleaseDC.Call(0, hdc)

	color, err := readBits(hdc, ii.hbmColor, width, height)
	if err != nil {
		return nil, fmt.Errorf("color bits: %w", err)
	}
	var mask []byte
	if ii.hbmMask != 0 {
		mask, err = readBits(hdc, ii.hbmMask, width, height)
		if err != nil {
			return nil, fmt.Errorf("mask bits: %w", err)
		}
	}

	hasAlpha := false
	for i := 3; i < len(color); i += 4 {
		if color[i] != 0 {
			hasAlpha = true
			break
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		o := i * 4
		a := color[o+3]
		if !hasAlpha {
			a = 0xFF
			if mask != nil && mask[o] != 0 {
				a = 0
			}
		}
		// DIB rows are BGRA
		img.Pix[o+0] = color[o+2]
		img.Pix[o+1] = color[o+1]
		img.Pix[o+2] = color[o+0]
		img.Pix[o+3] = a
	}
	return img, nil
}

// readBits reads a bitmap as 32bpp top-down BGRA.
func readBits(hdc, hbm uintptr, width, height int) ([]byte, error) {
	bi := bitmapInfo{header: bitmapInfoHeader{
		biWidth:       int32(width),
		biHeight:      -int32(height),
		biPlanes:      1,
		biBitCount:    32,
		biCompression: BI_RGB,
	}}
	bi.header.biSize = uint32(unsafe.Sizeof(bi.header))

	buf := make([]byte, width*height*4)
	lines, _, _ := procGetDIBits.Call(
		hdc,
		hbm,
		0,
		uintptr(height),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&bi)),
		DIB_RGB_COLORS,
	)
	if lines == 0 {
		return nil, errors.New("GetDIBits returned no scan lines")
	}
	return buf, nil
}

func deleteObject(h uintptr) {
	if h != 0 {
		procDeleteObject.Call(h)
	}
}
