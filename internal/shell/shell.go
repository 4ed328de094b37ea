// Package shell is the native capability surface used to resolve system icons.
//
// The Windows backend talks to shell32, comctl32, user32 and gdi32 directly.
// Every other platform gets a backend whose queries always fail, so callers
// see "no icon" rather than an error.
package shell

import "image"

// Handle is a native icon handle. Zero means no handle.
// A non-zero Handle must be passed to DestroyIcon exactly once.
type Handle uintptr

// ImageList is the status value returned by QueryFileInfo. When the query
// asked for FlagSysIconIndex it is the system image list, which belongs to
// the shell and is never destroyed.
type ImageList uintptr

// Flags select what QueryFileInfo returns (SHGFI_*).
type Flags uint32

const (
	FlagLargeIcon    Flags = 0x000000000
	FlagSmallIcon    Flags = 0x000000001
	FlagOpenIcon     Flags = 0x000000002
	FlagIcon         Flags = 0x000000100
	FlagSysIconIndex Flags = 0x000004000
	FlagLinkOverlay  Flags = 0x000008000
)

// Has reports whether all bits of o are set in f.
func (f Flags) Has(o Flags) bool { return f&o == o }

// Attributes is the file attribute hint passed with a query (FILE_ATTRIBUTE_*).
type Attributes uint32

const (
	AttrDirectory Attributes = 0x00000010
	AttrNormal    Attributes = 0x00000080
)

// DrawFlags control image list extraction (ILD_*).
type DrawFlags uint32

const (
	DrawNormal      DrawFlags = 0x00000000
	DrawTransparent DrawFlags = 0x00000001
)

// FileInfo is the result of a file info query.
type FileInfo struct {
	Status ImageList // zero on failure
	Icon   Handle    // icon handle filled in when FlagIcon was requested
	Index  int32     // system image list index
}

// OK reports whether the query succeeded.
func (fi FileInfo) OK() bool { return fi.Status != 0 }

// Shell is the set of native calls icon resolution depends on.
type Shell interface {
	// QueryFileInfo resolves icon information for path.
	QueryFileInfo(path string, attrs Attributes, flags Flags) FileInfo

	// ExtractIcon creates a new icon handle from an image list entry.
	// Returns zero on failure.
	ExtractIcon(list ImageList, index int32, flags DrawFlags) Handle

	// DestroyIcon releases an icon handle. Failures are ignored.
	DestroyIcon(h Handle)

	// IconImage copies the pixels of a live icon handle into a new image.
	// The handle remains owned by the caller.
	IconImage(h Handle) (image.Image, error)
}
