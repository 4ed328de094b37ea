//go:build !windows

package shell

import (
	"errors"
	"image"

	"github.com/justyntemme/shellicon/internal/debug"
)

var errUnsupported = errors.New("shell icons are only available on windows")

// System is the native backend. Outside Windows there is no shell image
// list, so every query reports failure.
type System struct{}

// New returns the platform backend.
func New() *System {
	return &System{}
}

func (s *System) QueryFileInfo(path string, attrs Attributes, flags Flags) FileInfo {
	debug.Log(debug.NATIVE, "QueryFileInfo: unsupported platform, path=%q", path)
	return FileInfo{}
}

func (s *System) ExtractIcon(list ImageList, index int32, flags DrawFlags) Handle {
	return 0
}

func (s *System) DestroyIcon(h Handle) {}

func (s *System) IconImage(h Handle) (image.Image, error) {
	return nil, errUnsupported
}
