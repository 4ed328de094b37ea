//go:build !windows && !linux

package fs

import (
	"os"
	"path/filepath"
)

// ListDrives returns the root plus the volumes mounted under /Volumes.
func ListDrives() []Drive {
	drives := []Drive{{Name: "/", Path: "/", Kind: "fixed"}}

	entries, err := os.ReadDir("/Volumes")
	if err != nil {
		return drives
	}
	for _, e := range entries {
		full := filepath.Join("/Volumes", e.Name())
		if target, err := os.Readlink(full); err == nil && target == "/" {
			drives[0].Name = e.Name()
			continue
		}
		if info, err := os.Stat(full); err != nil || !info.IsDir() {
			continue
		}
		drives = append(drives, Drive{Name: e.Name(), Path: full, Kind: "mount"})
	}
	return drives
}
