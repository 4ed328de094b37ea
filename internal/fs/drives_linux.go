//go:build linux

package fs

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// ListDrives returns the root plus real mounts read from /proc/mounts.
func ListDrives() []Drive {
	drives := []Drive{{Name: "/ (Root)", Path: "/", Kind: "fixed"}}

	file, err := os.Open("/proc/mounts")
	if err != nil {
		return drives
	}
	defer file.Close()

	seen := map[string]bool{"/": true}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		mountPoint, fsType := fields[1], fields[2]

		if shouldSkipPath(mountPoint) || virtualFS[fsType] || seen[mountPoint] {
			continue
		}
		seen[mountPoint] = true

		name := mountPoint
		kind := "mount"
		switch {
		case strings.HasPrefix(mountPoint, "/media/"), strings.HasPrefix(mountPoint, "/mnt/"):
			name = filepath.Base(mountPoint)
			kind = "removable"
		case mountPoint == "/home":
			name = "Home"
		}
		drives = append(drives, Drive{Name: name, Path: mountPoint, Kind: kind})
	}

	return drives
}

var virtualFS = map[string]bool{
	"tmpfs":    true,
	"devtmpfs": true,
	"cgroup":   true,
	"cgroup2":  true,
	"proc":     true,
	"sysfs":    true,
}
