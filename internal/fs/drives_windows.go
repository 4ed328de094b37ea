//go:build windows

package fs

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/justyntemme/shellicon/internal/debug"
)

var (
	kernel32         = windows.NewLazySystemDLL("kernel32.dll")
	getLogicalDrives = kernel32.NewProc("GetLogicalDrives")
	getDriveTypeW    = kernel32.NewProc("GetDriveTypeW")
	getVolumeInfoW   = kernel32.NewProc("GetVolumeInformationW")
)

const (
	DRIVE_UNKNOWN     = 0
	DRIVE_NO_ROOT_DIR = 1
	DRIVE_REMOVABLE   = 2
	DRIVE_FIXED       = 3
	DRIVE_REMOTE      = 4
	DRIVE_CDROM       = 5
	DRIVE_RAMDISK     = 6
)

// ListDrivePaths returns the root of every logical drive ("C:\\").
// GetLogicalDrives never blocks on disconnected drives.
func ListDrivePaths() []string {
	var paths []string

	mask, _, _ := getLogicalDrives.Call()
	if mask == 0 {
		return paths
	}
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		paths = append(paths, string(rune('A'+i))+":\\")
	}
	return paths
}

// ListDrives returns the drives with display names. GetVolumeInformationW
// can block on disconnected network shares and empty optical drives.
func ListDrives() []Drive {
	var drives []Drive

	for _, path := range ListDrivePaths() {
		letter := string(path[0])

		pathPtr, err := windows.UTF16PtrFromString(path)
		if err != nil {
			continue
		}
		driveType, _, _ := getDriveTypeW.Call(uintptr(unsafe.Pointer(pathPtr)))
		if driveType == DRIVE_UNKNOWN || driveType == DRIVE_NO_ROOT_DIR {
			continue
		}

		volumeName := make([]uint16, 256)
		ret, _, _ := getVolumeInfoW.Call(
			uintptr(unsafe.Pointer(pathPtr)),
			uintptr(unsafe.Pointer(&volumeName[0])),
			256,
			0, 0, 0, 0, 0,
		)

		name := letter + ":"
		if ret != 0 {
			if volName := windows.UTF16ToString(volumeName); volName != "" {
				name = volName + " (" + letter + ":)"
			}
		}

		kind := "fixed"
		switch driveType {
		case DRIVE_REMOVABLE:
			kind = "removable"
		case DRIVE_CDROM:
			kind = "cdrom"
		case DRIVE_REMOTE:
			kind = "network"
		case DRIVE_RAMDISK:
			kind = "ramdisk"
		}
		if name == letter+":" && kind != "fixed" {
			name = kind + " (" + letter + ":)"
		}

		debug.Log(debug.FS, "ListDrives: %s -> %q (%s)", path, name, kind)
		drives = append(drives, Drive{Name: name, Path: path, Kind: kind})
	}

	return drives
}
