package fs

// Drive is a mounted drive or volume root.
type Drive struct {
	Name string
	Path string
	Kind string // "fixed", "removable", "network", "cdrom", "ramdisk" or "mount"
}
