// Package ui turns resolved icons into Gio image operations.
package ui

import (
	"container/list"
	"image"
	"sync"

	"gioui.org/op/paint"

	"github.com/justyntemme/shellicon/internal/debug"
	"github.com/justyntemme/shellicon/internal/icon"
)

// IconOps is an LRU cache of paint.ImageOps, one per icon and display size.
// Building an ImageOp uploads a texture the first time it is drawn, so a
// file list reuses the op for every row sharing an icon.
type IconOps struct {
	mu      sync.Mutex
	cache   map[opKey]*opEntry
	lru     *list.List // front = most recent
	maxSize int
}

type opKey struct {
	icon *icon.Icon
	px   int
}

type opEntry struct {
	key     opKey
	op      paint.ImageOp
	size    image.Point
	element *list.Element
}

// NewIconOps creates a cache holding at most maxEntries ops.
func NewIconOps(maxEntries int) *IconOps {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &IconOps{
		cache:   make(map[opKey]*opEntry),
		lru:     list.New(),
		maxSize: maxEntries,
	}
}

// Op returns the ImageOp for ic scaled so its longer side is px, plus the
// scaled size. px <= 0 keeps the icon's own size. A nil icon yields false.
func (c *IconOps) Op(ic *icon.Icon, px int) (paint.ImageOp, image.Point, bool) {
	if ic == nil {
		return paint.ImageOp{}, image.Point{}, false
	}
	if px <= 0 {
		px = max(ic.Width(), ic.Height())
	}
	key := opKey{icon: ic, px: px}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.cache[key]; ok {
		c.lru.MoveToFront(entry.element)
		return entry.op, entry.size, true
	}

	scaled := icon.Scale(ic, px)
	entry := &opEntry{
		key:  key,
		op:   paint.NewImageOp(scaled),
		size: image.Pt(scaled.Width(), scaled.Height()),
	}

	for c.lru.Len() >= c.maxSize {
		oldest := c.lru.Back()
		old := oldest.Value.(*opEntry)
		delete(c.cache, old.key)
		c.lru.Remove(oldest)
		debug.Log(debug.UI, "IconOps: evicted %dpx op", old.key.px)
	}
	entry.element = c.lru.PushFront(entry)
	c.cache[key] = entry
	return entry.op, entry.size, true
}

// Len returns the number of cached ops.
func (c *IconOps) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Clear removes all entries.
func (c *IconOps) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[opKey]*opEntry)
	c.lru = list.New()
	debug.Log(debug.UI, "IconOps: cleared")
}
