package icon

import (
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/justyntemme/shellicon/internal/debug"
)

// perFileExtensions carry an icon that can differ for every file, so their
// lookups are never cached.
var perFileExtensions = map[string]struct{}{
	".exe": {},
	".lnk": {},
	".ico": {},
	".url": {},
}

// Cacheable reports whether every file with extension ext shares one icon.
// The comparison ignores case.
func Cacheable(ext string) bool {
	_, deny := perFileExtensions[strings.ToLower(ext)]
	return !deny
}

// Extension returns the lowercased extension of the last element of path,
// including the leading dot, or "" if it has none. Both '/' and '\' separate
// elements so Windows paths behave the same on every platform.
func Extension(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		switch path[i] {
		case '.':
			if i == len(path)-1 {
				return ""
			}
			return strings.ToLower(path[i:])
		case '/', '\\', ':':
			return ""
		}
	}
	return ""
}

// extTable is one extension -> icon table. Entries are never replaced or
// evicted; the first stored icon for an extension wins.
type extTable struct {
	entries sync.Map // string -> *Icon
	group   singleflight.Group
}

// load returns the stored icon for ext, computing it with resolve if absent.
// Concurrent callers for the same ext share a single resolve call. A nil
// result is returned but not stored. The LookupResult is LookupMiss only for
// the caller that ran resolve; callers that waited on it get LookupShared.
func (t *extTable) load(ext string, resolve func() *Icon) (*Icon, LookupResult) {
	if v, ok := t.entries.Load(ext); ok {
		return v.(*Icon), LookupHit
	}

	result := LookupShared
	v, _, _ := t.group.Do(ext, func() (any, error) {
		if v, ok := t.entries.Load(ext); ok {
			result = LookupHit
			return v.(*Icon), nil
		}
		result = LookupMiss
		icon := resolve()
		if icon == nil {
			return (*Icon)(nil), nil
		}
		actual, _ := t.entries.LoadOrStore(ext, icon)
		return actual.(*Icon), nil
	})
	return v.(*Icon), result
}

func (t *extTable) len() int {
	n := 0
	t.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Cache memoizes file icons by extension. Each combination of size and link
// overlay has its own table, so a table never holds more than one icon per
// extension. Safe for concurrent use; entries live as long as the Cache.
type Cache struct {
	resolver *Resolver
	observer Observer
	tables   [2][2]extTable // [size][linkOverlay]
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCacheObserver reports every lookup to o.
func WithCacheObserver(o Observer) CacheOption {
	return func(c *Cache) {
		if o != nil {
			c.observer = o
		}
	}
}

// NewCache returns an empty Cache that resolves misses with r.
func NewCache(r *Resolver, opts ...CacheOption) *Cache {
	c := &Cache{resolver: r, observer: nopObserver{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolver returns the resolver used for misses.
func (c *Cache) Resolver() *Resolver {
	return c.resolver
}

// FileIcon returns the icon for the file at path. For cacheable extensions
// path serves as the sample for every file sharing its extension, and all
// callers get the same *Icon.
func (c *Cache) FileIcon(path string, linkOverlay bool, size Size) *Icon {
	ext := Extension(path)
	if !Cacheable(ext) {
		c.observer.Lookup(ext, LookupBypass)
		debug.Log(debug.CACHE, "bypass %q (ext=%q)", path, ext)
		return c.resolver.FileIcon(path, linkOverlay, size)
	}

	icon, result := c.table(size, linkOverlay).load(ext, func() *Icon {
		debug.Log(debug.CACHE, "miss ext=%q sample=%q size=%s overlay=%v", ext, path, size, linkOverlay)
		return c.resolver.FileIcon(path, linkOverlay, size)
	})
	c.observer.Lookup(ext, result)
	return icon
}

// Cached returns the stored icon for ext without resolving anything.
func (c *Cache) Cached(ext string, linkOverlay bool, size Size) (*Icon, bool) {
	v, ok := c.table(size, linkOverlay).entries.Load(strings.ToLower(ext))
	if !ok {
		return nil, false
	}
	return v.(*Icon), true
}

// Len returns the number of stored icons across all tables.
func (c *Cache) Len() int {
	n := 0
	for s := range c.tables {
		for o := range c.tables[s] {
			n += c.tables[s][o].len()
		}
	}
	return n
}

func (c *Cache) table(size Size, linkOverlay bool) *extTable {
	s, o := 0, 0
	if size == Large {
		s = 1
	}
	if linkOverlay {
		o = 1
	}
	return &c.tables[s][o]
}
