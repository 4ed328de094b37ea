// Package shelltest provides an in-memory shell.Shell for tests.
package shelltest

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/justyntemme/shellicon/internal/shell"
)

// SystemImageList is the status value returned for successful file queries
// that requested the system image list.
const SystemImageList shell.ImageList = 0x5150

// ErrClone is returned by IconImage for paths registered with FailClone.
var ErrClone = errors.New("shelltest: clone failed")

// Call records one QueryFileInfo invocation.
type Call struct {
	Path  string
	Attrs shell.Attributes
	Flags shell.Flags
}

type entry struct {
	color     color.NRGBA
	failClone bool
	index     int32
}

type handleState struct {
	path      string
	small     bool
	destroyed bool
}

// Fake is a thread-safe shell.Shell. Only registered paths resolve; every
// other query fails. It tracks every handle it hands out so tests can assert
// that each one is destroyed exactly once.
type Fake struct {
	// OnQuery, if set, runs at the start of every QueryFileInfo call outside
	// the fake's lock.
	OnQuery func(path string)

	mu          sync.Mutex
	entries     map[string]*entry
	byIndex     map[int32]string
	handles     map[shell.Handle]*handleState
	next        shell.Handle
	calls       []Call
	extracts    int
	destroys    int
	doubleFrees int
	unknownFree int
	clones      int
}

var _ shell.Shell = (*Fake)(nil)

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		entries: make(map[string]*entry),
		byIndex: make(map[int32]string),
		handles: make(map[shell.Handle]*handleState),
		next:    0x100,
	}
}

// Add registers path with the colour its icon is filled with.
func (f *Fake) Add(path string, c color.NRGBA) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := int32(len(f.entries))
	f.entries[path] = &entry{color: c, index: idx}
	f.byIndex[idx] = path
}

// FailClone makes IconImage fail for every handle created for path.
func (f *Fake) FailClone(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.entries[path]; ok {
		e.failClone = true
	}
}

func (f *Fake) QueryFileInfo(path string, attrs shell.Attributes, flags shell.Flags) shell.FileInfo {
	if f.OnQuery != nil {
		f.OnQuery(path)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Path: path, Attrs: attrs, Flags: flags})
	e, ok := f.entries[path]
	if !ok {
		return shell.FileInfo{}
	}

	info := shell.FileInfo{Status: 1, Index: e.index}
	if flags.Has(shell.FlagSysIconIndex) {
		info.Status = SystemImageList
	}
	if flags.Has(shell.FlagIcon) {
		info.Icon = f.newHandleLocked(path, flags.Has(shell.FlagSmallIcon))
	}
	return info
}

func (f *Fake) ExtractIcon(list shell.ImageList, index int32, flags shell.DrawFlags) shell.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.extracts++
	if list != SystemImageList {
		return 0
	}
	path, ok := f.byIndex[index]
	if !ok {
		return 0
	}
	return f.newHandleLocked(path, f.lastFlagsLocked(path).Has(shell.FlagSmallIcon))
}

func (f *Fake) DestroyIcon(h shell.Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.destroys++
	st, ok := f.handles[h]
	switch {
	case !ok:
		f.unknownFree++
	case st.destroyed:
		f.doubleFrees++
	default:
		st.destroyed = true
	}
}

// IconImage returns a 16x16 (small) or 32x32 (large) image filled with the
// registered colour.
func (f *Fake) IconImage(h shell.Handle) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.clones++
	st, ok := f.handles[h]
	if !ok {
		return nil, fmt.Errorf("shelltest: unknown handle 0x%x", uintptr(h))
	}
	if st.destroyed {
		return nil, fmt.Errorf("shelltest: handle 0x%x used after destroy", uintptr(h))
	}
	e := f.entries[st.path]
	if e.failClone {
		return nil, ErrClone
	}

	size := 32
	if st.small {
		size = 16
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = e.color.R
		img.Pix[i+1] = e.color.G
		img.Pix[i+2] = e.color.B
		img.Pix[i+3] = e.color.A
	}
	return img, nil
}

func (f *Fake) newHandleLocked(path string, small bool) shell.Handle {
	f.next++
	h := f.next
	f.handles[h] = &handleState{path: path, small: small}
	return h
}

func (f *Fake) lastFlagsLocked(path string) shell.Flags {
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Path == path {
			return f.calls[i].Flags
		}
	}
	return 0
}

// Queries returns the number of QueryFileInfo calls.
func (f *Fake) Queries() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// QueriesFor returns the number of QueryFileInfo calls made for path.
func (f *Fake) QueriesFor(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Path == path {
			n++
		}
	}
	return n
}

// Calls returns a copy of every recorded query.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Extracts returns the number of ExtractIcon calls.
func (f *Fake) Extracts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.extracts
}

// Destroys returns the number of DestroyIcon calls.
func (f *Fake) Destroys() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destroys
}

// Clones returns the number of IconImage calls.
func (f *Fake) Clones() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clones
}

// Acquired returns the number of handles handed out.
func (f *Fake) Acquired() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handles)
}

// Outstanding returns the number of handles not yet destroyed.
func (f *Fake) Outstanding() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, st := range f.handles {
		if !st.destroyed {
			n++
		}
	}
	return n
}

// Balanced reports an error describing any leaked, double-freed or unknown
// handle destroys.
func (f *Fake) Balanced() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	leaked := 0
	for _, st := range f.handles {
		if !st.destroyed {
			leaked++
		}
	}
	if leaked == 0 && f.doubleFrees == 0 && f.unknownFree == 0 {
		return nil
	}
	return fmt.Errorf("handles: %d acquired, %d leaked, %d double-freed, %d unknown destroys",
		len(f.handles), leaked, f.doubleFrees, f.unknownFree)
}
