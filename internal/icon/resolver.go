package icon

import (
	"errors"
	"fmt"

	"github.com/justyntemme/shellicon/internal/debug"
	"github.com/justyntemme/shellicon/internal/shell"
)

var (
	// ErrNativeQuery means the shell could not resolve the path.
	ErrNativeQuery = errors.New("shell query failed")
	// ErrNoHandle means the query succeeded but produced no usable icon handle.
	ErrNoHandle = errors.New("no icon handle")
	// ErrClone means the icon handle could not be copied into an Icon.
	ErrClone = errors.New("clone icon")
)

// Resolver performs uncached icon lookups. It is safe for concurrent use.
type Resolver struct {
	sh       shell.Shell
	observer Observer
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverObserver reports every resolution to o.
func WithResolverObserver(o Observer) ResolverOption {
	return func(r *Resolver) {
		if o != nil {
			r.observer = o
		}
	}
}

// NewResolver returns a Resolver backed by sh.
func NewResolver(sh shell.Shell, opts ...ResolverOption) *Resolver {
	r := &Resolver{sh: sh, observer: nopObserver{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FileIcon returns the icon for the file at path, or nil if the shell has
// none for it. With linkOverlay the shell's shortcut arrow is baked in.
func (r *Resolver) FileIcon(path string, linkOverlay bool, size Size) *Icon {
	icon, err := r.resolveFile(path, linkOverlay, size)
	if err != nil {
		debug.Log(debug.ICON, "FileIcon: path=%q: %v", path, err)
		return nil
	}
	return icon
}

// FolderIcon returns the open or closed icon for the folder at path, or nil.
func (r *Resolver) FolderIcon(path string, state FolderState, linkOverlay bool, size Size) *Icon {
	icon, err := r.resolveFolder(path, state, linkOverlay, size)
	if err != nil {
		debug.Log(debug.ICON, "FolderIcon: path=%q state=%s: %v", path, state, err)
		return nil
	}
	return icon
}

func (r *Resolver) resolveFile(path string, linkOverlay bool, size Size) (icon *Icon, err error) {
	flags := shell.FlagIcon | shell.FlagSysIconIndex | sizeFlag(size)
	if linkOverlay {
		flags |= shell.FlagLinkOverlay
	}

	info := r.sh.QueryFileInfo(path, shell.AttrNormal, flags)
	if !info.OK() {
		r.observer.Resolved(KindFile, NotFound, 0)
		return nil, ErrNativeQuery
	}

	g := newHandleGuard(r.sh)
	defer func() {
		g.release()
		r.observer.Resolved(KindFile, outcomeOf(err), g.released)
	}()

	// With the link overlay requested the shell composes the arrow into
	// hIcon itself; the image list entry is the bare file type icon.
	h := g.track(info.Icon)
	if !linkOverlay {
		h = g.track(r.sh.ExtractIcon(info.Status, info.Index, shell.DrawTransparent))
	}
	return r.clone(h)
}

func (r *Resolver) resolveFolder(path string, state FolderState, linkOverlay bool, size Size) (icon *Icon, err error) {
	flags := shell.FlagIcon | sizeFlag(size)
	if linkOverlay {
		flags |= shell.FlagLinkOverlay
	}
	if state == Open {
		flags |= shell.FlagOpenIcon
	}

	info := r.sh.QueryFileInfo(path, shell.AttrDirectory, flags)
	if !info.OK() {
		r.observer.Resolved(KindFolder, NotFound, 0)
		return nil, ErrNativeQuery
	}

	g := newHandleGuard(r.sh)
	defer func() {
		g.release()
		r.observer.Resolved(KindFolder, outcomeOf(err), g.released)
	}()

	return r.clone(g.track(info.Icon))
}

// clone copies the pixels behind h. The handle stays owned by the caller's
// guard. A panic inside the native copy is reported as ErrClone.
func (r *Resolver) clone(h shell.Handle) (icon *Icon, err error) {
	if h == 0 {
		return nil, ErrNoHandle
	}
	defer func() {
		if p := recover(); p != nil {
			icon, err = nil, fmt.Errorf("%w: panic: %v", ErrClone, p)
		}
	}()

	img, err := r.sh.IconImage(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClone, err)
	}
	if img == nil {
		return nil, fmt.Errorf("%w: empty image", ErrClone)
	}
	return FromImage(img), nil
}

func sizeFlag(size Size) shell.Flags {
	if size == Large {
		return shell.FlagLargeIcon
	}
	return shell.FlagSmallIcon
}

func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return Found
	case errors.Is(err, ErrClone):
		return CloneFailed
	default:
		return NotFound
	}
}
