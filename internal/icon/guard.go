package icon

import (
	"github.com/justyntemme/shellicon/internal/shell"
)

// handleGuard owns every native icon handle acquired during one resolution.
// release destroys each distinct handle once; calling it again is a no-op.
//
//	g := newHandleGuard(sh)
//	defer g.release()
//	h := g.track(sh.ExtractIcon(...))
type handleGuard struct {
	sh       shell.Shell
	handles  []shell.Handle
	released int
}

func newHandleGuard(sh shell.Shell) *handleGuard {
	return &handleGuard{sh: sh}
}

// track records h for release and returns it. Zero handles are ignored and a
// handle already tracked is not recorded twice.
func (g *handleGuard) track(h shell.Handle) shell.Handle {
	if h == 0 {
		return h
	}
	for _, have := range g.handles {
		if have == h {
			return h
		}
	}
	g.handles = append(g.handles, h)
	return h
}

// release destroys all tracked handles.
func (g *handleGuard) release() {
	for _, h := range g.handles {
		g.sh.DestroyIcon(h)
	}
	g.released += len(g.handles)
	g.handles = g.handles[:0]
}
