package icon

// Kind is the kind of path a resolution was made for.
type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// Outcome is the result of a single native resolution.
type Outcome string

const (
	Found       Outcome = "found"
	NotFound    Outcome = "not_found"
	CloneFailed Outcome = "clone_failed"
)

// LookupResult classifies a cache lookup.
type LookupResult string

const (
	LookupHit    LookupResult = "hit"
	LookupMiss   LookupResult = "miss"
	LookupShared LookupResult = "shared" // waited on another caller's miss
	LookupBypass LookupResult = "bypass" // denylisted extension, not cached
)

// Observer receives resolver and cache events. Implementations must be safe
// for concurrent use.
type Observer interface {
	Lookup(ext string, result LookupResult)
	Resolved(kind Kind, outcome Outcome, released int)
}

type nopObserver struct{}

func (nopObserver) Lookup(string, LookupResult) {}
func (nopObserver) Resolved(Kind, Outcome, int) {}
