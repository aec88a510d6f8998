package recall

import "github.com/poiesic/feedrank/core"

// Status is the outcome of one recall pass.
type Status int

const (
	// StatusInactive means lexical results sufficed and recall did not run.
	StatusInactive Status = iota
	// StatusNone means recall ran and found nothing to add.
	StatusNone
	// StatusFound means recall ran and added documents.
	StatusFound
	// StatusDegraded means recall failed; lexical results stand alone.
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusInactive:
		return "inactive"
	case StatusNone:
		return "none"
	case StatusFound:
		return "found"
	case StatusDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Result describes what a recall pass did.
type Result struct {
	Status    Status
	Reason    string          // Why recall did or did not activate
	Documents []core.Document // Supplemental documents, only with StatusFound
	Err       error           // Cause, only with StatusDegraded
}

// Active reports whether the supplement ran.
func (r Result) Active() bool {
	return r.Status != StatusInactive
}
