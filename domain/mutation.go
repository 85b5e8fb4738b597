package domain

import (
	"context"
	"strings"
)

type MutationType int

const (
	Mount MutationType = iota
	Unmount
	ContentChange
	Reorder
)

func (t MutationType) String() string {
	switch t {
	case Mount:
		return "mount"
	case Unmount:
		return "unmount"
	case ContentChange:
		return "content-change"
	case Reorder:
		return "reorder"
	default:
		return "unknown"
	}
}

// TreePosition locates a participant in the UI tree. Path is the
// slash-separated chain of parent keys, Index the slot within the parent.
type TreePosition struct {
	Path  string
	Index int
}

// Contains reports whether other sits inside this position's subtree.
func (p TreePosition) Contains(other TreePosition) bool {
	if p.Path == "" || p.Path == other.Path {
		return false
	}
	return strings.HasPrefix(other.Path, p.Path+"/")
}

// TreeEvent is one tree-diff entry supplied by the reconciliation engine.
// Which positions are meaningful depends on Type: Mount carries only New,
// Unmount only Old, ContentChange and Reorder carry both.
type TreeEvent struct {
	Type        MutationType
	Participant *Participant
	Old         TreePosition
	New         TreePosition

	// DOMAdjacent reports whether the participant directly wraps the
	// mutated host node. A nested participant that is not DOM-adjacent
	// is excluded when an enclosing participant transitions.
	DOMAdjacent bool
}

// CommitFunc applies the underlying UI mutation. It runs between the two
// snapshot phases and is supplied by the reconciliation engine.
type CommitFunc func(ctx context.Context) error

// Mutation is the unit of work proposed to the scheduler. Only mutations
// marked NonBlocking are transition-eligible; blocking ones commit with no
// animation.
type Mutation struct {
	Events      []TreeEvent
	Commit      CommitFunc
	NonBlocking bool
}
