package domain

import "time"

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Snapshot is the captured visual state of a participant at a point in time:
// geometry plus an opaque digest of the rasterized appearance.
type Snapshot struct {
	Key        string    `json:"key"`
	Bounds     Rect      `json:"bounds"`
	Appearance string    `json:"appearance"`
	At         time.Time `json:"at"`
}

// SnapshotPair is what the host primitive animates for one participant:
// the before/after states, the classified kind and the resolved style.
// Before is nil for a pure enter, After is nil for a pure exit.
type SnapshotPair struct {
	Key    string
	Kind   Kind
	Before *Snapshot
	After  *Snapshot
	Style  StyleDescriptor
}
