package domain

// Element is the host-side handle for a rendered node. The coordinator only
// forwards it to snapshot capture and completion callbacks.
type Element interface {
	Key() string
}

type LifecycleState int

const (
	Unmounted LifecycleState = iota
	Mounting
	Mounted
	Updating
	Unmounting
)

func (s LifecycleState) String() string {
	switch s {
	case Unmounted:
		return "unmounted"
	case Mounting:
		return "mounting"
	case Mounted:
		return "mounted"
	case Updating:
		return "updating"
	case Unmounting:
		return "unmounting"
	default:
		return "unknown"
	}
}

// Callback is a completion handler for one transition kind. It receives the
// participant's element handle and the set of kinds active for the batch.
type Callback func(el Element, active KindSet)

// Participant is a node in the UI tree opted into transition tracking.
//
// Identity is the stable key within the parent collection. Name correlates
// the participant across disjoint tree positions; when empty the registry
// assigns one and marks the participant AutoNamed.
type Participant struct {
	Identity  string `validate:"required,max=256"`
	Name      string `validate:"omitempty,max=256,excludesall=0x20"`
	AutoNamed bool
	Styles    StyleConfig
	Callbacks map[Kind]Callback
	State     LifecycleState
	Element   Element
}

// Key returns the correlation key used for snapshots and overlap detection:
// the declared name when present, otherwise the identity.
func (p *Participant) Key() string {
	if p.Name != "" && !p.AutoNamed {
		return p.Name
	}
	return p.Identity
}

// Callback returns the completion handler declared for the given kind, if any.
func (p *Participant) Callback(k Kind) (Callback, bool) {
	cb, ok := p.Callbacks[k]
	return cb, ok && cb != nil
}
