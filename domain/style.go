package domain

// StyleDescriptor is an opaque animation style handed to the styling system.
// Either a class name, a structured property set, or both. The coordinator
// never interprets its content.
type StyleDescriptor struct {
	Class string
	Props map[string]string
}

func (d StyleDescriptor) IsZero() bool {
	return d.Class == "" && len(d.Props) == 0
}

// StyleConfig maps a transition kind to the descriptor a participant declared
// for it. KindDefault keys the fallback entry.
type StyleConfig map[Kind]StyleDescriptor

// CrossFade is the built-in neutral descriptor used when a participant
// declares nothing for the active kind and no default.
func CrossFade() StyleDescriptor {
	return StyleDescriptor{Class: "cross-fade"}
}
