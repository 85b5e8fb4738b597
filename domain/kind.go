package domain

import "sort"

// Kind classifies why a participant animates within a batch.
type Kind string

const (
	KindEnter  Kind = "enter"
	KindExit   Kind = "exit"
	KindUpdate Kind = "update"
	KindShare  Kind = "share"

	// KindDefault never results from classification. It keys the fallback
	// entry of a StyleConfig.
	KindDefault Kind = "default"

	// KindNone marks a participant with no transition-eligible change.
	KindNone Kind = ""
)

// KindSet is the set of kinds active for a participant during one batch.
type KindSet map[Kind]struct{}

func NewKindSet(kinds ...Kind) KindSet {
	s := make(KindSet, len(kinds))
	for _, k := range kinds {
		if k == KindNone {
			continue
		}
		s[k] = struct{}{}
	}
	return s
}

func (s KindSet) Has(k Kind) bool {
	_, ok := s[k]
	return ok
}

// Slice returns the active kinds in a stable order.
func (s KindSet) Slice() []Kind {
	res := make([]Kind, 0, len(s))
	for k := range s {
		res = append(res, k)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}
