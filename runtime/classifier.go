package runtime

import (
	"fmt"
	"log/slog"
	"sync"

	"transition-lab/contract"
	"transition-lab/domain"
)

// kindRank orders kinds by classification precedence, highest first.
var kindRank = map[domain.Kind]int{
	domain.KindShare:  4,
	domain.KindEnter:  3,
	domain.KindExit:   2,
	domain.KindUpdate: 1,
}

// Classifier decides which transition kind applies to each tree event of a
// batch, correlating against the previously committed tree state. Precedence:
// share over enter over exit over update; participants with no eligible
// change are excluded.
//
// The committed map is promoted after every successful commit, including
// blocking mutations, so later batches classify against the real tree.
type Classifier struct {
	mu        sync.Mutex
	log       *slog.Logger
	registry  contract.IRegistry
	committed map[string]domain.TreePosition
}

func NewClassifier(log *slog.Logger, registry contract.IRegistry) *Classifier {
	return &Classifier{
		log:       log,
		registry:  registry,
		committed: make(map[string]domain.TreePosition),
	}
}

// Classify maps the events of one mutation to batch participants keyed by
// Participant.Key(). When a name both unmounts and mounts in the same batch
// (shared-element handover) the two events collapse into one share entry.
func (c *Classifier) Classify(events []domain.TreeEvent) map[string]*domain.BatchParticipant {
	c.mu.Lock()
	defer c.mu.Unlock()

	unmounting := make(map[string]domain.TreeEvent)
	for _, e := range events {
		if e.Type == domain.Unmount && e.Participant != nil && e.Participant.Name != "" {
			unmounting[e.Participant.Name] = e
		}
	}

	selected := make(map[string]*domain.BatchParticipant)
	for _, e := range events {
		if e.Participant == nil {
			continue
		}
		bp := c.classify(e, unmounting)
		if bp == nil {
			continue
		}
		key := bp.Participant.Key()
		if current, ok := selected[key]; ok && kindRank[current.Kind] >= kindRank[bp.Kind] {
			continue
		}
		selected[key] = bp
	}

	c.excludeNested(selected)
	return selected
}

func (c *Classifier) classify(e domain.TreeEvent, unmounting map[string]domain.TreeEvent) *domain.BatchParticipant {
	p := e.Participant
	_, existedBefore := c.committed[p.Key()]

	switch e.Type {
	case domain.Mount:
		if bp := c.classifyShare(e, unmounting); bp != nil {
			return bp
		}
		if !existedBefore {
			return &domain.BatchParticipant{Participant: p, Event: e, Kind: domain.KindEnter}
		}
		return nil

	case domain.Unmount:
		if !existedBefore {
			return nil
		}
		return &domain.BatchParticipant{Participant: p, Event: e, Kind: domain.KindExit}

	case domain.ContentChange, domain.Reorder:
		if !existedBefore {
			return nil
		}
		return &domain.BatchParticipant{Participant: p, Event: e, Kind: domain.KindUpdate}

	default:
		c.log.Debug(fmt.Sprintf("Unknown mutation type %d, participant excluded", e.Type))
		return nil
	}
}

// classifyShare applies rule 1: a mounting participant whose name matches one
// that existed in the previous committed tree at a different position, or one
// simultaneously unmounting elsewhere, animates as a shared element. The
// element previously holding the name supplies the before capture.
func (c *Classifier) classifyShare(e domain.TreeEvent, unmounting map[string]domain.TreeEvent) *domain.BatchParticipant {
	p := e.Participant
	if p.Name == "" {
		return nil
	}

	var prior domain.Element
	if ue, ok := unmounting[p.Name]; ok && ue.Participant != p {
		prior = ue.Participant.Element
	} else if holder, live := c.registry.Lookup(p.Name); live && holder != p && holder.State == domain.Unmounting {
		prior = holder.Element
	} else if prevPos, ok := c.committed[p.Name]; !ok || prevPos == e.New {
		return nil
	}

	return &domain.BatchParticipant{Participant: p, Event: e, Kind: domain.KindShare, PriorElement: prior}
}

// excludeNested drops participants nested inside another transitioning
// participant's subtree unless they directly wrap a mutated host node. Only
// the outermost eligible wrapper per subtree animates.
func (c *Classifier) excludeNested(selected map[string]*domain.BatchParticipant) {
	for key, bp := range selected {
		if bp.Event.DOMAdjacent {
			continue
		}
		pos := eventPosition(bp.Event)
		for other, outer := range selected {
			if other == key {
				continue
			}
			if eventPosition(outer.Event).Contains(pos) {
				c.log.Debug(fmt.Sprintf("Participant %s nested inside transitioning %s, excluded", key, other))
				delete(selected, key)
				break
			}
		}
	}
}

func eventPosition(e domain.TreeEvent) domain.TreePosition {
	if e.Type == domain.Unmount {
		return e.Old
	}
	return e.New
}

// Promote applies a committed mutation to the tracked tree state. Unmounts
// run first so a shared-element handover keeps the name alive at its new
// position.
func (c *Classifier) Promote(events []domain.TreeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range events {
		if e.Type == domain.Unmount && e.Participant != nil {
			delete(c.committed, e.Participant.Key())
		}
	}
	for _, e := range events {
		if e.Type == domain.Unmount || e.Participant == nil {
			continue
		}
		c.committed[e.Participant.Key()] = e.New
	}
}

// Reset clears the committed tree state. Test support only.
func (c *Classifier) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.committed = make(map[string]domain.TreePosition)
}
