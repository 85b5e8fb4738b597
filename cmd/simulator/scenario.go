package main

import (
	"context"
	"fmt"
	"log/slog"

	"transition-lab/domain"
	"transition-lab/runtime"
)

// scenario drives a scripted page through the coordinator: a list of cards
// enters, gets shuffled, the hero card moves to a detail pane as a shared
// element, and one card leaves. Participant instances are reused across
// mutations, the way a reconciler keeps them stable across renders.
type scenario struct {
	log         *slog.Logger
	coordinator *runtime.Coordinator
	nodes       map[string]*Node
	parts       map[string]*domain.Participant
}

func newScenario(log *slog.Logger, coordinator *runtime.Coordinator) *scenario {
	return &scenario{
		log:         log,
		coordinator: coordinator,
		nodes:       make(map[string]*Node),
		parts:       make(map[string]*domain.Participant),
	}
}

func (s *scenario) participant(identity, name string, el *Node) *domain.Participant {
	if p, ok := s.parts[identity]; ok {
		return p
	}
	p := &domain.Participant{
		Identity: identity,
		Name:     name,
		Element:  el,
		Styles: domain.StyleConfig{
			domain.KindEnter:   {Class: "slide-in"},
			domain.KindExit:    {Class: "slide-out"},
			domain.KindDefault: {Class: "fade"},
		},
		Callbacks: map[domain.Kind]domain.Callback{
			domain.KindEnter:  s.logCallback("enter"),
			domain.KindExit:   s.logCallback("exit"),
			domain.KindUpdate: s.logCallback("update"),
			domain.KindShare:  s.logCallback("share"),
		},
	}
	s.parts[identity] = p
	return p
}

func (s *scenario) logCallback(kind string) domain.Callback {
	return func(el domain.Element, active domain.KindSet) {
		key := "<gone>"
		if el != nil {
			key = el.Key()
		}
		s.log.Info("transition settled", "element", key, "kind", kind, "active", active.Slice())
	}
}

func (s *scenario) Run(ctx context.Context) error {
	steps := []struct {
		name string
		step func(ctx context.Context) error
	}{
		{"mount cards", s.mountCards},
		{"shuffle cards", s.shuffleCards},
		{"promote hero", s.promoteHero},
		{"dismiss card", s.dismissCard},
	}
	for _, st := range steps {
		s.log.Info("Scenario step", "name", st.name)
		if err := st.step(ctx); err != nil {
			return fmt.Errorf("step %q: %w", st.name, err)
		}
	}
	return nil
}

func (s *scenario) propose(ctx context.Context, m domain.Mutation) error {
	h, err := s.coordinator.Propose(ctx, m)
	if err != nil {
		return err
	}
	select {
	case <-h.Done():
		s.log.Info("Batch settled", "batch_id", h.ID(), "phase", h.Phase().String())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *scenario) mountCards(ctx context.Context) error {
	var events []domain.TreeEvent
	for i, id := range []string{"card-a", "card-b", "hero"} {
		node := NewNode(id, domain.Rect{X: float64(i * 120), Width: 100, Height: 80}, "card "+id)
		s.nodes[id] = node
		name := ""
		if id == "hero" {
			name = "hero"
		}
		events = append(events, domain.TreeEvent{
			Type:        domain.Mount,
			Participant: s.participant(id, name, node),
			New:         domain.TreePosition{Path: "root/list", Index: i},
			DOMAdjacent: true,
		})
	}
	return s.propose(ctx, domain.Mutation{
		Events:      events,
		NonBlocking: true,
		Commit:      func(context.Context) error { return nil },
	})
}

func (s *scenario) shuffleCards(ctx context.Context) error {
	order := []string{"card-a", "card-b", "hero"}
	var events []domain.TreeEvent
	for i, id := range order {
		events = append(events, domain.TreeEvent{
			Type:        domain.Reorder,
			Participant: s.parts[id],
			Old:         domain.TreePosition{Path: "root/list", Index: i},
			New:         domain.TreePosition{Path: "root/list", Index: (i + 1) % len(order)},
			DOMAdjacent: true,
		})
	}
	return s.propose(ctx, domain.Mutation{
		Events:      events,
		NonBlocking: true,
		Commit: func(context.Context) error {
			for i, id := range order {
				node := s.nodes[id]
				node.Apply(domain.Rect{X: float64(((i + 1) % len(order)) * 120), Width: 100, Height: 80}, node.Content)
			}
			return nil
		},
	})
}

// promoteHero moves the hero card to the detail pane: same name, disjoint
// tree position, so it animates as a shared element.
func (s *scenario) promoteHero(ctx context.Context) error {
	promoted := NewNode("hero-detail", domain.Rect{X: 400, Y: 40, Width: 320, Height: 240}, "card hero")
	s.nodes["hero-detail"] = promoted

	events := []domain.TreeEvent{
		{
			Type:        domain.Unmount,
			Participant: s.parts["hero"],
			Old:         domain.TreePosition{Path: "root/list", Index: 0},
			DOMAdjacent: true,
		},
		{
			Type:        domain.Mount,
			Participant: s.participant("hero-detail", "hero", promoted),
			New:         domain.TreePosition{Path: "root/detail", Index: 0},
			DOMAdjacent: true,
		},
	}
	return s.propose(ctx, domain.Mutation{
		Events:      events,
		NonBlocking: true,
		Commit: func(context.Context) error {
			delete(s.nodes, "hero")
			return nil
		},
	})
}

func (s *scenario) dismissCard(ctx context.Context) error {
	events := []domain.TreeEvent{{
		Type:        domain.Unmount,
		Participant: s.parts["card-b"],
		Old:         domain.TreePosition{Path: "root/list", Index: 2},
		DOMAdjacent: true,
	}}
	return s.propose(ctx, domain.Mutation{
		Events:      events,
		NonBlocking: true,
		Commit: func(context.Context) error {
			delete(s.nodes, "card-b")
			return nil
		},
	})
}
