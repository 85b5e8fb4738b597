package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"transition-lab/contract"
	"transition-lab/domain"
)

// Node is a rendered element of the simulated page.
type Node struct {
	mu      sync.Mutex
	ID      string
	Bounds  domain.Rect
	Content string
}

func NewNode(id string, bounds domain.Rect, content string) *Node {
	return &Node{ID: id, Bounds: bounds, Content: content}
}

func (n *Node) Key() string { return n.ID }

// Apply simulates the reconciler re-rendering the node.
func (n *Node) Apply(bounds domain.Rect, content string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Bounds = bounds
	n.Content = content
}

var _ contract.SnapshotSource = (*PageSource)(nil)

// PageSource captures geometry and an appearance digest from simulated nodes.
type PageSource struct{}

func (PageSource) Capture(_ context.Context, el domain.Element) (domain.Snapshot, error) {
	n, ok := el.(*Node)
	if !ok {
		return domain.Snapshot{}, fmt.Errorf("unexpected element type %T", el)
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return domain.Snapshot{
		Bounds:     n.Bounds,
		Appearance: fmt.Sprintf("%x", sha256.Sum256([]byte(n.Content))),
		At:         time.Now(),
	}, nil
}
