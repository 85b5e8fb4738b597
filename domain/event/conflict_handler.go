package event

import (
	"fmt"
	"log/slog"
	"sync"
)

const nameConflictCount = "NAME_CONFLICT"

// ConflictHandler counts rejected duplicate-name registrations per name.
// A recurring name here usually means two components declare the same
// shared-element name without ever handing it over.
type ConflictHandler struct {
	mu      sync.Mutex
	log     *slog.Logger
	counter *Counter
	hit     map[string]uint64
}

func NewConflictHandler(log *slog.Logger, counter *Counter) *ConflictHandler {
	return &ConflictHandler{
		log:     log,
		counter: counter,
		hit:     make(map[string]uint64),
	}
}

func (h *ConflictHandler) Handle(e DomainEvent) {
	payload, ok := e.(NameConflictDetected)
	if !ok {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counter.Increment(nameConflictCount)
	h.hit[payload.Name]++
	h.log.Debug(fmt.Sprintf("Name %q conflicted %d time(s), total: %d",
		payload.Name, h.hit[payload.Name], h.counter.Get(nameConflictCount)))
}
