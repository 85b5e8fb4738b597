package runtime

import (
	"fmt"
	"sync"

	"transition-lab/contract"
	"transition-lab/domain"
	"transition-lab/errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var _ contract.IRegistry = (*Registry)(nil)

// Registry owns the authoritative name -> participant mapping for the
// process. At most one mounted participant may hold a given name at any
// instant; registration and unregistration are serialized with batch phase
// transitions by the scheduler, the internal lock only guards direct reads.
type Registry struct {
	mu       sync.RWMutex
	validate *validator.Validate
	names    map[string]*domain.Participant
}

func NewRegistry() *Registry {
	return &Registry{
		validate: validator.New(),
		names:    make(map[string]*domain.Participant),
	}
}

// Register binds a participant to its name. A participant without a declared
// name gets an auto-generated one and can never conflict. Registration fails
// with ErrNameConflict when the name is held by a different live participant
// that is not handing the name over (unmounting) in the same batch.
func (r *Registry) Register(p *domain.Participant) error {
	if err := r.validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidParticipant, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p.Name == "" {
		p.Name = uuid.NewString()
		p.AutoNamed = true
	}

	if holder, ok := r.names[p.Name]; ok && holder != p {
		if holder.State != domain.Unmounting {
			return fmt.Errorf("%w: %q", errors.ErrNameConflict, p.Name)
		}
		// Shared-element handover: the previous holder is on its way out.
	}

	r.names[p.Name] = p
	p.State = domain.Mounting
	return nil
}

// Unregister releases a participant's name. Unregistering an already
// unregistered participant is a no-op. A name taken over by a newer
// participant is left untouched.
func (r *Registry) Unregister(p *domain.Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if holder, ok := r.names[p.Name]; ok && holder == p {
		delete(r.names, p.Name)
	}
	p.State = domain.Unmounted
}

func (r *Registry) Lookup(name string) (*domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.names[name]
	return p, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

// Reset clears the name table. Test support only; the registry lives for the
// whole process in practice.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = make(map[string]*domain.Participant)
}
