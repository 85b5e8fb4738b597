package runtime

import "transition-lab/domain"

// StyleResolver maps a participant and its classified kind to the concrete
// style descriptor handed to the styling system. Pure, no side effects.
type StyleResolver struct{}

// Resolve returns the participant's descriptor for the kind, else its
// declared default, else the built-in neutral cross-fade.
func (StyleResolver) Resolve(p *domain.Participant, k domain.Kind) domain.StyleDescriptor {
	if d, ok := p.Styles[k]; ok && !d.IsZero() {
		return d
	}
	if d, ok := p.Styles[domain.KindDefault]; ok && !d.IsZero() {
		return d
	}
	return domain.CrossFade()
}
