package wizard

import (
	"fmt"
	"strings"
)

// ConsentPolicy decides how the user's contact authorisation is recorded.
// Both implementations store consent as a list of identifiers so the rest of
// the wizard never branches on the variant.
type ConsentPolicy interface {
	// Name identifies the policy in configuration and logs.
	Name() string
	// Options lists the choices rendered on the consent step.
	Options() []Provider
	// Toggle adds (on) or removes (!on) id from the consent set and returns
	// the new set.
	Toggle(consent []string, id string, on bool) ([]string, error)
	// Valid reports whether consent is sufficient to submit.
	Valid(consent []string) bool
	// Summary is the human-readable consent line relayed with the submission.
	Summary(consent []string) string
	// Message is shown when Valid fails.
	Message() string
}

const (
	GeneralConsentID = "general_consent"
	noConsentSummary = "No contact authorization"
)

// GeneralConsent is a single blanket opt-in, stored as a one-element marker
// list when given and an empty list otherwise.
type GeneralConsent struct{}

func (GeneralConsent) Name() string { return "general" }

func (GeneralConsent) Options() []Provider {
	return []Provider{{
		ID:   GeneralConsentID,
		Name: "I give my consent for a Solar Utah representative to contact me via email, phone, or text message with information about solar panel installation, quotes, and potential energy savings.",
	}}
}

func (GeneralConsent) Toggle(_ []string, id string, on bool) ([]string, error) {
	if id != GeneralConsentID {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, id)
	}
	if on {
		return []string{GeneralConsentID}, nil
	}
	return []string{}, nil
}

func (GeneralConsent) Valid(consent []string) bool {
	return len(consent) > 0
}

func (GeneralConsent) Summary(consent []string) string {
	for _, id := range consent {
		if id == GeneralConsentID {
			return "Yes, authorizes contact"
		}
	}
	return noConsentSummary
}

func (GeneralConsent) Message() string {
	return "Please provide your consent to be contacted"
}

// ProviderConsent lets the user opt into each installer of the catalog
// individually, so downstream recipients know exactly who may call.
type ProviderConsent struct {
	Catalog []Provider
}

// NewProviderConsent returns a policy over the default provider catalog.
func NewProviderConsent() *ProviderConsent {
	return &ProviderConsent{Catalog: Providers}
}

func (p *ProviderConsent) Name() string { return "providers" }

func (p *ProviderConsent) Options() []Provider {
	return p.Catalog
}

func (p *ProviderConsent) lookup(id string) (Provider, bool) {
	for _, prov := range p.Catalog {
		if prov.ID == id {
			return prov, true
		}
	}
	return Provider{}, false
}

func (p *ProviderConsent) Toggle(consent []string, id string, on bool) ([]string, error) {
	if _, ok := p.lookup(id); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, id)
	}
	next := make([]string, 0, len(consent)+1)
	for _, cur := range consent {
		if cur != id {
			next = append(next, cur)
		}
	}
	if on {
		next = append(next, id)
	}
	return next, nil
}

func (p *ProviderConsent) Valid(consent []string) bool {
	for _, id := range consent {
		if _, ok := p.lookup(id); ok {
			return true
		}
	}
	return false
}

// Summary names the selected providers in catalog order.
func (p *ProviderConsent) Summary(consent []string) string {
	selected := make(map[string]bool, len(consent))
	for _, id := range consent {
		selected[id] = true
	}
	names := make([]string, 0, len(consent))
	for _, prov := range p.Catalog {
		if selected[prov.ID] {
			names = append(names, prov.Name)
		}
	}
	if len(names) == 0 {
		return noConsentSummary
	}
	return "Authorizes contact from: " + strings.Join(names, ", ")
}

func (p *ProviderConsent) Message() string {
	return "Please select at least one provider you agree to be contacted by"
}
