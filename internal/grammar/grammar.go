package grammar

import (
	"fmt"

	"github.com/hookeddocs/hookeddocs/constants"
	"github.com/hookeddocs/hookeddocs/internal/common"
	"github.com/hookeddocs/hookeddocs/internal/entity"
)

// SeenLines is the per-document dedup scratch set for item-table rows.
// The lifecycle manager creates a fresh one per extraction call; it is never
// shared across documents.
type SeenLines map[string]struct{}

// Seen records a line and reports whether it was already present.
func (s SeenLines) Seen(line string) bool {
	if _, ok := s[line]; ok {
		return true
	}
	s[line] = struct{}{}
	return false
}

// Grammar is the deterministic extraction rule set for one vendor/category/
// file-kind combination. Extract is pure: no I/O, no shared state beyond the
// scratch set handed in.
type Grammar interface {
	ID() string
	Extract(text string, seen SeenLines) (*entity.InvoiceRecord, error)
}

// Predicate decides whether a grammar applies to a document. Content-based
// predicates inspect the uppercased text; kind-based predicates inspect the
// normalized file extension.
type Predicate func(text, ext string) bool

// Registration pairs a grammar with its classification predicate.
type Registration struct {
	Grammar Grammar
	Applies Predicate
}

// Registry holds an ordered list of grammar registrations for one category.
// Classification walks the list in order; the first match wins, so marker
// priority is exactly registration order.
type Registry struct {
	category constants.Category
	entries  []Registration
}

func NewRegistry(category constants.Category) *Registry {
	return &Registry{category: category}
}

// Register appends a grammar at the end of the priority order.
func (r *Registry) Register(g Grammar, applies Predicate) *Registry {
	r.entries = append(r.entries, Registration{Grammar: g, Applies: applies})
	return r
}

// Classify returns the first grammar whose predicate accepts the document,
// or ErrVendorUnrecognized when none does.
func (r *Registry) Classify(text, ext string) (Grammar, error) {
	for _, e := range r.entries {
		if e.Applies(text, ext) {
			return e.Grammar, nil
		}
	}
	return nil, fmt.Errorf("category %s: %w", r.category, common.ErrVendorUnrecognized)
}

// ContainsMarker builds a content predicate matching a literal substring of
// the uppercased document text. Taxpayer-id markers use the same mechanism.
func ContainsMarker(marker string) Predicate {
	return func(text, _ string) bool {
		return containsFolded(text, marker)
	}
}

// HasExtension builds a kind predicate for extension-dispatched grammars.
func HasExtension(exts ...string) Predicate {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[constants.NormalizeExt(e)] = struct{}{}
	}
	return func(_, ext string) bool {
		_, ok := set[constants.NormalizeExt(ext)]
		return ok
	}
}

// ForCategory wires the closed set of known grammars for a free-text
// category. Adding a vendor means registering one more grammar here.
func ForCategory(category constants.Category) (*Registry, error) {
	switch category {
	case constants.InvoicesReceived:
		r := NewRegistry(category)
		r.Register(NewProfessionalFishing(), ContainsMarker(markerProfessionalFishing))
		r.Register(NewMiTienda(), ContainsMarker(markerMiTienda))
		r.Register(NewRapala(), ContainsMarker(markerRapalaRUT))
		return r, nil
	case constants.InvoicesIssued:
		r := NewRegistry(category)
		r.Register(NewIssuedDocument(), HasExtension("pdf"))
		r.Register(NewIssuedScan(), HasExtension("png", "jpg", "jpeg"))
		return r, nil
	default:
		return nil, fmt.Errorf("category %s has no free-text grammars: %w", category, common.ErrInvalidInput)
	}
}
