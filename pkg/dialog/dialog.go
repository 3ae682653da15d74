// Package dialog implements the multi-step conversational input flows used
// for administrative data entry.
//
// A flow is a small state machine: an inline action starts it, subsequent
// inputs from the same user advance it, and it ends by emitting an Effect the
// caller applies to the domain. States are tagged variants with typed
// payloads, so an illegal combination — credential lines arriving with no
// product selected — cannot be represented. Advance is a pure function over
// (state, input); the Engine adds per-user session keying on top.
//
// Three flows share the machinery:
//
//	AddCategory: AwaitCategoryName → AwaitCategoryBanner → CreateCategory effect
//	AddStock:    AwaitStockProduct → AwaitStockLines     → AddStock effect
//	Search:      AwaitSearchTerm                         → Search effect
//
// Any non-terminal state cancels via Input{Cancel: true}, discarding working
// data without touching the document. Starting a new flow while one is open
// replaces it; flows of different users never interact.
package dialog

import (
	"errors"
	"strings"
)

// State is one variant of the per-user flow state.
type State interface{ flowState() }

// AwaitCategoryName waits for the new category's display name.
type AwaitCategoryName struct{}

// AwaitCategoryBanner holds the captured name and waits for a banner URL.
type AwaitCategoryBanner struct{ Name string }

// AwaitStockProduct waits for a product chosen by inline action.
type AwaitStockProduct struct{}

// AwaitStockLines holds the chosen product and waits for credential lines.
type AwaitStockLines struct{ ProductID string }

// AwaitSearchTerm waits for a search term.
type AwaitSearchTerm struct{}

func (AwaitCategoryName) flowState()   {}
func (AwaitCategoryBanner) flowState() {}
func (AwaitStockProduct) flowState()   {}
func (AwaitStockLines) flowState()     {}
func (AwaitSearchTerm) flowState()     {}

// Input is one advancing event: free text, an inline product selection, or a
// cancel trigger. Exactly one field is meaningful per call.
type Input struct {
	Text      string
	ProductID string
	Cancel    bool
}

// Effect is what a completed (or cancelled) flow asks the caller to do.
type Effect interface{ flowEffect() }

// Prompt asks the caller to show the next question; the flow continues.
type Prompt struct{ Next State }

// Cancelled reports the flow was abandoned; nothing was committed.
type Cancelled struct{}

// CreateCategory commits a new category.
type CreateCategory struct{ Name, Banner string }

// AddStock commits credential lines against a product.
type AddStock struct {
	ProductID string
	Lines     []string
}

// Search runs a ledger search for Term.
type Search struct{ Term string }

func (Prompt) flowEffect()         {}
func (Cancelled) flowEffect()      {}
func (CreateCategory) flowEffect() {}
func (AddStock) flowEffect()       {}
func (Search) flowEffect()         {}

// ErrUnexpectedInput is returned when the input type does not fit the state,
// e.g. free text while a product selection is awaited. The state is left
// unchanged; the caller re-prompts.
var ErrUnexpectedInput = errors.New("dialog: input does not fit current state")

// Advance computes the next step. A Prompt effect means the flow continues in
// Prompt.Next; any other effect is terminal.
func Advance(s State, in Input) (Effect, error) {
	if in.Cancel {
		return Cancelled{}, nil
	}

	switch st := s.(type) {
	case AwaitCategoryName:
		name := strings.TrimSpace(in.Text)
		if name == "" {
			return nil, ErrUnexpectedInput
		}
		return Prompt{Next: AwaitCategoryBanner{Name: name}}, nil

	case AwaitCategoryBanner:
		banner := strings.TrimSpace(in.Text)
		if banner == "" || banner == "-" {
			banner = "N/A"
		}
		return CreateCategory{Name: st.Name, Banner: banner}, nil

	case AwaitStockProduct:
		if in.ProductID == "" {
			return nil, ErrUnexpectedInput
		}
		return Prompt{Next: AwaitStockLines{ProductID: in.ProductID}}, nil

	case AwaitStockLines:
		if in.Text == "" {
			return nil, ErrUnexpectedInput
		}
		return AddStock{ProductID: st.ProductID, Lines: strings.Split(in.Text, "\n")}, nil

	case AwaitSearchTerm:
		term := strings.TrimSpace(in.Text)
		if term == "" {
			return nil, ErrUnexpectedInput
		}
		return Search{Term: term}, nil
	}

	return nil, ErrUnexpectedInput
}
