package domain

// FetchState is the explicit catalog request lifecycle, queryable by the UI
// shell in place of ambient "already fetched" flags.
type FetchState string

const (
	FetchIdle    FetchState = "idle"
	FetchLoading FetchState = "loading"
	FetchReady   FetchState = "ready"
	FetchFailed  FetchState = "failed"
)

// SelectionEntry is the cart's state for one ingredient: either a chosen
// candidate or an exclusion. Quantity is fixed at 1 in the current design;
// the field is carried so the wire shape survives a multi-quantity extension.
type SelectionEntry struct {
	CandidateID  string `json:"candidateId,omitempty"`
	Quantity     int    `json:"quantity"`
	AutoSelected bool   `json:"autoSelected"`
	Excluded     bool   `json:"excluded"`
}

// CartSelection maps normalized ingredient keys to their selection state.
// Every key corresponds to an ingredient with at least one candidate.
type CartSelection map[string]SelectionEntry

// CartTotals is a derived projection of the selection, never stored or
// mutated directly. Version identifies the store mutation it was computed
// from.
type CartTotals struct {
	ItemCount    int     `json:"itemCount"`
	Subtotal     float64 `json:"subtotal"`
	EstimatedTax float64 `json:"estimatedTax"`
	Total        float64 `json:"total"`
	Version      uint64  `json:"version"`
}

// CartSnapshot is the read-only view handed to the UI shell. Matches follow
// the recipe's ingredient order; removed ingredients are omitted.
type CartSnapshot struct {
	SessionID  string            `json:"sessionId"`
	RecipeID   string            `json:"recipeId,omitempty"`
	FetchState FetchState        `json:"fetchState"`
	Matches    []IngredientMatch `json:"matches"`
	Selection  CartSelection     `json:"selection"`
	Totals     CartTotals        `json:"totals"`
	Version    uint64            `json:"version"`
}
