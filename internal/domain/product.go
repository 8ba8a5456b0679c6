package domain

import "strings"

// Availability describes whether a store offer can currently be purchased.
type Availability string

const (
	AvailabilityInStock    Availability = "in_stock"
	AvailabilityOutOfStock Availability = "out_of_stock"
	AvailabilityUnknown    Availability = "unknown"
)

// ProductCandidate is one store offer matched to a recipe ingredient.
// Immutable once produced by the catalog normalizer for a given fetch.
type ProductCandidate struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Price        float64      `json:"price"`
	Brand        string       `json:"brand,omitempty"`
	Size         string       `json:"size,omitempty"`
	Rating       float64      `json:"rating"`
	ReviewCount  int          `json:"reviewCount"`
	Availability Availability `json:"availability"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	SearchRank   int          `json:"searchRank"` // server-provided relevance, 1 = best
	Rank         int          `json:"rank"`       // position after ranking, 1 = default pick
	BestPrice    bool         `json:"bestPrice"`  // global minimum price in the group
	BestMatch    bool         `json:"bestMatch"`  // searchRank == 1
}

// IngredientMatch groups the ranked candidates for one ingredient.
type IngredientMatch struct {
	Ingredient string             `json:"ingredient"`
	Candidates []ProductCandidate `json:"candidates"`
}

// Catalog is the full set of ingredient matches from one fetch, keyed by
// normalized ingredient. Shared read-only once published; a re-fetch
// produces a wholly new catalog.
type Catalog map[string]IngredientMatch

// NormalizeIngredient produces the canonical key for an ingredient string.
// Two ingredients with the same normalized text are the same entity.
func NormalizeIngredient(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
