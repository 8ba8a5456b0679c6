package usecase

import (
	"github.com/platewise/backend/internal/domain"
	"github.com/platewise/backend/internal/infrastructure/commerce"
)

// NormalizerConfig holds configuration for the catalog normalizer
type NormalizerConfig struct {
	MaxCandidates int
}

// Normalizer converts raw store search results into a uniform, ranked
// catalog grouped by normalized ingredient key. Pure transformation: no
// side effects, and malformed records are dropped rather than surfaced as
// individual errors.
type Normalizer struct {
	maxCandidates int
}

// NewNormalizer creates a normalizer with the given configuration
func NewNormalizer(config NormalizerConfig) *Normalizer {
	max := config.MaxCandidates
	if max <= 0 {
		max = 3 // Default cap of 3 candidates per ingredient
	}
	return &Normalizer{maxCandidates: max}
}

// Normalize builds a catalog from the raw search response. A nil response
// reports ErrCatalogUnavailable; callers treat that as zero candidates for
// every ingredient, not as a fatal error. An empty but well-formed response
// yields an empty catalog.
func (n *Normalizer) Normalize(resp *domain.SearchResponse) (domain.Catalog, error) {
	if resp == nil {
		return nil, domain.ErrCatalogUnavailable
	}

	grouped := make(map[string][]domain.ProductCandidate)
	seen := make(map[string]map[string]bool) // ingredient -> candidate id

	for _, group := range resp.Groups {
		for _, rec := range group.Products {
			candidate, ingredient, ok := commerce.MapRecord(rec)
			if !ok {
				continue
			}
			// The same offer can appear in multiple store groups.
			if seen[ingredient] == nil {
				seen[ingredient] = make(map[string]bool)
			}
			if seen[ingredient][candidate.ID] {
				continue
			}
			seen[ingredient][candidate.ID] = true
			grouped[ingredient] = append(grouped[ingredient], candidate)
		}
	}

	catalog := make(domain.Catalog, len(grouped))
	for ingredient, candidates := range grouped {
		ranked := RankCandidates(candidates)
		if len(ranked) > n.maxCandidates {
			ranked = ranked[:n.maxCandidates]
		}
		catalog[ingredient] = domain.IngredientMatch{
			Ingredient: ingredient,
			Candidates: ranked,
		}
	}

	return catalog, nil
}
