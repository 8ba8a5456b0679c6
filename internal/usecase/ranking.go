package usecase

import (
	"sort"

	"github.com/platewise/backend/internal/domain"
)

// Ranking is deliberately a set of pure functions: identical candidate
// lists always produce identical order and the identical default pick, so
// re-running the policy after a late-arriving fetch never disturbs a
// selection the user has not touched.

// RankCandidates orders a candidate group by server-provided search rank
// ascending, breaking ties by price ascending and then by id for a fully
// canonical order. It assigns Rank positions (1 = default pick) and the
// best-price / best-match badges, returning a new slice.
func RankCandidates(candidates []domain.ProductCandidate) []domain.ProductCandidate {
	if len(candidates) == 0 {
		return nil
	}

	ranked := make([]domain.ProductCandidate, len(candidates))
	copy(ranked, candidates)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].SearchRank != ranked[j].SearchRank {
			return ranked[i].SearchRank < ranked[j].SearchRank
		}
		if ranked[i].Price != ranked[j].Price {
			return ranked[i].Price < ranked[j].Price
		}
		return ranked[i].ID < ranked[j].ID
	})

	minPrice := ranked[0].Price
	for _, c := range ranked[1:] {
		if c.Price < minPrice {
			minPrice = c.Price
		}
	}

	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].BestPrice = ranked[i].Price == minPrice
		ranked[i].BestMatch = ranked[i].SearchRank == 1
	}

	return ranked
}

// DefaultSelection returns the auto-selection default for a ranked group:
// the candidate with search rank 1, or the lowest-priced among several
// sharing rank 1. With RankCandidates ordering that is always the first
// element.
func DefaultSelection(match domain.IngredientMatch) (domain.ProductCandidate, bool) {
	if len(match.Candidates) == 0 {
		return domain.ProductCandidate{}, false
	}
	return match.Candidates[0], true
}

// FindCandidate looks up a candidate by id within a match group.
func FindCandidate(match domain.IngredientMatch, candidateID string) (domain.ProductCandidate, bool) {
	for _, c := range match.Candidates {
		if c.ID == candidateID {
			return c, true
		}
	}
	return domain.ProductCandidate{}, false
}
