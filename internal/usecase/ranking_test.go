package usecase

import (
	"testing"

	"github.com/platewise/backend/internal/domain"
)

func TestRankCandidates(t *testing.T) {
	t.Run("orders by search rank ascending", func(t *testing.T) {
		candidates := []domain.ProductCandidate{
			{ID: "B", Price: 4.50, SearchRank: 2},
			{ID: "A", Price: 5.00, SearchRank: 1},
			{ID: "C", Price: 3.00, SearchRank: 3},
		}

		ranked := RankCandidates(candidates)
		if ranked[0].ID != "A" || ranked[1].ID != "B" || ranked[2].ID != "C" {
			t.Errorf("order = %s,%s,%s, want A,B,C", ranked[0].ID, ranked[1].ID, ranked[2].ID)
		}
	})

	t.Run("breaks search rank ties by price ascending", func(t *testing.T) {
		candidates := []domain.ProductCandidate{
			{ID: "X", Price: 5.00, SearchRank: 1},
			{ID: "Y", Price: 4.50, SearchRank: 1},
		}

		ranked := RankCandidates(candidates)
		if ranked[0].ID != "Y" {
			t.Errorf("first = %s, want Y (lower price on equal rank)", ranked[0].ID)
		}
	})

	t.Run("breaks full ties by id", func(t *testing.T) {
		candidates := []domain.ProductCandidate{
			{ID: "Z", Price: 2.00, SearchRank: 1},
			{ID: "A", Price: 2.00, SearchRank: 1},
		}

		ranked := RankCandidates(candidates)
		if ranked[0].ID != "A" {
			t.Errorf("first = %s, want A", ranked[0].ID)
		}
	})

	t.Run("assigns rank positions starting at 1", func(t *testing.T) {
		candidates := []domain.ProductCandidate{
			{ID: "B", Price: 1.00, SearchRank: 2},
			{ID: "A", Price: 1.00, SearchRank: 1},
		}

		ranked := RankCandidates(candidates)
		for i, c := range ranked {
			if c.Rank != i+1 {
				t.Errorf("ranked[%d].Rank = %d, want %d", i, c.Rank, i+1)
			}
		}
	})

	t.Run("does not mutate the input slice", func(t *testing.T) {
		candidates := []domain.ProductCandidate{
			{ID: "B", Price: 1.00, SearchRank: 2},
			{ID: "A", Price: 1.00, SearchRank: 1},
		}

		RankCandidates(candidates)
		if candidates[0].ID != "B" {
			t.Error("input slice was reordered")
		}
		if candidates[0].Rank != 0 {
			t.Error("input slice was annotated")
		}
	})

	t.Run("is deterministic across repeated calls", func(t *testing.T) {
		candidates := []domain.ProductCandidate{
			{ID: "C", Price: 2.00, SearchRank: 1},
			{ID: "A", Price: 2.00, SearchRank: 1},
			{ID: "B", Price: 1.50, SearchRank: 2},
		}

		first := RankCandidates(candidates)
		for i := 0; i < 10; i++ {
			again := RankCandidates(candidates)
			for j := range first {
				if again[j].ID != first[j].ID {
					t.Fatalf("run %d position %d = %s, want %s", i, j, again[j].ID, first[j].ID)
				}
			}
		}
	})

	t.Run("returns nil for empty input", func(t *testing.T) {
		if got := RankCandidates(nil); got != nil {
			t.Errorf("RankCandidates(nil) = %v, want nil", got)
		}
	})
}

func TestRankCandidatesBadges(t *testing.T) {
	t.Run("best price and best match are independent", func(t *testing.T) {
		candidates := []domain.ProductCandidate{
			{ID: "A", Price: 5.00, SearchRank: 1},
			{ID: "B", Price: 4.50, SearchRank: 2},
		}

		ranked := RankCandidates(candidates)

		byID := map[string]domain.ProductCandidate{}
		for _, c := range ranked {
			byID[c.ID] = c
		}

		if !byID["A"].BestMatch || byID["A"].BestPrice {
			t.Errorf("A badges = match:%v price:%v, want match only", byID["A"].BestMatch, byID["A"].BestPrice)
		}
		if byID["B"].BestMatch || !byID["B"].BestPrice {
			t.Errorf("B badges = match:%v price:%v, want price only", byID["B"].BestMatch, byID["B"].BestPrice)
		}
	})

	t.Run("both badges may apply to the same candidate", func(t *testing.T) {
		candidates := []domain.ProductCandidate{
			{ID: "A", Price: 1.00, SearchRank: 1},
			{ID: "B", Price: 2.00, SearchRank: 2},
		}

		ranked := RankCandidates(candidates)
		if !ranked[0].BestMatch || !ranked[0].BestPrice {
			t.Errorf("badges = match:%v price:%v, want both", ranked[0].BestMatch, ranked[0].BestPrice)
		}
	})

	t.Run("equal minimum price badges every holder", func(t *testing.T) {
		candidates := []domain.ProductCandidate{
			{ID: "A", Price: 2.00, SearchRank: 1},
			{ID: "B", Price: 2.00, SearchRank: 2},
		}

		ranked := RankCandidates(candidates)
		for _, c := range ranked {
			if !c.BestPrice {
				t.Errorf("candidate %s BestPrice = false, want true", c.ID)
			}
		}
	})
}

func TestDefaultSelection(t *testing.T) {
	t.Run("picks the rank 1 candidate", func(t *testing.T) {
		match := domain.IngredientMatch{
			Ingredient: "chicken",
			Candidates: RankCandidates([]domain.ProductCandidate{
				{ID: "B", Price: 4.50, SearchRank: 2},
				{ID: "A", Price: 5.00, SearchRank: 1},
			}),
		}

		def, ok := DefaultSelection(match)
		if !ok {
			t.Fatal("expected a default selection")
		}
		if def.ID != "A" {
			t.Errorf("default = %s, want A", def.ID)
		}
	})

	t.Run("picks lowest price among shared rank 1", func(t *testing.T) {
		match := domain.IngredientMatch{
			Ingredient: "milk",
			Candidates: RankCandidates([]domain.ProductCandidate{
				{ID: "X", Price: 5.00, SearchRank: 1},
				{ID: "Y", Price: 4.50, SearchRank: 1},
			}),
		}

		def, _ := DefaultSelection(match)
		if def.ID != "Y" {
			t.Errorf("default = %s, want Y", def.ID)
		}
	})

	t.Run("reports no default for empty group", func(t *testing.T) {
		_, ok := DefaultSelection(domain.IngredientMatch{Ingredient: "saffron"})
		if ok {
			t.Error("expected no default for empty candidate list")
		}
	})
}

func TestFindCandidate(t *testing.T) {
	match := domain.IngredientMatch{
		Ingredient: "garlic",
		Candidates: []domain.ProductCandidate{
			{ID: "C", Price: 1.00, SearchRank: 1},
		},
	}

	t.Run("finds present candidate", func(t *testing.T) {
		c, ok := FindCandidate(match, "C")
		if !ok || c.ID != "C" {
			t.Errorf("FindCandidate = %v,%v, want C,true", c.ID, ok)
		}
	})

	t.Run("reports absent candidate", func(t *testing.T) {
		if _, ok := FindCandidate(match, "missing"); ok {
			t.Error("expected not found")
		}
	})
}
