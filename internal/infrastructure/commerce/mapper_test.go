package commerce

import (
	"encoding/json"
	"testing"

	"github.com/platewise/backend/internal/domain"
)

func TestMapRecord(t *testing.T) {
	tests := []struct {
		name           string
		record         domain.RawProductRecord
		wantOK         bool
		wantIngredient string
		wantPrice      float64
	}{
		{
			name: "complete record",
			record: domain.RawProductRecord{
				ID: "sku-1", Name: "Whole Milk", Price: 3.50,
				IngredientMatch: "Milk", SearchRank: 1,
			},
			wantOK:         true,
			wantIngredient: "milk",
			wantPrice:      3.50,
		},
		{
			name: "string price",
			record: domain.RawProductRecord{
				ID: "sku-2", Name: "Butter", Price: "4.25",
				IngredientMatch: "butter", SearchRank: 1,
			},
			wantOK:         true,
			wantIngredient: "butter",
			wantPrice:      4.25,
		},
		{
			name: "ingredient tag normalized",
			record: domain.RawProductRecord{
				ID: "sku-3", Name: "Olive Oil", Price: 7.00,
				IngredientMatch: "  Olive   OIL ", SearchRank: 2,
			},
			wantOK:         true,
			wantIngredient: "olive oil",
			wantPrice:      7.00,
		},
		{
			name: "missing ingredient tag dropped",
			record: domain.RawProductRecord{
				ID: "sku-4", Name: "Mystery", Price: 1.00,
			},
			wantOK: false,
		},
		{
			name: "empty name dropped",
			record: domain.RawProductRecord{
				ID: "sku-5", Name: "   ", Price: 1.00, IngredientMatch: "salt",
			},
			wantOK: false,
		},
		{
			name: "missing id dropped",
			record: domain.RawProductRecord{
				Name: "Salt", Price: 1.00, IngredientMatch: "salt",
			},
			wantOK: false,
		},
		{
			name: "unparseable price dropped",
			record: domain.RawProductRecord{
				ID: "sku-6", Name: "Pepper", Price: "call for price", IngredientMatch: "pepper",
			},
			wantOK: false,
		},
		{
			name: "negative price dropped",
			record: domain.RawProductRecord{
				ID: "sku-7", Name: "Pepper", Price: -1.00, IngredientMatch: "pepper",
			},
			wantOK: false,
		},
		{
			name: "nil price dropped",
			record: domain.RawProductRecord{
				ID: "sku-8", Name: "Pepper", IngredientMatch: "pepper",
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate, ingredient, ok := MapRecord(tt.record)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if ingredient != tt.wantIngredient {
				t.Errorf("ingredient = %q, want %q", ingredient, tt.wantIngredient)
			}
			if candidate.Price != tt.wantPrice {
				t.Errorf("price = %v, want %v", candidate.Price, tt.wantPrice)
			}
		})
	}

	t.Run("missing search rank sorts last", func(t *testing.T) {
		candidate, _, ok := MapRecord(domain.RawProductRecord{
			ID: "sku-9", Name: "Flour", Price: 2.00, IngredientMatch: "flour",
		})
		if !ok {
			t.Fatal("record should survive")
		}
		if candidate.SearchRank <= 0 {
			t.Errorf("SearchRank = %d, want large sentinel", candidate.SearchRank)
		}
	})
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name   string
		input  interface{}
		want   float64
		wantOK bool
	}{
		{"float", 3.5, 3.5, true},
		{"int", 4, 4.0, true},
		{"numeric string", "4.50", 4.5, true},
		{"dollar string", "$12.99", 12.99, true},
		{"padded string", "  2.00 ", 2.0, true},
		{"json number", json.Number("1.25"), 1.25, true},
		{"empty string", "", 0, false},
		{"words", "two dollars", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantOK && got != tt.want {
				t.Errorf("price = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapAvailability(t *testing.T) {
	tests := []struct {
		input string
		want  domain.Availability
	}{
		{"in_stock", domain.AvailabilityInStock},
		{"In Stock", domain.AvailabilityInStock},
		{"available", domain.AvailabilityInStock},
		{"out_of_stock", domain.AvailabilityOutOfStock},
		{"Out of Stock", domain.AvailabilityOutOfStock},
		{"unavailable", domain.AvailabilityOutOfStock},
		{"", domain.AvailabilityUnknown},
		{"backordered", domain.AvailabilityUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := mapAvailability(tt.input); got != tt.want {
				t.Errorf("mapAvailability(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
