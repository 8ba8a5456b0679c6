package commerce

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/platewise/backend/internal/domain"
)

// MapRecord converts a raw store record to a ProductCandidate plus the
// normalized ingredient key it belongs to. Returns ok=false for records the
// catalog must drop: missing ingredient tag, empty name, or a price that
// cannot be parsed as a non-negative number.
func MapRecord(rec domain.RawProductRecord) (domain.ProductCandidate, string, bool) {
	ingredient := domain.NormalizeIngredient(rec.IngredientMatch)
	if ingredient == "" {
		return domain.ProductCandidate{}, "", false
	}

	name := strings.TrimSpace(rec.Name)
	if rec.ID == "" || name == "" {
		return domain.ProductCandidate{}, "", false
	}

	price, ok := ParsePrice(rec.Price)
	if !ok || price < 0 {
		return domain.ProductCandidate{}, "", false
	}

	rank := rec.SearchRank
	if rank <= 0 {
		// Absent or garbage rank sorts after every ranked candidate.
		rank = int(^uint(0) >> 1)
	}

	return domain.ProductCandidate{
		ID:           rec.ID,
		Name:         name,
		Price:        price,
		Brand:        strings.TrimSpace(rec.Brand),
		Size:         strings.TrimSpace(rec.Size),
		Rating:       rec.Rating,
		ReviewCount:  rec.ReviewCount,
		Availability: mapAvailability(rec.Availability),
		ImageURL:     rec.ImageURL,
		SearchRank:   rank,
	}, ingredient, true
}

// ParsePrice accepts the price representations observed from the
// collaborator: JSON numbers, numeric strings ("4.50", "$4.50"), and
// json.Number when callers decode with UseNumber.
func ParsePrice(v interface{}) (float64, bool) {
	switch p := v.(type) {
	case float64:
		return p, true
	case int:
		return float64(p), true
	case json.Number:
		f, err := p.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(p), "$"))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func mapAvailability(s string) domain.Availability {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in_stock", "in stock", "available":
		return domain.AvailabilityInStock
	case "out_of_stock", "out of stock", "unavailable":
		return domain.AvailabilityOutOfStock
	default:
		return domain.AvailabilityUnknown
	}
}
