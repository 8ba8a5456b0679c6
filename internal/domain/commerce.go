package domain

// RawProductRecord is a single product record as returned by the
// commerce-search collaborator. Fields are frequently missing or malformed;
// the catalog normalizer decides what survives. Price is left untyped
// because the collaborator has been observed sending both numbers and
// numeric strings.
type RawProductRecord struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Price           interface{} `json:"price"`
	Brand           string      `json:"brand"`
	Size            string      `json:"size"`
	Rating          float64     `json:"rating"`
	ReviewCount     int         `json:"review_count"`
	Availability    string      `json:"availability"`
	ImageURL        string      `json:"image_url"`
	IngredientMatch string      `json:"ingredient_match"`
	SearchRank      int         `json:"search_rank"`
	IsBestPrice     bool        `json:"is_best_price"`
}

// StoreOptionGroup is one store's flat list of raw product records.
type StoreOptionGroup struct {
	Store    string             `json:"store"`
	Products []RawProductRecord `json:"products"`
}

// SearchResponse is the commerce-search collaborator's response for a
// recipe's ingredient list.
type SearchResponse struct {
	Groups    []StoreOptionGroup `json:"store_options"`
	TotalHits int                `json:"totalHits"`
}

// CheckoutItem is one line of the canonical checkout payload.
type CheckoutItem struct {
	ID       string  `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Name     string  `json:"name"`
}

// CheckoutResponse is the commerce-checkout collaborator's raw reply.
// Exactly one of CartURL or SessionID is expected to be set.
type CheckoutResponse struct {
	CartURL   string `json:"cart_url"`
	SessionID string `json:"session_id"`
}

// CheckoutResult is the final artifact exposed to the user: a single
// openable URL, regardless of which response variant the collaborator used.
type CheckoutResult struct {
	URL string `json:"url"`
}
