package domain

import (
	"context"
	"time"
)

// CommerceSearchClient defines the interface to the commerce-search
// collaborator: ingredient list in, raw store option groups out.
type CommerceSearchClient interface {
	SearchProducts(ctx context.Context, ingredients []string) (*SearchResponse, error)
}

// CheckoutClient defines the interface to the commerce-checkout
// collaborator. Implementations must resolve both observed response
// variants (direct cart URL, or session id plus a follow-up build-URL call)
// to a single openable URL.
type CheckoutClient interface {
	CreateCheckout(ctx context.Context, items []CheckoutItem) (*CheckoutResult, error)
}

// CatalogCache defines the interface for caching normalized catalog
// snapshots between sessions that share an ingredient list.
type CatalogCache interface {
	Get(ctx context.Context, key string) (Catalog, error)
	Set(ctx context.Context, key string, catalog Catalog, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
