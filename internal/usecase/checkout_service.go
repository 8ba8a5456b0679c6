package usecase

import (
	"context"
	"log"

	"github.com/platewise/backend/internal/domain"
)

// CheckoutService turns the current selection into a checkout URL via the
// commerce-checkout collaborator. It holds no cart state of its own: the
// payload is derived from the selection store at call time, and a failed
// request leaves the cart exactly as it was.
type CheckoutService struct {
	carts  *CartService
	client domain.CheckoutClient
}

// NewCheckoutService creates a checkout service with dependencies
func NewCheckoutService(carts *CartService, client domain.CheckoutClient) *CheckoutService {
	return &CheckoutService{
		carts:  carts,
		client: client,
	}
}

// Checkout builds the canonical payload for a session and requests a
// checkout URL. Duplicate concurrent invocations for the same session are
// suppressed (ErrCheckoutInFlight); retrying after completion is safe from
// the caller's perspective even if the collaborator assigns a new session
// id each time.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string) (*domain.CheckoutResult, error) {
	items, err := s.carts.BeginCheckout(sessionID)
	if err != nil {
		return nil, err
	}
	defer s.carts.FinishCheckout(sessionID)

	result, err := s.client.CreateCheckout(ctx, items)
	if err != nil {
		log.Printf("[CART] checkout failed for session %s: %v", sessionID, err)
		return nil, err
	}

	return result, nil
}
