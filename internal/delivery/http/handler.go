package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/platewise/backend/internal/domain"
	"github.com/platewise/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	carts    *usecase.CartService
	checkout *usecase.CheckoutService
}

// NewHandler creates a new HTTP handler
func NewHandler(carts *usecase.CartService, checkout *usecase.CheckoutService) *Handler {
	return &Handler{
		carts:    carts,
		checkout: checkout,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "platewise-backend",
		"version": "1.0.0",
	})
}

// createSessionRequest is the body for creating a cart session
type createSessionRequest struct {
	RecipeID    string   `json:"recipe_id"`
	Ingredients []string `json:"ingredients" binding:"required"`
}

// selectRequest is the body for overriding an ingredient's selection
type selectRequest struct {
	CandidateID string `json:"candidate_id" binding:"required"`
}

// CreateSession creates a cart session for a recipe's ingredient list and
// loads its product catalog. A catalog failure still yields a usable
// session: the snapshot degrades to a plain ingredient list and the body
// carries a retryable condition.
func (h *Handler) CreateSession(c *gin.Context) {
	if h.carts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "cart service not configured"})
		return
	}

	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients list is required"})
		return
	}

	snapshot, err := h.carts.CreateSession(c.Request.Context(), req.RecipeID, req.Ingredients)
	if err != nil {
		if errors.Is(err, domain.ErrCatalogUnavailable) {
			c.JSON(http.StatusOK, gin.H{
				"snapshot":  snapshot,
				"condition": "catalog_unavailable",
			})
			return
		}
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at least one ingredient is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"snapshot": snapshot})
}

// GetSnapshot returns the current cart view for a session
func (h *Handler) GetSnapshot(c *gin.Context) {
	snapshot, err := h.carts.Snapshot(c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snapshot})
}

// SelectCandidate overrides the selection for one ingredient
func (h *Handler) SelectCandidate(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidate_id is required"})
		return
	}

	if err := h.carts.Select(c.Param("id"), c.Param("ingredient"), req.CandidateID); err != nil {
		h.renderError(c, err)
		return
	}
	h.renderSnapshot(c)
}

// ExcludeIngredient marks an ingredient as excluded from the cart
func (h *Handler) ExcludeIngredient(c *gin.Context) {
	if err := h.carts.Exclude(c.Param("id"), c.Param("ingredient")); err != nil {
		h.renderError(c, err)
		return
	}
	h.renderSnapshot(c)
}

// IncludeIngredient re-adds an excluded ingredient with the default pick
func (h *Handler) IncludeIngredient(c *gin.Context) {
	if err := h.carts.Include(c.Param("id"), c.Param("ingredient")); err != nil {
		h.renderError(c, err)
		return
	}
	h.renderSnapshot(c)
}

// RemoveIngredient permanently drops an ingredient from this session's cart
func (h *Handler) RemoveIngredient(c *gin.Context) {
	if err := h.carts.Remove(c.Param("id"), c.Param("ingredient")); err != nil {
		h.renderError(c, err)
		return
	}
	h.renderSnapshot(c)
}

// RefreshCatalog re-fetches the product catalog for a session. Manual
// selections survive for ingredients still present in the new catalog.
func (h *Handler) RefreshCatalog(c *gin.Context) {
	sessionID := c.Param("id")
	if err := h.carts.Refresh(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, domain.ErrCatalogUnavailable) {
			snapshot, snapErr := h.carts.Snapshot(sessionID)
			if snapErr != nil {
				h.renderError(c, snapErr)
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"snapshot":  snapshot,
				"condition": "catalog_unavailable",
			})
			return
		}
		h.renderError(c, err)
		return
	}
	h.renderSnapshot(c)
}

// BuildCheckout submits the current selection to the commerce-checkout
// collaborator and returns the final checkout URL
func (h *Handler) BuildCheckout(c *gin.Context) {
	if h.checkout == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "checkout service not configured"})
		return
	}

	result, err := h.checkout.Checkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": result.URL})
}

// renderSnapshot responds with the post-mutation cart view
func (h *Handler) renderSnapshot(c *gin.Context) {
	snapshot, err := h.carts.Snapshot(c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snapshot})
}

// renderError maps typed engine conditions to HTTP responses. The engine
// never decides presentation; it reports conditions and the shell (here,
// the status code and condition tag) chooses how to surface them.
func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "condition": "session_not_found"})
	case errors.Is(err, domain.ErrUnknownCandidate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "condition": "unknown_candidate"})
	case errors.Is(err, domain.ErrUnknownIngredient):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "condition": "unknown_ingredient"})
	case errors.Is(err, domain.ErrCheckoutInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "condition": "checkout_in_flight"})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "condition": "empty_cart"})
	case errors.Is(err, domain.ErrCheckoutFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "condition": "checkout_failed"})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "condition": "catalog_unavailable"})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "condition": "invalid_request"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
