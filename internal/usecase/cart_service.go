package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/platewise/backend/internal/domain"
)

// CartConfig holds configuration for the cart service
type CartConfig struct {
	TaxRate       float64
	MaxCandidates int
	SessionTTL    time.Duration
	CatalogTTL    time.Duration
}

// CartService is the selection state store: the single owner of per-session
// cart state. Every other view of the cart (totals, checkout payload) is a
// read-only projection recomputed from it. Mutations serialize through a
// per-session lock and bump a version counter, so a snapshot always
// reflects the most recently completed mutation.
type CartService struct {
	search     domain.CommerceSearchClient
	cache      domain.CatalogCache
	normalizer *Normalizer
	taxRate    float64
	sessionTTL time.Duration
	catalogTTL time.Duration

	mu       sync.RWMutex
	sessions map[string]*cartSession
}

// cartSession holds one recipe-viewing session's cart state.
type cartSession struct {
	mu          sync.Mutex
	id          string
	recipeID    string
	ingredients []string // normalized, recipe order
	catalog     domain.Catalog
	selection   domain.CartSelection
	removed     map[string]bool
	fetchState  domain.FetchState
	version     uint64
	inFlight    bool // checkout request outstanding
	expiresAt   time.Time
}

// NewCartService creates a cart service with dependencies
func NewCartService(search domain.CommerceSearchClient, cache domain.CatalogCache, config CartConfig) *CartService {
	taxRate := config.TaxRate
	if taxRate <= 0 {
		taxRate = 0.08 // Default 8% estimated tax
	}
	sessionTTL := config.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = 2 * time.Hour
	}
	catalogTTL := config.CatalogTTL
	if catalogTTL <= 0 {
		catalogTTL = 15 * time.Minute
	}

	s := &CartService{
		search:     search,
		cache:      cache,
		normalizer: NewNormalizer(NormalizerConfig{MaxCandidates: config.MaxCandidates}),
		taxRate:    taxRate,
		sessionTTL: sessionTTL,
		catalogTTL: catalogTTL,
		sessions:   make(map[string]*cartSession),
	}

	go s.cleanupExpired()

	return s
}

// CreateSession starts a cart session for a recipe's ingredient list and
// loads its catalog. A catalog failure is not fatal: the session is still
// created in the failed state (plain ingredient list, no pricing) and the
// wrapped ErrCatalogUnavailable tells the caller to offer a retry.
func (s *CartService) CreateSession(ctx context.Context, recipeID string, ingredients []string) (*domain.CartSnapshot, error) {
	normalized := normalizeIngredientList(ingredients)
	if len(normalized) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	session := &cartSession{
		id:          uuid.NewString(),
		recipeID:    recipeID,
		ingredients: normalized,
		catalog:     domain.Catalog{},
		selection:   domain.CartSelection{},
		removed:     make(map[string]bool),
		fetchState:  domain.FetchIdle,
		expiresAt:   time.Now().Add(s.sessionTTL),
	}

	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()

	err := s.LoadCatalog(ctx, session.id)
	snapshot, snapErr := s.Snapshot(session.id)
	if snapErr != nil {
		return nil, snapErr
	}
	return snapshot, err
}

// LoadCatalog fetches, normalizes, and applies the product catalog for a
// session. All-or-nothing: a failed fetch applies no partial groups and
// leaves any previously applied catalog and the selection untouched, with
// the fetch state recording the failure.
func (s *CartService) LoadCatalog(ctx context.Context, sessionID string) error {
	session, err := s.getSession(sessionID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	session.fetchState = domain.FetchLoading
	ingredients := session.ingredients
	session.mu.Unlock()

	catalog, err := s.fetchCatalog(ctx, ingredients)

	session.mu.Lock()
	defer session.mu.Unlock()

	if err != nil {
		log.Printf("[CART] catalog fetch failed for session %s: %v", sessionID, err)
		session.fetchState = domain.FetchFailed
		session.version++
		return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	session.catalog = catalog
	session.fetchState = domain.FetchReady
	s.initializeLocked(session)
	session.version++
	return nil
}

// Refresh drops the cached catalog snapshot and re-fetches. Manual
// selections for ingredients that survive the refresh are preserved.
func (s *CartService) Refresh(ctx context.Context, sessionID string) error {
	session, err := s.getSession(sessionID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	key := catalogCacheKey(session.ingredients)
	session.mu.Unlock()

	if cerr := s.cache.Delete(ctx, key); cerr != nil {
		log.Printf("[CART] cache delete failed for %s: %v", key, cerr)
	}
	return s.LoadCatalog(ctx, sessionID)
}

// fetchCatalog resolves a catalog from cache or the search collaborator.
func (s *CartService) fetchCatalog(ctx context.Context, ingredients []string) (domain.Catalog, error) {
	key := catalogCacheKey(ingredients)

	if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
		return cached, nil
	}

	resp, err := s.search.SearchProducts(ctx, ingredients)
	if err != nil {
		return nil, err
	}

	catalog, err := s.normalizer.Normalize(resp)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, catalog, s.catalogTTL); err != nil {
		log.Printf("[CART] cache set failed for %s: %v", key, err)
	}

	return catalog, nil
}

// initializeLocked applies the auto-selection pass over the current
// catalog. Idempotent with respect to user intent: manual selections and
// exclusions survive as long as their ingredient is still in the catalog;
// ingredients absent from the new catalog are dropped; everything else gets
// the ranking policy's deterministic default. Caller holds session.mu.
func (s *CartService) initializeLocked(session *cartSession) {
	for key, entry := range session.selection {
		match, ok := session.catalog[key]
		if !ok || len(match.Candidates) == 0 {
			delete(session.selection, key)
			continue
		}
		if entry.Excluded {
			continue
		}
		if !entry.AutoSelected {
			if _, found := FindCandidate(match, entry.CandidateID); found {
				continue
			}
			// The manually chosen offer vanished from the new catalog;
			// fall back to the default rather than keep a dangling id.
		}
		def, _ := DefaultSelection(match)
		session.selection[key] = domain.SelectionEntry{
			CandidateID:  def.ID,
			Quantity:     1,
			AutoSelected: true,
		}
	}

	for key, match := range session.catalog {
		if session.removed[key] {
			continue
		}
		if _, exists := session.selection[key]; exists {
			continue
		}
		def, ok := DefaultSelection(match)
		if !ok {
			continue
		}
		session.selection[key] = domain.SelectionEntry{
			CandidateID:  def.ID,
			Quantity:     1,
			AutoSelected: true,
		}
	}
}

// Select overrides the selection for an ingredient with a specific
// candidate. A candidate id that is not in the ingredient's current match
// list is a benign no-op reporting ErrUnknownCandidate: it is a stale UI
// click racing a catalog refresh, not a programming error.
func (s *CartService) Select(sessionID, ingredient, candidateID string) error {
	session, err := s.getSession(sessionID)
	if err != nil {
		return err
	}

	key := domain.NormalizeIngredient(ingredient)

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.removed[key] {
		return domain.ErrUnknownIngredient
	}
	match, ok := session.catalog[key]
	if !ok || len(match.Candidates) == 0 {
		return domain.ErrUnknownIngredient
	}
	if _, found := FindCandidate(match, candidateID); !found {
		return domain.ErrUnknownCandidate
	}

	session.selection[key] = domain.SelectionEntry{
		CandidateID:  candidateID,
		Quantity:     1,
		AutoSelected: false,
	}
	session.version++
	return nil
}

// Exclude marks an ingredient's selection as excluded without discarding
// its candidate list, so it can be re-included later without a re-fetch.
// No-op if the ingredient has no selection.
func (s *CartService) Exclude(sessionID, ingredient string) error {
	session, err := s.getSession(sessionID)
	if err != nil {
		return err
	}

	key := domain.NormalizeIngredient(ingredient)

	session.mu.Lock()
	defer session.mu.Unlock()

	entry, ok := session.selection[key]
	if !ok || entry.Excluded {
		return nil
	}

	entry.Excluded = true
	session.selection[key] = entry
	session.version++
	return nil
}

// Include re-adds an excluded ingredient using the auto-selection default
// as a starting point. No-op if the ingredient is not excluded.
func (s *CartService) Include(sessionID, ingredient string) error {
	session, err := s.getSession(sessionID)
	if err != nil {
		return err
	}

	key := domain.NormalizeIngredient(ingredient)

	session.mu.Lock()
	defer session.mu.Unlock()

	entry, ok := session.selection[key]
	if !ok || !entry.Excluded {
		return nil
	}

	match, found := session.catalog[key]
	if !found {
		delete(session.selection, key)
		session.version++
		return domain.ErrUnknownIngredient
	}

	def, ok := DefaultSelection(match)
	if !ok {
		return domain.ErrUnknownIngredient
	}

	session.selection[key] = domain.SelectionEntry{
		CandidateID:  def.ID,
		Quantity:     1,
		AutoSelected: true,
	}
	session.version++
	return nil
}

// Remove permanently drops an ingredient from the cart for this session.
// Unlike Exclude it is not a toggle: later catalog refreshes will not
// reinstate the ingredient.
func (s *CartService) Remove(sessionID, ingredient string) error {
	session, err := s.getSession(sessionID)
	if err != nil {
		return err
	}

	key := domain.NormalizeIngredient(ingredient)

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.removed[key] {
		return nil
	}

	delete(session.selection, key)
	session.removed[key] = true
	session.version++
	return nil
}

// Snapshot returns the read-only view of a session: matches in recipe
// order, the selection map, and totals recomputed from the current state.
func (s *CartService) Snapshot(sessionID string) (*domain.CartSnapshot, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	matches := make([]domain.IngredientMatch, 0, len(session.ingredients))
	for _, key := range session.ingredients {
		if session.removed[key] {
			continue
		}
		match, ok := session.catalog[key]
		if !ok {
			// Unresolved ingredient: shown with no candidates yet.
			match = domain.IngredientMatch{Ingredient: key}
		}
		matches = append(matches, match)
	}

	selection := make(domain.CartSelection, len(session.selection))
	for k, v := range session.selection {
		selection[k] = v
	}

	return &domain.CartSnapshot{
		SessionID:  session.id,
		RecipeID:   session.recipeID,
		FetchState: session.fetchState,
		Matches:    matches,
		Selection:  selection,
		Totals:     s.totalsLocked(session),
		Version:    session.version,
	}, nil
}

// Totals recomputes the cart totals from the current selection.
func (s *CartService) Totals(sessionID string) (domain.CartTotals, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return domain.CartTotals{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	return s.totalsLocked(session), nil
}

// totalsLocked walks the non-excluded selections once. Never cached across
// mutations; the carried version lets readers detect staleness. Caller
// holds session.mu.
func (s *CartService) totalsLocked(session *cartSession) domain.CartTotals {
	var subtotal float64
	var count int

	for key, entry := range session.selection {
		if entry.Excluded {
			continue
		}
		match, ok := session.catalog[key]
		if !ok {
			continue
		}
		candidate, found := FindCandidate(match, entry.CandidateID)
		if !found {
			continue
		}
		subtotal += candidate.Price * float64(entry.Quantity)
		count++
	}

	subtotal = round2(subtotal)
	tax := round2(subtotal * s.taxRate)

	return domain.CartTotals{
		ItemCount:    count,
		Subtotal:     subtotal,
		EstimatedTax: tax,
		Total:        round2(subtotal + tax),
		Version:      session.version,
	}
}

// BeginCheckout builds the canonical checkout payload and marks the
// session's checkout as in flight. A second call before FinishCheckout
// reports ErrCheckoutInFlight so duplicate concurrent checkout requests are
// suppressed rather than fired in parallel.
func (s *CartService) BeginCheckout(sessionID string) ([]domain.CheckoutItem, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.inFlight {
		return nil, domain.ErrCheckoutInFlight
	}

	items := s.payloadLocked(session)
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	session.inFlight = true
	return items, nil
}

// FinishCheckout clears the in-flight guard, successful or not.
func (s *CartService) FinishCheckout(sessionID string) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return
	}

	session.mu.Lock()
	session.inFlight = false
	session.mu.Unlock()
}

// Payload returns the canonical checkout payload without touching the
// in-flight guard.
func (s *CartService) Payload(sessionID string) ([]domain.CheckoutItem, error) {
	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	return s.payloadLocked(session), nil
}

// payloadLocked derives the order-independent checkout payload: every
// non-excluded selection, sorted by candidate id so the same selection set
// always serializes identically regardless of the action sequence that
// produced it. Caller holds session.mu.
func (s *CartService) payloadLocked(session *cartSession) []domain.CheckoutItem {
	items := make([]domain.CheckoutItem, 0, len(session.selection))
	for key, entry := range session.selection {
		if entry.Excluded {
			continue
		}
		match, ok := session.catalog[key]
		if !ok {
			continue
		}
		candidate, found := FindCandidate(match, entry.CandidateID)
		if !found {
			continue
		}
		items = append(items, domain.CheckoutItem{
			ID:       candidate.ID,
			Quantity: entry.Quantity,
			Price:    candidate.Price,
			Name:     candidate.Name,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})

	return items
}

// getSession looks up a live session and slides its expiry.
func (s *CartService) getSession(sessionID string) (*cartSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	session.mu.Lock()
	if time.Now().After(session.expiresAt) {
		session.mu.Unlock()
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}
	session.expiresAt = time.Now().Add(s.sessionTTL)
	session.mu.Unlock()

	return session, nil
}

// cleanupExpired evicts expired sessions periodically
func (s *CartService) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for id, session := range s.sessions {
			session.mu.Lock()
			expired := now.After(session.expiresAt)
			session.mu.Unlock()
			if expired {
				delete(s.sessions, id)
			}
		}
		s.mu.Unlock()
	}
}

// SessionCount returns the number of live sessions (for debugging/monitoring)
func (s *CartService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func normalizeIngredientList(ingredients []string) []string {
	seen := make(map[string]bool, len(ingredients))
	out := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		key := domain.NormalizeIngredient(ing)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

func catalogCacheKey(ingredients []string) string {
	sorted := make([]string, len(ingredients))
	copy(sorted, ingredients)
	sort.Strings(sorted)
	return "catalog:" + strings.Join(sorted, "|")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
