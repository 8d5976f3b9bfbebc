// Package cart implements the session-scoped in-memory cart store and its
// supporting pieces: variation-aware item identity and the pluggable
// shipping policy.
package cart

import (
	"sync"
	"time"

	"merchant-kit/internal/model"

	"github.com/rs/zerolog"
)

// Store owns all cart state, keyed by an opaque caller-supplied session
// id. Operations on different sessions are independent; operations on the
// same session are serialised by a per-session mutex so concurrent adds
// never lose an update. Callers receive copies of cart state, never the
// owned instances.
type Store struct {
	mu    sync.Mutex
	carts map[string]*sessionCart

	shipping FeeCalculator
	ttl      time.Duration
	logger   zerolog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

type sessionCart struct {
	mu        sync.Mutex
	sessionID string
	items     []model.CartItem
	createdAt time.Time
	updatedAt time.Time

	// evicted is set under mu when the janitor removes the cart from the
	// store map. A caller that resolved the pointer before removal must
	// re-resolve instead of mutating the orphan.
	evicted bool
}

// Option configures a Store.
type Option func(*Store)

// WithShipping replaces the shipping policy for the store. The policy is
// per store, not per call; replacing it affects all future recomputations.
func WithShipping(fn FeeCalculator) Option {
	return func(s *Store) {
		if fn != nil {
			s.shipping = fn
		}
	}
}

// WithTTL enables eviction of carts idle for longer than d. A cart's idle
// clock resets on every mutation (add, or a remove that changed the
// cart). Zero disables eviction, in which case carts live for the
// process lifetime.
func WithTTL(d time.Duration) Option {
	return func(s *Store) {
		s.ttl = d
	}
}

// NewStore creates a cart store with the default shipping policy.
func NewStore(logger zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		carts:    make(map[string]*sessionCart),
		shipping: DefaultShipping,
		logger:   logger.With().Str("component", "cart-store").Logger(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.ttl > 0 {
		go s.janitor()
	}

	s.logger.Info().Dur("ttl", s.ttl).Msg("cart store initialised")
	return s
}

// Close stops the eviction janitor. Cart state remains readable.
func (s *Store) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

// Add puts quantity units of a product into the session's cart, creating
// the cart on first use. An existing item matching on product id and
// variation set is merged by summing quantity; its amount is recomputed
// when a unit price is already known. Returns the recomputed summary.
func (s *Store) Add(sessionID, productID string, quantity int, variations []model.SelectedVariation, unitPrice *float64) (*model.CartSummary, error) {
	if quantity <= 0 {
		s.logger.Warn().
			Str("session_id", sessionID).
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("invalid quantity")
		return nil, model.ErrInvalidQuantity
	}

	if variations == nil {
		variations = []model.SelectedVariation{}
	}

	c := s.getOrCreate(sessionID)
	c.mu.Lock()
	for c.evicted {
		// The janitor swept this cart between lookup and lock; start over
		// with a fresh one so the add is never lost.
		c.mu.Unlock()
		c = s.getOrCreate(sessionID)
		c.mu.Lock()
	}
	defer c.mu.Unlock()

	merged := false
	for i := range c.items {
		item := &c.items[i]
		if item.ProductID == productID && VariationsMatch(item.Variations, variations) {
			item.Quantity += quantity
			if item.UnitPrice != nil {
				amount := *item.UnitPrice * float64(item.Quantity)
				item.Amount = &amount
			}
			merged = true
			s.logger.Debug().
				Str("session_id", sessionID).
				Str("product_id", productID).
				Int("quantity", item.Quantity).
				Msg("merged cart item")
			break
		}
	}

	if !merged {
		item := model.CartItem{
			ProductID:  productID,
			Quantity:   quantity,
			Variations: variations,
		}
		if unitPrice != nil {
			price := *unitPrice
			amount := price * float64(quantity)
			item.UnitPrice = &price
			item.Amount = &amount
		}
		c.items = append(c.items, item)
		s.logger.Debug().
			Str("session_id", sessionID).
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("added cart item")
	}

	c.updatedAt = time.Now()
	return s.summarise(c), nil
}

// View returns the session's cart summary without mutating it. An unknown
// session yields an empty summary rather than an error.
func (s *Store) View(sessionID string) *model.CartSummary {
	c := s.get(sessionID)
	if c == nil {
		return emptySummary(sessionID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.evicted {
		return emptySummary(sessionID)
	}
	return s.summarise(c)
}

// Remove deletes every item matching the product id and variation set.
// Removal is idempotent: when nothing matches the cart is unchanged and
// the returned summary reflects the prior state.
func (s *Store) Remove(sessionID, productID string, variations []model.SelectedVariation) *model.CartSummary {
	c := s.get(sessionID)
	if c == nil {
		return emptySummary(sessionID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.evicted {
		return emptySummary(sessionID)
	}

	if variations == nil {
		variations = []model.SelectedVariation{}
	}

	kept := c.items[:0]
	removed := 0
	for _, item := range c.items {
		if item.ProductID == productID && VariationsMatch(item.Variations, variations) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	c.items = kept

	if removed > 0 {
		c.updatedAt = time.Now()
		s.logger.Debug().
			Str("session_id", sessionID).
			Str("product_id", productID).
			Int("removed", removed).
			Msg("removed cart items")
	} else {
		s.logger.Debug().
			Str("session_id", sessionID).
			Str("product_id", productID).
			Msg("no matching cart item to remove")
	}

	return s.summarise(c)
}

// Sessions returns the number of live carts.
func (s *Store) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

func (s *Store) get(sessionID string) *sessionCart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[sessionID]
}

func (s *Store) getOrCreate(sessionID string) *sessionCart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		now := time.Now()
		c = &sessionCart{
			sessionID: sessionID,
			items:     []model.CartItem{},
			createdAt: now,
			updatedAt: now,
		}
		s.carts[sessionID] = c
		s.logger.Debug().Str("session_id", sessionID).Msg("cart created")
	}
	return c
}

// summarise builds a fresh summary from the cart. The caller must hold
// the cart's mutex. Subtotal covers only items with a resolved amount;
// the shipping fee is recomputed every time, never reused.
func (s *Store) summarise(c *sessionCart) *model.CartSummary {
	items := copyItems(c.items)

	subtotal := 0.0
	for _, item := range items {
		if item.Amount != nil {
			subtotal += *item.Amount
		}
	}

	fee := s.shipping(subtotal, len(items), items)
	if fee < 0 {
		fee = 0
	}

	return &model.CartSummary{
		SessionID:   c.sessionID,
		Items:       items,
		ItemCount:   len(items),
		Subtotal:    subtotal,
		ShippingFee: fee,
		TotalAmount: subtotal + fee,
		UpdatedAt:   c.updatedAt,
	}
}

func copyItems(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, len(items))
	for i, item := range items {
		cp := item
		cp.Variations = make([]model.SelectedVariation, len(item.Variations))
		copy(cp.Variations, item.Variations)
		if item.UnitPrice != nil {
			price := *item.UnitPrice
			cp.UnitPrice = &price
		}
		if item.Amount != nil {
			amount := *item.Amount
			cp.Amount = &amount
		}
		out[i] = cp
	}
	return out
}

func emptySummary(sessionID string) *model.CartSummary {
	return &model.CartSummary{
		SessionID: sessionID,
		Items:     []model.CartItem{},
	}
}

func (s *Store) janitor() {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictIdle()
		case <-s.done:
			return
		}
	}
}

func (s *Store) evictIdle() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.carts {
		c.mu.Lock()
		if c.updatedAt.Before(cutoff) {
			c.evicted = true
			delete(s.carts, id)
			s.logger.Info().Str("session_id", id).Msg("evicted idle cart")
		}
		c.mu.Unlock()
	}
}
