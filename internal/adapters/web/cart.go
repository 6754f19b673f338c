package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"order-portal/internal/app"
	"order-portal/internal/core"
)

// ── Session carts ─────────────────────────────────────────────────────────────

const cartTTL = 24 * time.Hour

type cartEntry struct {
	cart    *core.Cart
	touched time.Time
}

// cartStore keeps one cart per signed-in user in memory, with TTL expiry.
// Carts are lost on restart.
type cartStore struct {
	mu    sync.Mutex
	carts map[int]*cartEntry
}

func newCartStore() *cartStore {
	return &cartStore{carts: make(map[int]*cartEntry)}
}

// with runs fn on the user's cart while holding the store lock, creating
// the cart on first use. Concurrent requests from one user are serialized.
func (s *cartStore) with(userID int, fn func(c *core.Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.carts[userID]
	if !ok || time.Since(e.touched) > cartTTL {
		e = &cartEntry{cart: &core.Cart{}}
		s.carts[userID] = e
	}
	e.touched = time.Now()
	return fn(e.cart)
}

func (s *cartStore) drop(userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

// startPurge starts a background goroutine that evicts expired carts every 5 minutes.
func (s *cartStore) startPurge(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				for id, e := range s.carts {
					if time.Since(e.touched) > cartTTL {
						delete(s.carts, id)
					}
				}
				s.mu.Unlock()
			}
		}
	}()
}

// ── Cart handlers ─────────────────────────────────────────────────────────────

// viewCart handles GET /api/cart.
func (h *Handler) viewCart(w http.ResponseWriter, r *http.Request) {
	userID := authFromContext(r.Context()).UserID
	var result *app.CartResult
	err := h.carts.with(userID, func(c *core.Cart) error {
		var err error
		result, err = h.svc.ViewCart(r.Context(), userID, c)
		return err
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// addCartItem handles POST /api/cart/items.
func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req app.CartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	userID := authFromContext(r.Context()).UserID
	var result *app.CartResult
	err := h.carts.with(userID, func(c *core.Cart) error {
		var err error
		result, err = h.svc.AddToCart(r.Context(), userID, c, req)
		return err
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// setCartItem handles PUT /api/cart/items/{itemID}.
func (h *Handler) setCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := intParam(w, r, "itemID")
	if !ok {
		return
	}
	var req app.CartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ItemID = itemID
	h.updateCart(w, r, req)
}

// removeCartItem handles DELETE /api/cart/items/{itemID}.
func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := intParam(w, r, "itemID")
	if !ok {
		return
	}
	h.updateCart(w, r, app.CartItemRequest{ItemID: itemID, Quantity: "0"})
}

func (h *Handler) updateCart(w http.ResponseWriter, r *http.Request, req app.CartItemRequest) {
	userID := authFromContext(r.Context()).UserID
	var result *app.CartResult
	err := h.carts.with(userID, func(c *core.Cart) error {
		var err error
		result, err = h.svc.SetCartQuantity(r.Context(), userID, c, req)
		return err
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
