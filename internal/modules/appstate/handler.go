package appstate

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the per-session cart/wishlist/UI state over HTTP.
// The session is identified by the X-Session-ID header.
type Handler struct {
	sessions *Manager
}

func NewHandler(sessions *Manager) *Handler { return &Handler{sessions: sessions} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/session", func(r chi.Router) {
		r.Get("/state", h.getState)                    // GET    /api/v1/session/state
		r.Post("/cart/items", h.addToCart)             // POST   /api/v1/session/cart/items
		r.Patch("/cart/items/{id}", h.updateQuantity)  // PATCH  /api/v1/session/cart/items/{id}
		r.Delete("/cart/items/{id}", h.removeFromCart) // DELETE /api/v1/session/cart/items/{id}
		r.Delete("/cart", h.clearCart)                 // DELETE /api/v1/session/cart
		r.Post("/wishlist/toggle", h.toggleWishlist)   // POST   /api/v1/session/wishlist/toggle
		r.Post("/ui/{panel}/toggle", h.togglePanel)    // POST   /api/v1/session/ui/{panel}/toggle
		r.Put("/search", h.setSearchQuery)             // PUT    /api/v1/session/search
		r.Post("/logout", h.logout)                    // POST   /api/v1/session/logout
	})
}

func (h *Handler) store(r *http.Request) (*Store, bool) {
	id := r.Header.Get("X-Session-ID")
	if id == "" {
		return nil, false
	}
	return h.sessions.Get(id), true
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "X-Session-ID header is required"})
		return
	}
	s := st.Snapshot()
	respond(w, http.StatusOK, map[string]interface{}{
		"state":          s,
		"cart_total":     s.CartTotal(),
		"cart_count":     s.CartCount(),
		"wishlist_count": s.WishlistCount(),
	})
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "X-Session-ID header is required"})
		return
	}
	var req struct {
		CartLine
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.ID == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "id is required"})
		return
	}
	next := st.Dispatch(AddToCart{Item: req.CartLine, Quantity: req.Quantity})
	respond(w, http.StatusOK, next)
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "X-Session-ID header is required"})
		return
	}
	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	next := st.Dispatch(UpdateQuantity{ID: chi.URLParam(r, "id"), Delta: req.Delta})
	respond(w, http.StatusOK, next)
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "X-Session-ID header is required"})
		return
	}
	next := st.Dispatch(RemoveFromCart{ID: chi.URLParam(r, "id")})
	respond(w, http.StatusOK, next)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "X-Session-ID header is required"})
		return
	}
	next := st.Dispatch(ClearCart{})
	respond(w, http.StatusOK, next)
}

func (h *Handler) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "X-Session-ID header is required"})
		return
	}
	var entry WishlistEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if entry.ID == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "id is required"})
		return
	}
	next := st.Dispatch(ToggleWishlist{Entry: entry})
	respond(w, http.StatusOK, next)
}

func (h *Handler) togglePanel(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "X-Session-ID header is required"})
		return
	}
	var action Action
	switch chi.URLParam(r, "panel") {
	case "search":
		action = ToggleSearch{}
	case "login":
		action = ToggleLogin{}
	case "cart":
		action = ToggleCart{}
	case "mobile-menu":
		action = ToggleMobileMenu{}
	default:
		respond(w, http.StatusNotFound, map[string]string{"error": "unknown panel"})
		return
	}
	respond(w, http.StatusOK, st.Dispatch(action))
}

func (h *Handler) setSearchQuery(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "X-Session-ID header is required"})
		return
	}
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, st.Dispatch(SetSearchQuery{Query: req.Query}))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	st, ok := h.store(r)
	if !ok {
		respond(w, http.StatusBadRequest, map[string]string{"error": "X-Session-ID header is required"})
		return
	}
	respond(w, http.StatusOK, st.Dispatch(Logout{}))
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
