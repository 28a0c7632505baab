package wishlist

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chimustore/chimu-backend/internal/modules/auth"
)

// Handler exposes the wishlist over HTTP. All routes require auth.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.list)                          // GET  /api/v1/wishlist
		r.Post("/toggle", h.toggle)                 // POST /api/v1/wishlist/toggle
		r.Get("/contains/{product_id}", h.contains) // GET  /api/v1/wishlist/contains/{product_id}
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	entries, err := h.service.List(r.Context(), userID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, entries)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	var in struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	added, err := h.service.Toggle(r.Context(), userID, in.ProductID)
	if err != nil {
		respond(w, wishlistErrorCode(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]bool{"in_wishlist": added})
}

func (h *Handler) contains(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	present, err := h.service.Contains(r.Context(), userID, chi.URLParam(r, "product_id"))
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]bool{"in_wishlist": present})
}

func wishlistErrorCode(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "required"):
		return http.StatusBadRequest
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
