package address

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chimustore/chimu-backend/internal/modules/auth"
)

// Handler exposes the address book over HTTP. All routes require auth; the
// user id comes from the request context set by the auth middleware.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/v1/addresses", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.create)                   // POST   /api/v1/addresses
		r.Get("/", h.list)                      // GET    /api/v1/addresses
		r.Get("/{id}", h.get)                   // GET    /api/v1/addresses/{id}
		r.Put("/{id}", h.update)                // PUT    /api/v1/addresses/{id}
		r.Delete("/{id}", h.delete)             // DELETE /api/v1/addresses/{id}
		r.Post("/{id}/default", h.setDefault)   // POST   /api/v1/addresses/{id}/default
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		respond(w, addrErrorCode(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, a)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	addresses, err := h.service.List(r.Context(), userID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, addresses)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	a, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, a)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), userID, in)
	if err != nil {
		respond(w, addrErrorCode(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, a)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "address deleted"})
}

func (h *Handler) setDefault(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())
	if err := h.service.SetDefault(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "default updated"})
}

func addrErrorCode(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "required"), strings.Contains(msg, "too short"), strings.Contains(msg, "invalid"):
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
