package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chimustore/chimu-backend/internal/modules/appstate"
)

// Handler exposes checkout sessions over HTTP. Each started checkout gets
// its own Session bound to the shopper's state store.
type Handler struct {
	stores   *appstate.Manager
	payments Payments
	orders   OrderPlacer

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	session  *Session
	notifier *appstate.Notifier
}

func NewHandler(stores *appstate.Manager, payments Payments, orders OrderPlacer) *Handler {
	return &Handler{
		stores:   stores,
		payments: payments,
		orders:   orders,
		sessions: map[string]*sessionEntry{},
	}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Post("/", h.start)                        // POST   /api/v1/checkout
		r.Get("/{id}", h.view)                      // GET    /api/v1/checkout/{id}
		r.Put("/{id}/fields", h.setFields)          // PUT    /api/v1/checkout/{id}/fields
		r.Post("/{id}/next", h.next)                // POST   /api/v1/checkout/{id}/next
		r.Post("/{id}/previous", h.previous)        // POST   /api/v1/checkout/{id}/previous
		r.Post("/{id}/cancel", h.cancel)            // POST   /api/v1/checkout/{id}/cancel
		r.Post("/{id}/confirm-exit", h.confirmExit) // POST   /api/v1/checkout/{id}/confirm-exit
		r.Post("/{id}/dismiss-exit", h.dismissExit) // POST   /api/v1/checkout/{id}/dismiss-exit
		r.Delete("/{id}", h.close)                  // DELETE /api/v1/checkout/{id}
	})
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	storeID := r.Header.Get("X-Session-ID")
	if storeID == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "X-Session-ID header is required"})
		return
	}

	store := h.stores.Get(storeID)
	notifier := appstate.NewNotifier(store)
	id := uuid.NewString()

	session, err := NewSession(id, store, h.payments, h.orders, notifier)
	if err != nil {
		notifier.Close()
		code := http.StatusInternalServerError
		if errors.Is(err, ErrEmptyCart) {
			code = http.StatusUnprocessableEntity
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}

	h.mu.Lock()
	h.sessions[id] = &sessionEntry{session: session, notifier: notifier}
	h.mu.Unlock()

	respond(w, http.StatusCreated, session.View())
}

func (h *Handler) entry(w http.ResponseWriter, r *http.Request) *sessionEntry {
	h.mu.Lock()
	entry, ok := h.sessions[chi.URLParam(r, "id")]
	h.mu.Unlock()
	if !ok {
		respond(w, http.StatusNotFound, map[string]string{"error": "checkout session not found"})
		return nil
	}
	return entry
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	entry := h.entry(w, r)
	if entry == nil {
		return
	}
	respond(w, http.StatusOK, entry.session.View())
}

func (h *Handler) setFields(w http.ResponseWriter, r *http.Request) {
	entry := h.entry(w, r)
	if entry == nil {
		return
	}
	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var v View
	for name, value := range fields {
		v = entry.session.SetField(name, value)
	}
	respond(w, http.StatusOK, v)
}

func (h *Handler) next(w http.ResponseWriter, r *http.Request) {
	entry := h.entry(w, r)
	if entry == nil {
		return
	}
	v, err := entry.session.Next(r.Context())
	if err != nil {
		respond(w, submitErrorCode(err), map[string]interface{}{"error": err.Error(), "view": v})
		return
	}
	respond(w, http.StatusOK, v)
}

func (h *Handler) previous(w http.ResponseWriter, r *http.Request) {
	entry := h.entry(w, r)
	if entry == nil {
		return
	}
	respond(w, http.StatusOK, entry.session.Previous())
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	entry := h.entry(w, r)
	if entry == nil {
		return
	}
	respond(w, http.StatusOK, entry.session.Cancel())
}

func (h *Handler) confirmExit(w http.ResponseWriter, r *http.Request) {
	entry := h.entry(w, r)
	if entry == nil {
		return
	}
	respond(w, http.StatusOK, entry.session.ConfirmExit())
}

func (h *Handler) dismissExit(w http.ResponseWriter, r *http.Request) {
	entry := h.entry(w, r)
	if entry == nil {
		return
	}
	respond(w, http.StatusOK, entry.session.DismissExit())
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.mu.Lock()
	entry, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if ok {
		entry.session.Close()
		entry.notifier.Close()
	}
	respond(w, http.StatusOK, map[string]string{"status": "closed"})
}

func submitErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrSubmitInFlight):
		return http.StatusConflict
	case errors.Is(err, ErrSessionClosed):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
