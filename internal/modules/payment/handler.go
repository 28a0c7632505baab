package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes payment HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Post("/card", h.chargeCard)       // POST /api/v1/payments/card
		r.Post("/wallet", h.chargeWallet)   // POST /api/v1/payments/wallet
		r.Get("/{id}", h.getTransaction)    // GET  /api/v1/payments/{id}
		r.Get("/", h.listRecent)            // GET  /api/v1/payments?limit=20
	})
}

func (h *Handler) chargeCard(w http.ResponseWriter, r *http.Request) {
	var req CardPayment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	res, err := h.service.ChargeCard(r.Context(), req)
	if err != nil {
		respond(w, paymentErrorCode(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, res)
}

func (h *Handler) chargeWallet(w http.ResponseWriter, r *http.Request) {
	var req WalletPayment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	res, err := h.service.ChargeWallet(r.Context(), req)
	if err != nil {
		respond(w, paymentErrorCode(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, res)
}

func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.service.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, tx)
}

func (h *Handler) listRecent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	txs, err := h.service.ListRecent(r.Context(), limit)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, txs)
}

func paymentErrorCode(err error) int {
	msg := err.Error()
	if errors.Is(err, ErrDeclined) {
		return http.StatusPaymentRequired
	}
	if strings.Contains(msg, "invalid") || strings.Contains(msg, "must be") || strings.Contains(msg, "unsupported") {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
