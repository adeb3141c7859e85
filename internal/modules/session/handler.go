package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nattapongs/fuelpos-backend/internal/modules/nozzle"
)

// Handler exposes the sale-session workflow over HTTP.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Get("/api/v1/nozzles/{nozzle_id}/sessions", h.listByNozzle)
	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", h.start)
		r.Get("/{id}", h.get)
		r.Post("/{id}/fuel", h.setFuel)
		r.Post("/{id}/received", h.confirmReceived)
		r.Post("/{id}/member", h.declareMember)
		r.Post("/{id}/member-lookup", h.lookupMember)
		r.Post("/{id}/payment-method", h.choosePayment)
		r.Post("/{id}/items", h.addItem)
		r.Delete("/{id}/items/{index}", h.removeItem)
		r.Post("/{id}/edit", h.editStep)
		r.Post("/{id}/finalize", h.finalize)
		r.Post("/{id}/cancel", h.cancel)
	})
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	resp, err := h.service.Start(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusCreated, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, resp)
}

func (h *Handler) listByNozzle(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListByNozzle(r.Context(), chi.URLParam(r, "nozzle_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, resp)
}

func (h *Handler) setFuel(w http.ResponseWriter, r *http.Request) {
	var req FuelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.step(w, r, func() (*SessionResponse, error) {
		return h.service.SetFuelAmount(r.Context(), chi.URLParam(r, "id"), req)
	})
}

func (h *Handler) confirmReceived(w http.ResponseWriter, r *http.Request) {
	var req ReceivedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.step(w, r, func() (*SessionResponse, error) {
		return h.service.ConfirmReceived(r.Context(), chi.URLParam(r, "id"), req)
	})
}

func (h *Handler) declareMember(w http.ResponseWriter, r *http.Request) {
	var req MemberDeclareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.step(w, r, func() (*SessionResponse, error) {
		return h.service.DeclareMember(r.Context(), chi.URLParam(r, "id"), req)
	})
}

func (h *Handler) lookupMember(w http.ResponseWriter, r *http.Request) {
	var req MemberLookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.step(w, r, func() (*SessionResponse, error) {
		return h.service.LookupMember(r.Context(), chi.URLParam(r, "id"), req)
	})
}

func (h *Handler) choosePayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.step(w, r, func() (*SessionResponse, error) {
		return h.service.ChoosePayment(r.Context(), chi.URLParam(r, "id"), req)
	})
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.step(w, r, func() (*SessionResponse, error) {
		return h.service.AddItem(r.Context(), chi.URLParam(r, "id"), req)
	})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "invalid item index", http.StatusBadRequest)
		return
	}
	h.step(w, r, func() (*SessionResponse, error) {
		return h.service.RemoveItem(r.Context(), chi.URLParam(r, "id"), index)
	})
}

func (h *Handler) editStep(w http.ResponseWriter, r *http.Request) {
	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.step(w, r, func() (*SessionResponse, error) {
		return h.service.EditStep(r.Context(), chi.URLParam(r, "id"), req)
	})
}

func (h *Handler) finalize(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Finalize(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, resp)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, resp)
}

func (h *Handler) step(w http.ResponseWriter, r *http.Request, fn func() (*SessionResponse, error)) {
	resp, err := fn()
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, resp)
}

// writeError maps the error taxonomy onto HTTP statuses. Every class is
// request-scoped and recoverable.
func writeError(w http.ResponseWriter, err error) {
	var gv *GuardViolation
	var cf *CollaboratorFailure
	var code int
	switch {
	case errors.As(err, &gv):
		code = http.StatusUnprocessableEntity
	case errors.As(err, &cf):
		code = http.StatusBadGateway
	case errors.Is(err, ErrCapacityExceeded), errors.Is(err, nozzle.ErrUnavailable):
		code = http.StatusConflict
	case errors.Is(err, ErrNotFound), errors.Is(err, nozzle.ErrNotFound):
		code = http.StatusNotFound
	case strings.Contains(err.Error(), "invalid"):
		code = http.StatusBadRequest
	default:
		code = http.StatusInternalServerError
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
