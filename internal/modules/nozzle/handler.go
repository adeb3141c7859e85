package nozzle

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes nozzle HTTP endpoints: forecourt status plus the manager's
// lock/unlock actions.
type Handler struct {
	repo        Repository
	coordinator *Coordinator
}

func NewHandler(repo Repository, coordinator *Coordinator) *Handler {
	return &Handler{repo: repo, coordinator: coordinator}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/nozzles", func(r chi.Router) {
		r.Get("/", h.listNozzles)
		r.Get("/{id}", h.getNozzle)
		r.Post("/{id}/lock", h.lockNozzle)
		r.Post("/{id}/unlock", h.unlockNozzle)
	})
}

func (h *Handler) listNozzles(w http.ResponseWriter, r *http.Request) {
	nozzles, err := h.repo.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, nozzles)
}

func (h *Handler) getNozzle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid nozzle id", http.StatusBadRequest)
		return
	}
	n, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), status(err))
		return
	}
	respond(w, http.StatusOK, n)
}

func (h *Handler) lockNozzle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid nozzle id", http.StatusBadRequest)
		return
	}
	var req LockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	n, err := h.coordinator.AdminLock(r.Context(), id, req.Reason)
	if err != nil {
		http.Error(w, err.Error(), status(err))
		return
	}
	respond(w, http.StatusOK, n)
}

func (h *Handler) unlockNozzle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid nozzle id", http.StatusBadRequest)
		return
	}
	n, err := h.coordinator.AdminUnlock(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), status(err))
		return
	}
	respond(w, http.StatusOK, n)
}

func status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnavailable):
		return http.StatusConflict
	case err.Error() == "lock reason is required":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
