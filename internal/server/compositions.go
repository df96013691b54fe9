package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracklab/internal/models"
	"github.com/desertthunder/tracklab/internal/shared"
)

// maxBodyBytes bounds a save request; tracks are otherwise unbounded opaque text.
const maxBodyBytes = 32 << 20

// SaveResponse is the body of a successful save.
type SaveResponse struct {
	ID models.Address `json:"id"`
}

// DeleteResponse is the body of a delete; Deleted is false when no row had the address.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CompositionHandler maps the composition API onto a [models.Store].
type CompositionHandler struct {
	store      models.Store
	codeLength int
	logger     *log.Logger
}

// NewCompositionHandler creates a handler for store.
//
// codeLength pre-filters code addresses by length; 0 accepts any length.
func NewCompositionHandler(store models.Store, codeLength int, logger *log.Logger) *CompositionHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CompositionHandler{store: store, codeLength: codeLength, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *CompositionHandler) Routes() []string {
	return []string{
		"GET /api/compositions",
		"POST /api/compositions",
		"GET /api/compositions/{id}",
		"DELETE /api/compositions/{id}",
	}
}

// ServeHTTP dispatches on method and the presence of an id path segment.
func (h *CompositionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch {
	case r.Method == http.MethodPost && id == "":
		h.save(w, r)
	case (r.Method == http.MethodGet || r.Method == http.MethodHead) && id == "":
		h.list(w, r)
	case r.Method == http.MethodGet || r.Method == http.MethodHead:
		h.get(w, r, id)
	case r.Method == http.MethodDelete && id != "":
		h.delete(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
	}
}

func (h *CompositionHandler) save(w http.ResponseWriter, r *http.Request) {
	var draft models.Draft
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}

	if h.store.Strategy().Kind() == models.KindCode && draft.ID != "" && !h.codeFits(draft.ID) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: id must be %d characters", shared.ErrInvalidAddress, h.codeLength))
		return
	}

	addr, err := h.store.Save(r.Context(), draft)
	if err != nil {
		h.fail(w, r, "save", err)
		return
	}

	status := http.StatusOK
	if h.store.Strategy().Kind() == models.KindSequential {
		status = http.StatusCreated
	}
	writeJSON(w, status, SaveResponse{ID: addr})
}

func (h *CompositionHandler) list(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, r, "list", err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *CompositionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	if !h.addressable(id) {
		writeError(w, http.StatusNotFound, shared.ErrNotFound)
		return
	}

	comp, found, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get", err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, shared.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, comp)
}

func (h *CompositionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if !h.addressable(id) {
		writeJSON(w, http.StatusOK, DeleteResponse{Deleted: false})
		return
	}

	deleted, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, "delete", err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{Deleted: deleted})
}

// addressable applies the code length filter to point operations.
func (h *CompositionHandler) addressable(id string) bool {
	return h.store.Strategy().Kind() != models.KindCode || h.codeFits(id)
}

func (h *CompositionHandler) codeFits(id string) bool {
	return h.codeLength <= 0 || len([]rune(strings.TrimSpace(id))) == h.codeLength
}

// fail logs server-side faults and writes the mapped status.
func (h *CompositionHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("composition operation failed", "op", op, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err)
}

// StatusFor maps store errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrMissingFields),
		errors.Is(err, shared.ErrMissingIdentity),
		errors.Is(err, shared.ErrInvalidAddress),
		errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrUnsupported):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError hides the details of server-side faults from clients.
func writeError(w http.ResponseWriter, status int, err error) {
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = shared.ErrStoreUnavailable.Error()
	}
	writeJSON(w, status, ErrorResponse{Error: msg})
}
