package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mesh-intelligence/floaty/pkg/types"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler creates a new Handler. A nil logger uses slog.Default().
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// noteView is a note with its 1-based number.
type noteView struct {
	Index int `json:"index"`
	types.Note
}

func view(pos int, n types.Note) noteView {
	return noteView{Index: pos + 1, Note: n}
}

type noteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps store errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidIndex), errors.Is(err, types.ErrSettingsInvalid):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, types.ErrStaleIndex):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Server errors are logged and
// reported without detail.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		writeJSON(w, status, errorBody("internal error"))
		return
	}
	writeJSON(w, status, errorBody(err.Error()))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// ListNotes handles GET /api/notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListNotes()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	items := make([]noteView, len(notes))
	for i, n := range notes {
		items[i] = view(i, n)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notes": items,
		"total": len(items),
	})
}

// CreateNote handles POST /api/notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var title, content string
	if req.Title != nil {
		title = *req.Title
	}
	if req.Content != nil {
		content = *req.Content
	}
	if title == "" && content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("title or content is required"))
		return
	}
	n, pos, err := h.svc.CreateNote(title, content)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view(pos, n))
}

// UpdateNote handles PUT /api/notes/{index}. Omitted fields keep their
// value; setting both to "" deletes the note and returns 204.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	idx, err := types.ParseIndex(chi.URLParam(r, "index"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == nil && req.Content == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("title or content is required"))
		return
	}
	n, pos, deleted, err := h.svc.UpdateNote(idx, req.Title, req.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if deleted {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, view(pos, n))
}

// DeleteNote handles DELETE /api/notes/{index}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	idx, err := types.ParseIndex(chi.URLParam(r, "index"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.DeleteNote(idx); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Settings())
}

// PutSettings handles PUT /api/settings. Fields missing from the body keep
// their current value.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	doc := h.svc.Settings()
	if !decodeBody(w, r, &doc) {
		return
	}
	if err := h.svc.SaveSettings(doc); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
