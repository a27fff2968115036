package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sakif/blog-api/internal/service"
)

// CommentHandler exposes the comment routes. None of them are
// authenticated — comments carry a free-text author and no ownership.
type CommentHandler struct {
	service *service.CommentService
	logger  *slog.Logger
}

func NewCommentHandler(svc *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{service: svc, logger: logger}
}

type commentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// HandleCreate creates a comment.
//
// HTTP: POST /comments/
// OK:   201 Comment
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.service.Create(r.Context(), req.Title, req.Content, req.Author)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

// HandleList returns comments with skip/limit pagination.
//
// HTTP: GET /comments/?skip=&limit=
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	skip := queryInt(r, "skip", 0)

	comments, err := h.service.List(r.Context(), limit, skip)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

// HandleGetByID returns one comment.
//
// HTTP: GET /comments/{id}
func (h *CommentHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	comment, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

// HandleUpdate fully replaces a comment's fields.
//
// HTTP: PUT /comments/{id}
func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.service.Update(r.Context(), id, req.Title, req.Content, req.Author)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

// HandleDelete removes a comment.
//
// HTTP: DELETE /comments/{id}
// OK:   200 {"message": "..."} — unlike posts, comment deletion answers
// with a body, as the original API did.
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}
