package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/auth"
	"github.com/sakif/blog-api/internal/service"
)

// PostHandler exposes the post routes. Handlers on protected routes read
// the caller that the access guard placed in the request context; the
// guard has already answered 401 for anything that gets here without one.
type PostHandler struct {
	service *service.PostService
	logger  *slog.Logger
}

func NewPostHandler(svc *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{service: svc, logger: logger}
}

// postRequest is the create/update body. Published defaults to true when
// omitted, matching the column default.
type postRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published *bool  `json:"published"`
}

func (pr postRequest) published() bool {
	if pr.Published == nil {
		return true
	}
	return *pr.Published
}

// HandleList returns posts matching the search term, each with its live
// vote count.
//
// HTTP: GET /posts/?search=&limit=&skip=
// Auth: none
// OK:   200 [{"post": {...}, "votes": 0}, ...]
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	limit := queryInt(r, "limit", 0)
	skip := queryInt(r, "skip", 0)

	posts, err := h.service.List(r.Context(), search, limit, skip)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleListByCaller returns every post owned by the authenticated caller,
// unpaginated.
//
// HTTP: GET /posts/user/
// Auth: required
func (h *PostHandler) HandleListByCaller(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	posts, err := h.service.ListByOwner(r.Context(), caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// HandleCreate creates a post owned by the caller.
//
// HTTP: POST /posts/
// Auth: required
// OK:   201 Post
//
// Any owner the client puts in the body is ignored — the request struct
// has no owner field to decode into, and the service takes the owner from
// the guard's caller.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.service.Create(r.Context(), caller, req.Title, req.Content, req.published())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// HandleGetByID returns one post with its vote count.
//
// HTTP: GET /posts/{id}
// Auth: required — but the identity is unused for the read; any valid
// token sees any post (reads are not owner-gated).
// OK:   200 {"post": {...}, "votes": n}
func (h *PostHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleLatest returns the single newest post.
//
// HTTP: GET /posts/latest/
// Auth: none
// OK:   200 Post; 404 when no posts exist
func (h *PostHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Latest(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleUpdate fully replaces title/content/published.
//
// HTTP: PUT /posts/{id}
// Auth: required; 403 unless the caller owns the post (when enforcement
// is enabled)
// OK:   200 updated Post
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	id := chi.URLParam(r, "id")

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.service.Update(r.Context(), caller, id, req.Title, req.Content, req.published())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// HandleDelete removes a post.
//
// HTTP: DELETE /posts/{id}
// Auth: required; same ownership rule as update
// OK:   204, no body
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
