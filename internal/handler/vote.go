package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/auth"
	"github.com/sakif/blog-api/internal/service"
)

// VoteHandler exposes the vote toggle.
type VoteHandler struct {
	service *service.VoteService
	logger  *slog.Logger
}

func NewVoteHandler(svc *service.VoteService, logger *slog.Logger) *VoteHandler {
	return &VoteHandler{service: svc, logger: logger}
}

// voteRequest uses a pointer for Dir so an omitted field is a validation
// error rather than an accidental withdraw (0 is a meaningful value).
type voteRequest struct {
	PostID string `json:"post_id"`
	Dir    *int   `json:"dir"`
}

// HandleVote casts (dir=1) or withdraws (dir=0) the caller's up-vote.
//
// HTTP: POST /vote/
// Auth: required
// OK:   201 on cast, 204 on withdraw
// Err:  400 bad dir, 404 missing post or vote, 409 duplicate vote
func (h *VoteHandler) HandleVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Dir == nil {
		writeError(w, apperror.ValidationFailed("dir", "dir is required"))
		return
	}

	if err := h.service.Vote(r.Context(), caller, req.PostID, *req.Dir); err != nil {
		writeError(w, err)
		return
	}

	if *req.Dir == service.VoteCast {
		writeJSON(w, http.StatusCreated, map[string]string{"message": "vote cast"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
