package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// Vote directions accepted on the wire. The store keeps presence only —
// there is no down-vote, and nothing beyond "row exists" persists.
const (
	VoteWithdraw = 0
	VoteCast     = 1
)

// VoteService casts and withdraws up-votes on behalf of the authenticated
// caller.
type VoteService struct {
	repo   repository.VoteRepository
	logger *slog.Logger
}

func NewVoteService(repo repository.VoteRepository, logger *slog.Logger) *VoteService {
	return &VoteService{
		repo:   repo,
		logger: logger,
	}
}

// Vote applies dir for the caller on the given post.
//
//	dir == 1: cast an up-vote. Duplicate → Conflict, missing post → NotFound.
//	dir == 0: withdraw. Never cast → NotFound.
//
// Any other dir is a validation error. Concurrent duplicate casts are
// resolved by the storage layer's uniqueness constraint: exactly one
// succeeds, the other observes the conflict.
func (s *VoteService) Vote(ctx context.Context, caller *model.User, postID string, dir int) error {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return apperror.ValidationFailed("post_id", "post ID is required")
	}

	vote := model.Vote{UserID: caller.ID, PostID: postID}

	switch dir {
	case VoteCast:
		if err := s.repo.Create(ctx, vote); err != nil {
			return err
		}
		s.logger.Info("vote cast",
			slog.String("userID", caller.ID),
			slog.String("postID", postID),
		)
		return nil

	case VoteWithdraw:
		if err := s.repo.Delete(ctx, vote); err != nil {
			return err
		}
		s.logger.Info("vote withdrawn",
			slog.String("userID", caller.ID),
			slog.String("postID", postID),
		)
		return nil

	default:
		return apperror.ValidationFailed("dir", "dir must be 0 or 1")
	}
}
