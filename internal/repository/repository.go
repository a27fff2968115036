// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage is the only implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/blog-api/internal/model"
)

// ListOptions windows a listing query. Search is a case-sensitive
// substring match on the post title; it is ignored by repositories that
// don't search.
type ListOptions struct {
	Search string
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	// UpsertByGitHubID creates the user on first OAuth login and refreshes
	// the email on subsequent logins, keyed by the stable GitHub ID.
	UpsertByGitHubID(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// GetByID returns the post together with its live vote count.
	GetByID(ctx context.Context, id string) (*model.PostWithVotes, error)
	// List returns posts matching opts, each with its live vote count;
	// posts with zero votes are included with a count of 0.
	List(ctx context.Context, opts ListOptions) ([]model.PostWithVotes, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Post, error)
	Latest(ctx context.Context) (*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	List(ctx context.Context, opts ListOptions) ([]model.Comment, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id string) error
}

type VoteRepository interface {
	// Create inserts the (user, post) vote row. A duplicate pair is a
	// conflict, never a silent no-op.
	Create(ctx context.Context, vote model.Vote) error
	// Delete removes the vote row; an absent row is NotFound.
	Delete(ctx context.Context, vote model.Vote) error
	CountForPost(ctx context.Context, postID string) (int, error)
}
