package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

const (
	MaxPostTitleLength   = 100
	MaxPostContentLength = 100000
	DefaultPostListLimit = 10
	MaxPostListLimit     = 100
)

// PostService handles business logic for posts.
//
// enforceOwnership guards Update and Delete: when true (the default), a
// caller who is not the post's owner gets Forbidden. The system this one
// replaces authenticated the caller but never compared them to owner_id;
// setting ENFORCE_POST_OWNERSHIP=false restores that behavior.
type PostService struct {
	repo             repository.PostRepository
	enforceOwnership bool
	logger           *slog.Logger
}

func NewPostService(repo repository.PostRepository, enforceOwnership bool, logger *slog.Logger) *PostService {
	return &PostService{
		repo:             repo,
		enforceOwnership: enforceOwnership,
		logger:           logger,
	}
}

// List returns posts matching the search term with live vote counts.
// Limit is clamped to 1–100 (default 10); a negative offset becomes 0.
// The search term is matched case-sensitively against titles, untrimmed —
// a trailing space in the query is part of the query.
func (s *PostService) List(ctx context.Context, search string, limit, offset int) ([]model.PostWithVotes, error) {
	if limit <= 0 {
		limit = DefaultPostListLimit
	}
	if limit > MaxPostListLimit {
		limit = MaxPostListLimit
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := s.repo.List(ctx, repository.ListOptions{
		Search: search,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	return posts, nil
}

// GetByID returns one post with its vote count.
// Returns apperror.ErrNotFound if the post doesn't exist.
func (s *PostService) GetByID(ctx context.Context, id string) (*model.PostWithVotes, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}

	return s.repo.GetByID(ctx, id)
}

// Latest returns the newest post, or apperror.ErrNotFound when no posts
// exist.
func (s *PostService) Latest(ctx context.Context) (*model.Post, error) {
	return s.repo.Latest(ctx)
}

// ListByOwner returns every post owned by the given user, unpaginated.
// The caller identity comes from the access guard, so ownerID is always a
// real user here.
func (s *PostService) ListByOwner(ctx context.Context, ownerID string) ([]model.Post, error) {
	posts, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list posts by owner",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing posts by owner: %w", err)
	}

	return posts, nil
}

// Create validates and saves a new post owned by the caller.
//
// OwnerID is taken from the authenticated caller and only from there — a
// client-supplied owner value never reaches this method, and couldn't
// override the caller if it did.
func (s *PostService) Create(ctx context.Context, caller *model.User, title, content string, published bool) (*model.Post, error) {
	title = strings.TrimSpace(title)

	if title == "" {
		return nil, apperror.ValidationFailed("title", "post title is required")
	}
	if len(title) > MaxPostTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("post title must be %d characters or less", MaxPostTitleLength))
	}
	if content == "" {
		return nil, apperror.ValidationFailed("content", "post content is required")
	}
	if len(content) > MaxPostContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("post content must be %d characters or less", MaxPostContentLength))
	}

	post := &model.Post{
		Title:     title,
		Content:   content,
		Published: published,
		OwnerID:   caller.ID,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.logger.Error("failed to create post",
			slog.String("ownerID", caller.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("ownerID", post.OwnerID),
	)

	return post, nil
}

// Update applies a full replacement of title, content and published.
//
// The post is fetched first: a missing post is NotFound regardless of who
// asks, and the stored owner_id is what the ownership check compares
// against. Forbidden beats validation — a non-owner learns nothing about
// what input would have been accepted.
func (s *PostService) Update(ctx context.Context, caller *model.User, id, title, content string, published bool) (*model.Post, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.enforceOwnership && existing.Post.OwnerID != caller.ID {
		return nil, apperror.Forbidden("you do not own this post")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "post title is required")
	}
	if len(title) > MaxPostTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("post title must be %d characters or less", MaxPostTitleLength))
	}
	if content == "" {
		return nil, apperror.ValidationFailed("content", "post content is required")
	}
	if len(content) > MaxPostContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("post content must be %d characters or less", MaxPostContentLength))
	}

	post := existing.Post
	post.Title = title
	post.Content = content
	post.Published = published

	if err := s.repo.Update(ctx, &post); err != nil {
		s.logger.Error("failed to update post",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating post: %w", err)
	}

	s.logger.Info("post updated",
		slog.String("id", post.ID),
		slog.String("callerID", caller.ID),
	)

	// Re-read so the response carries the stored row.
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &stored.Post, nil
}

// Delete removes a post (and, via cascade, its votes). Same ownership rule
// as Update.
func (s *PostService) Delete(ctx context.Context, caller *model.User, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "post ID is required")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if s.enforceOwnership && existing.Post.OwnerID != caller.ID {
		return apperror.Forbidden("you do not own this post")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("post deleted",
		slog.String("id", id),
		slog.String("callerID", caller.ID),
	)
	return nil
}
