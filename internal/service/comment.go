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
	MaxCommentTitleLength   = 100
	MaxCommentAuthorLength  = 100
	MaxCommentContentLength = 10000
	DefaultCommentListLimit = 100
)

// CommentService handles comment CRUD. Comments are deliberately
// unauthenticated and have no ownership: the author is whatever free text
// the client sends.
type CommentService struct {
	repo   repository.CommentRepository
	logger *slog.Logger
}

func NewCommentService(repo repository.CommentRepository, logger *slog.Logger) *CommentService {
	return &CommentService{
		repo:   repo,
		logger: logger,
	}
}

func validateComment(title, content, author string) error {
	if title == "" {
		return apperror.ValidationFailed("title", "comment title is required")
	}
	if len(title) > MaxCommentTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("comment title must be %d characters or less", MaxCommentTitleLength))
	}
	if content == "" {
		return apperror.ValidationFailed("content", "comment content is required")
	}
	if len(content) > MaxCommentContentLength {
		return apperror.ValidationFailed("content",
			fmt.Sprintf("comment content must be %d characters or less", MaxCommentContentLength))
	}
	if author == "" {
		return apperror.ValidationFailed("author", "comment author is required")
	}
	if len(author) > MaxCommentAuthorLength {
		return apperror.ValidationFailed("author",
			fmt.Sprintf("comment author must be %d characters or less", MaxCommentAuthorLength))
	}
	return nil
}

// Create validates and saves a new comment. All fields are required; id is
// the only server-assigned field.
func (s *CommentService) Create(ctx context.Context, title, content, author string) (*model.Comment, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)

	if err := validateComment(title, content, author); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		Title:   title,
		Content: content,
		Author:  author,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		s.logger.Error("failed to create comment", slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment created", slog.String("id", comment.ID))

	return comment, nil
}

// GetByID returns one comment; apperror.ErrNotFound if absent.
func (s *CommentService) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "comment ID is required")
	}

	return s.repo.GetByID(ctx, id)
}

// List retrieves comments with skip/limit pagination.
func (s *CommentService) List(ctx context.Context, limit, offset int) ([]model.Comment, error) {
	if limit <= 0 {
		limit = DefaultCommentListLimit
	}
	if offset < 0 {
		offset = 0
	}

	comments, err := s.repo.List(ctx, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list comments", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	return comments, nil
}

// Update applies a full replacement of all comment fields.
// Returns apperror.ErrNotFound if the comment doesn't exist.
func (s *CommentService) Update(ctx context.Context, id, title, content, author string) (*model.Comment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "comment ID is required")
	}

	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)

	if err := validateComment(title, content, author); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:      id,
		Title:   title,
		Content: content,
		Author:  author,
	}

	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment updated", slog.String("id", id))

	return comment, nil
}

// Delete removes a comment; apperror.ErrNotFound if absent.
func (s *CommentService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "comment ID is required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("comment deleted", slog.String("id", id))
	return nil
}
