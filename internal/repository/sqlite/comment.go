package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"
	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// CommentDB implements repository.CommentRepository over the shared pool.
// Comments have no foreign keys and no server timestamps — id is the only
// server-assigned field.
type CommentDB struct {
	conn *sql.DB
}

// Compile-time check that *CommentDB implements repository.CommentRepository.
var _ repository.CommentRepository = (*CommentDB)(nil)

// Create inserts a new comment and assigns its ID.
func (db *CommentDB) Create(ctx context.Context, comment *model.Comment) error {
	comment.ID = xid.New().String()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (id, title, content, author)
		 VALUES (?, ?, ?, ?)`,
		comment.ID,
		comment.Title,
		comment.Content,
		comment.Author,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting comment: %w", err)
	}

	return nil
}

// GetByID retrieves a single comment.
// Returns apperror.ErrNotFound if no comment exists with that ID.
func (db *CommentDB) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, content, author FROM comments WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.Title, &c.Content, &c.Author)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, fmt.Errorf("sqlite: getting comment %s: %w", id, err)
	}

	return &c, nil
}

// List retrieves comments with skip/limit pagination in insertion order.
func (db *CommentDB) List(ctx context.Context, opts repository.ListOptions) ([]model.Comment, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 100 {
		limit = 100
	}

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, content, author
		 FROM comments
		 ORDER BY id
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments: %w", err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0, limit)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Title, &c.Content, &c.Author); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return comments, nil
}

// Update overwrites title, content and author. RowsAffected detects the
// missing row.
func (db *CommentDB) Update(ctx context.Context, comment *model.Comment) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE comments
		 SET title = ?, content = ?, author = ?
		 WHERE id = ?`,
		comment.Title,
		comment.Content,
		comment.Author,
		comment.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating comment %s: %w", comment.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("comment", comment.ID)
	}

	return nil
}

// Delete removes a comment by its ID.
func (db *CommentDB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM comments WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comment %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("comment", id)
	}

	return nil
}
