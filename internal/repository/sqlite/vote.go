package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// VoteDB implements repository.VoteRepository over the shared pool.
type VoteDB struct {
	conn *sql.DB
}

// Compile-time check that *VoteDB implements repository.VoteRepository.
var _ repository.VoteRepository = (*VoteDB)(nil)

// Create inserts the (user, post) vote row.
//
// The composite primary key does the heavy lifting: a duplicate pair —
// including the loser of two concurrent inserts — fails the UNIQUE
// constraint and surfaces as a Conflict, never a silent no-op. A vote
// against a nonexistent post fails the foreign key and surfaces as
// NotFound.
func (db *VoteDB) Create(ctx context.Context, vote model.Vote) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO votes (user_id, post_id) VALUES (?, ?)`,
		vote.UserID, vote.PostID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("vote", fmt.Sprintf("user %s has already voted on post %s", vote.UserID, vote.PostID))
		}
		if isForeignKeyViolation(err) {
			return apperror.NotFound("post", vote.PostID)
		}
		return fmt.Errorf("sqlite: inserting vote (%s, %s): %w", vote.UserID, vote.PostID, err)
	}

	return nil
}

// Delete removes the vote row. Withdrawing a vote that was never cast is
// NotFound — consistent with every other delete in the API.
func (db *VoteDB) Delete(ctx context.Context, vote model.Vote) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM votes WHERE user_id = ? AND post_id = ?`,
		vote.UserID, vote.PostID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting vote (%s, %s): %w", vote.UserID, vote.PostID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("vote", vote.PostID)
	}

	return nil
}

// CountForPost returns the live number of votes on a post. The listing
// queries compute the same figure in their aggregate join; this exists for
// callers that already hold a post.
func (db *VoteDB) CountForPost(ctx context.Context, postID string) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE post_id = ?`,
		postID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting votes for post %s: %w", postID, err)
	}

	return count, nil
}
