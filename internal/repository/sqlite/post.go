package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// PostDB implements repository.PostRepository over the shared pool.
type PostDB struct {
	conn *sql.DB
}

// Compile-time check that *PostDB implements repository.PostRepository.
var _ repository.PostRepository = (*PostDB)(nil)

// postColumns is the SELECT list shared by every post query that joins the
// owner. Keeping it in one place keeps the Scan call sites in step with
// the column order.
const postColumns = `
	p.id, p.title, p.content, p.published, p.created_at, p.owner_id,
	u.id, u.email, u.created_at`

func scanPost(row interface{ Scan(...any) error }) (*model.Post, error) {
	var (
		p     model.Post
		owner model.User
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.Published, &p.CreatedAt, &p.OwnerID,
		&owner.ID, &owner.Email, &owner.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Owner = &owner
	return &p, nil
}

// Create inserts a new post. ID and CreatedAt are assigned here; OwnerID
// must already be set (the service forces it to the authenticated caller).
// The owner's public fields are loaded back so the response can embed them.
func (db *PostDB) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, title, content, published, created_at, owner_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.Title,
		post.Content,
		post.Published,
		post.CreatedAt,
		post.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting post: %w", err)
	}

	owner, err := (&UserDB{conn: db.conn}).GetByID(ctx, post.OwnerID)
	if err != nil {
		return fmt.Errorf("sqlite: loading owner of post %s: %w", post.ID, err)
	}
	post.Owner = owner

	return nil
}

// GetByID returns one post and its live vote count.
//
// The LEFT JOIN keeps the post in the result when it has no votes —
// COUNT(v.user_id) counts only joined vote rows, so a vote-less post scans
// as 0 rather than disappearing from the join.
func (db *PostDB) GetByID(ctx context.Context, id string) (*model.PostWithVotes, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+postColumns+`, COUNT(v.user_id) AS votes
		 FROM posts p
		 JOIN users u ON u.id = p.owner_id
		 LEFT JOIN votes v ON v.post_id = p.id
		 WHERE p.id = ?
		 GROUP BY p.id`,
		id,
	)

	var (
		p     model.Post
		owner model.User
		votes int
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.Published, &p.CreatedAt, &p.OwnerID,
		&owner.ID, &owner.Email, &owner.CreatedAt,
		&votes,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}
	p.Owner = &owner

	return &model.PostWithVotes{Post: p, Votes: votes}, nil
}

// List returns posts whose title contains opts.Search, windowed by
// limit/offset, each with its live vote count.
//
// Matching uses instr rather than LIKE: SQLite's LIKE is case-insensitive
// for ASCII, and the search contract here is a case-sensitive substring
// match. An empty search matches everything.
//
// Ordering is by post id — xid strings sort by creation time, so this is
// the table's insertion order and pagination stays deterministic.
func (db *PostDB) List(ctx context.Context, opts repository.ListOptions) ([]model.PostWithVotes, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+postColumns+`, COUNT(v.user_id) AS votes
		 FROM posts p
		 JOIN users u ON u.id = p.owner_id
		 LEFT JOIN votes v ON v.post_id = p.id
		 WHERE (? = '' OR instr(p.title, ?) > 0)
		 GROUP BY p.id
		 ORDER BY p.id
		 LIMIT ? OFFSET ?`,
		opts.Search, opts.Search,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	results := make([]model.PostWithVotes, 0, limit)
	for rows.Next() {
		var (
			p     model.Post
			owner model.User
			votes int
		)
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Content, &p.Published, &p.CreatedAt, &p.OwnerID,
			&owner.ID, &owner.Email, &owner.CreatedAt,
			&votes,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		p.Owner = &owner
		results = append(results, model.PostWithVotes{Post: p, Votes: votes})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return results, nil
}

// ListByOwner returns every post owned by ownerID, unfiltered and
// unpaginated, in creation order.
func (db *PostDB) ListByOwner(ctx context.Context, ownerID string) ([]model.Post, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts p
		 JOIN users u ON u.id = p.owner_id
		 WHERE p.owner_id = ?
		 ORDER BY p.id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// Latest returns the single newest post by created_at (id breaks ties,
// which matters for posts created within the same timestamp granularity).
// Returns apperror.ErrNotFound when the table is empty.
func (db *PostDB) Latest(ctx context.Context) (*model.Post, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+postColumns+`
		 FROM posts p
		 JOIN users u ON u.id = p.owner_id
		 ORDER BY p.created_at DESC, p.id DESC
		 LIMIT 1`,
	)

	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", "latest")
		}
		return nil, fmt.Errorf("sqlite: getting latest post: %w", err)
	}

	return post, nil
}

// Update performs a full-field overwrite of title, content and published.
// id, created_at and owner_id are immutable. RowsAffected detects the
// missing row in the same statement — no SELECT-then-UPDATE window.
func (db *PostDB) Update(ctx context.Context, post *model.Post) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE posts
		 SET title = ?, content = ?, published = ?
		 WHERE id = ?`,
		post.Title,
		post.Content,
		post.Published,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", post.ID)
	}

	return nil
}

// Delete removes a post; the votes on it are removed by the cascade in the
// same statement.
func (db *PostDB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM posts WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}
