package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sakif/blog-api/internal/model"
)

// newTestDB opens a fresh database in a per-test temp directory. The file
// (and its WAL sidecars) is cleaned up with the directory; Close runs via
// t.Cleanup so a failing test can't leak the pool.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// createTestUser registers a user and fails the test on error.
func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$04$fakehashfortestingonly",
	}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user %s: %v", email, err)
	}
	return user
}

// createTestPost creates a post owned by ownerID and fails the test on
// error.
func createTestPost(t *testing.T, db *DB, ownerID, title string) *model.Post {
	t.Helper()

	post := &model.Post{
		Title:     title,
		Content:   "content of " + title,
		Published: true,
		OwnerID:   ownerID,
	}
	if err := db.Posts().Create(context.Background(), post); err != nil {
		t.Fatalf("creating test post %q: %v", title, err)
	}
	return post
}

// castVote inserts a vote and fails the test on error.
func castVote(t *testing.T, db *DB, userID, postID string) {
	t.Helper()

	if err := db.Votes().Create(context.Background(), model.Vote{UserID: userID, PostID: postID}); err != nil {
		t.Fatalf("casting vote (%s, %s): %v", userID, postID, err)
	}
}
