package model

// Vote marks that a user has up-voted a post. Its identity is the
// (UserID, PostID) pair — the table's composite primary key allows at most
// one row per pair, and both columns cascade-delete with their parents.
//
// Presence of the row IS the vote; there is no stored direction. The
// request-level "dir" field only selects between casting (1) and
// withdrawing (0).
type Vote struct {
	UserID string `json:"user_id"`
	PostID string `json:"post_id"`
}
