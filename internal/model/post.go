package model

import "time"

// Post is a blog post. OwnerID always references an existing user — the
// schema enforces it with a cascading foreign key, so deleting a user
// removes their posts (and those posts' votes) in the same statement.
//
// Owner carries the owner's public fields on reads. It is populated by the
// repository via a join; the password hash never travels with it because
// User tags it `json:"-"`.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	OwnerID   string    `json:"owner_id"`
	Owner     *User     `json:"owner,omitempty"`
}

// PostWithVotes pairs a post with its live vote count for list/get
// responses. The count is computed per request with a LEFT JOIN + GROUP BY
// over the votes table — never cached — so a post with no votes still
// appears with Votes == 0.
type PostWithVotes struct {
	Post  Post `json:"post"`
	Votes int  `json:"votes"`
}
