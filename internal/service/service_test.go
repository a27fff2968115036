package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/model"
	"github.com/sakif/blog-api/internal/repository"
)

// Shared in-memory mocks for the repository interfaces. Each mock mirrors
// the real implementation's error contract (NotFound / Conflict) so the
// services under test see the same behavior either way.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	_ repository.UserRepository    = (*mockUserRepo)(nil)
	_ repository.PostRepository    = (*mockPostRepo)(nil)
	_ repository.CommentRepository = (*mockCommentRepo)(nil)
	_ repository.VoteRepository    = (*mockVoteRepo)(nil)
)

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*model.User{}}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", "email "+user.Email+" is already registered")
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	users := []model.User{}
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *mockUserRepo) UpsertByGitHubID(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.GitHubID == user.GitHubID {
			u.Email = user.Email
			*user = *u
			return nil
		}
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", "email "+user.Email+" is already registered")
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(m.users, id)
	return nil
}

type mockPostRepo struct {
	posts  map[string]*model.Post
	votes  map[string]int
	order  []string
	nextID int

	// lastListOpts records what the service actually asked for, so tests
	// can assert on limit clamping.
	lastListOpts repository.ListOptions
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{
		posts: map[string]*model.Post{},
		votes: map[string]int{},
	}
}

func (m *mockPostRepo) Create(_ context.Context, post *model.Post) error {
	m.nextID++
	post.ID = fmt.Sprintf("post-%d", m.nextID)
	m.posts[post.ID] = post
	m.order = append(m.order, post.ID)
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (*model.PostWithVotes, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	return &model.PostWithVotes{Post: *p, Votes: m.votes[id]}, nil
}

func (m *mockPostRepo) List(_ context.Context, opts repository.ListOptions) ([]model.PostWithVotes, error) {
	m.lastListOpts = opts
	results := []model.PostWithVotes{}
	for _, id := range m.order {
		p, ok := m.posts[id]
		if !ok {
			continue
		}
		results = append(results, model.PostWithVotes{Post: *p, Votes: m.votes[id]})
	}
	return results, nil
}

func (m *mockPostRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Post, error) {
	posts := []model.Post{}
	for _, id := range m.order {
		p, ok := m.posts[id]
		if ok && p.OwnerID == ownerID {
			posts = append(posts, *p)
		}
	}
	return posts, nil
}

func (m *mockPostRepo) Latest(_ context.Context) (*model.Post, error) {
	if len(m.order) == 0 {
		return nil, apperror.NotFound("post", "latest")
	}
	for i := len(m.order) - 1; i >= 0; i-- {
		if p, ok := m.posts[m.order[i]]; ok {
			return p, nil
		}
	}
	return nil, apperror.NotFound("post", "latest")
}

func (m *mockPostRepo) Update(_ context.Context, post *model.Post) error {
	if _, ok := m.posts[post.ID]; !ok {
		return apperror.NotFound("post", post.ID)
	}
	m.posts[post.ID] = post
	return nil
}

func (m *mockPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.posts[id]; !ok {
		return apperror.NotFound("post", id)
	}
	delete(m.posts, id)
	delete(m.votes, id)
	return nil
}

type mockCommentRepo struct {
	comments map[string]*model.Comment
	order    []string
	nextID   int
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{comments: map[string]*model.Comment{}}
}

func (m *mockCommentRepo) Create(_ context.Context, comment *model.Comment) error {
	m.nextID++
	comment.ID = fmt.Sprintf("comment-%d", m.nextID)
	m.comments[comment.ID] = comment
	m.order = append(m.order, comment.ID)
	return nil
}

func (m *mockCommentRepo) GetByID(_ context.Context, id string) (*model.Comment, error) {
	c, ok := m.comments[id]
	if !ok {
		return nil, apperror.NotFound("comment", id)
	}
	return c, nil
}

func (m *mockCommentRepo) List(_ context.Context, opts repository.ListOptions) ([]model.Comment, error) {
	comments := []model.Comment{}
	for _, id := range m.order {
		if c, ok := m.comments[id]; ok {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (m *mockCommentRepo) Update(_ context.Context, comment *model.Comment) error {
	if _, ok := m.comments[comment.ID]; !ok {
		return apperror.NotFound("comment", comment.ID)
	}
	m.comments[comment.ID] = comment
	return nil
}

func (m *mockCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.comments[id]; !ok {
		return apperror.NotFound("comment", id)
	}
	delete(m.comments, id)
	return nil
}

type votePair struct{ userID, postID string }

type mockVoteRepo struct {
	votes map[votePair]bool
}

func newMockVoteRepo() *mockVoteRepo {
	return &mockVoteRepo{votes: map[votePair]bool{}}
}

func (m *mockVoteRepo) Create(_ context.Context, vote model.Vote) error {
	pair := votePair{vote.UserID, vote.PostID}
	if m.votes[pair] {
		return apperror.Conflict("vote", "already voted")
	}
	m.votes[pair] = true
	return nil
}

func (m *mockVoteRepo) Delete(_ context.Context, vote model.Vote) error {
	pair := votePair{vote.UserID, vote.PostID}
	if !m.votes[pair] {
		return apperror.NotFound("vote", vote.PostID)
	}
	delete(m.votes, pair)
	return nil
}

func (m *mockVoteRepo) CountForPost(_ context.Context, postID string) (int, error) {
	count := 0
	for pair := range m.votes {
		if pair.postID == postID {
			count++
		}
	}
	return count, nil
}
