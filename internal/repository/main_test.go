package repository

import (
	"testing"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// newTestStore spins up an in-process store for repository tests.
func newTestStore(t *testing.T) (store.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return store.New(client), mr
}

func newTestRepos(t *testing.T) (PostRepository, CommentRepository, UserRepository, store.Store) {
	t.Helper()
	s, _ := newTestStore(t)
	index := NewIndexMaintainer(s)
	return NewPostRepository(s, index), NewCommentRepository(s, index), NewUserRepository(s), s
}

func testPost(id, authorID, category string, tags ...string) *models.Post {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.Post{
		ID:         id,
		Title:      "Title " + id,
		Content:    "Content " + id,
		Category:   category,
		Tags:       append([]string{}, tags...),
		AuthorID:   authorID,
		AuthorName: "Author " + authorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
