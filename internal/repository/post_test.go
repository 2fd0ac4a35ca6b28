package repository

import (
	"context"
	"testing"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_CreateRegistersAllIndices(t *testing.T) {
	postRepo, _, _, s := newTestRepos(t)
	ctx := context.Background()

	post := testPost("p1", "u1", models.CategoryIdea, "ai", "go")
	require.NoError(t, postRepo.Create(ctx, post))

	ids, err := s.LRange(ctx, store.AllPostsKey, 0, -1)
	require.NoError(t, err)
	assert.Contains(t, ids, "p1")

	ids, err = s.LRange(ctx, store.UserPostsKey("u1"), 0, -1)
	require.NoError(t, err)
	assert.Contains(t, ids, "p1")

	ok, err := s.SIsMember(ctx, store.CategoryKey(models.CategoryIdea), "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	for _, tag := range []string{"ai", "go"} {
		ok, err := s.SIsMember(ctx, store.TagKey(tag), "p1")
		require.NoError(t, err)
		assert.True(t, ok, "missing tag index %q", tag)
	}
}

func TestPostRepository_RoundTrip(t *testing.T) {
	postRepo, _, _, _ := newTestRepos(t)
	ctx := context.Background()

	created := testPost("p1", "u1", models.CategoryShowcase, "a", "b")
	created.Title = "T"
	created.Content = "C"
	require.NoError(t, postRepo.Create(ctx, created))

	got, err := postRepo.GetByID(ctx, "p1", "")
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "C", got.Content)
	assert.ElementsMatch(t, []string{"a", "b"}, got.Tags)
	assert.Equal(t, "Author u1", got.AuthorName)
	assert.Zero(t, got.Likes)
	assert.Zero(t, got.Comments)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
}

func TestPostRepository_GetByIDNotFound(t *testing.T) {
	postRepo, _, _, _ := newTestRepos(t)

	_, err := postRepo.GetByID(context.Background(), "nope", "")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestPostRepository_SetLikeIdempotent(t *testing.T) {
	postRepo, _, _, _ := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, postRepo.Create(ctx, testPost("p1", "u1", models.CategoryGeneral)))

	count, err := postRepo.SetLike(ctx, "u2", "p1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Liking twice yields the same membership and count
	count, err = postRepo.SetLike(ctx, "u2", "p1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = postRepo.SetLike(ctx, "u2", "p1", false)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Unliking without a prior like is a no-op
	count, err = postRepo.SetLike(ctx, "u3", "p1", false)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPostRepository_SetLikeMissingPost(t *testing.T) {
	postRepo, _, _, _ := newTestRepos(t)

	_, err := postRepo.SetLike(context.Background(), "u1", "nope", true)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestPostRepository_DerivedCountsAndViewerFlags(t *testing.T) {
	postRepo, commentRepo, _, _ := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, postRepo.Create(ctx, testPost("p1", "u1", models.CategoryGeneral)))
	_, err := postRepo.SetLike(ctx, "u2", "p1", true)
	require.NoError(t, err)
	require.NoError(t, postRepo.SetBookmark(ctx, "u2", "p1", true))
	require.NoError(t, commentRepo.Create(ctx, &models.Comment{
		ID: "c1", PostID: "p1", Content: "hi", AuthorID: "u2", AuthorName: "U2",
		CreatedAt: time.Now().UTC(),
	}))

	got, err := postRepo.GetByID(ctx, "p1", "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)
	assert.Equal(t, 1, got.Comments)
	assert.True(t, got.IsLiked)
	assert.True(t, got.IsBookmarked)

	// Anonymous viewer gets counts but no flags
	got, err = postRepo.GetByID(ctx, "p1", "")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)
	assert.False(t, got.IsLiked)
	assert.False(t, got.IsBookmarked)
}

func TestPostRepository_DeleteRemovesEverything(t *testing.T) {
	postRepo, commentRepo, userRepo, s := newTestRepos(t)
	ctx := context.Background()

	// The bookmark cleanup scan walks users:all, so the bookmarking user
	// must exist as a real user record.
	require.NoError(t, userRepo.Create(ctx, &models.User{
		ID: "u2", Username: "u2", DisplayName: "U2", Role: models.RoleUser,
		CreatedAt: time.Now().UTC(),
	}))

	post := testPost("p1", "u1", models.CategoryShowcase, "react")
	require.NoError(t, postRepo.Create(ctx, post))
	_, err := postRepo.SetLike(ctx, "u2", "p1", true)
	require.NoError(t, err)
	require.NoError(t, postRepo.SetBookmark(ctx, "u2", "p1", true))
	require.NoError(t, commentRepo.Create(ctx, &models.Comment{
		ID: "c1", PostID: "p1", Content: "nice", AuthorID: "u2", AuthorName: "U2",
		CreatedAt: time.Now().UTC(),
	}))

	require.NoError(t, postRepo.Delete(ctx, post))

	_, err = postRepo.GetByID(ctx, "p1", "")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	ids, err := s.LRange(ctx, store.AllPostsKey, 0, -1)
	require.NoError(t, err)
	assert.NotContains(t, ids, "p1")

	ids, err = s.LRange(ctx, store.UserPostsKey("u1"), 0, -1)
	require.NoError(t, err)
	assert.NotContains(t, ids, "p1")

	ok, err := s.SIsMember(ctx, store.CategoryKey(models.CategoryShowcase), "p1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.SIsMember(ctx, store.TagKey("react"), "p1")
	require.NoError(t, err)
	assert.False(t, ok)

	likes, err := s.SCard(ctx, store.PostLikesKey("p1"))
	require.NoError(t, err)
	assert.Zero(t, likes)

	comments, err := s.LLen(ctx, store.PostCommentsKey("p1"))
	require.NoError(t, err)
	assert.Zero(t, comments)

	ok, err = s.SIsMember(ctx, store.UserBookmarksKey("u2"), "p1")
	require.NoError(t, err)
	assert.False(t, ok, "bookmark cleanup scan should clear the id")
}

func TestPostRepository_ListFiltersAreConjunctive(t *testing.T) {
	postRepo, _, _, _ := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, postRepo.Create(ctx, testPost("p1", "u1", models.CategoryIdea, "ai")))
	require.NoError(t, postRepo.Create(ctx, testPost("p2", "u1", models.CategoryIdea, "web3")))
	require.NoError(t, postRepo.Create(ctx, testPost("p3", "u1", models.CategoryShowcase, "ai")))

	posts, err := postRepo.List(ctx, ListOptions{
		Category: models.CategoryIdea,
		Tags:     []string{"ai"},
	})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "p1", posts[0].ID)
}

func TestPostRepository_ListTagFilterIsAnyOf(t *testing.T) {
	postRepo, _, _, _ := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, postRepo.Create(ctx, testPost("p1", "u1", models.CategoryGeneral, "go")))
	require.NoError(t, postRepo.Create(ctx, testPost("p2", "u1", models.CategoryGeneral, "rust")))
	require.NoError(t, postRepo.Create(ctx, testPost("p3", "u1", models.CategoryGeneral, "zig")))

	posts, err := postRepo.List(ctx, ListOptions{Tags: []string{"go", "rust"}})
	require.NoError(t, err)
	require.Len(t, posts, 2)
}

func TestPostRepository_ListSearchMatchesTitleAndContent(t *testing.T) {
	postRepo, _, _, _ := newTestRepos(t)
	ctx := context.Background()

	p1 := testPost("p1", "u1", models.CategoryGeneral)
	p1.Title = "Distributed Systems"
	p2 := testPost("p2", "u1", models.CategoryGeneral)
	p2.Content = "notes on distributed consensus"
	p3 := testPost("p3", "u1", models.CategoryGeneral)
	require.NoError(t, postRepo.Create(ctx, p1))
	require.NoError(t, postRepo.Create(ctx, p2))
	require.NoError(t, postRepo.Create(ctx, p3))

	posts, err := postRepo.List(ctx, ListOptions{Search: "DISTRIBUTED"})
	require.NoError(t, err)
	require.Len(t, posts, 2)
}

func TestPostRepository_ListSkipsDeletedRecords(t *testing.T) {
	postRepo, _, _, s := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, postRepo.Create(ctx, testPost("p1", "u1", models.CategoryGeneral)))
	require.NoError(t, postRepo.Create(ctx, testPost("p2", "u1", models.CategoryGeneral)))

	// Simulate a dangling index entry: record gone, id still listed.
	require.NoError(t, s.Del(ctx, store.PostKey("p1")))

	posts, err := postRepo.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "p2", posts[0].ID)
}

func TestPostRepository_ListBookmarkedOnly(t *testing.T) {
	postRepo, _, _, _ := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, postRepo.Create(ctx, testPost("p1", "u1", models.CategoryGeneral)))
	require.NoError(t, postRepo.Create(ctx, testPost("p2", "u1", models.CategoryGeneral)))
	require.NoError(t, postRepo.SetBookmark(ctx, "u2", "p1", true))

	posts, err := postRepo.List(ctx, ListOptions{BookmarkedOnly: true, ViewerID: "u2"})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "p1", posts[0].ID)
	assert.True(t, posts[0].IsBookmarked)

	// Anonymous callers have no bookmark set
	posts, err = postRepo.List(ctx, ListOptions{BookmarkedOnly: true})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostRepository_UpdateReindexesChangedFieldsOnly(t *testing.T) {
	postRepo, _, _, s := newTestRepos(t)
	ctx := context.Background()

	post := testPost("p1", "u1", models.CategoryIdea, "ai", "go")
	require.NoError(t, postRepo.Create(ctx, post))

	oldCategory := post.Category
	oldTags := post.Tags
	post.Category = models.CategoryShowcase
	post.Tags = []string{"go", "redis"}
	post.UpdatedAt = time.Now().UTC()
	require.NoError(t, postRepo.Update(ctx, post, oldCategory, oldTags))

	ok, err := s.SIsMember(ctx, store.CategoryKey(models.CategoryIdea), "p1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.SIsMember(ctx, store.CategoryKey(models.CategoryShowcase), "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SIsMember(ctx, store.TagKey("ai"), "p1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.SIsMember(ctx, store.TagKey("redis"), "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SIsMember(ctx, store.TagKey("go"), "p1")
	require.NoError(t, err)
	assert.True(t, ok)
}
