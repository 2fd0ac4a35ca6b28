package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client), mr
}

func TestStore_HashRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	err := s.HSet(ctx, "post:p1", map[string]interface{}{
		"id":    "p1",
		"title": "hello",
	})
	require.NoError(t, err)

	fields, err := s.HGetAll(ctx, "post:p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", fields["id"])
	assert.Equal(t, "hello", fields["title"])

	title, err := s.HGet(ctx, "post:p1", "title")
	require.NoError(t, err)
	assert.Equal(t, "hello", title)
}

func TestStore_MissingKeysReadEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	fields, err := s.HGetAll(ctx, "post:absent")
	require.NoError(t, err)
	assert.Empty(t, fields)

	v, err := s.HGet(ctx, "post:absent", "id")
	require.NoError(t, err)
	assert.Empty(t, v)

	ids, err := s.LRange(ctx, "posts:absent", 0, -1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStore_ListPreservesInsertionOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RPush(ctx, "posts:all", "a"))
	require.NoError(t, s.RPush(ctx, "posts:all", "b", "c"))

	ids, err := s.LRange(ctx, "posts:all", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	n, err := s.LLen(ctx, "posts:all")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	require.NoError(t, s.LRem(ctx, "posts:all", "b"))
	ids, err = s.LRange(ctx, "posts:all", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids)
}

func TestStore_SetMembership(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SAdd(ctx, "post:p1:likes", "u1"))
	require.NoError(t, s.SAdd(ctx, "post:p1:likes", "u1")) // idempotent

	ok, err := s.SIsMember(ctx, "post:p1:likes", "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := s.SCard(ctx, "post:p1:likes")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, s.SRem(ctx, "post:p1:likes", "u1"))
	ok, err = s.SIsMember(ctx, "post:p1:likes", "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_TransportErrorsWrapStoreUnavailable(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	mr.Close()

	_, err := s.HGetAll(ctx, "post:p1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	err = s.SAdd(ctx, "post:p1:likes", "u1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = s.LRange(ctx, "posts:all", 0, -1)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
