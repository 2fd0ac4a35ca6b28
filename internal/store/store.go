// Package store is the thin capability surface over the backing key-value
// store: field-map (hash), ordered-list and set primitives plus key deletion.
// Every call is an independent network round-trip; the store guarantees
// neither ordering nor atomicity across calls, and the client does not retry.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable wraps every transport-level failure from the backing
// store. Callers decide retry policy; this package never retries.
var ErrStoreUnavailable = errors.New("backing store unavailable")

// Store is the capability surface the repositories are written against.
type Store interface {
	// Field maps
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGet(ctx context.Context, key, field string) (string, error)
	HSet(ctx context.Context, key string, fields map[string]interface{}) error

	// Ordered lists
	RPush(ctx context.Context, key string, values ...string) error
	LRem(ctx context.Context, key, value string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LLen(ctx context.Context, key string) (int64, error)

	// Sets
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SIsMember(ctx context.Context, key, member string) (bool, error)
	SCard(ctx context.Context, key string) (int64, error)
	SMembers(ctx context.Context, key string) ([]string, error)

	// Key deletion
	Del(ctx context.Context, keys ...string) error
}

type redisStore struct {
	client *redis.Client
}

// Verify *redisStore satisfies Store at compile time.
var _ Store = (*redisStore)(nil)

// New wraps a connected Redis client in the Store interface.
func New(client *redis.Client) Store {
	return &redisStore{client: client}
}

// wrap normalizes transport errors into ErrStoreUnavailable. redis.Nil is
// not a transport error: a missing key reads as empty.
func wrap(err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func (s *redisStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m, err := s.client.HGetAll(ctx, key).Result()
	if err := wrap(err); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *redisStore) HGet(ctx context.Context, key, field string) (string, error) {
	v, err := s.client.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err := wrap(err); err != nil {
		return "", err
	}
	return v, nil
}

func (s *redisStore) HSet(ctx context.Context, key string, fields map[string]interface{}) error {
	return wrap(s.client.HSet(ctx, key, fields).Err())
}

func (s *redisStore) RPush(ctx context.Context, key string, values ...string) error {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return wrap(s.client.RPush(ctx, key, args...).Err())
}

func (s *redisStore) LRem(ctx context.Context, key, value string) error {
	return wrap(s.client.LRem(ctx, key, 0, value).Err())
}

func (s *redisStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	vals, err := s.client.LRange(ctx, key, start, stop).Result()
	if err := wrap(err); err != nil {
		return nil, err
	}
	return vals, nil
}

func (s *redisStore) LLen(ctx context.Context, key string) (int64, error) {
	n, err := s.client.LLen(ctx, key).Result()
	if err := wrap(err); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *redisStore) SAdd(ctx context.Context, key string, members ...string) error {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	return wrap(s.client.SAdd(ctx, key, args...).Err())
}

func (s *redisStore) SRem(ctx context.Context, key string, members ...string) error {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	return wrap(s.client.SRem(ctx, key, args...).Err())
}

func (s *redisStore) SIsMember(ctx context.Context, key, member string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, key, member).Result()
	if err := wrap(err); err != nil {
		return false, err
	}
	return ok, nil
}

func (s *redisStore) SCard(ctx context.Context, key string) (int64, error) {
	n, err := s.client.SCard(ctx, key).Result()
	if err := wrap(err); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *redisStore) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := s.client.SMembers(ctx, key).Result()
	if err := wrap(err); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *redisStore) Del(ctx context.Context, keys ...string) error {
	return wrap(s.client.Del(ctx, keys...).Err())
}
