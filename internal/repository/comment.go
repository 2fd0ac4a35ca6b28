package repository

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/store"

	"golang.org/x/sync/errgroup"
)

// CommentRepository defines interface for comment operations. Comments are
// append-only: no update or delete.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
}

type commentRepository struct {
	store store.Store
	index *IndexMaintainer
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(s store.Store, index *IndexMaintainer) CommentRepository {
	return &commentRepository{store: s, index: index}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.store.HSet(ctx, store.CommentKey(comment.ID), encodeComment(comment)); err != nil {
		return err
	}
	return r.index.IndexComment(ctx, comment)
}

// ListByPost returns the post's comments in insertion order. Records are
// fetched concurrently; the comment list preserves ordering.
func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	ids, err := r.store.LRange(ctx, store.PostCommentsKey(postID), 0, -1)
	if err != nil {
		return nil, err
	}

	loaded := make([]*models.Comment, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, id := range ids {
		g.Go(func() error {
			fields, err := r.store.HGetAll(gctx, store.CommentKey(id))
			if err != nil {
				return err
			}
			if len(fields) == 0 {
				return nil
			}
			comment, err := decodeComment(fields)
			if err != nil {
				return err
			}
			loaded[i] = comment
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	comments := make([]*models.Comment, 0, len(loaded))
	for _, comment := range loaded {
		if comment != nil {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

func encodeComment(c *models.Comment) map[string]interface{} {
	return map[string]interface{}{
		"id":         c.ID,
		"postId":     c.PostID,
		"content":    c.Content,
		"authorId":   c.AuthorID,
		"authorName": c.AuthorName,
		"createdAt":  c.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func decodeComment(fields map[string]string) (*models.Comment, error) {
	comment := &models.Comment{
		ID:         fields["id"],
		PostID:     fields["postId"],
		Content:    fields["content"],
		AuthorID:   fields["authorId"],
		AuthorName: fields["authorName"],
	}
	var err error
	if comment.CreatedAt, err = time.Parse(time.RFC3339Nano, fields["createdAt"]); err != nil {
		return nil, fmt.Errorf("corrupt createdAt field on comment %s: %w", comment.ID, err)
	}
	return comment, nil
}
