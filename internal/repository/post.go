package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/store"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentLoads bounds the fan-out when bulk-loading post records.
const maxConcurrentLoads = 8

// ListOptions configures filtering and sorting for listing posts.
type ListOptions struct {
	Search         string
	Category       string
	Tags           []string
	BookmarkedOnly bool
	ViewerID       string
	SortBy         string
	SortOrder      string
}

// Sort keys and orders accepted by List. Default is created_at descending.
const (
	SortByCreated  = "created_at"
	SortByLikes    = "likes"
	SortByComments = "comments"
	OrderAsc       = "asc"
	OrderDesc      = "desc"
)

// PostRepository defines interface for post operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id, viewerID string) (*models.Post, error)
	List(ctx context.Context, opts ListOptions) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post, oldCategory string, oldTags []string) error
	Delete(ctx context.Context, post *models.Post) error
	SetLike(ctx context.Context, userID, postID string, liked bool) (int, error)
	SetBookmark(ctx context.Context, userID, postID string, bookmarked bool) error
	Exists(ctx context.Context, id string) (bool, error)
}

type postRepository struct {
	store store.Store
	index *IndexMaintainer
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(s store.Store, index *IndexMaintainer) PostRepository {
	return &postRepository{store: s, index: index}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	// Record first, indices after: a failed index write leaves the record
	// partially discoverable, never an index entry pointing at nothing.
	if err := r.store.HSet(ctx, store.PostKey(post.ID), encodePost(post)); err != nil {
		return err
	}
	return r.index.IndexPost(ctx, post)
}

func (r *postRepository) GetByID(ctx context.Context, id, viewerID string) (*models.Post, error) {
	post, err := r.load(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context, opts ListOptions) ([]*models.Post, error) {
	ids, err := r.candidateIDs(ctx, opts)
	if err != nil {
		return nil, err
	}

	posts, err := r.loadAll(ctx, ids, opts.ViewerID)
	if err != nil {
		return nil, err
	}

	posts = applyFilters(posts, opts)
	sortPosts(posts, opts.SortBy, opts.SortOrder)
	return posts, nil
}

// candidateIDs picks the narrowest index for the given filters.
func (r *postRepository) candidateIDs(ctx context.Context, opts ListOptions) ([]string, error) {
	switch {
	case opts.BookmarkedOnly:
		if opts.ViewerID == "" {
			return nil, nil
		}
		return r.store.SMembers(ctx, store.UserBookmarksKey(opts.ViewerID))
	case opts.Category != "":
		return r.store.SMembers(ctx, store.CategoryKey(opts.Category))
	default:
		return r.store.LRange(ctx, store.AllPostsKey, 0, -1)
	}
}

// loadAll fetches post records and their derived counts concurrently.
// Records whose hash is missing are treated as already deleted and skipped.
func (r *postRepository) loadAll(ctx context.Context, ids []string, viewerID string) ([]*models.Post, error) {
	loaded := make([]*models.Post, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, id := range ids {
		g.Go(func() error {
			post, err := r.load(gctx, id, viewerID)
			if err != nil {
				return err
			}
			loaded[i] = post
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	posts := make([]*models.Post, 0, len(loaded))
	for _, post := range loaded {
		if post != nil {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

// load fetches one post with derived counts and viewer flags. Returns
// (nil, nil) when the record hash is missing.
func (r *postRepository) load(ctx context.Context, id, viewerID string) (*models.Post, error) {
	fields, err := r.store.HGetAll(ctx, store.PostKey(id))
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	post, err := decodePost(fields)
	if err != nil {
		return nil, err
	}

	likes, err := r.store.SCard(ctx, store.PostLikesKey(id))
	if err != nil {
		return nil, err
	}
	post.Likes = int(likes)

	comments, err := r.store.LLen(ctx, store.PostCommentsKey(id))
	if err != nil {
		return nil, err
	}
	post.Comments = int(comments)

	if viewerID != "" {
		liked, err := r.store.SIsMember(ctx, store.PostLikesKey(id), viewerID)
		if err != nil {
			return nil, err
		}
		post.IsLiked = liked

		bookmarked, err := r.store.SIsMember(ctx, store.UserBookmarksKey(viewerID), id)
		if err != nil {
			return nil, err
		}
		post.IsBookmarked = bookmarked
	}

	return post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post, oldCategory string, oldTags []string) error {
	if err := r.store.HSet(ctx, store.PostKey(post.ID), encodePost(post)); err != nil {
		return err
	}
	if err := r.index.ReindexCategory(ctx, post.ID, oldCategory, post.Category); err != nil {
		return err
	}
	return r.index.ReindexTags(ctx, post.ID, oldTags, post.Tags)
}

func (r *postRepository) Delete(ctx context.Context, post *models.Post) error {
	// Indices first, record last: reverse of creation, so a partial failure
	// leaves an undiscoverable record rather than a dangling index entry.
	if err := r.index.DeindexPost(ctx, post); err != nil {
		return err
	}
	return r.store.Del(ctx, store.PostKey(post.ID))
}

func (r *postRepository) SetLike(ctx context.Context, userID, postID string, liked bool) (int, error) {
	exists, err := r.Exists(ctx, postID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, models.NewNotFoundError("Post", postID)
	}

	// Set add/remove are idempotent, so concurrent toggles converge without
	// application-level locking.
	if liked {
		err = r.store.SAdd(ctx, store.PostLikesKey(postID), userID)
	} else {
		err = r.store.SRem(ctx, store.PostLikesKey(postID), userID)
	}
	if err != nil {
		return 0, err
	}

	count, err := r.store.SCard(ctx, store.PostLikesKey(postID))
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *postRepository) SetBookmark(ctx context.Context, userID, postID string, bookmarked bool) error {
	exists, err := r.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError("Post", postID)
	}

	if bookmarked {
		return r.store.SAdd(ctx, store.UserBookmarksKey(userID), postID)
	}
	return r.store.SRem(ctx, store.UserBookmarksKey(userID), postID)
}

func (r *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	v, err := r.store.HGet(ctx, store.PostKey(id), "id")
	if err != nil {
		return false, err
	}
	return v != "", nil
}

func encodePost(p *models.Post) map[string]interface{} {
	tags, _ := json.Marshal(p.Tags)
	return map[string]interface{}{
		"id":         p.ID,
		"title":      p.Title,
		"content":    p.Content,
		"category":   p.Category,
		"tags":       string(tags),
		"authorId":   p.AuthorID,
		"authorName": p.AuthorName,
		"createdAt":  p.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updatedAt":  p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func decodePost(fields map[string]string) (*models.Post, error) {
	post := &models.Post{
		ID:         fields["id"],
		Title:      fields["title"],
		Content:    fields["content"],
		Category:   fields["category"],
		AuthorID:   fields["authorId"],
		AuthorName: fields["authorName"],
		Tags:       []string{},
	}

	if raw := fields["tags"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &post.Tags); err != nil {
			return nil, fmt.Errorf("corrupt tags field on post %s: %w", post.ID, err)
		}
	}

	var err error
	if post.CreatedAt, err = time.Parse(time.RFC3339Nano, fields["createdAt"]); err != nil {
		return nil, fmt.Errorf("corrupt createdAt field on post %s: %w", post.ID, err)
	}
	if post.UpdatedAt, err = time.Parse(time.RFC3339Nano, fields["updatedAt"]); err != nil {
		return nil, fmt.Errorf("corrupt updatedAt field on post %s: %w", post.ID, err)
	}
	return post, nil
}
