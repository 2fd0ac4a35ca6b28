// Package repository provides data access layer implementations for the
// application. All state lives in the backing key-value store; secondary
// indices (global list, per-author lists, category and tag sets) are
// maintained by hand through the IndexMaintainer.
package repository

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// IndexMaintainer is the single owner of secondary-index mutation. Every
// write path that touches an index goes through here so there is exactly one
// consistency policy. The store offers no multi-key atomicity: a failure
// partway through leaves a partially updated index. That partial state is
// accepted; creation writes the record before any index and deletion removes
// indices before the record, keeping the dangling-reference window small.
type IndexMaintainer struct {
	store store.Store
}

// NewIndexMaintainer creates a new IndexMaintainer.
func NewIndexMaintainer(s store.Store) *IndexMaintainer {
	return &IndexMaintainer{store: s}
}

// IndexPost registers a freshly written post record in every structure used
// for enumeration. The record hash must already be written.
func (m *IndexMaintainer) IndexPost(ctx context.Context, post *models.Post) error {
	if err := m.store.RPush(ctx, store.AllPostsKey, post.ID); err != nil {
		return err
	}
	if err := m.store.RPush(ctx, store.UserPostsKey(post.AuthorID), post.ID); err != nil {
		return err
	}
	if err := m.store.SAdd(ctx, store.CategoryKey(post.Category), post.ID); err != nil {
		return err
	}
	for _, tag := range post.Tags {
		if err := m.store.SAdd(ctx, store.TagKey(tag), post.ID); err != nil {
			return err
		}
	}
	return nil
}

// ReindexCategory moves a post between category sets. Unchanged category is
// a no-op: no store operation is issued.
func (m *IndexMaintainer) ReindexCategory(ctx context.Context, postID, oldCategory, newCategory string) error {
	if oldCategory == newCategory {
		return nil
	}
	if err := m.store.SRem(ctx, store.CategoryKey(oldCategory), postID); err != nil {
		return err
	}
	return m.store.SAdd(ctx, store.CategoryKey(newCategory), postID)
}

// ReindexTags updates tag sets from the symmetric difference between the old
// and new tag lists. Tags present in both are left untouched.
func (m *IndexMaintainer) ReindexTags(ctx context.Context, postID string, oldTags, newTags []string) error {
	oldSet := make(map[string]bool, len(oldTags))
	for _, tag := range oldTags {
		oldSet[tag] = true
	}
	newSet := make(map[string]bool, len(newTags))
	for _, tag := range newTags {
		newSet[tag] = true
	}

	for tag := range oldSet {
		if newSet[tag] {
			continue
		}
		if err := m.store.SRem(ctx, store.TagKey(tag), postID); err != nil {
			return err
		}
	}
	for tag := range newSet {
		if oldSet[tag] {
			continue
		}
		if err := m.store.SAdd(ctx, store.TagKey(tag), postID); err != nil {
			return err
		}
	}
	return nil
}

// DeindexPost removes a post from every structure it was registered in, in
// reverse of the creation order, then drops its likes set and comments list
// and clears it from every user's bookmark set. The caller deletes the
// record hash afterwards. Tag membership is read from the stored record, not
// re-derived.
func (m *IndexMaintainer) DeindexPost(ctx context.Context, post *models.Post) error {
	for _, tag := range post.Tags {
		if err := m.store.SRem(ctx, store.TagKey(tag), post.ID); err != nil {
			return err
		}
	}
	if err := m.store.SRem(ctx, store.CategoryKey(post.Category), post.ID); err != nil {
		return err
	}
	if err := m.store.LRem(ctx, store.UserPostsKey(post.AuthorID), post.ID); err != nil {
		return err
	}
	if err := m.store.LRem(ctx, store.AllPostsKey, post.ID); err != nil {
		return err
	}
	if err := m.store.Del(ctx, store.PostLikesKey(post.ID), store.PostCommentsKey(post.ID)); err != nil {
		return err
	}
	return m.cleanupBookmarks(ctx, post.ID)
}

// cleanupBookmarks removes the post from every user's bookmark set. There is
// no reverse index from post to bookmarking users, so this scans all users:
// cost is proportional to the total user count, not to the number of
// bookmarks the post had. A reverse index would fix that; it would also have
// to be maintained on every bookmark toggle, so the trade-off lives here
// until the scan becomes a problem.
func (m *IndexMaintainer) cleanupBookmarks(ctx context.Context, postID string) error {
	userIDs, err := m.store.SMembers(ctx, store.AllUsersKey)
	if err != nil {
		return err
	}
	for _, userID := range userIDs {
		if err := m.store.SRem(ctx, store.UserBookmarksKey(userID), postID); err != nil {
			return err
		}
	}
	return nil
}

// IndexComment appends a freshly written comment to its post's comment list
// and its author's comment list. Comments carry no category or tag indices.
func (m *IndexMaintainer) IndexComment(ctx context.Context, comment *models.Comment) error {
	if err := m.store.RPush(ctx, store.PostCommentsKey(comment.PostID), comment.ID); err != nil {
		return err
	}
	return m.store.RPush(ctx, store.UserCommentsKey(comment.AuthorID), comment.ID)
}
