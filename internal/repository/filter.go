package repository

import (
	"sort"
	"strings"

	"inkwell/internal/models"
)

// applyFilters narrows loaded posts in memory. Filters are conjunctive,
// except tag filtering which matches posts having at least one of the
// requested tags. Search matches case-insensitively against title and
// content substrings. Never mutates the store.
func applyFilters(posts []*models.Post, opts ListOptions) []*models.Post {
	filtered := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if opts.Category != "" && post.Category != opts.Category {
			continue
		}
		if len(opts.Tags) > 0 && !hasAnyTag(post, opts.Tags) {
			continue
		}
		if opts.Search != "" && !matchesSearch(post, opts.Search) {
			continue
		}
		filtered = append(filtered, post)
	}
	return filtered
}

func hasAnyTag(post *models.Post, tags []string) bool {
	for _, want := range tags {
		for _, have := range post.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

func matchesSearch(post *models.Post, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(post.Title), q) ||
		strings.Contains(strings.ToLower(post.Content), q)
}

// sortPosts orders posts by the requested key. Default is creation time,
// newest first. Sorting is stable so equal keys keep candidate order.
func sortPosts(posts []*models.Post, sortBy, sortOrder string) {
	asc := sortOrder == OrderAsc

	var less func(a, b *models.Post) bool
	switch sortBy {
	case SortByLikes:
		less = func(a, b *models.Post) bool { return a.Likes < b.Likes }
	case SortByComments:
		less = func(a, b *models.Post) bool { return a.Comments < b.Comments }
	default:
		less = func(a, b *models.Post) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if asc {
			return less(posts[i], posts[j])
		}
		return less(posts[j], posts[i])
	})
}
