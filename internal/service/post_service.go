// Package service implements the business rules in front of the
// repositories: required-field validation, ownership and role checks, and
// the author display-name snapshot. Validation and authorization run before
// any store mutation begins.
package service

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/google/uuid"
)

const (
	maxTitleLen   = 200
	maxContentLen = 10000
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

type CreatePostInput struct {
	CallerID string
	Title    string
	Content  string
	Category string
	Tags     []string
}

// UpdatePostInput carries partial updates; nil fields are left unchanged.
type UpdatePostInput struct {
	CallerID string
	PostID   string
	Title    *string
	Content  *string
	Category *string
	Tags     *[]string
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	// Snapshot the author's display name at creation time. Old posts keep
	// the name the author had when they wrote them.
	author, err := s.userRepo.GetByID(ctx, in.CallerID)
	if err != nil {
		return nil, err
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    content,
		Category:   models.NormalizeCategory(in.Category),
		Tags:       tags,
		AuthorID:   author.ID,
		AuthorName: author.DisplayName,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id, viewerID string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, viewerID)
}

func (s *PostService) ListPosts(ctx context.Context, opts repository.ListOptions) ([]*models.Post, error) {
	switch opts.SortBy {
	case repository.SortByLikes, repository.SortByComments, repository.SortByCreated:
	default:
		opts.SortBy = repository.SortByCreated
	}
	if opts.SortOrder != repository.OrderAsc {
		opts.SortOrder = repository.OrderDesc
	}
	return s.postRepo.List(ctx, opts)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, "")
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, post.AuthorID, in.CallerID, "update"); err != nil {
		return nil, err
	}

	oldCategory := post.Category
	oldTags := post.Tags

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewValidationError("Title is required")
		}
		if len(title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		post.Title = title
	}
	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		if content == "" {
			return nil, models.NewValidationError("Content is required")
		}
		if len(content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 10000 characters)")
		}
		post.Content = content
	}
	if in.Category != nil {
		post.Category = models.NormalizeCategory(*in.Category)
	}
	if in.Tags != nil {
		post.Tags = *in.Tags
		if post.Tags == nil {
			post.Tags = []string{}
		}
	}
	post.UpdatedAt = time.Now().UTC()

	if err := s.postRepo.Update(ctx, post, oldCategory, oldTags); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, callerID, postID string) error {
	post, err := s.postRepo.GetByID(ctx, postID, "")
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, post.AuthorID, callerID, "delete"); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, post)
}

// SetLike toggles like membership for the caller and returns the derived
// like count. Both directions are idempotent.
func (s *PostService) SetLike(ctx context.Context, callerID, postID string, liked bool) (int, error) {
	return s.postRepo.SetLike(ctx, callerID, postID, liked)
}

// SetBookmark toggles the post's membership in the caller's bookmark set.
func (s *PostService) SetBookmark(ctx context.Context, callerID, postID string, bookmarked bool) error {
	return s.postRepo.SetBookmark(ctx, callerID, postID, bookmarked)
}

// authorize passes when the caller owns the record or holds the admin role.
func (s *PostService) authorize(ctx context.Context, authorID, callerID, action string) error {
	if authorID == callerID {
		return nil
	}
	caller, err := s.userRepo.GetByID(ctx, callerID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return models.NewForbiddenError("You can only " + action + " your own posts")
	}
	return nil
}
