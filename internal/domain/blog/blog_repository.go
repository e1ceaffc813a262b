package blog

import (
	"context"

	"github.com/google/uuid"
)

// PostRepository defines the interface for blog post persistence
type PostRepository interface {
	// Create creates a new post
	Create(ctx context.Context, post *Post) error

	// Update updates an existing post
	Update(ctx context.Context, post *Post) error

	// Delete removes a post with its comments and likes
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a post by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// FindBySlug finds a post by its unique slug
	FindBySlug(ctx context.Context, slug string) (*Post, error)

	// FindPublished finds published posts matching the filter
	FindPublished(ctx context.Context, filter PostFilter) ([]*Post, int64, error)

	// FindByAuthor finds all of an author's posts including drafts
	FindByAuthor(ctx context.Context, authorID uuid.UUID, page, pageSize int) ([]*Post, int64, error)

	// ExistsBySlug checks slug uniqueness
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// IncrementViews bumps the view counter without loading the post
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

// CommentRepository defines the interface for comment persistence
type CommentRepository interface {
	// Create creates a new comment
	Create(ctx context.Context, comment *Comment) error

	// Update updates an existing comment
	Update(ctx context.Context, comment *Comment) error

	// FindByID finds a comment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Comment, error)

	// FindByPost finds active comments on a post, oldest first
	FindByPost(ctx context.Context, postID uuid.UUID) ([]*Comment, error)

	// CountByPost counts active comments on a post
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)
}

// LikeRepository defines the interface for post like persistence
type LikeRepository interface {
	// Create records a like
	Create(ctx context.Context, like *PostLike) error

	// Delete removes a user's like from a post
	Delete(ctx context.Context, postID, userID uuid.UUID) error

	// Exists checks whether a user already liked a post
	Exists(ctx context.Context, postID, userID uuid.UUID) (bool, error)

	// CountByPost counts likes on a post
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)
}

// CategoryRepository defines the interface for blog category persistence
type CategoryRepository interface {
	// Create creates a new category
	Create(ctx context.Context, category *PostCategory) error

	// FindAll finds all categories ordered by name
	FindAll(ctx context.Context) ([]*PostCategory, error)

	// FindBySlug finds a category by slug
	FindBySlug(ctx context.Context, slug string) (*PostCategory, error)
}

// PostFilter defines filtering options for published post queries
type PostFilter struct {
	Keyword    string
	CategoryID *uuid.UUID
	AuthorID   *uuid.UUID
	Page       int
	PageSize   int
}

// NewPostFilter creates a filter with default pagination
func NewPostFilter() PostFilter {
	return PostFilter{Page: 1, PageSize: 12}
}

// WithKeyword filters by title and body text
func (f PostFilter) WithKeyword(keyword string) PostFilter {
	f.Keyword = keyword
	return f
}

// WithCategory filters by category
func (f PostFilter) WithCategory(categoryID uuid.UUID) PostFilter {
	f.CategoryID = &categoryID
	return f
}

// WithAuthor filters by author
func (f PostFilter) WithAuthor(authorID uuid.UUID) PostFilter {
	f.AuthorID = &authorID
	return f
}

// WithPagination sets page and page size
func (f PostFilter) WithPagination(page, pageSize int) PostFilter {
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	return f
}

// Offset calculates the query offset
func (f PostFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Limit returns the query limit, capped at 100
func (f PostFilter) Limit() int {
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
