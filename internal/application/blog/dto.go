package blog

import (
	"time"

	"github.com/baysoko/backend/internal/domain/blog"
	"github.com/google/uuid"
)

// CreatePostRequest represents a request to create a draft post
type CreatePostRequest struct {
	Title      string     `json:"title" binding:"required,max=200"`
	Excerpt    string     `json:"excerpt" binding:"max=500"`
	Body       string     `json:"body" binding:"required"`
	CategoryID *uuid.UUID `json:"category_id"`
	CoverKey   string     `json:"cover_key" binding:"max=500"`
	Publish    bool       `json:"publish"`
}

// UpdatePostRequest represents a request to edit a post
type UpdatePostRequest struct {
	Title      string     `json:"title" binding:"required,max=200"`
	Excerpt    string     `json:"excerpt" binding:"max=500"`
	Body       string     `json:"body" binding:"required"`
	CategoryID *uuid.UUID `json:"category_id"`
	CoverKey   string     `json:"cover_key" binding:"max=500"`
}

// PostListQuery represents browse filters for published posts
type PostListQuery struct {
	Keyword  string `form:"keyword"`
	Category string `form:"category"`
	Author   string `form:"author"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=12" binding:"omitempty,min=1,max=100"`
}

// CreateCommentRequest represents a request to comment on a post
type CreateCommentRequest struct {
	Body     string     `json:"body" binding:"required,max=2000"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// CreateCategoryRequest represents a request to create a blog category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// PostResponse represents a post in API responses
type PostResponse struct {
	ID          uuid.UUID  `json:"id"`
	AuthorID    uuid.UUID  `json:"author_id"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Body        string     `json:"body,omitempty"`
	CoverKey    string     `json:"cover_key,omitempty"`
	Status      string     `json:"status"`
	Views       int64      `json:"views"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PostDetailResponse is a post with its engagement counters
type PostDetailResponse struct {
	PostResponse
	CommentCount int64 `json:"comment_count"`
	LikeCount    int64 `json:"like_count"`
	Liked        bool  `json:"liked"`
}

// PostListResponse represents a paginated post listing
type PostListResponse struct {
	Posts    []*PostResponse `json:"posts"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// CommentResponse represents a comment in API responses
type CommentResponse struct {
	ID        uuid.UUID  `json:"id"`
	PostID    uuid.UUID  `json:"post_id"`
	AuthorID  uuid.UUID  `json:"author_id"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
}

// CategoryResponse represents a blog category in API responses
type CategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ToPostResponse converts a post aggregate to a response DTO. Draft
// bodies are included; list endpoints strip them separately.
func ToPostResponse(p *blog.Post) *PostResponse {
	return &PostResponse{
		ID:          p.ID,
		AuthorID:    p.AuthorID,
		CategoryID:  p.CategoryID,
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		Body:        p.Body,
		CoverKey:    p.CoverKey,
		Status:      string(p.Status),
		Views:       p.Views,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToPostSummaryResponse converts a post for list views, dropping the
// full body to keep index payloads small
func ToPostSummaryResponse(p *blog.Post) *PostResponse {
	resp := ToPostResponse(p)
	resp.Body = ""
	return resp
}

// ToCommentResponse converts a comment to a response DTO
func ToCommentResponse(c *blog.Comment) *CommentResponse {
	return &CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		ParentID:  c.ParentID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

// ToCategoryResponse converts a category to a response DTO
func ToCategoryResponse(c *blog.PostCategory) *CategoryResponse {
	return &CategoryResponse{
		ID:   c.ID,
		Name: c.Name,
		Slug: c.Slug,
	}
}
