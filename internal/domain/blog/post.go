package blog

import (
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PostStatus represents a post's publication state
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Post is a blog article. Drafts are visible only to their author;
// published posts are public and count views.
type Post struct {
	shared.BaseAggregateRoot
	AuthorID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index"`
	Title       string     `gorm:"type:varchar(200);not null"`
	Slug        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Excerpt     string     `gorm:"type:varchar(500)"`
	Body        string     `gorm:"type:text;not null"`
	CoverKey    string     `gorm:"type:varchar(500)"`
	Status      PostStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Views       int64      `gorm:"not null;default:0"`
	PublishedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (Post) TableName() string {
	return "blog_posts"
}

// NewPost creates a draft post. The slug is derived from the title;
// the application layer deduplicates it before saving.
func NewPost(authorID uuid.UUID, title, body string) (*Post, error) {
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR_ID", "Author ID cannot be empty")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if body == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Body cannot be empty")
	}

	return &Post{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AuthorID:          authorID,
		Title:             title,
		Slug:              shared.Slugify(title),
		Body:              body,
		Status:            PostStatusDraft,
	}, nil
}

// Update changes the post's content. The slug never changes after
// creation so published links stay stable.
func (p *Post) Update(title, excerpt, body string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if len(excerpt) > 500 {
		return shared.NewDomainError("INVALID_EXCERPT", "Excerpt cannot exceed 500 characters")
	}
	if body == "" {
		return shared.NewDomainError("INVALID_BODY", "Body cannot be empty")
	}

	p.Title = title
	p.Excerpt = excerpt
	p.Body = body
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory files the post under a category
func (p *Post) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetCover attaches a cover image
func (p *Post) SetCover(storageKey string) {
	p.CoverKey = storageKey
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Publish makes the post public. PublishedAt is set once and kept on
// republish.
func (p *Post) Publish() error {
	if p.Status == PostStatusPublished {
		return shared.NewDomainError("ALREADY_PUBLISHED", "Post is already published")
	}

	now := time.Now()
	p.Status = PostStatusPublished
	if p.PublishedAt == nil {
		p.PublishedAt = &now
	}
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// Unpublish takes the post back to draft
func (p *Post) Unpublish() error {
	if p.Status == PostStatusDraft {
		return shared.NewDomainError("NOT_PUBLISHED", "Post is not published")
	}

	p.Status = PostStatusDraft
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// RecordView bumps the view counter without touching the version
func (p *Post) RecordView() {
	p.Views++
}

// IsPublished returns true for publicly visible posts
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// IsAuthoredBy checks post ownership
func (p *Post) IsAuthoredBy(userID uuid.UUID) bool {
	return p.AuthorID == userID
}

// PostCategory groups posts on the blog index
type PostCategory struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug string `gorm:"type:varchar(120);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (PostCategory) TableName() string {
	return "blog_categories"
}

// NewPostCategory creates a blog category
func NewPostCategory(name string) (*PostCategory, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}

	return &PostCategory{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       shared.Slugify(name),
	}, nil
}
