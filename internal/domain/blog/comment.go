package blog

import (
	"time"

	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Comment is a reader's response to a post. Top-level comments have a
// nil ParentID; replies nest one level deep.
type Comment struct {
	shared.BaseAggregateRoot
	PostID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	AuthorID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`
	Body     string     `gorm:"type:text;not null"`
	Active   bool       `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (Comment) TableName() string {
	return "blog_comments"
}

// NewComment creates an active comment on a post
func NewComment(postID, authorID uuid.UUID, parentID *uuid.UUID, body string) (*Comment, error) {
	if postID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_POST_ID", "Post ID cannot be empty")
	}
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR_ID", "Author ID cannot be empty")
	}
	if body == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Comment cannot be empty")
	}
	if len(body) > 2000 {
		return nil, shared.NewDomainError("INVALID_BODY", "Comment cannot exceed 2000 characters")
	}

	return &Comment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PostID:            postID,
		AuthorID:          authorID,
		ParentID:          parentID,
		Body:              body,
		Active:            true,
	}, nil
}

// Deactivate hides the comment, used for moderation
func (c *Comment) Deactivate() {
	if !c.Active {
		return
	}
	c.Active = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsReply reports whether this comment responds to another comment
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// PostLike records one user's like on a post, unique per pair
type PostLike struct {
	shared.BaseEntity
	PostID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_like_user"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_like_user"`
}

// TableName returns the table name for GORM
func (PostLike) TableName() string {
	return "blog_post_likes"
}

// NewPostLike records a like
func NewPostLike(postID, userID uuid.UUID) (*PostLike, error) {
	if postID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_POST_ID", "Post ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}

	return &PostLike{
		BaseEntity: shared.NewBaseEntity(),
		PostID:     postID,
		UserID:     userID,
	}, nil
}
