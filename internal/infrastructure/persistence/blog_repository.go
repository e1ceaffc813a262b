package persistence

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/blog"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPostRepository implements PostRepository using GORM
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// Create creates a new post
func (r *GormPostRepository) Create(ctx context.Context, post *blog.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Update updates an existing post
func (r *GormPostRepository) Update(ctx context.Context, post *blog.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// Delete removes a post with its comments and likes
func (r *GormPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&blog.Comment{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&blog.PostLike{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&blog.Post{}, "id = ?", id).Error
	})
}

// FindByID finds a post by ID
func (r *GormPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	var post blog.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// FindBySlug finds a post by its unique slug
func (r *GormPostRepository) FindBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	var post blog.Post
	if err := r.db.WithContext(ctx).First(&post, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// FindPublished finds published posts matching the filter
func (r *GormPostRepository) FindPublished(ctx context.Context, filter blog.PostFilter) ([]*blog.Post, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&blog.Post{}).
		Where("status = ?", blog.PostStatusPublished)

	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		query = query.Where("title ILIKE ? OR body ILIKE ?", keyword, keyword)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*blog.Post
	err := query.
		Order("published_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// FindByAuthor finds all of an author's posts including drafts
func (r *GormPostRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID, page, pageSize int) ([]*blog.Post, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&blog.Post{}).
		Where("author_id = ?", authorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 12
	}

	var posts []*blog.Post
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// ExistsBySlug checks slug uniqueness
func (r *GormPostRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&blog.Post{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IncrementViews bumps the view counter without loading the post
func (r *GormPostRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&blog.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// GormCommentRepository implements CommentRepository using GORM
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(ctx context.Context, comment *blog.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// Update updates an existing comment
func (r *GormCommentRepository) Update(ctx context.Context, comment *blog.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// FindByID finds a comment by ID
func (r *GormCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Comment, error) {
	var comment blog.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// FindByPost finds active comments on a post, oldest first
func (r *GormCommentRepository) FindByPost(ctx context.Context, postID uuid.UUID) ([]*blog.Comment, error) {
	var comments []*blog.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND active = true", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByPost counts active comments on a post
func (r *GormCommentRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&blog.Comment{}).
		Where("post_id = ? AND active = true", postID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GormLikeRepository implements LikeRepository using GORM
type GormLikeRepository struct {
	db *gorm.DB
}

// NewGormLikeRepository creates a new GormLikeRepository
func NewGormLikeRepository(db *gorm.DB) *GormLikeRepository {
	return &GormLikeRepository{db: db}
}

// Create records a like
func (r *GormLikeRepository) Create(ctx context.Context, like *blog.PostLike) error {
	return r.db.WithContext(ctx).Create(like).Error
}

// Delete removes a user's like from a post
func (r *GormLikeRepository) Delete(ctx context.Context, postID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&blog.PostLike{}, "post_id = ? AND user_id = ?", postID, userID).Error
}

// Exists checks whether a user already liked a post
func (r *GormLikeRepository) Exists(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&blog.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByPost counts likes on a post
func (r *GormLikeRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&blog.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GormBlogCategoryRepository implements blog CategoryRepository using GORM
type GormBlogCategoryRepository struct {
	db *gorm.DB
}

// NewGormBlogCategoryRepository creates a new GormBlogCategoryRepository
func NewGormBlogCategoryRepository(db *gorm.DB) *GormBlogCategoryRepository {
	return &GormBlogCategoryRepository{db: db}
}

// Create creates a new category
func (r *GormBlogCategoryRepository) Create(ctx context.Context, category *blog.PostCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// FindAll finds all categories ordered by name
func (r *GormBlogCategoryRepository) FindAll(ctx context.Context) ([]*blog.PostCategory, error) {
	var categories []*blog.PostCategory
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// FindBySlug finds a category by slug
func (r *GormBlogCategoryRepository) FindBySlug(ctx context.Context, slug string) (*blog.PostCategory, error) {
	var category blog.PostCategory
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}
