package blog

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/blog"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PostService handles blog post lifecycle operations
type PostService struct {
	postRepo     blog.PostRepository
	commentRepo  blog.CommentRepository
	likeRepo     blog.LikeRepository
	categoryRepo blog.CategoryRepository
	logger       *zap.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo blog.PostRepository,
	commentRepo blog.CommentRepository,
	likeRepo blog.LikeRepository,
	categoryRepo blog.CategoryRepository,
	logger *zap.Logger,
) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		likeRepo:     likeRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// CreatePost creates a post for the author, published immediately when
// requested. The slug is deduplicated against existing posts.
func (s *PostService) CreatePost(ctx context.Context, authorID uuid.UUID, req *CreatePostRequest) (*PostResponse, error) {
	post, err := blog.NewPost(authorID, req.Title, req.Body)
	if err != nil {
		return nil, err
	}

	slug, err := shared.UniqueSlug(req.Title, func(candidate string) (bool, error) {
		return s.postRepo.ExistsBySlug(ctx, candidate)
	})
	if err != nil {
		return nil, err
	}
	post.Slug = slug

	if req.Excerpt != "" {
		if err := post.Update(req.Title, req.Excerpt, req.Body); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		post.SetCategory(req.CategoryID)
	}
	if req.CoverKey != "" {
		post.SetCover(req.CoverKey)
	}
	if req.Publish {
		if err := post.Publish(); err != nil {
			return nil, err
		}
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		s.logger.Error("Failed to create post", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Post created",
		zap.String("post_id", post.ID.String()),
		zap.String("slug", post.Slug),
		zap.String("status", string(post.Status)))

	return ToPostResponse(post), nil
}

// UpdatePost edits the author's own post
func (s *PostService) UpdatePost(ctx context.Context, authorID, postID uuid.UUID, req *UpdatePostRequest) (*PostResponse, error) {
	post, err := s.findOwnPost(ctx, authorID, postID)
	if err != nil {
		return nil, err
	}

	if err := post.Update(req.Title, req.Excerpt, req.Body); err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}
	post.SetCategory(req.CategoryID)
	post.SetCover(req.CoverKey)

	if err := s.postRepo.Update(ctx, post); err != nil {
		s.logger.Error("Failed to update post", zap.Error(err))
		return nil, err
	}

	return ToPostResponse(post), nil
}

// PublishPost makes the author's post public
func (s *PostService) PublishPost(ctx context.Context, authorID, postID uuid.UUID) (*PostResponse, error) {
	post, err := s.findOwnPost(ctx, authorID, postID)
	if err != nil {
		return nil, err
	}

	if err := post.Publish(); err != nil {
		return nil, err
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("Post published", zap.String("post_id", post.ID.String()))

	return ToPostResponse(post), nil
}

// UnpublishPost takes the author's post back to draft
func (s *PostService) UnpublishPost(ctx context.Context, authorID, postID uuid.UUID) (*PostResponse, error) {
	post, err := s.findOwnPost(ctx, authorID, postID)
	if err != nil {
		return nil, err
	}

	if err := post.Unpublish(); err != nil {
		return nil, err
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return ToPostResponse(post), nil
}

// DeletePost removes the author's post with its comments and likes
func (s *PostService) DeletePost(ctx context.Context, authorID, postID uuid.UUID) error {
	post, err := s.findOwnPost(ctx, authorID, postID)
	if err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		s.logger.Error("Failed to delete post", zap.Error(err))
		return err
	}

	s.logger.Info("Post deleted", zap.String("post_id", post.ID.String()))

	return nil
}

// GetBySlug returns a post for reading. Drafts are visible only to
// their author; a public read counts a view.
func (s *PostService) GetBySlug(ctx context.Context, slug string, viewerID *uuid.UUID) (*PostDetailResponse, error) {
	post, err := s.postRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("POST_NOT_FOUND", "Post not found")
		}
		return nil, err
	}

	isAuthor := viewerID != nil && post.IsAuthoredBy(*viewerID)
	if !post.IsPublished() && !isAuthor {
		return nil, shared.NewDomainError("POST_NOT_FOUND", "Post not found")
	}

	if post.IsPublished() && !isAuthor {
		if err := s.postRepo.IncrementViews(ctx, post.ID); err != nil {
			s.logger.Warn("Failed to count view", zap.String("post_id", post.ID.String()), zap.Error(err))
		} else {
			post.RecordView()
		}
	}

	detail := &PostDetailResponse{PostResponse: *ToPostResponse(post)}

	if detail.CommentCount, err = s.commentRepo.CountByPost(ctx, post.ID); err != nil {
		return nil, err
	}
	if detail.LikeCount, err = s.likeRepo.CountByPost(ctx, post.ID); err != nil {
		return nil, err
	}
	if viewerID != nil {
		if detail.Liked, err = s.likeRepo.Exists(ctx, post.ID, *viewerID); err != nil {
			return nil, err
		}
	}

	return detail, nil
}

// ListPublished browses published posts
func (s *PostService) ListPublished(ctx context.Context, query *PostListQuery) (*PostListResponse, error) {
	filter := blog.NewPostFilter().WithPagination(query.Page, query.PageSize)
	if query.Keyword != "" {
		filter = filter.WithKeyword(query.Keyword)
	}
	if query.Category != "" {
		category, err := s.categoryRepo.FindBySlug(ctx, query.Category)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
			}
			return nil, err
		}
		filter = filter.WithCategory(category.ID)
	}
	if query.Author != "" {
		authorID, err := uuid.Parse(query.Author)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_AUTHOR_ID", "Author ID must be a valid UUID")
		}
		filter = filter.WithAuthor(authorID)
	}

	posts, total, err := s.postRepo.FindPublished(ctx, filter)
	if err != nil {
		return nil, err
	}

	return s.toListResponse(posts, total, filter.Page, filter.PageSize), nil
}

// ListMine returns the author's own posts including drafts
func (s *PostService) ListMine(ctx context.Context, authorID uuid.UUID, page, pageSize int) (*PostListResponse, error) {
	filter := blog.NewPostFilter().WithPagination(page, pageSize)

	posts, total, err := s.postRepo.FindByAuthor(ctx, authorID, filter.Page, filter.PageSize)
	if err != nil {
		return nil, err
	}

	return s.toListResponse(posts, total, filter.Page, filter.PageSize), nil
}

// CreateCategory creates a blog category
func (s *PostService) CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := blog.NewPostCategory(req.Name)
	if err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.FindBySlug(ctx, category.Slug); err == nil {
		return nil, shared.NewDomainError("CATEGORY_EXISTS", "A category with this name already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category), nil
}

// ListCategories returns all blog categories
func (s *PostService) ListCategories(ctx context.Context) ([]*CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = ToCategoryResponse(c)
	}
	return responses, nil
}

func (s *PostService) findOwnPost(ctx context.Context, authorID, postID uuid.UUID) (*blog.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("POST_NOT_FOUND", "Post not found")
		}
		return nil, err
	}
	if !post.IsAuthoredBy(authorID) {
		return nil, shared.NewDomainError("NOT_POST_AUTHOR", "Only the author can modify this post")
	}
	return post, nil
}

func (s *PostService) ensureCategory(ctx context.Context, categoryID uuid.UUID) error {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		if c.ID == categoryID {
			return nil
		}
	}
	return shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
}

func (s *PostService) toListResponse(posts []*blog.Post, total int64, page, pageSize int) *PostListResponse {
	responses := make([]*PostResponse, len(posts))
	for i, p := range posts {
		responses[i] = ToPostSummaryResponse(p)
	}
	return &PostListResponse{
		Posts:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
}
