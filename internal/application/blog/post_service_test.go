package blog

import (
	"context"
	"testing"

	"github.com/baysoko/backend/internal/domain/blog"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type postServiceMocks struct {
	postRepo     *MockPostRepository
	commentRepo  *MockCommentRepository
	likeRepo     *MockLikeRepository
	categoryRepo *MockCategoryRepository
}

func newTestPostService() (*PostService, *postServiceMocks) {
	mocks := &postServiceMocks{
		postRepo:     new(MockPostRepository),
		commentRepo:  new(MockCommentRepository),
		likeRepo:     new(MockLikeRepository),
		categoryRepo: new(MockCategoryRepository),
	}
	service := NewPostService(mocks.postRepo, mocks.commentRepo, mocks.likeRepo, mocks.categoryRepo, nil)
	return service, mocks
}

func newDraftPost(t *testing.T, authorID uuid.UUID) *blog.Post {
	t.Helper()
	post, err := blog.NewPost(authorID, "Selling Fresh Fish on Baysoko", "A guide for lakeside traders.")
	require.NoError(t, err)
	return post
}

func newPublishedPost(t *testing.T, authorID uuid.UUID) *blog.Post {
	t.Helper()
	post := newDraftPost(t, authorID)
	require.NoError(t, post.Publish())
	return post
}

func TestPostService_CreatePost(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()

	t.Run("creates a draft with a deduplicated slug", func(t *testing.T) {
		service, mocks := newTestPostService()

		mocks.postRepo.On("ExistsBySlug", ctx, "market-day-tips").Return(true, nil)
		mocks.postRepo.On("ExistsBySlug", ctx, "market-day-tips-2").Return(false, nil)
		mocks.postRepo.On("Create", ctx, mock.MatchedBy(func(p *blog.Post) bool {
			return p.Slug == "market-day-tips-2" && p.Status == blog.PostStatusDraft
		})).Return(nil)

		resp, err := service.CreatePost(ctx, authorID, &CreatePostRequest{
			Title: "Market Day Tips",
			Body:  "Arrive before the morning rush.",
		})

		require.NoError(t, err)
		assert.Equal(t, "market-day-tips-2", resp.Slug)
		assert.Equal(t, string(blog.PostStatusDraft), resp.Status)
		assert.Nil(t, resp.PublishedAt)
		mocks.postRepo.AssertExpectations(t)
	})

	t.Run("publishes immediately when requested", func(t *testing.T) {
		service, mocks := newTestPostService()

		mocks.postRepo.On("ExistsBySlug", ctx, mock.Anything).Return(false, nil)
		mocks.postRepo.On("Create", ctx, mock.MatchedBy(func(p *blog.Post) bool {
			return p.IsPublished() && p.PublishedAt != nil
		})).Return(nil)

		resp, err := service.CreatePost(ctx, authorID, &CreatePostRequest{
			Title:   "Boda Delivery Now in Mbita",
			Excerpt: "Same day delivery reaches the lakeside.",
			Body:    "We have onboarded ten new riders.",
			Publish: true,
		})

		require.NoError(t, err)
		assert.Equal(t, string(blog.PostStatusPublished), resp.Status)
		assert.Equal(t, "Same day delivery reaches the lakeside.", resp.Excerpt)
		require.NotNil(t, resp.PublishedAt)
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		service, mocks := newTestPostService()
		categoryID := uuid.New()

		mocks.postRepo.On("ExistsBySlug", ctx, mock.Anything).Return(false, nil)
		mocks.categoryRepo.On("FindAll", ctx).Return([]*blog.PostCategory{}, nil)

		_, err := service.CreatePost(ctx, authorID, &CreatePostRequest{
			Title:      "Untitled",
			Body:       "Body",
			CategoryID: &categoryID,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CATEGORY_NOT_FOUND", domainErr.Code)
		mocks.postRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestPostService_UpdatePost(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()

	t.Run("author edits content without changing the slug", func(t *testing.T) {
		service, mocks := newTestPostService()
		post := newDraftPost(t, authorID)
		originalSlug := post.Slug

		mocks.postRepo.On("FindByID", ctx, post.ID).Return(post, nil)
		mocks.postRepo.On("Update", ctx, mock.MatchedBy(func(p *blog.Post) bool {
			return p.Title == "Selling Dried Fish on Baysoko" && p.Slug == originalSlug
		})).Return(nil)

		resp, err := service.UpdatePost(ctx, authorID, post.ID, &UpdatePostRequest{
			Title: "Selling Dried Fish on Baysoko",
			Body:  "A revised guide.",
		})

		require.NoError(t, err)
		assert.Equal(t, originalSlug, resp.Slug)
		mocks.postRepo.AssertExpectations(t)
	})

	t.Run("rejects edits from someone else", func(t *testing.T) {
		service, mocks := newTestPostService()
		post := newDraftPost(t, authorID)

		mocks.postRepo.On("FindByID", ctx, post.ID).Return(post, nil)

		_, err := service.UpdatePost(ctx, uuid.New(), post.ID, &UpdatePostRequest{
			Title: "Hijacked",
			Body:  "Body",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_POST_AUTHOR", domainErr.Code)
		mocks.postRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestPostService_PublishLifecycle(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()

	t.Run("publish then unpublish keeps the first publish date", func(t *testing.T) {
		service, mocks := newTestPostService()
		post := newDraftPost(t, authorID)

		mocks.postRepo.On("FindByID", ctx, post.ID).Return(post, nil)
		mocks.postRepo.On("Update", ctx, post).Return(nil)

		published, err := service.PublishPost(ctx, authorID, post.ID)
		require.NoError(t, err)
		require.NotNil(t, published.PublishedAt)
		firstPublished := *published.PublishedAt

		unpublished, err := service.UnpublishPost(ctx, authorID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, string(blog.PostStatusDraft), unpublished.Status)

		republished, err := service.PublishPost(ctx, authorID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, firstPublished, *republished.PublishedAt)
	})

	t.Run("publishing twice fails", func(t *testing.T) {
		service, mocks := newTestPostService()
		post := newPublishedPost(t, authorID)

		mocks.postRepo.On("FindByID", ctx, post.ID).Return(post, nil)

		_, err := service.PublishPost(ctx, authorID, post.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_PUBLISHED", domainErr.Code)
	})
}

func TestPostService_GetBySlug(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()

	t.Run("public read counts a view and returns engagement", func(t *testing.T) {
		service, mocks := newTestPostService()
		post := newPublishedPost(t, authorID)
		viewerID := uuid.New()

		mocks.postRepo.On("FindBySlug", ctx, post.Slug).Return(post, nil)
		mocks.postRepo.On("IncrementViews", ctx, post.ID).Return(nil)
		mocks.commentRepo.On("CountByPost", ctx, post.ID).Return(int64(4), nil)
		mocks.likeRepo.On("CountByPost", ctx, post.ID).Return(int64(9), nil)
		mocks.likeRepo.On("Exists", ctx, post.ID, viewerID).Return(true, nil)

		detail, err := service.GetBySlug(ctx, post.Slug, &viewerID)

		require.NoError(t, err)
		assert.Equal(t, int64(1), detail.Views)
		assert.Equal(t, int64(4), detail.CommentCount)
		assert.Equal(t, int64(9), detail.LikeCount)
		assert.True(t, detail.Liked)
	})

	t.Run("author reading own post does not count a view", func(t *testing.T) {
		service, mocks := newTestPostService()
		post := newPublishedPost(t, authorID)

		mocks.postRepo.On("FindBySlug", ctx, post.Slug).Return(post, nil)
		mocks.commentRepo.On("CountByPost", ctx, post.ID).Return(int64(0), nil)
		mocks.likeRepo.On("CountByPost", ctx, post.ID).Return(int64(0), nil)
		mocks.likeRepo.On("Exists", ctx, post.ID, authorID).Return(false, nil)

		detail, err := service.GetBySlug(ctx, post.Slug, &authorID)

		require.NoError(t, err)
		assert.Equal(t, int64(0), detail.Views)
		mocks.postRepo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
	})

	t.Run("draft is hidden from other readers", func(t *testing.T) {
		service, mocks := newTestPostService()
		post := newDraftPost(t, authorID)
		strangerID := uuid.New()

		mocks.postRepo.On("FindBySlug", ctx, post.Slug).Return(post, nil)

		_, err := service.GetBySlug(ctx, post.Slug, &strangerID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "POST_NOT_FOUND", domainErr.Code)
	})

	t.Run("draft remains readable to its author", func(t *testing.T) {
		service, mocks := newTestPostService()
		post := newDraftPost(t, authorID)

		mocks.postRepo.On("FindBySlug", ctx, post.Slug).Return(post, nil)
		mocks.commentRepo.On("CountByPost", ctx, post.ID).Return(int64(0), nil)
		mocks.likeRepo.On("CountByPost", ctx, post.ID).Return(int64(0), nil)
		mocks.likeRepo.On("Exists", ctx, post.ID, authorID).Return(false, nil)

		detail, err := service.GetBySlug(ctx, post.Slug, &authorID)

		require.NoError(t, err)
		assert.Equal(t, string(blog.PostStatusDraft), detail.Status)
		mocks.postRepo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
	})
}

func TestPostService_ListPublished(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()

	t.Run("filters by category slug", func(t *testing.T) {
		service, mocks := newTestPostService()
		category, err := blog.NewPostCategory("Seller Stories")
		require.NoError(t, err)
		post := newPublishedPost(t, authorID)

		mocks.categoryRepo.On("FindBySlug", ctx, "seller-stories").Return(category, nil)
		mocks.postRepo.On("FindPublished", ctx, mock.MatchedBy(func(f blog.PostFilter) bool {
			return f.CategoryID != nil && *f.CategoryID == category.ID && f.Page == 1 && f.PageSize == 12
		})).Return([]*blog.Post{post}, int64(1), nil)

		resp, err := service.ListPublished(ctx, &PostListQuery{Category: "seller-stories"})

		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)
		require.Len(t, resp.Posts, 1)
		assert.Empty(t, resp.Posts[0].Body)
		assert.Equal(t, post.Slug, resp.Posts[0].Slug)
	})

	t.Run("unknown category slug fails", func(t *testing.T) {
		service, mocks := newTestPostService()

		mocks.categoryRepo.On("FindBySlug", ctx, "no-such").Return(nil, shared.ErrNotFound)

		_, err := service.ListPublished(ctx, &PostListQuery{Category: "no-such"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CATEGORY_NOT_FOUND", domainErr.Code)
	})

	t.Run("mine includes drafts", func(t *testing.T) {
		service, mocks := newTestPostService()
		draft := newDraftPost(t, authorID)

		mocks.postRepo.On("FindByAuthor", ctx, authorID, 1, 12).
			Return([]*blog.Post{draft}, int64(1), nil)

		resp, err := service.ListMine(ctx, authorID, 0, 0)

		require.NoError(t, err)
		require.Len(t, resp.Posts, 1)
		assert.Equal(t, string(blog.PostStatusDraft), resp.Posts[0].Status)
	})
}

func TestPostService_Categories(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a category once", func(t *testing.T) {
		service, mocks := newTestPostService()

		mocks.categoryRepo.On("FindBySlug", ctx, "market-news").Return(nil, shared.ErrNotFound)
		mocks.categoryRepo.On("Create", ctx, mock.MatchedBy(func(c *blog.PostCategory) bool {
			return c.Name == "Market News" && c.Slug == "market-news"
		})).Return(nil)

		resp, err := service.CreateCategory(ctx, &CreateCategoryRequest{Name: "Market News"})

		require.NoError(t, err)
		assert.Equal(t, "market-news", resp.Slug)
	})

	t.Run("duplicate name fails", func(t *testing.T) {
		service, mocks := newTestPostService()
		existing, err := blog.NewPostCategory("Market News")
		require.NoError(t, err)

		mocks.categoryRepo.On("FindBySlug", ctx, "market-news").Return(existing, nil)

		_, err = service.CreateCategory(ctx, &CreateCategoryRequest{Name: "Market News"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CATEGORY_EXISTS", domainErr.Code)
		mocks.categoryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
