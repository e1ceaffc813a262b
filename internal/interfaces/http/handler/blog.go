package handler

import (
	"strconv"

	blogapp "github.com/baysoko/backend/internal/application/blog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BlogHandler handles blog post, comment and like endpoints
type BlogHandler struct {
	BaseHandler
	postService    *blogapp.PostService
	commentService *blogapp.CommentService
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(postService *blogapp.PostService, commentService *blogapp.CommentService) *BlogHandler {
	return &BlogHandler{
		postService:    postService,
		commentService: commentService,
	}
}

// CreatePost drafts a new blog post
func (h *BlogHandler) CreatePost(c *gin.Context) {
	authorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req blogapp.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.postService.CreatePost(c.Request.Context(), authorID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// UpdatePost edits the caller's own post
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	authorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	var req blogapp.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.postService.UpdatePost(c.Request.Context(), authorID, postID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// PublishPost makes a draft visible
func (h *BlogHandler) PublishPost(c *gin.Context) {
	authorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	result, err := h.postService.PublishPost(c.Request.Context(), authorID, postID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UnpublishPost pulls a post back to draft
func (h *BlogHandler) UnpublishPost(c *gin.Context) {
	authorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	result, err := h.postService.UnpublishPost(c.Request.Context(), authorID, postID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// DeletePost removes the caller's own post
func (h *BlogHandler) DeletePost(c *gin.Context) {
	authorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), authorID, postID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetPost returns a published post and records the view
func (h *BlogHandler) GetPost(c *gin.Context) {
	result, err := h.postService.GetBySlug(c.Request.Context(), c.Param("slug"), viewerID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListPosts searches published posts
func (h *BlogHandler) ListPosts(c *gin.Context) {
	var query blogapp.PostListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.postService.ListPublished(c.Request.Context(), &query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListMyPosts lists the caller's posts, drafts included
func (h *BlogHandler) ListMyPosts(c *gin.Context) {
	authorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "12"))

	result, err := h.postService.ListMine(c.Request.Context(), authorID, page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CreateCategory adds a blog category
func (h *BlogHandler) CreateCategory(c *gin.Context) {
	var req blogapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.postService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListCategories lists blog categories
func (h *BlogHandler) ListCategories(c *gin.Context) {
	result, err := h.postService.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CreateComment comments on a published post
func (h *BlogHandler) CreateComment(c *gin.Context) {
	authorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	var req blogapp.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.commentService.CreateComment(c.Request.Context(), authorID, postID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// RemoveComment deletes a comment. The comment author and the post
// author may both remove it.
func (h *BlogHandler) RemoveComment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		h.BadRequest(c, "Invalid comment ID")
		return
	}

	if err := h.commentService.RemoveComment(c.Request.Context(), userID, commentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListComments lists a post's comments
func (h *BlogHandler) ListComments(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	result, err := h.commentService.ListComments(c.Request.Context(), postID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// LikePost records the caller's like and returns the new count
func (h *BlogHandler) LikePost(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	count, err := h.commentService.LikePost(c.Request.Context(), userID, postID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"likes": count})
}

// UnlikePost removes the caller's like and returns the new count
func (h *BlogHandler) UnlikePost(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	count, err := h.commentService.UnlikePost(c.Request.Context(), userID, postID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"likes": count})
}
