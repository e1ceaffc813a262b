package blog

import (
	"context"
	"errors"

	"github.com/baysoko/backend/internal/domain/blog"
	"github.com/baysoko/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommentService handles comments and likes on published posts
type CommentService struct {
	postRepo    blog.PostRepository
	commentRepo blog.CommentRepository
	likeRepo    blog.LikeRepository
	logger      *zap.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	postRepo blog.PostRepository,
	commentRepo blog.CommentRepository,
	likeRepo blog.LikeRepository,
	logger *zap.Logger,
) *CommentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommentService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		logger:      logger,
	}
}

// CreateComment comments on a published post. Replies must point at an
// active comment on the same post.
func (s *CommentService) CreateComment(ctx context.Context, authorID, postID uuid.UUID, req *CreateCommentRequest) (*CommentResponse, error) {
	post, err := s.findPublishedPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("COMMENT_NOT_FOUND", "Parent comment not found")
			}
			return nil, err
		}
		if parent.PostID != post.ID || !parent.Active {
			return nil, shared.NewDomainError("COMMENT_NOT_FOUND", "Parent comment not found")
		}
		if parent.IsReply() {
			return nil, shared.NewDomainError("REPLY_TOO_DEEP", "Replies cannot be nested further")
		}
	}

	comment, err := blog.NewComment(post.ID, authorID, req.ParentID, req.Body)
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		s.logger.Error("Failed to create comment", zap.Error(err))
		return nil, err
	}

	return ToCommentResponse(comment), nil
}

// RemoveComment hides a comment. The comment author and the post author
// can both remove it.
func (s *CommentService) RemoveComment(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("COMMENT_NOT_FOUND", "Comment not found")
		}
		return err
	}

	if comment.AuthorID != userID {
		post, err := s.postRepo.FindByID(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if !post.IsAuthoredBy(userID) {
			return shared.NewDomainError("NOT_COMMENT_AUTHOR", "Only the comment or post author can remove a comment")
		}
	}

	comment.Deactivate()

	return s.commentRepo.Update(ctx, comment)
}

// ListComments returns the active comments on a published post
func (s *CommentService) ListComments(ctx context.Context, postID uuid.UUID) ([]*CommentResponse, error) {
	post, err := s.findPublishedPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]*CommentResponse, len(comments))
	for i, c := range comments {
		responses[i] = ToCommentResponse(c)
	}
	return responses, nil
}

// LikePost records a like, once per user
func (s *CommentService) LikePost(ctx context.Context, userID, postID uuid.UUID) (int64, error) {
	post, err := s.findPublishedPost(ctx, postID)
	if err != nil {
		return 0, err
	}

	liked, err := s.likeRepo.Exists(ctx, post.ID, userID)
	if err != nil {
		return 0, err
	}
	if !liked {
		like, err := blog.NewPostLike(post.ID, userID)
		if err != nil {
			return 0, err
		}
		if err := s.likeRepo.Create(ctx, like); err != nil {
			return 0, err
		}
	}

	return s.likeRepo.CountByPost(ctx, post.ID)
}

// UnlikePost removes a user's like
func (s *CommentService) UnlikePost(ctx context.Context, userID, postID uuid.UUID) (int64, error) {
	post, err := s.findPublishedPost(ctx, postID)
	if err != nil {
		return 0, err
	}

	liked, err := s.likeRepo.Exists(ctx, post.ID, userID)
	if err != nil {
		return 0, err
	}
	if liked {
		if err := s.likeRepo.Delete(ctx, post.ID, userID); err != nil {
			return 0, err
		}
	}

	return s.likeRepo.CountByPost(ctx, post.ID)
}

func (s *CommentService) findPublishedPost(ctx context.Context, postID uuid.UUID) (*blog.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("POST_NOT_FOUND", "Post not found")
		}
		return nil, err
	}
	if !post.IsPublished() {
		return nil, shared.NewDomainError("POST_NOT_PUBLISHED", "Post is not published")
	}
	return post, nil
}
