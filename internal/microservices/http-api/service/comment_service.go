package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	List(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]dto.CommentResponse, int64, error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(ctx context.Context, caller *permission.Principal, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	Update(ctx context.Context, caller *permission.Principal, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, caller *permission.Principal, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	chain       ancestors
	logger      *slog.Logger
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	reviewRepo repository.ReviewRepository,
	titleRepo repository.TitleRepository,
	logger *slog.Logger,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		chain:       ancestors{titles: titleRepo, reviews: reviewRepo},
		logger:      logger,
	}
}

func (s *commentService) List(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]dto.CommentResponse, int64, error) {
	if _, err := s.chain.review(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	comments, total, err := s.commentRepo.ListByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if !dto.PageExists(total, page, pageSize) {
		return nil, 0, ErrPageNotFound
	}

	out := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, dto.FromModelToCommentResponse(&comments[i]))
	}
	return out, total, nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	comment, err := s.find(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) Create(ctx context.Context, caller *permission.Principal, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	review, err := s.chain.review(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: review.ID,
		AuthorID: caller.UserID,
		Text:     req.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		// the review was deleted after the chain check
		if repository.IsMissingReference(err) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	s.logger.Info("comment created", "comment_id", comment.ID, "review_id", review.ID, "user_id", caller.UserID, "username", caller.Username)
	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) Update(ctx context.Context, caller *permission.Principal, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.find(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwned(caller, http.MethodPatch, comment.AuthorID); err != nil {
		return nil, err
	}

	if req.Text != nil {
		comment.Text = *req.Text
		if err := s.commentRepo.Update(ctx, comment); err != nil {
			return nil, err
		}
	}
	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) Delete(ctx context.Context, caller *permission.Principal, titleID, reviewID, commentID int64) error {
	comment, err := s.find(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := authorizeOwned(caller, http.MethodDelete, comment.AuthorID); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}

// find resolves Title -> Review -> Comment.
func (s *commentService) find(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if _, err := s.chain.review(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByReview(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}
