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

type ReviewService interface {
	List(ctx context.Context, titleID int64, page, pageSize int) ([]dto.ReviewResponse, int64, error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, caller *permission.Principal, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Update(ctx context.Context, caller *permission.Principal, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, caller *permission.Principal, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	chain      ancestors
	logger     *slog.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	titleRepo repository.TitleRepository,
	logger *slog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		chain:      ancestors{titles: titleRepo, reviews: reviewRepo},
		logger:     logger,
	}
}

func (s *reviewService) List(ctx context.Context, titleID int64, page, pageSize int) ([]dto.ReviewResponse, int64, error) {
	if err := s.chain.title(ctx, titleID); err != nil {
		return nil, 0, err
	}
	reviews, total, err := s.reviewRepo.ListByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if !dto.PageExists(total, page, pageSize) {
		return nil, 0, ErrPageNotFound
	}

	out := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, dto.FromModelToReviewResponse(&reviews[i]))
	}
	return out, total, nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.chain.review(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToReviewResponse(review)
	return &resp, nil
}

// Create posts the caller's review of titleID. Author and title never come
// from the request body.
func (s *reviewService) Create(ctx context.Context, caller *permission.Principal, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if err := validateScore(req.Score); err != nil {
		return nil, err
	}
	if err := s.chain.title(ctx, titleID); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsByAuthorAndTitle(ctx, caller.UserID, titleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: caller.UserID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// a concurrent request won the race to the unique index
		if repository.IsDuplicate(err, repository.ConstraintReviewAuthorTitle) {
			return nil, ErrDuplicateReview
		}
		// the title was deleted after the existence check
		if repository.IsMissingReference(err) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	s.logger.Info("review created", "review_id", review.ID, "title_id", titleID, "user_id", caller.UserID, "username", caller.Username)
	resp := dto.FromModelToReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) Update(ctx context.Context, caller *permission.Principal, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.chain.review(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwned(caller, http.MethodPatch, review.AuthorID); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		if err := validateScore(*req.Score); err != nil {
			return nil, err
		}
		review.Score = *req.Score
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	resp := dto.FromModelToReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) Delete(ctx context.Context, caller *permission.Principal, titleID, reviewID int64) error {
	review, err := s.chain.review(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := authorizeOwned(caller, http.MethodDelete, review.AuthorID); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	s.logger.Info("review deleted", "review_id", review.ID, "title_id", titleID, "user_id", caller.UserID)
	return nil
}

func validateScore(score int) error {
	if score < 1 || score > 10 {
		return NewValidationError("score", "score must be between 1 and 10")
	}
	return nil
}

// authorizeOwned applies the object-level rule for reviews and comments.
func authorizeOwned(caller *permission.Principal, method, authorID string) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if !permission.CanModifyOwned(permission.Request{Method: method, Principal: caller}, authorID) {
		return ErrForbidden
	}
	return nil
}
