package service

import (
	"context"
	"errors"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// ancestors resolves the Title -> Review path of nested resources. A review
// that exists under another title is reported as not found.
type ancestors struct {
	titles  repository.TitleRepository
	reviews repository.ReviewRepository
}

func (a ancestors) title(ctx context.Context, titleID int64) error {
	ok, err := a.titles.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTitleNotFound
	}
	return nil
}

func (a ancestors) review(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	if err := a.title(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := a.reviews.GetByTitle(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}
