package dto

import (
	"time"

	"yamdb/internal/microservices/http-api/models"
)

// CreateReviewRequest for POST /titles/{title_id}/reviews. Author and title
// come from the token and the path.
type CreateReviewRequest struct {
	Text  string `json:"text" binding:"required"`
	Score int    `json:"score" binding:"required,min=1,max=10"`
}

// UpdateReviewRequest for PATCH (partial updates)
type UpdateReviewRequest struct {
	Text  *string `json:"text" binding:"omitempty,min=1"`
	Score *int    `json:"score" binding:"omitempty,min=1,max=10"`
}

type ReviewResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func FromModelToReviewResponse(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Author:  r.Author.DisplayName(),
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}
