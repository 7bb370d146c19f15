package dto

import (
	"time"

	"yamdb/internal/microservices/http-api/models"
)

// CreateCommentRequest for creating a comment
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// UpdateCommentRequest for updating a comment
type UpdateCommentRequest struct {
	Text *string `json:"text" binding:"omitempty,min=1"`
}

// CommentResponse for returning comment information
type CommentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

// FromModelToCommentResponse converts a Comment model to CommentResponse DTO
func FromModelToCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		Text:    c.Text,
		Author:  c.Author.DisplayName(),
		PubDate: c.PubDate,
	}
}
