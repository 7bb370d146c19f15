package dto

import "yamdb/internal/microservices/http-api/models"

// CreateTitleRequest for POST /titles. Genre and category are given by slug.
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=200"`
	Year        *int     `json:"year" binding:"required"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" binding:"omitempty,dive,slug"`
	Category    *string  `json:"category" binding:"omitempty,slug"`
}

// UpdateTitleRequest for PATCH /titles/{id} (partial updates)
type UpdateTitleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,min=1,max=200"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre" binding:"omitempty,dive,slug"`
	Category    *string   `json:"category" binding:"omitempty,slug"`
}

// TitleQuery holds the list filters of GET /titles
type TitleQuery struct {
	Name     string `form:"name"`
	Genre    string `form:"genre"`
	Category string `form:"category"`
	Year     *int   `form:"year"`
	YearMin  *int   `form:"year_min"`
	YearMax  *int   `form:"year_max"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
}

// TitleResponse carries the computed rating; nil means no reviews yet.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description *string           `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func FromModelToTitleResponse(t *models.Title, rating *float64) TitleResponse {
	genres := make([]GenreResponse, 0, len(t.Genres))
	for _, g := range t.Genres {
		genres = append(genres, FromModelToGenreResponse(g))
	}
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      rating,
		Description: t.Description,
		Genre:       genres,
	}
	if t.Category != nil {
		c := FromModelToCategoryResponse(*t.Category)
		resp.Category = &c
	}
	return resp
}
