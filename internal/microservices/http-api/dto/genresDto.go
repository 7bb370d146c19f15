package dto

import "yamdb/internal/microservices/http-api/models"

// GenreRequest for POST /genres
type GenreRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (d GenreRequest) ToModel() models.Genre {
	return models.Genre{Name: d.Name, Slug: d.Slug}
}

func FromModelToGenreResponse(g models.Genre) GenreResponse {
	return GenreResponse{Name: g.Name, Slug: g.Slug}
}
