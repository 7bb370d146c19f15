package dto

import "yamdb/internal/microservices/http-api/models"

// CategoryRequest for POST /categories
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (d CategoryRequest) ToModel() models.Category {
	return models.Category{Name: d.Name, Slug: d.Slug}
}

func FromModelToCategoryResponse(c models.Category) CategoryResponse {
	return CategoryResponse{Name: c.Name, Slug: c.Slug}
}
