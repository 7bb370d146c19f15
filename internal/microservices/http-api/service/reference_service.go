package service

import (
	"context"
	"errors"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

type CategoryService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]dto.CategoryResponse, int64, error)
	Create(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, search string, page, pageSize int) ([]dto.CategoryResponse, int64, error) {
	list, total, err := s.repo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if !dto.PageExists(total, page, pageSize) {
		return nil, 0, ErrPageNotFound
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.FromModelToCategoryResponse(c))
	}
	return out, total, nil
}

func (s *categoryService) Create(ctx context.Context, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c := req.ToModel()
	if err := s.repo.Create(ctx, &c); err != nil {
		if repository.IsDuplicate(err) {
			return nil, NewValidationError("slug", "category with this slug already exists")
		}
		return nil, err
	}
	resp := dto.FromModelToCategoryResponse(c)
	return &resp, nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

type GenreService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]dto.GenreResponse, int64, error)
	Create(ctx context.Context, req dto.GenreRequest) (*dto.GenreResponse, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) List(ctx context.Context, search string, page, pageSize int) ([]dto.GenreResponse, int64, error) {
	list, total, err := s.repo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if !dto.PageExists(total, page, pageSize) {
		return nil, 0, ErrPageNotFound
	}
	out := make([]dto.GenreResponse, 0, len(list))
	for _, g := range list {
		out = append(out, dto.FromModelToGenreResponse(g))
	}
	return out, total, nil
}

func (s *genreService) Create(ctx context.Context, req dto.GenreRequest) (*dto.GenreResponse, error) {
	g := req.ToModel()
	if err := s.repo.Create(ctx, &g); err != nil {
		if repository.IsDuplicate(err) {
			return nil, NewValidationError("slug", "genre with this slug already exists")
		}
		return nil, err
	}
	resp := dto.FromModelToGenreResponse(g)
	return &resp, nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}
