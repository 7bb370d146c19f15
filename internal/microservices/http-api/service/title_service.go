package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

type TitleService interface {
	List(ctx context.Context, q dto.TitleQuery, pageSize int) ([]dto.TitleResponse, int64, error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	genreRepo    repository.GenreRepository
	categoryRepo repository.CategoryRepository
	now          func() time.Time
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	genreRepo repository.GenreRepository,
	categoryRepo repository.CategoryRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		genreRepo:    genreRepo,
		categoryRepo: categoryRepo,
		now:          time.Now,
	}
}

func (s *titleService) List(ctx context.Context, q dto.TitleQuery, pageSize int) ([]dto.TitleResponse, int64, error) {
	filter := repository.TitleFilter{
		Name:     q.Name,
		Genre:    q.Genre,
		Category: q.Category,
		Year:     q.Year,
		YearMin:  q.YearMin,
		YearMax:  q.YearMax,
	}
	titles, total, err := s.titleRepo.List(ctx, filter, q.Page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	if !dto.PageExists(total, q.Page, pageSize) {
		return nil, 0, ErrPageNotFound
	}

	ids := make([]int64, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}
	ratings, err := s.titleRepo.AverageScores(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		out = append(out, dto.FromModelToTitleResponse(&titles[i], ratingOf(ratings, titles[i].ID)))
	}
	return out, total, nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, t)
}

func (s *titleService) Create(ctx context.Context, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	if req.Year == nil {
		return nil, NewValidationError("year", "this field is required")
	}
	if err := s.validateYear(*req.Year); err != nil {
		return nil, err
	}

	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	t := &models.Title{
		Name:        strings.TrimSpace(req.Name),
		Year:        *req.Year,
		Description: req.Description,
	}
	if req.Category != nil && *req.Category != "" {
		c, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		t.CategoryID = &c.ID
	}

	if err := s.titleRepo.Create(ctx, t, genres); err != nil {
		return nil, err
	}
	return s.Get(ctx, t.ID)
}

// Update applies a partial change. An empty category slug clears the
// category; a genre list replaces the whole set.
func (s *titleService) Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	t, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		t.Name = strings.TrimSpace(*req.Name)
	}
	if req.Year != nil {
		if err := s.validateYear(*req.Year); err != nil {
			return nil, err
		}
		t.Year = *req.Year
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Category != nil {
		if *req.Category == "" {
			t.CategoryID = nil
		} else {
			c, err := s.resolveCategory(ctx, *req.Category)
			if err != nil {
				return nil, err
			}
			t.CategoryID = &c.ID
		}
	}

	var genres []models.Genre
	if req.Genre != nil {
		if genres, err = s.resolveGenres(ctx, *req.Genre); err != nil {
			return nil, err
		}
	}

	if err := s.titleRepo.Update(ctx, t, genres, req.Genre != nil); err != nil {
		return nil, err
	}
	return s.Get(ctx, t.ID)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *titleService) find(ctx context.Context, id int64) (*models.Title, error) {
	t, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *titleService) respond(ctx context.Context, t *models.Title) (*dto.TitleResponse, error) {
	ratings, err := s.titleRepo.AverageScores(ctx, []int64{t.ID})
	if err != nil {
		return nil, err
	}
	resp := dto.FromModelToTitleResponse(t, ratingOf(ratings, t.ID))
	return &resp, nil
}

// validateYear bounds a release year to [0, current year].
func (s *titleService) validateYear(year int) error {
	if year < 0 {
		return NewValidationError("year", "year cannot be negative")
	}
	if year > s.now().Year() {
		return NewValidationError("year", fmt.Sprintf("year cannot be later than %d", s.now().Year()))
	}
	return nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	unique := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		if !seen[slug] {
			seen[slug] = true
			unique = append(unique, slug)
		}
	}

	genres, err := s.genreRepo.FindBySlugs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(unique) {
		found := make(map[string]bool, len(genres))
		for _, g := range genres {
			found[g.Slug] = true
		}
		for _, slug := range unique {
			if !found[slug] {
				return nil, NewValidationError("genre", fmt.Sprintf("genre %q does not exist", slug))
			}
		}
	}
	return genres, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	c, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("category", fmt.Sprintf("category %q does not exist", slug))
		}
		return nil, err
	}
	return c, nil
}

func ratingOf(ratings map[int64]float64, id int64) *float64 {
	r, ok := ratings[id]
	if !ok {
		return nil
	}
	return &r
}
