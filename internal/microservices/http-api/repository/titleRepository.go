package repository

import (
	"context"
	"fmt"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TitleFilter narrows a title listing. Zero values impose no constraint and
// the set filters are ANDed.
type TitleFilter struct {
	Name     string
	Genre    string // genre slug
	Category string // category slug
	Year     *int
	YearMin  *int
	YearMax  *int
}

func (f TitleFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Name != "" {
		db = db.Where("titles.name = ?", f.Name)
	}
	if f.Category != "" {
		db = db.Where("titles.category_id IN (SELECT id FROM categories WHERE slug = ?)", f.Category)
	}
	if f.Genre != "" {
		db = db.Where(`EXISTS (SELECT 1 FROM title_genres tg JOIN genres g ON g.id = tg.genre_id
			WHERE tg.title_id = titles.id AND g.slug = ?)`, f.Genre)
	}
	if f.Year != nil {
		db = db.Where("titles.year = ?", *f.Year)
	}
	if f.YearMin != nil {
		db = db.Where("titles.year >= ?", *f.YearMin)
	}
	if f.YearMax != nil {
		db = db.Where("titles.year <= ?", *f.YearMax)
	}
	return db
}

type TitleRepository interface {
	List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, t *models.Title, genres []models.Genre) error
	Update(ctx context.Context, t *models.Title, genres []models.Genre, replaceGenres bool) error
	Delete(ctx context.Context, id int64) error
	AverageScores(ctx context.Context, ids []int64) (map[int64]float64, error)
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Title{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	err := r.db.WithContext(ctx).
		Scopes(filter.scope).
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name asc") }).
		Preload("Category").
		Order("titles.id asc").
		Limit(pageSize).
		Offset(offset(page, pageSize)).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}
	return list, total, nil
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	err := r.db.WithContext(ctx).
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name asc") }).
		Preload("Category").
		First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *titleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Title{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create inserts the title and its genre links in one transaction.
func (r *titleRepository) Create(ctx context.Context, t *models.Title, genres []models.Genre) error {
	t.Genres = genres
	t.Category = nil
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// link existing genres without upserting them
		return tx.Omit("Category", "Genres.*").Create(t).Error
	})
	if err != nil {
		return fmt.Errorf("create title: %w", err)
	}
	return nil
}

// Update saves scalar columns and, when replaceGenres is set, swaps the genre
// links for the given set.
func (r *titleRepository) Update(ctx context.Context, t *models.Title, genres []models.Genre, replaceGenres bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(t).Error; err != nil {
			return err
		}
		if !replaceGenres {
			return nil
		}
		if len(genres) == 0 {
			return tx.Model(t).Association("Genres").Clear()
		}
		return tx.Model(t).Association("Genres").Replace(genres)
	})
	if err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	return nil
}

// Delete removes the title; its reviews, their comments and the genre links
// cascade.
func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AverageScores computes the live mean review score per title. Titles without
// reviews are absent from the map.
func (r *titleRepository) AverageScores(ctx context.Context, ids []int64) (map[int64]float64, error) {
	out := make(map[int64]float64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		TitleID int64
		Rating  float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("title_id, AVG(score)::float8 AS rating").
		Where("title_id IN ?", ids).
		Group("title_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("average scores: %w", err)
	}

	for _, row := range rows {
		out[row.TitleID] = row.Rating
	}
	return out, nil
}
