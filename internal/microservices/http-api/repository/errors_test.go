package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_reviews_author_title"}

	err := translate(fmt.Errorf("insert: %w", pgErr))
	assert.True(t, IsDuplicate(err))
	assert.True(t, IsDuplicate(err, "idx_reviews_author_title"))
	assert.False(t, IsDuplicate(err, "idx_users_email"))
	assert.ErrorIs(t, err, pgErr)

	assert.True(t, IsDuplicate(translate(gorm.ErrDuplicatedKey)))

	other := errors.New("connection reset")
	assert.Equal(t, other, translate(other))
	assert.NoError(t, translate(nil))
}

func TestTranslate_ForeignKey(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "fk_comments_review"}

	err := translate(fmt.Errorf("insert: %w", pgErr))
	assert.True(t, IsMissingReference(err))
	assert.False(t, IsDuplicate(err))
	assert.ErrorIs(t, err, pgErr)

	assert.True(t, IsMissingReference(translate(gorm.ErrForeignKeyViolated)))
	assert.False(t, IsMissingReference(translate(errors.New("connection reset"))))
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, offset(1, 10))
	assert.Equal(t, 20, offset(3, 10))
	assert.Equal(t, 0, offset(0, 10))
}
