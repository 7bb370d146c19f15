package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permission"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func principal(id string, p permission.Privilege) *permission.Principal {
	return &permission.Principal{UserID: id, Username: id, Privilege: p}
}

func newTestReviewService() (ReviewService, *MockReviewRepository, *MockTitleRepository) {
	reviews := new(MockReviewRepository)
	titles := new(MockTitleRepository)
	return NewReviewService(reviews, titles, discardLogger()), reviews, titles
}

func TestReviewCreate_ForcesAuthorAndTitle(t *testing.T) {
	svc, reviews, titles := newTestReviewService()
	caller := principal("alice", permission.Regular)

	titles.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	reviews.On("ExistsByAuthorAndTitle", mock.Anything, "alice", int64(1)).Return(false, nil)
	reviews.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Review) bool {
		return r.AuthorID == "alice" && r.TitleID == 1 && r.Score == 7
	})).Run(func(args mock.Arguments) {
		r := args.Get(1).(*models.Review)
		r.ID = 10
		name := "alice"
		r.Author = models.User{ID: "alice", Username: &name}
	}).Return(nil)

	resp, err := svc.Create(context.Background(), caller, 1, dto.CreateReviewRequest{Text: "ok", Score: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "alice", resp.Author)
	reviews.AssertExpectations(t)
}

func TestReviewCreate_LogsAuthor(t *testing.T) {
	var buf bytes.Buffer
	reviews := new(MockReviewRepository)
	titles := new(MockTitleRepository)
	svc := NewReviewService(reviews, titles, slog.New(slog.NewTextHandler(&buf, nil)))
	caller := &permission.Principal{UserID: "u-1", Username: "alice", Privilege: permission.Regular}

	titles.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	reviews.On("ExistsByAuthorAndTitle", mock.Anything, "u-1", int64(1)).Return(false, nil)
	reviews.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Create(context.Background(), caller, 1, dto.CreateReviewRequest{Text: "ok", Score: 7})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "user_id=u-1")
	assert.Contains(t, buf.String(), "username=alice")
}

func TestReviewCreate_Duplicate(t *testing.T) {
	svc, reviews, titles := newTestReviewService()
	caller := principal("alice", permission.Regular)
	titles.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	reviews.On("ExistsByAuthorAndTitle", mock.Anything, "alice", int64(1)).Return(true, nil)

	_, err := svc.Create(context.Background(), caller, 1, dto.CreateReviewRequest{Text: "again", Score: 5})
	assert.ErrorIs(t, err, ErrDuplicateReview)
	assert.ErrorIs(t, err, ErrValidation)
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReviewCreate_DuplicateRace(t *testing.T) {
	svc, reviews, titles := newTestReviewService()
	caller := principal("alice", permission.Regular)
	titles.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	reviews.On("ExistsByAuthorAndTitle", mock.Anything, "alice", int64(1)).Return(false, nil)
	reviews.On("Create", mock.Anything, mock.Anything).
		Return(&repository.DuplicateKeyError{Constraint: repository.ConstraintReviewAuthorTitle})

	_, err := svc.Create(context.Background(), caller, 1, dto.CreateReviewRequest{Text: "race", Score: 5})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReviewCreate_TitleDeletedMeanwhile(t *testing.T) {
	svc, reviews, titles := newTestReviewService()
	caller := principal("alice", permission.Regular)
	titles.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	reviews.On("ExistsByAuthorAndTitle", mock.Anything, "alice", int64(1)).Return(false, nil)
	reviews.On("Create", mock.Anything, mock.Anything).
		Return(&repository.MissingReferenceError{Constraint: "fk_reviews_title"})

	_, err := svc.Create(context.Background(), caller, 1, dto.CreateReviewRequest{Text: "late", Score: 5})
	assert.ErrorIs(t, err, ErrTitleNotFound)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestReviewCreate_Rejections(t *testing.T) {
	svc, _, titles := newTestReviewService()
	titles.On("Exists", mock.Anything, int64(404)).Return(false, nil)

	_, err := svc.Create(context.Background(), nil, 1, dto.CreateReviewRequest{Text: "x", Score: 5})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Create(context.Background(), principal("a", permission.Regular), 1, dto.CreateReviewRequest{Text: "x", Score: 11})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), principal("a", permission.Regular), 404, dto.CreateReviewRequest{Text: "x", Score: 5})
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestReviewGet_AncestorChain(t *testing.T) {
	svc, reviews, titles := newTestReviewService()
	titles.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	titles.On("Exists", mock.Anything, int64(2)).Return(false, nil)
	// review 5 belongs to title 3, not title 1
	reviews.On("GetByTitle", mock.Anything, int64(1), int64(5)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	_, err = svc.Get(context.Background(), 2, 5)
	assert.ErrorIs(t, err, ErrTitleNotFound)
	reviews.AssertNotCalled(t, "GetByTitle", mock.Anything, int64(2), mock.Anything)
}

func TestReviewUpdateDelete_ObjectPermission(t *testing.T) {
	tests := []struct {
		name    string
		caller  *permission.Principal
		allowed bool
	}{
		{"author", principal("alice", permission.Regular), true},
		{"other user", principal("bob", permission.Regular), false},
		{"moderator", principal("mod", permission.Moderator), true},
		{"admin", principal("root", permission.Admin), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, reviews, titles := newTestReviewService()
			titles.On("Exists", mock.Anything, int64(1)).Return(true, nil)
			reviews.On("GetByTitle", mock.Anything, int64(1), int64(5)).
				Return(&models.Review{ID: 5, TitleID: 1, AuthorID: "alice", Text: "old", Score: 3}, nil)
			reviews.On("Update", mock.Anything, mock.Anything).Return(nil)
			reviews.On("Delete", mock.Anything, int64(5)).Return(nil)

			resp, err := svc.Update(context.Background(), tt.caller, 1, 5, dto.UpdateReviewRequest{Score: intPtr(9)})
			delErr := svc.Delete(context.Background(), tt.caller, 1, 5)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, 9, resp.Score)
				assert.Equal(t, "old", resp.Text)
				assert.NoError(t, delErr)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
				assert.ErrorIs(t, delErr, ErrForbidden)
				reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				reviews.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestReviewList(t *testing.T) {
	svc, reviews, titles := newTestReviewService()
	titles.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	name := "alice"
	reviews.On("ListByTitle", mock.Anything, int64(1), 1, 10).Return([]models.Review{
		{ID: 1, Text: "a", Score: 5, Author: models.User{Username: &name}},
		{ID: 2, Text: "b", Score: 6, Author: models.User{Email: "anon@x.com"}},
	}, int64(2), nil)

	out, total, err := svc.List(context.Background(), 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "alice", out[0].Author)
	assert.Equal(t, "anon@x.com", out[1].Author)
}
