package csvimport

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
)

// userNamespace seeds the deterministic ids of imported users.
var userNamespace = uuid.MustParse("6f1c4a52-9d7e-4c1b-8a0f-3e5b2d9c7a41")

// UserID maps a fixture user id onto the uuid stored for that user, so the
// author columns of reviews and comments resolve to the same account.
func UserID(raw string) string {
	return uuid.NewSHA1(userNamespace, []byte(strings.TrimSpace(raw))).String()
}

// row is one CSV record keyed by header name.
type row map[string]string

// get returns the first non-empty value among the given column names.
func (r row) get(names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(r[n]); v != "" {
			return v
		}
	}
	return ""
}

func (r row) required(names ...string) (string, error) {
	v := r.get(names...)
	if v == "" {
		return "", fmt.Errorf("missing column %q", names[0])
	}
	return v, nil
}

func (r row) int64(names ...string) (int64, error) {
	v, err := r.required(names...)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", names[0], err)
	}
	return n, nil
}

func (r row) pubDate() (time.Time, error) {
	v := r.get("pub_date")
	if v == "" {
		return time.Now().UTC(), nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("column \"pub_date\": unrecognised time %q", v)
}

func parseUser(r row) (any, error) {
	id, err := r.required("id")
	if err != nil {
		return nil, err
	}
	email, err := r.required("email")
	if err != nil {
		return nil, err
	}
	u := &models.User{
		ID:        UserID(id),
		Email:     strings.ToLower(email),
		FirstName: r.get("first_name"),
		LastName:  r.get("last_name"),
		Bio:       r.get("bio", "description"),
		Role:      models.Role(r.get("role")),
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if !u.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q", u.Role)
	}
	if name := r.get("username"); name != "" {
		if !dto.ValidUsername(name) {
			return nil, fmt.Errorf("invalid username %q", name)
		}
		u.Username = &name
	}
	return u, nil
}

func parseCategory(r row) (any, error) {
	id, err := r.int64("id")
	if err != nil {
		return nil, err
	}
	name, err := r.required("name")
	if err != nil {
		return nil, err
	}
	slug, err := r.required("slug")
	if err != nil {
		return nil, err
	}
	return &models.Category{ID: id, Name: name, Slug: slug}, nil
}

func parseGenre(r row) (any, error) {
	c, err := parseCategory(r)
	if err != nil {
		return nil, err
	}
	cat := c.(*models.Category)
	return &models.Genre{ID: cat.ID, Name: cat.Name, Slug: cat.Slug}, nil
}

func parseTitle(r row) (any, error) {
	id, err := r.int64("id")
	if err != nil {
		return nil, err
	}
	name, err := r.required("name")
	if err != nil {
		return nil, err
	}
	year, err := r.int64("year")
	if err != nil {
		return nil, err
	}
	if year < 0 {
		return nil, fmt.Errorf("negative year %d", year)
	}
	t := &models.Title{ID: id, Name: name, Year: int(year)}
	if d := r.get("description"); d != "" {
		t.Description = &d
	}
	if r.get("category", "category_id") != "" {
		cid, err := r.int64("category", "category_id")
		if err != nil {
			return nil, err
		}
		t.CategoryID = &cid
	}
	return t, nil
}

func parseTitleGenre(r row) (any, error) {
	id, err := r.int64("id")
	if err != nil {
		return nil, err
	}
	titleID, err := r.int64("title_id")
	if err != nil {
		return nil, err
	}
	genreID, err := r.int64("genre_id")
	if err != nil {
		return nil, err
	}
	return &models.TitleGenre{ID: id, TitleID: titleID, GenreID: genreID}, nil
}

func parseReview(r row) (any, error) {
	id, err := r.int64("id")
	if err != nil {
		return nil, err
	}
	titleID, err := r.int64("title_id")
	if err != nil {
		return nil, err
	}
	author, err := r.required("author", "author_id")
	if err != nil {
		return nil, err
	}
	text, err := r.required("text")
	if err != nil {
		return nil, err
	}
	score, err := r.int64("score")
	if err != nil {
		return nil, err
	}
	if score < 1 || score > 10 {
		return nil, fmt.Errorf("score %d out of range 1..10", score)
	}
	pub, err := r.pubDate()
	if err != nil {
		return nil, err
	}
	return &models.Review{
		ID:       id,
		TitleID:  titleID,
		AuthorID: UserID(author),
		Text:     text,
		Score:    int(score),
		PubDate:  pub,
	}, nil
}

func parseComment(r row) (any, error) {
	id, err := r.int64("id")
	if err != nil {
		return nil, err
	}
	reviewID, err := r.int64("review_id")
	if err != nil {
		return nil, err
	}
	author, err := r.required("author", "author_id")
	if err != nil {
		return nil, err
	}
	text, err := r.required("text")
	if err != nil {
		return nil, err
	}
	pub, err := r.pubDate()
	if err != nil {
		return nil, err
	}
	return &models.Comment{
		ID:       id,
		ReviewID: reviewID,
		AuthorID: UserID(author),
		Text:     text,
		PubDate:  pub,
	}, nil
}
