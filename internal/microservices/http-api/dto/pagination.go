package dto

import (
	"net/url"
	"strconv"
)

// ListQuery holds the common list parameters.
type ListQuery struct {
	Search string `form:"search"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
}

// Page is the envelope every list endpoint returns.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPage builds the envelope for page (1-based) of a result set of total
// items. Next and previous links keep every other query parameter of u.
func NewPage[T any](results []T, total int64, page, pageSize int, u *url.URL) Page[T] {
	if page < 1 {
		page = 1
	}
	if results == nil {
		results = []T{}
	}
	p := Page[T]{Count: total, Results: results}
	if int64(page*pageSize) < total {
		next := pageLink(u, page+1)
		p.Next = &next
	}
	if page > 1 {
		prev := pageLink(u, page-1)
		p.Previous = &prev
	}
	return p
}

// PageExists reports whether page is within the result set. The first page
// always exists, even when empty.
func PageExists(total int64, page, pageSize int) bool {
	if page <= 1 {
		return true
	}
	return int64((page-1)*pageSize) < total
}

func pageLink(u *url.URL, page int) string {
	link := *u
	q := link.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	link.RawQuery = q.Encode()
	return link.String()
}
