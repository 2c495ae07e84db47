package utils

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

var ErrInvalidListQuery = errors.New("invalid list query")

// ListSpec is what a listing endpoint accepts. Sorts maps the wire name of
// a sort key to its column; DefaultSort uses the same "-key" form the
// client sends.
type ListSpec struct {
	Sorts       map[string]string
	DefaultSort string
	Statuses    []string
	Searchable  string
}

// ListQuery is a validated page request.
type ListQuery struct {
	Page    int
	PerPage int
	Column  string
	Desc    bool
	Status  string
	Search  string
}

type PageMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ParseListQuery reads page, per_page, sort, status and q from the query
// string. A leading "-" on sort orders descending. Keys outside spec are
// rejected; an oversized per_page is capped.
func ParseListQuery(c *gin.Context, spec ListSpec) (ListQuery, error) {
	q := ListQuery{Page: 1, PerPage: defaultPerPage}

	var err error
	if q.Page, err = positiveParam(c, "page", 1); err != nil {
		return ListQuery{}, err
	}
	if q.PerPage, err = positiveParam(c, "per_page", defaultPerPage); err != nil {
		return ListQuery{}, err
	}
	q.PerPage = min(q.PerPage, maxPerPage)

	sort := c.DefaultQuery("sort", spec.DefaultSort)
	key := strings.TrimPrefix(sort, "-")
	column, ok := spec.Sorts[key]
	if !ok {
		return ListQuery{}, fmt.Errorf("%w: cannot sort by %q", ErrInvalidListQuery, key)
	}
	q.Column, q.Desc = column, strings.HasPrefix(sort, "-")

	if q.Status = c.Query("status"); q.Status != "" && !slices.Contains(spec.Statuses, q.Status) {
		return ListQuery{}, fmt.Errorf("%w: unknown status %q", ErrInvalidListQuery, q.Status)
	}
	if spec.Searchable != "" {
		q.Search = strings.TrimSpace(c.Query("q"))
	}
	return q, nil
}

func positiveParam(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidListQuery, name)
	}
	return n, nil
}

// Scope orders and windows db. Call it after Count.
func (q ListQuery) Scope(db *gorm.DB) *gorm.DB {
	return db.
		Order(clause.OrderByColumn{Column: clause.Column{Name: q.Column}, Desc: q.Desc}).
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage)
}

func (q ListQuery) Meta(total int64) PageMeta {
	pages := int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	return PageMeta{
		Page:       q.Page,
		PerPage:    q.PerPage,
		Total:      total,
		TotalPages: pages,
		HasNext:    q.Page < pages,
	}
}
