package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// PageMeta is the pagination envelope returned alongside every list.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// pageParams reads page/limit query params, clamping them to sane bounds.
func pageParams(c echo.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, (page - 1) * limit
}

// newPageMeta builds the pagination metadata. totalPages is
// ceil(total/limit) and at least 1 only when there is data.
func newPageMeta(total int64, page, limit int) PageMeta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return PageMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
