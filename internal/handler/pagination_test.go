package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestNewPageMeta_TotalPagesIsCeil(t *testing.T) {
	cases := []struct {
		total      int64
		limit      int
		totalPages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{100, 7, 15},
	}

	for _, tc := range cases {
		meta := newPageMeta(tc.total, 1, tc.limit)
		assert.Equal(t, tc.totalPages, meta.TotalPages, "total=%d limit=%d", tc.total, tc.limit)
		assert.Equal(t, tc.total, meta.Total)
		assert.Equal(t, tc.limit, meta.Limit)
	}
}

func newQueryContext(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestPageParams_Defaults(t *testing.T) {
	page, limit, offset := pageParams(newQueryContext(""))
	assert.Equal(t, 1, page)
	assert.Equal(t, defaultPageLimit, limit)
	assert.Equal(t, 0, offset)
}

func TestPageParams_Clamping(t *testing.T) {
	page, limit, _ := pageParams(newQueryContext("page=-3&limit=0"))
	assert.Equal(t, 1, page)
	assert.Equal(t, defaultPageLimit, limit)

	_, limit, _ = pageParams(newQueryContext("limit=9999"))
	assert.Equal(t, maxPageLimit, limit)
}

func TestPageParams_Offset(t *testing.T) {
	page, limit, offset := pageParams(newQueryContext("page=3&limit=20"))
	assert.Equal(t, 3, page)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 40, offset)
}
