package handler

import (
	"testing"

	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)
	return db
}

func TestBuildPostListQuery_PublicCallersOnlySeePublic(t *testing.T) {
	db := newDryRunDB(t)

	// A non-admin asking for DRAFT still gets the PUBLIC-only filter.
	var posts []model.Post
	stmt := buildPostListQuery(db, false, model.PostStatusDraft, "", "", "", "").
		Find(&posts).Statement

	assert.Contains(t, stmt.SQL.String(), "posts.status = ?")
	assert.Contains(t, stmt.Vars, model.PostStatusPublic)
	assert.NotContains(t, stmt.Vars, model.PostStatusDraft)
}

func TestBuildPostListQuery_AdminStatusFilter(t *testing.T) {
	db := newDryRunDB(t)

	var posts []model.Post
	stmt := buildPostListQuery(db, true, model.PostStatusDraft, "", "", "", "").
		Find(&posts).Statement
	assert.Contains(t, stmt.Vars, model.PostStatusDraft)

	// No status param: admins see everything.
	stmt = buildPostListQuery(db, true, "", "", "", "", "").
		Find(&posts).Statement
	assert.NotContains(t, stmt.SQL.String(), "posts.status = ?")
}

func TestBuildPostListQuery_Filters(t *testing.T) {
	db := newDryRunDB(t)

	var posts []model.Post
	stmt := buildPostListQuery(db, false, "", "go", "testing", "generics", "true").
		Find(&posts).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, "JOIN categories")
	assert.Contains(t, sql, "JOIN post_tags")
	assert.Contains(t, sql, "posts.featured = ?")
	assert.Contains(t, stmt.Vars, "go")
	assert.Contains(t, stmt.Vars, "testing")
	assert.Contains(t, stmt.Vars, "%generics%")
}

func TestPostSortClause(t *testing.T) {
	assert.Equal(t, "posts.view_count DESC, posts.created_at DESC", postSortClause("views"))
	assert.Equal(t, "posts.created_at ASC", postSortClause("oldest"))
	assert.Equal(t, "posts.created_at DESC", postSortClause(""))
	assert.Equal(t, "posts.created_at DESC", postSortClause("newest"))
}
