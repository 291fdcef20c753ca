package handler

import (
	"testing"
	"time"

	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCommentTree_NestsReplies(t *testing.T) {
	base := time.Now()
	comments := []model.Comment{
		{ID: 1, Content: "top", CreatedAt: base},
		{ID: 2, Content: "reply", ParentID: uintPtr(1), CreatedAt: base.Add(time.Minute)},
		{ID: 3, Content: "nested", ParentID: uintPtr(2), CreatedAt: base.Add(2 * time.Minute)},
		{ID: 4, Content: "second top", CreatedAt: base.Add(3 * time.Minute)},
	}

	tree, total := buildCommentTree(comments)
	require.Len(t, tree, 2)
	assert.Equal(t, int64(4), total)

	assert.Equal(t, uint(1), tree[0].ID)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, uint(2), tree[0].Replies[0].ID)
	require.Len(t, tree[0].Replies[0].Replies, 1)
	assert.Equal(t, uint(3), tree[0].Replies[0].Replies[0].ID)

	assert.Equal(t, uint(4), tree[1].ID)
	assert.Empty(t, tree[1].Replies)
}

func TestBuildCommentTree_MasksDeletedWithReplies(t *testing.T) {
	author := uint(7)
	comments := []model.Comment{
		{ID: 1, Content: "secret", IsDeleted: true, AuthorID: &author, GuestName: "g", GuestEmail: "g@example.com"},
		{ID: 2, Content: "reply", ParentID: uintPtr(1)},
	}

	tree, total := buildCommentTree(comments)
	require.Len(t, tree, 1)

	// The deleted parent keeps its slot so the reply stays anchored, but
	// content and identity are gone and it does not count as visible.
	assert.Equal(t, deletedCommentMask, tree[0].Content)
	assert.Nil(t, tree[0].AuthorID)
	assert.Empty(t, tree[0].GuestName)
	assert.Empty(t, tree[0].GuestEmail)
	assert.Equal(t, int64(1), total)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, uint(2), tree[0].Replies[0].ID)
}

func TestBuildCommentTree_PrunesDeletedLeaves(t *testing.T) {
	comments := []model.Comment{
		{ID: 1, Content: "kept"},
		{ID: 2, Content: "gone", IsDeleted: true},
		{ID: 3, Content: "gone reply", ParentID: uintPtr(1), IsDeleted: true},
	}

	tree, total := buildCommentTree(comments)
	require.Len(t, tree, 1)
	assert.Equal(t, uint(1), tree[0].ID)
	assert.Empty(t, tree[0].Replies)
	assert.Equal(t, int64(1), total)
}

func TestHashIP(t *testing.T) {
	h := hashIP("203.0.113.7")

	// sha256 hex, stable, and never the raw IP.
	assert.Len(t, h, 64)
	assert.Equal(t, h, hashIP("203.0.113.7"))
	assert.NotContains(t, h, "203.0.113.7")
	assert.NotEqual(t, h, hashIP("203.0.113.8"))
}

func TestGuestPasswordMatches_NoStoredHash(t *testing.T) {
	comment := &model.Comment{}
	assert.False(t, guestPasswordMatches(comment, "anything"))
	assert.False(t, guestPasswordMatches(comment, ""))
}
