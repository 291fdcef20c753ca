package handler

import (
	"testing"

	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestSortForRestore_ParentBeforeChild(t *testing.T) {
	parent := commentBackup{ID: 1}
	child := commentBackup{ID: 2, ParentID: uintPtr(1)}

	// Children-first input must still insert the parent first.
	comments := []commentBackup{child, parent}
	sortForRestore(comments)
	require.Len(t, comments, 2)
	assert.Equal(t, uint(1), comments[0].ID)
	assert.Equal(t, uint(2), comments[1].ID)

	// Parent-first input stays as is.
	comments = []commentBackup{parent, child}
	sortForRestore(comments)
	assert.Equal(t, uint(1), comments[0].ID)
	assert.Equal(t, uint(2), comments[1].ID)
}

func TestSortForRestore_StableWithinGroups(t *testing.T) {
	comments := []commentBackup{
		{ID: 10, ParentID: uintPtr(1)},
		{ID: 1},
		{ID: 11, ParentID: uintPtr(2)},
		{ID: 2},
		{ID: 12, ParentID: uintPtr(1)},
	}
	sortForRestore(comments)

	// Parentless first, both groups keeping their input order.
	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []uint{1, 2, 10, 11, 12}, ids)
}

func TestSortForRestore_Empty(t *testing.T) {
	var comments []commentBackup
	sortForRestore(comments)
	assert.Empty(t, comments)
}

func TestBackupRoundTrip(t *testing.T) {
	src := model.Comment{
		ID:                7,
		TenantID:          3,
		ResourceType:      "post",
		ResourceID:        42,
		Content:           "hello",
		GuestName:         "visitor",
		GuestPasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		ParentID:          uintPtr(1),
		Status:            model.CommentStatusApproved,
		IsDeleted:         true,
		IPHash:            "deadbeef",
	}

	backup := toBackup(&src)
	restored := fromBackup(&backup, 9)

	// Tenant is always taken from the resolved tenant, not the dump.
	assert.Equal(t, uint(9), restored.TenantID)

	restored.TenantID = src.TenantID
	assert.Equal(t, src, restored)
}
