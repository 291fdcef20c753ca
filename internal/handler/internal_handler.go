package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/middleware"
	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/model"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/database"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/httperr"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/logger"
	"github.com/JaeHeong/jaehyeong-tech-sub000/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// commentBackup is the wire format for the internal export/restore
// surface. Unlike the public comment JSON it carries the guest password
// hash and IP hash, so a restore reproduces the row exactly. It never
// leaves the internal network.
type commentBackup struct {
	ID                uint      `json:"id"`
	TenantID          uint      `json:"tenant_id"`
	ResourceType      string    `json:"resource_type"`
	ResourceID        uint      `json:"resource_id"`
	Content           string    `json:"content"`
	AuthorID          *uint     `json:"author_id,omitempty"`
	GuestName         string    `json:"guest_name,omitempty"`
	GuestEmail        string    `json:"guest_email,omitempty"`
	GuestPasswordHash string    `json:"guest_password_hash,omitempty"`
	ParentID          *uint     `json:"parent_id,omitempty"`
	Status            string    `json:"status"`
	IsPrivate         bool      `json:"is_private"`
	IsDeleted         bool      `json:"is_deleted"`
	IPHash            string    `json:"ip_hash,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toBackup(c *model.Comment) commentBackup {
	return commentBackup{
		ID:                c.ID,
		TenantID:          c.TenantID,
		ResourceType:      c.ResourceType,
		ResourceID:        c.ResourceID,
		Content:           c.Content,
		AuthorID:          c.AuthorID,
		GuestName:         c.GuestName,
		GuestEmail:        c.GuestEmail,
		GuestPasswordHash: c.GuestPasswordHash,
		ParentID:          c.ParentID,
		Status:            c.Status,
		IsPrivate:         c.IsPrivate,
		IsDeleted:         c.IsDeleted,
		IPHash:            c.IPHash,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func fromBackup(b *commentBackup, tenantID uint) model.Comment {
	return model.Comment{
		ID:                b.ID,
		TenantID:          tenantID,
		ResourceType:      b.ResourceType,
		ResourceID:        b.ResourceID,
		Content:           b.Content,
		AuthorID:          b.AuthorID,
		GuestName:         b.GuestName,
		GuestEmail:        b.GuestEmail,
		GuestPasswordHash: b.GuestPasswordHash,
		ParentID:          b.ParentID,
		Status:            b.Status,
		IsPrivate:         b.IsPrivate,
		IsDeleted:         b.IsDeleted,
		IPHash:            b.IPHash,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// sortForRestore orders a comment dump so that comments without a parent
// are inserted before comments with one. The sort is stable: relative
// order within each group follows the input. Nothing stronger is needed —
// parent references are plain indexed columns, so a child inserted before
// a deeper ancestor chain resolves as soon as all rows are in.
func sortForRestore(comments []commentBackup) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].ParentID == nil && comments[j].ParentID != nil
	})
}

// ExportComments dumps every comment for the resolved tenant, newest
// first. No pagination: this is a whole-tenant snapshot for disaster
// recovery between service instances.
func ExportComments(c echo.Context) error {
	log := logger.FromContext(c)
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httperr.Internal(nil)
	}

	defer prometheus.TrackDBOperation("export")(time.Now())

	var comments []model.Comment
	result := database.GetDB().
		Where("tenant_id = ?", tenant.ID).
		Order("created_at DESC").
		Find(&comments)
	if result.Error != nil {
		log.Error("Failed to export comments", zap.Uint("tenant_id", tenant.ID), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	backups := make([]commentBackup, 0, len(comments))
	for i := range comments {
		backups = append(backups, toBackup(&comments[i]))
	}

	log.Info("Comments exported",
		zap.Uint("tenant_id", tenant.ID),
		zap.Int("count", len(backups)))
	return c.JSON(http.StatusOK, echo.Map{
		"tenant":     tenant.Slug,
		"count":      len(backups),
		"exportedAt": time.Now().UTC(),
		"comments":   backups,
	})
}

// RestoreRequest is the payload for a whole-tenant comment restore.
type RestoreRequest struct {
	Comments []commentBackup `json:"comments"`
}

// RestoreComments wipes the tenant's comments and re-inserts the provided
// dump, parents before children.
//
// Each insert is attempted independently: a failure is counted as skipped
// and the remaining rows are still restored. There is deliberately no
// enclosing transaction — a partial restore is preferred over total
// failure, and callers must inspect the skipped counter.
func RestoreComments(c echo.Context) error {
	log := logger.FromContext(c)
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httperr.Internal(nil)
	}

	var req RestoreRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	db := database.GetDB()

	// Wipe whatever the tenant currently has, recording the count.
	wipe := db.Where("tenant_id = ?", tenant.ID).Delete(&model.Comment{})
	if wipe.Error != nil {
		log.Error("Failed to wipe tenant comments before restore",
			zap.Uint("tenant_id", tenant.ID), zap.Error(wipe.Error))
		return httperr.Internal(wipe.Error)
	}
	deleted := wipe.RowsAffected

	sortForRestore(req.Comments)

	var restored, skipped int64
	for i := range req.Comments {
		comment := fromBackup(&req.Comments[i], tenant.ID)

		if result := db.Create(&comment); result.Error != nil {
			skipped++
			prometheus.RecordRestoreItem("skipped")
			log.Warn("Skipped comment during restore",
				zap.Uint("comment_id", comment.ID),
				zap.Error(result.Error))
			continue
		}
		restored++
		prometheus.RecordRestoreItem("restored")
	}

	log.Info("Comments restored",
		zap.Uint("tenant_id", tenant.ID),
		zap.Int64("deleted", deleted),
		zap.Int64("restored", restored),
		zap.Int64("skipped", skipped))

	return c.JSON(http.StatusOK, echo.Map{
		"results": echo.Map{
			"comments": echo.Map{
				"deleted":  deleted,
				"restored": restored,
				"skipped":  skipped,
			},
		},
	})
}
