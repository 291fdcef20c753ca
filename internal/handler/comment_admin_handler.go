package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/middleware"
	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/model"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/database"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/httperr"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/logger"
	"github.com/JaeHeong/jaehyeong-tech-sub000/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminListComments handles the paginated moderation listing
func AdminListComments(c echo.Context) error {
	log := logger.FromContext(c)
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httperr.Internal(nil)
	}

	page, limit, offset := pageParams(c)

	query := database.GetDB().Model(&model.Comment{}).Where("tenant_id = ?", tenant.ID)

	includeDeleted, _ := strconv.ParseBool(c.QueryParam("includeDeleted"))
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if status := c.QueryParam("status"); status != "" {
		if !model.ValidCommentStatus(status) {
			return httperr.Validation("unknown comment status")
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if result := query.Count(&total); result.Error != nil {
		log.Error("Failed to count comments", zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	var comments []model.Comment
	result := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&comments)
	if result.Error != nil {
		log.Error("Failed to list comments for moderation", zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": comments,
		"meta": newPageMeta(total, page, limit),
	})
}

// AdminUpdateCommentStatus handles moderation state changes
func AdminUpdateCommentStatus(c echo.Context) error {
	log := logger.FromContext(c)
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httperr.Internal(nil)
	}

	comment, err := loadTenantComment(c, tenant)
	if err != nil {
		return err
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	if !model.ValidCommentStatus(req.Status) {
		return httperr.Validation("status must be one of PENDING, APPROVED, REJECTED, SPAM")
	}

	comment.Status = req.Status
	if result := database.GetDB().Save(comment); result.Error != nil {
		log.Error("Failed to update comment status", zap.Uint("comment_id", comment.ID), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	prometheus.RecordCommentOperation("moderate")
	log.Info("Comment moderated",
		zap.Uint("comment_id", comment.ID),
		zap.String("status", comment.Status))
	return c.JSON(http.StatusOK, echo.Map{"data": comment})
}

// collectDescendantIDs walks the reply tree breadth-first and returns the
// ids of every comment under roots (roots excluded). Iterative frontier
// queries; comment trees are shallow in practice.
func collectDescendantIDs(db *gorm.DB, tenantID uint, roots []uint) ([]uint, error) {
	var all []uint
	frontier := roots
	for len(frontier) > 0 {
		var next []uint
		result := db.Model(&model.Comment{}).
			Where("tenant_id = ? AND parent_id IN ?", tenantID, frontier).
			Pluck("id", &next)
		if result.Error != nil {
			return nil, result.Error
		}
		all = append(all, next...)
		frontier = next
	}
	return all, nil
}

// hardDeleteComments removes the given comments and every descendant in
// one operation so no reply is left with a dangling parent.
func hardDeleteComments(tenantID uint, ids []uint) (int64, error) {
	db := database.GetDB()

	descendants, err := collectDescendantIDs(db, tenantID, ids)
	if err != nil {
		return 0, err
	}
	ids = append(ids, descendants...)

	defer prometheus.TrackDBOperation("hard_delete")(time.Now())
	result := db.Where("tenant_id = ? AND id IN ?", tenantID, ids).Delete(&model.Comment{})
	return result.RowsAffected, result.Error
}

// AdminDeleteComment handles hard deletion with descendant cascade
func AdminDeleteComment(c echo.Context) error {
	log := logger.FromContext(c)
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httperr.Internal(nil)
	}

	comment, err := loadTenantComment(c, tenant)
	if err != nil {
		return err
	}

	deleted, derr := hardDeleteComments(tenant.ID, []uint{comment.ID})
	if derr != nil {
		log.Error("Failed to hard-delete comment", zap.Uint("comment_id", comment.ID), zap.Error(derr))
		return httperr.Internal(derr)
	}

	prometheus.RecordCommentOperation("hard_delete")
	log.Info("Comment hard-deleted",
		zap.Uint("comment_id", comment.ID),
		zap.Int64("rows_deleted", deleted))
	return c.JSON(http.StatusOK, echo.Map{"message": "comment deleted", "deleted": deleted})
}

// AdminBulkDeleteComments handles bulk hard deletion with cascade
func AdminBulkDeleteComments(c echo.Context) error {
	log := logger.FromContext(c)
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		return httperr.Internal(nil)
	}

	var req struct {
		IDs []uint `json:"ids"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}
	if len(req.IDs) == 0 {
		return httperr.Validation("ids must not be empty")
	}

	deleted, err := hardDeleteComments(tenant.ID, req.IDs)
	if err != nil {
		log.Error("Failed to bulk-delete comments", zap.Error(err))
		return httperr.Internal(err)
	}

	prometheus.RecordCommentOperation("bulk_delete")
	log.Info("Comments bulk-deleted",
		zap.Int("requested", len(req.IDs)),
		zap.Int64("rows_deleted", deleted))
	return c.JSON(http.StatusOK, echo.Map{"message": "comments deleted", "deleted": deleted})
}
