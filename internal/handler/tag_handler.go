package handler

import (
	"net/http"
	"strings"

	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/model"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/database"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/httperr"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/logger"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/slugify"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TagRequest defines the structure for tag creation/update requests
type TagRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// fillTagPostCounts computes the published-post aggregate for each tag in
// one grouped query over the join table.
func fillTagPostCounts(tags []model.Tag) error {
	if len(tags) == 0 {
		return nil
	}

	type row struct {
		TagID uint
		Count int64
	}
	var rows []row
	result := database.GetDB().Table("post_tags").
		Select("post_tags.tag_id, COUNT(*) as count").
		Joins("JOIN posts ON posts.id = post_tags.post_id").
		Where("posts.status = ? AND posts.deleted_at IS NULL", model.PostStatusPublic).
		Group("post_tags.tag_id").
		Scan(&rows)
	if result.Error != nil {
		return result.Error
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.TagID] = r.Count
	}
	for i := range tags {
		tags[i].PostCount = counts[tags[i].ID]
	}
	return nil
}

// ListTags handles retrieving all tags with post counts
func ListTags(c echo.Context) error {
	log := logger.FromContext(c)

	var tags []model.Tag
	if result := database.GetDB().Order("name ASC").Find(&tags); result.Error != nil {
		log.Error("Failed to list tags", zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	if err := fillTagPostCounts(tags); err != nil {
		log.Error("Failed to compute tag post counts", zap.Error(err))
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"data": tags})
}

// GetTagBySlug handles public tag lookup by slug
func GetTagBySlug(c echo.Context) error {
	slug := c.Param("slug")

	var tag model.Tag
	if result := database.GetDB().Where("slug = ?", slug).First(&tag); result.Error != nil {
		return httperr.NotFound("tag")
	}

	tags := []model.Tag{tag}
	if err := fillTagPostCounts(tags); err == nil {
		tag = tags[0]
	}

	return c.JSON(http.StatusOK, echo.Map{"data": tag})
}

// CreateTag handles creating a new tag (admin)
func CreateTag(c echo.Context) error {
	log := logger.FromContext(c)

	var req TagRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return httperr.Validation("name is required")
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify.From(req.Name)
	}

	var count int64
	database.GetDB().Model(&model.Tag{}).
		Where("name = ? OR slug = ?", req.Name, slug).Count(&count)
	if count > 0 {
		return httperr.Validation("a tag with this name or slug already exists")
	}

	tag := model.Tag{Name: req.Name, Slug: slug}
	if result := database.GetDB().Create(&tag); result.Error != nil {
		log.Error("Failed to create tag", zap.String("name", req.Name), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	log.Info("Tag created", zap.Uint("tag_id", tag.ID), zap.String("slug", tag.Slug))
	return c.JSON(http.StatusCreated, echo.Map{"data": tag})
}

// UpdateTag handles updating an existing tag (admin)
func UpdateTag(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var tag model.Tag
	if result := database.GetDB().First(&tag, id); result.Error != nil {
		return httperr.NotFound("tag")
	}

	var req TagRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return httperr.Validation("name is required")
	}

	slug := req.Slug
	if slug == "" {
		slug = tag.Slug
	}

	var count int64
	database.GetDB().Model(&model.Tag{}).
		Where("(name = ? OR slug = ?) AND id != ?", req.Name, slug, tag.ID).Count(&count)
	if count > 0 {
		return httperr.Validation("a tag with this name or slug already exists")
	}

	tag.Name = req.Name
	tag.Slug = slug

	if result := database.GetDB().Save(&tag); result.Error != nil {
		log.Error("Failed to update tag", zap.Uint("tag_id", tag.ID), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	log.Info("Tag updated", zap.Uint("tag_id", tag.ID))
	return c.JSON(http.StatusOK, echo.Map{"data": tag})
}

// DeleteTag handles deleting a tag (admin). The join rows go with it.
func DeleteTag(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var tag model.Tag
	if result := database.GetDB().First(&tag, id); result.Error != nil {
		return httperr.NotFound("tag")
	}

	if err := database.GetDB().Exec("DELETE FROM post_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
		log.Error("Failed to clear tag associations", zap.Uint("tag_id", tag.ID), zap.Error(err))
		return httperr.Internal(err)
	}

	if result := database.GetDB().Delete(&tag); result.Error != nil {
		log.Error("Failed to delete tag", zap.Uint("tag_id", tag.ID), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	log.Info("Tag deleted", zap.Uint("tag_id", tag.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "tag deleted"})
}
