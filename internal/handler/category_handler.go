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

// CategoryRequest defines the structure for category creation/update requests
type CategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// fillCategoryPostCounts computes the published-post aggregate for each
// category in one grouped query.
func fillCategoryPostCounts(categories []model.Category) error {
	if len(categories) == 0 {
		return nil
	}

	type row struct {
		CategoryID uint
		Count      int64
	}
	var rows []row
	result := database.GetDB().Model(&model.Post{}).
		Select("category_id, COUNT(*) as count").
		Where("category_id IS NOT NULL AND status = ?", model.PostStatusPublic).
		Group("category_id").
		Scan(&rows)
	if result.Error != nil {
		return result.Error
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.Count
	}
	for i := range categories {
		categories[i].PostCount = counts[categories[i].ID]
	}
	return nil
}

// ListCategories handles retrieving all categories with post counts
func ListCategories(c echo.Context) error {
	log := logger.FromContext(c)

	var categories []model.Category
	if result := database.GetDB().Order("name ASC").Find(&categories); result.Error != nil {
		log.Error("Failed to list categories", zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	if err := fillCategoryPostCounts(categories); err != nil {
		log.Error("Failed to compute category post counts", zap.Error(err))
		return httperr.Internal(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"data": categories})
}

// GetCategoryBySlug handles public category lookup by slug
func GetCategoryBySlug(c echo.Context) error {
	slug := c.Param("slug")

	var category model.Category
	if result := database.GetDB().Where("slug = ?", slug).First(&category); result.Error != nil {
		return httperr.NotFound("category")
	}

	database.GetDB().Model(&model.Post{}).
		Where("category_id = ? AND status = ?", category.ID, model.PostStatusPublic).
		Count(&category.PostCount)

	return c.JSON(http.StatusOK, echo.Map{"data": category})
}

// CreateCategory handles creating a new category (admin)
func CreateCategory(c echo.Context) error {
	log := logger.FromContext(c)

	var req CategoryRequest
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
	database.GetDB().Model(&model.Category{}).
		Where("name = ? OR slug = ?", req.Name, slug).Count(&count)
	if count > 0 {
		return httperr.Validation("a category with this name or slug already exists")
	}

	category := model.Category{Name: req.Name, Slug: slug, Description: req.Description}
	if result := database.GetDB().Create(&category); result.Error != nil {
		log.Error("Failed to create category", zap.String("name", req.Name), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	log.Info("Category created", zap.Uint("category_id", category.ID), zap.String("slug", category.Slug))
	return c.JSON(http.StatusCreated, echo.Map{"data": category})
}

// UpdateCategory handles updating an existing category (admin)
func UpdateCategory(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var category model.Category
	if result := database.GetDB().First(&category, id); result.Error != nil {
		return httperr.NotFound("category")
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return httperr.Validation("name is required")
	}

	slug := req.Slug
	if slug == "" {
		slug = category.Slug
	}

	var count int64
	database.GetDB().Model(&model.Category{}).
		Where("(name = ? OR slug = ?) AND id != ?", req.Name, slug, category.ID).Count(&count)
	if count > 0 {
		return httperr.Validation("a category with this name or slug already exists")
	}

	category.Name = req.Name
	category.Slug = slug
	category.Description = req.Description

	if result := database.GetDB().Save(&category); result.Error != nil {
		log.Error("Failed to update category", zap.Uint("category_id", category.ID), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	log.Info("Category updated", zap.Uint("category_id", category.ID))
	return c.JSON(http.StatusOK, echo.Map{"data": category})
}

// DeleteCategory handles deleting a category (admin). Posts keep their
// rows; their category reference is cleared.
func DeleteCategory(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var category model.Category
	if result := database.GetDB().First(&category, id); result.Error != nil {
		return httperr.NotFound("category")
	}

	if err := database.GetDB().Model(&model.Post{}).
		Where("category_id = ?", category.ID).
		Update("category_id", nil).Error; err != nil {
		log.Error("Failed to detach posts from category", zap.Uint("category_id", category.ID), zap.Error(err))
		return httperr.Internal(err)
	}

	if result := database.GetDB().Delete(&category); result.Error != nil {
		log.Error("Failed to delete category", zap.Uint("category_id", category.ID), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	log.Info("Category deleted", zap.Uint("category_id", category.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "category deleted"})
}
