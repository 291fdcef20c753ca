package handler

import (
	"encoding/json"
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

// PageRequest defines the structure for page creation/update requests.
// Template is a JSON document of named sections consumed by the SPA.
type PageRequest struct {
	Title    string          `json:"title"`
	Slug     string          `json:"slug"`
	Template json.RawMessage `json:"template"`
	Status   string          `json:"status"`
}

// validateTemplate checks that the template payload is a JSON object.
func validateTemplate(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "{}", nil
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", httperr.Validation("template must be a JSON object")
	}
	return string(raw), nil
}

// ListPages handles the page listing. Public callers only see PUBLISHED
// pages; admins see everything.
func ListPages(c echo.Context) error {
	log := logger.FromContext(c)
	page, limit, offset := pageParams(c)

	query := database.GetDB().Model(&model.Page{})
	if !isAdmin(c) {
		query = query.Where("status = ?", model.PageStatusPublished)
	}

	var total int64
	if result := query.Count(&total); result.Error != nil {
		log.Error("Failed to count pages", zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	var pages []model.Page
	result := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&pages)
	if result.Error != nil {
		log.Error("Failed to list pages", zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": pages,
		"meta": newPageMeta(total, page, limit),
	})
}

// GetPageBySlug handles public page lookup by slug
func GetPageBySlug(c echo.Context) error {
	slug := c.Param("slug")

	var pg model.Page
	if result := database.GetDB().Where("slug = ?", slug).First(&pg); result.Error != nil {
		return httperr.NotFound("page")
	}

	if pg.Status != model.PageStatusPublished && !isAdmin(c) {
		return httperr.NotFound("page")
	}

	return c.JSON(http.StatusOK, echo.Map{"data": pg})
}

// CreatePage handles creating a new page (admin)
func CreatePage(c echo.Context) error {
	log := logger.FromContext(c)

	var req PageRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return httperr.Validation("title is required")
	}
	if req.Status == "" {
		req.Status = model.PageStatusDraft
	}
	if !model.ValidPageStatus(req.Status) {
		return httperr.Validation("status must be one of DRAFT, PUBLISHED")
	}

	template, err := validateTemplate(req.Template)
	if err != nil {
		return err
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify.From(req.Title)
	}

	var count int64
	database.GetDB().Model(&model.Page{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		return httperr.Validation("a page with this slug already exists")
	}

	pg := model.Page{
		Title:    req.Title,
		Slug:     slug,
		Template: template,
		Status:   req.Status,
	}
	if result := database.GetDB().Create(&pg); result.Error != nil {
		log.Error("Failed to create page", zap.String("slug", slug), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	log.Info("Page created", zap.Uint("page_id", pg.ID), zap.String("slug", pg.Slug))
	return c.JSON(http.StatusCreated, echo.Map{"data": pg})
}

// UpdatePage handles updating an existing page (admin)
func UpdatePage(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var pg model.Page
	if result := database.GetDB().First(&pg, id); result.Error != nil {
		return httperr.NotFound("page")
	}

	var req PageRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return httperr.Validation("title is required")
	}
	if req.Status != "" && !model.ValidPageStatus(req.Status) {
		return httperr.Validation("status must be one of DRAFT, PUBLISHED")
	}

	if req.Template != nil {
		template, err := validateTemplate(req.Template)
		if err != nil {
			return err
		}
		pg.Template = template
	}

	slug := req.Slug
	if slug == "" {
		slug = pg.Slug
	}
	if slug != pg.Slug {
		var count int64
		database.GetDB().Model(&model.Page{}).Where("slug = ? AND id != ?", slug, pg.ID).Count(&count)
		if count > 0 {
			return httperr.Validation("a page with this slug already exists")
		}
	}

	pg.Title = req.Title
	pg.Slug = slug
	if req.Status != "" {
		pg.Status = req.Status
	}

	if result := database.GetDB().Save(&pg); result.Error != nil {
		log.Error("Failed to update page", zap.Uint("page_id", pg.ID), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	log.Info("Page updated", zap.Uint("page_id", pg.ID))
	return c.JSON(http.StatusOK, echo.Map{"data": pg})
}

// DeletePage handles deleting a page (admin)
func DeletePage(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	result := database.GetDB().Delete(&model.Page{}, id)
	if result.Error != nil {
		log.Error("Failed to delete page", zap.String("page_id", id), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return httperr.NotFound("page")
	}

	log.Info("Page deleted", zap.String("page_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "page deleted"})
}
