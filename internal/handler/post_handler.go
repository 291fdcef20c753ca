package handler

import (
	"net/http"
	"strings"

	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/middleware"
	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/model"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/cache"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/database"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/httperr"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/logger"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/markdown"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/slugify"
	"github.com/JaeHeong/jaehyeong-tech-sub000/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Cache keys for the hot public list variants.
const (
	cacheKeyFeaturedPosts = "posts:featured"
	cacheKeyTopPosts      = "posts:top-viewed"
)

// PostRequest defines the structure for post creation/update requests
type PostRequest struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Summary    string `json:"summary"`
	Content    string `json:"content"`
	Status     string `json:"status"`
	Featured   bool   `json:"featured"`
	CoverImage string `json:"cover_image"`
	CategoryID *uint  `json:"category_id"`
	TagIDs     []uint `json:"tag_ids"`
}

type postListResponse struct {
	Data []model.Post `json:"data"`
	Meta PageMeta     `json:"meta"`
}

// isAdmin reports whether the request carries admin claims.
func isAdmin(c echo.Context) bool {
	claims := middleware.ClaimsFromContext(c)
	return claims != nil && claims.Role == model.RoleAdmin
}

// buildPostListQuery applies the public/admin visibility rules plus the
// category/tag/search/status/featured filters to a base query. Public
// callers only ever see PUBLIC posts, regardless of the status param.
func buildPostListQuery(db *gorm.DB, admin bool, status, category, tag, search, featured string) *gorm.DB {
	query := db.Model(&model.Post{})

	if admin {
		if status != "" && model.ValidPostStatus(status) {
			query = query.Where("posts.status = ?", status)
		}
	} else {
		query = query.Where("posts.status = ?", model.PostStatusPublic)
	}

	if category != "" {
		query = query.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("categories.slug = ?", category)
	}
	if tag != "" {
		query = query.Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", tag)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("posts.title ILIKE ? OR posts.summary ILIKE ? OR posts.content ILIKE ?", like, like, like)
	}
	if featured == "true" {
		query = query.Where("posts.featured = ?", true)
	}

	return query
}

// postSortClause maps the sortBy param to an ORDER BY clause.
func postSortClause(sortBy string) string {
	switch sortBy {
	case "views":
		return "posts.view_count DESC, posts.created_at DESC"
	case "oldest":
		return "posts.created_at ASC"
	default:
		return "posts.created_at DESC"
	}
}

// ListPosts handles the paginated public/admin post listing
func ListPosts(c echo.Context) error {
	log := logger.FromContext(c)
	page, limit, offset := pageParams(c)

	admin := isAdmin(c)
	category := c.QueryParam("category")
	tag := c.QueryParam("tag")
	search := c.QueryParam("search")
	status := c.QueryParam("status")
	sortBy := c.QueryParam("sortBy")
	featured := c.QueryParam("featured")

	// Hot anonymous variants (featured strip, top-viewed widget) are served
	// from the short-TTL cache when available. Never used for admins.
	cacheKey := ""
	if !admin && search == "" && category == "" && tag == "" && page == 1 && cache.Enabled() {
		if featured == "true" {
			cacheKey = cacheKeyFeaturedPosts
		} else if sortBy == "views" {
			cacheKey = cacheKeyTopPosts
		}
		if cacheKey != "" {
			var cached postListResponse
			if cache.GetJSON(c.Request().Context(), cacheKey, &cached) {
				return c.JSON(http.StatusOK, cached)
			}
		}
	}

	query := buildPostListQuery(database.GetDB(), admin, status, category, tag, search, featured)

	var total int64
	if result := query.Count(&total); result.Error != nil {
		log.Error("Failed to count posts", zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	var posts []model.Post
	result := query.
		Preload("Category").
		Preload("Tags").
		Preload("Author").
		Order(postSortClause(sortBy)).
		Limit(limit).
		Offset(offset).
		Find(&posts)
	if result.Error != nil {
		log.Error("Failed to list posts", zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	response := postListResponse{Data: posts, Meta: newPageMeta(total, page, limit)}
	if cacheKey != "" {
		cache.SetJSON(c.Request().Context(), cacheKey, response)
	}

	return c.JSON(http.StatusOK, response)
}

// GetPostBySlug handles public post detail lookup by slug
func GetPostBySlug(c echo.Context) error {
	log := logger.FromContext(c)
	slug := c.Param("slug")

	var post model.Post
	result := database.GetDB().
		Preload("Category").
		Preload("Tags").
		Preload("Author").
		Where("slug = ?", slug).
		First(&post)
	if result.Error != nil {
		return httperr.NotFound("post")
	}

	// Non-public posts are invisible to non-admins, indistinguishable from
	// missing ones.
	if post.Status != model.PostStatusPublic && !isAdmin(c) {
		return httperr.NotFound("post")
	}

	if post.Status == model.PostStatusPublic {
		if err := database.GetDB().Model(&post).
			UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
			log.Warn("Failed to bump view count", zap.String("slug", slug), zap.Error(err))
		} else {
			post.ViewCount++
		}
		prometheus.RecordPostView(post.Slug)
	}

	return c.JSON(http.StatusOK, echo.Map{"data": post})
}

// CreatePost handles creating a new post (admin)
func CreatePost(c echo.Context) error {
	log := logger.FromContext(c)
	claims := middleware.ClaimsFromContext(c)

	var req PostRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return httperr.Validation("title is required")
	}
	if req.Status == "" {
		req.Status = model.PostStatusDraft
	}
	if !model.ValidPostStatus(req.Status) {
		return httperr.Validation("status must be one of DRAFT, PUBLIC, PRIVATE")
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify.From(req.Title)
	}
	if slug == "" {
		return httperr.Validation("a slug could not be derived from the title")
	}

	var count int64
	database.GetDB().Model(&model.Post{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		return httperr.Validation("a post with this slug already exists")
	}

	post := model.Post{
		Title:        req.Title,
		Slug:         slug,
		Summary:      req.Summary,
		Content:      req.Content,
		RenderedHTML: markdown.Render(req.Content),
		Status:       req.Status,
		Featured:     req.Featured,
		CoverImage:   req.CoverImage,
		CategoryID:   req.CategoryID,
		AuthorID:     claims.UserID,
	}

	if err := attachTags(&post, req.TagIDs); err != nil {
		return err
	}

	if result := database.GetDB().Create(&post); result.Error != nil {
		log.Error("Failed to create post", zap.String("slug", slug), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	prometheus.RecordPostOperation("create")
	invalidatePostCaches(c)
	log.Info("Post created", zap.Uint("post_id", post.ID), zap.String("slug", post.Slug))
	return c.JSON(http.StatusCreated, echo.Map{"data": post})
}

// UpdatePost handles updating an existing post (admin)
func UpdatePost(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var post model.Post
	if result := database.GetDB().Preload("Tags").First(&post, id); result.Error != nil {
		return httperr.NotFound("post")
	}

	var req PostRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return httperr.Validation("title is required")
	}
	if req.Status != "" && !model.ValidPostStatus(req.Status) {
		return httperr.Validation("status must be one of DRAFT, PUBLIC, PRIVATE")
	}

	slug := req.Slug
	if slug == "" {
		slug = post.Slug
	}
	if slug != post.Slug {
		var count int64
		database.GetDB().Model(&model.Post{}).Where("slug = ? AND id != ?", slug, post.ID).Count(&count)
		if count > 0 {
			return httperr.Validation("a post with this slug already exists")
		}
	}

	post.Title = req.Title
	post.Slug = slug
	post.Summary = req.Summary
	post.Content = req.Content
	post.RenderedHTML = markdown.Render(req.Content)
	if req.Status != "" {
		post.Status = req.Status
	}
	post.Featured = req.Featured
	post.CoverImage = req.CoverImage
	post.CategoryID = req.CategoryID

	if result := database.GetDB().Save(&post); result.Error != nil {
		log.Error("Failed to update post", zap.Uint("post_id", post.ID), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	if req.TagIDs != nil {
		var tags []model.Tag
		if len(req.TagIDs) > 0 {
			if result := database.GetDB().Find(&tags, req.TagIDs); result.Error != nil {
				return httperr.Internal(result.Error)
			}
			if len(tags) != len(req.TagIDs) {
				return httperr.Validation("one or more tag ids do not exist")
			}
		}
		if err := database.GetDB().Model(&post).Association("Tags").Replace(tags); err != nil {
			log.Error("Failed to replace post tags", zap.Uint("post_id", post.ID), zap.Error(err))
			return httperr.Internal(err)
		}
		post.Tags = tags
	}

	prometheus.RecordPostOperation("update")
	invalidatePostCaches(c)
	log.Info("Post updated", zap.Uint("post_id", post.ID), zap.String("slug", post.Slug))
	return c.JSON(http.StatusOK, echo.Map{"data": post})
}

// DeletePost handles deleting a post (admin)
func DeletePost(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	result := database.GetDB().Delete(&model.Post{}, id)
	if result.Error != nil {
		log.Error("Failed to delete post", zap.String("post_id", id), zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return httperr.NotFound("post")
	}

	prometheus.RecordPostOperation("delete")
	invalidatePostCaches(c)
	log.Info("Post deleted", zap.String("post_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "post deleted"})
}

// attachTags resolves TagIDs and sets them on a new post. All ids must
// exist.
func attachTags(post *model.Post, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	var tags []model.Tag
	if result := database.GetDB().Find(&tags, tagIDs); result.Error != nil {
		return httperr.Internal(result.Error)
	}
	if len(tags) != len(tagIDs) {
		return httperr.Validation("one or more tag ids do not exist")
	}
	post.Tags = tags
	return nil
}

func invalidatePostCaches(c echo.Context) {
	cache.Invalidate(c.Request().Context(), cacheKeyFeaturedPosts, cacheKeyTopPosts)
}
