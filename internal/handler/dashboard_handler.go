package handler

import (
	"net/http"
	"time"

	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/model"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/database"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/httperr"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/logger"
	"github.com/JaeHeong/jaehyeong-tech-sub000/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DashboardStats handles the admin dashboard aggregates: post counts by
// status, total views, category/tag/page counts.
func DashboardStats(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("dashboard_stats")(time.Now())

	db := database.GetDB()

	type statusCount struct {
		Status string
		Count  int64
	}
	var byStatus []statusCount
	if result := db.Model(&model.Post{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus); result.Error != nil {
		log.Error("Failed to aggregate post statuses", zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	posts := echo.Map{"total": int64(0)}
	var totalPosts int64
	for _, sc := range byStatus {
		posts[sc.Status] = sc.Count
		totalPosts += sc.Count
	}
	posts["total"] = totalPosts

	var totalViews int64
	db.Model(&model.Post{}).Select("COALESCE(SUM(view_count), 0)").Scan(&totalViews)

	var categories, tags, pages int64
	db.Model(&model.Category{}).Count(&categories)
	db.Model(&model.Tag{}).Count(&tags)
	db.Model(&model.Page{}).Count(&pages)

	return c.JSON(http.StatusOK, echo.Map{
		"data": echo.Map{
			"posts":      posts,
			"totalViews": totalViews,
			"categories": categories,
			"tags":       tags,
			"pages":      pages,
		},
	})
}
