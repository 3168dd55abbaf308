package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kbboard/backend/models"
	"github.com/kbboard/backend/utils"
)

// StatsController provides aggregate statistics for the dashboard.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

type topArticle struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	ViewCount int    `json:"view_count"`
	Category  string `json:"category"`
}

type latestNotice struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// GetStats returns entity totals, the five most viewed articles, and the
// five most recently created notices.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var totalNotices, totalArticles, totalCategories, totalComments int64

	if err := s.db.Model(&models.Notice{}).Count(&totalNotices).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to count notices")
		return
	}
	if err := s.db.Model(&models.Article{}).Count(&totalArticles).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to count articles")
		return
	}
	if err := s.db.Model(&models.Category{}).Count(&totalCategories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to count categories")
		return
	}
	if err := s.db.Model(&models.Comment{}).Count(&totalComments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to count comments")
		return
	}

	var articles []models.Article
	if err := s.db.Preload("Category").
		Order("view_count DESC").
		Limit(5).
		Find(&articles).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load top articles")
		return
	}
	topArticles := make([]topArticle, 0, len(articles))
	for _, a := range articles {
		topArticles = append(topArticles, topArticle{
			ID:        a.ID,
			Title:     a.Title,
			ViewCount: a.ViewCount,
			Category:  a.Category.Name,
		})
	}

	var notices []models.Notice
	if err := s.db.Order("created_at DESC").Limit(5).Find(&notices).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load latest notices")
		return
	}
	latestNotices := make([]latestNotice, 0, len(notices))
	for _, n := range notices {
		latestNotices = append(latestNotices, latestNotice{
			ID:        n.ID,
			Title:     n.Title,
			Priority:  n.Priority,
			CreatedAt: n.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"total_notices":    totalNotices,
		"total_articles":   totalArticles,
		"total_categories": totalCategories,
		"total_comments":   totalComments,
		"top_articles":     topArticles,
		"latest_notices":   latestNotices,
	})
}
