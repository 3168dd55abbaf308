package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kbboard/backend/middleware"
	"github.com/kbboard/backend/models"
	"github.com/kbboard/backend/utils"
)

// CategoryController manages CRUD operations for article categories.
// Writes are restricted to staff users.
type CategoryController struct {
	db *gorm.DB
}

// NewCategoryController creates a new CategoryController instance.
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

// List returns all categories.
func (c *CategoryController) List(ctx *gin.Context) {
	var categories []models.Category
	if err := c.db.Find(&categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to list categories")
		return
	}
	ctx.JSON(http.StatusOK, categories)
}

// Get returns a single category.
func (c *CategoryController) Get(ctx *gin.Context) {
	var category models.Category
	if err := c.db.First(&category, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load category")
		return
	}
	ctx.JSON(http.StatusOK, category)
}

// Create stores a new category. Staff only.
func (c *CategoryController) Create(ctx *gin.Context) {
	if !middleware.AdminOrReadOnly(ctx) {
		utils.Error(ctx, http.StatusForbidden, "admin privileges required")
		return
	}

	var req struct {
		Name        string `json:"name" form:"name"`
		Description string `json:"description" form:"description"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, "name cannot be empty")
		return
	}

	category := models.Category{Name: name, Description: req.Description}
	if err := c.db.Create(&category).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to create category")
		return
	}
	ctx.JSON(http.StatusCreated, category)
}

// Update applies provided fields to the category. Staff only.
func (c *CategoryController) Update(ctx *gin.Context) {
	if !middleware.AdminOrReadOnly(ctx) {
		utils.Error(ctx, http.StatusForbidden, "admin privileges required")
		return
	}

	var category models.Category
	if err := c.db.First(&category, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load category")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			utils.Error(ctx, http.StatusBadRequest, "name cannot be empty")
			return
		}
		category.Name = name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := c.db.Save(&category).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to update category")
		return
	}
	ctx.JSON(http.StatusOK, category)
}

// Delete removes the category and cascades in one transaction: comments and
// attachments of its articles first, then the articles, then the category.
func (c *CategoryController) Delete(ctx *gin.Context) {
	if !middleware.AdminOrReadOnly(ctx) {
		utils.Error(ctx, http.StatusForbidden, "admin privileges required")
		return
	}

	var category models.Category
	if err := c.db.First(&category, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load category")
		return
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		var articleIDs []uint
		if err := tx.Model(&models.Article{}).
			Where("category_id = ?", category.ID).
			Pluck("id", &articleIDs).Error; err != nil {
			return err
		}
		if len(articleIDs) > 0 {
			if err := tx.Where("article_id IN ?", articleIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("article_id IN ?", articleIDs).Delete(&models.ArticleAttachment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", articleIDs).Delete(&models.Article{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete category")
		return
	}

	ctx.Status(http.StatusNoContent)
}
