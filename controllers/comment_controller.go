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

// CommentController manages CRUD operations for article comments.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

// List returns comments newest first, optionally limited to one article.
func (c *CommentController) List(ctx *gin.Context) {
	query := c.db.Preload("Author").Order("created_at DESC")
	if articleID := strings.TrimSpace(ctx.Query("article_id")); articleID != "" {
		query = query.Where("article_id = ?", articleID)
	}

	var comments []models.Comment
	if err := query.Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to list comments")
		return
	}
	ctx.JSON(http.StatusOK, comments)
}

// Get returns a single comment.
func (c *CommentController) Get(ctx *gin.Context) {
	var comment models.Comment
	if err := c.db.Preload("Author").First(&comment, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load comment")
		return
	}
	ctx.JSON(http.StatusOK, comment)
}

// Create stores a new comment on an article.
func (c *CommentController) Create(ctx *gin.Context) {
	var req struct {
		ArticleID uint   `json:"article_id" form:"article_id"`
		AuthorID  uint   `json:"author_id" form:"author_id"`
		Content   string `json:"content" form:"content"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	content := utils.Sanitize(req.Content)
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, "content cannot be empty")
		return
	}

	var article models.Article
	if err := c.db.First(&article, req.ArticleID).Error; err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid article_id")
		return
	}

	authorID := req.AuthorID
	if authorID == 0 {
		uid, ok := middleware.UserID(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
			return
		}
		authorID = uid
	}

	comment := models.Comment{
		ArticleID: article.ID,
		AuthorID:  authorID,
		Content:   content,
	}
	if err := c.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to create comment")
		return
	}

	if err := c.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load comment")
		return
	}
	ctx.JSON(http.StatusCreated, comment)
}

// Update rewrites the comment content. Only the author may write.
func (c *CommentController) Update(ctx *gin.Context) {
	var comment models.Comment
	if err := c.db.First(&comment, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load comment")
		return
	}

	if !middleware.AuthorOrReadOnly(ctx, comment.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, "you can only modify your own comments")
		return
	}

	var req struct {
		Content *string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.Content != nil {
		content := utils.Sanitize(*req.Content)
		if content == "" {
			utils.Error(ctx, http.StatusBadRequest, "content cannot be empty")
			return
		}
		comment.Content = content
	}

	if err := c.db.Save(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to update comment")
		return
	}

	if err := c.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load comment")
		return
	}
	ctx.JSON(http.StatusOK, comment)
}

// Delete removes the comment. Only the author may write.
func (c *CommentController) Delete(ctx *gin.Context) {
	var comment models.Comment
	if err := c.db.First(&comment, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load comment")
		return
	}

	if !middleware.AuthorOrReadOnly(ctx, comment.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, "you can only delete your own comments")
		return
	}

	if err := c.db.Delete(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete comment")
		return
	}
	ctx.Status(http.StatusNoContent)
}
