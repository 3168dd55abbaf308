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

const articleAttachmentDir = "article_attachments"

// ArticleController manages CRUD operations for knowledge-base articles.
type ArticleController struct {
	db *gorm.DB
}

// NewArticleController creates a new ArticleController instance.
func NewArticleController(db *gorm.DB) *ArticleController {
	return &ArticleController{db: db}
}

func (a *ArticleController) preloaded() *gorm.DB {
	return a.db.
		Preload("Author").
		Preload("Category").
		Preload("Attachments").
		Preload("Comments").
		Preload("Comments.Author")
}

// List returns articles newest first, narrowed by the optional query filters.
// category_id and published compose conjunctively with the search OR-group.
func (a *ArticleController) List(ctx *gin.Context) {
	query := a.preloaded().Order("created_at DESC")

	if categoryID := strings.TrimSpace(ctx.Query("category_id")); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	if search := strings.TrimSpace(ctx.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"(LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(tags) LIKE ?)",
			like, like, like,
		)
	}

	if published := ctx.Query("published"); published != "" {
		query = query.Where("is_published = ?", strings.EqualFold(published, "true"))
	}

	var articles []models.Article
	if err := query.Find(&articles).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to list articles")
		return
	}

	ctx.JSON(http.StatusOK, articles)
}

// Get returns a single article. Every successful fetch bumps view_count by
// one through a store-side expression so concurrent retrievals never lose an
// increment; the row is re-read to return the post-increment value.
func (a *ArticleController) Get(ctx *gin.Context) {
	id := ctx.Param("id")

	res := a.db.Model(&models.Article{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to update view count")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, "Article not found")
		return
	}

	var article models.Article
	if err := a.preloaded().First(&article, "id = ?", id).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load article")
		return
	}

	ctx.JSON(http.StatusOK, article)
}

// Create stores a new article. The request may be JSON or multipart; with
// multipart, every file part becomes an attachment carrying the client
// filename. The parent persists even if a later attachment write fails.
func (a *ArticleController) Create(ctx *gin.Context) {
	var req struct {
		Title       string `json:"title" form:"title"`
		Content     string `json:"content" form:"content"`
		AuthorID    uint   `json:"author_id" form:"author_id"`
		CategoryID  uint   `json:"category_id" form:"category_id"`
		IsPublished *bool  `json:"is_published" form:"is_published"`
		Tags        string `json:"tags" form:"tags"`
	}
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, "title cannot be empty")
		return
	}
	content := utils.Sanitize(req.Content)
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, "content cannot be empty")
		return
	}
	if req.CategoryID == 0 {
		utils.Error(ctx, http.StatusBadRequest, "category_id is required")
		return
	}
	var category models.Category
	if err := a.db.First(&category, req.CategoryID).Error; err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid category_id")
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

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	article := models.Article{
		Title:       title,
		Content:     content,
		AuthorID:    authorID,
		CategoryID:  req.CategoryID,
		IsPublished: published,
		Tags:        req.Tags,
	}
	if err := a.db.Create(&article).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to create article")
		return
	}

	a.saveAttachments(ctx, article.ID)

	var created models.Article
	if err := a.preloaded().First(&created, article.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load article")
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// Update applies provided fields to the article. Only the author may write.
func (a *ArticleController) Update(ctx *gin.Context) {
	var article models.Article
	if err := a.db.First(&article, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load article")
		return
	}

	if !middleware.AuthorOrReadOnly(ctx, article.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, "you can only modify your own articles")
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Content     *string `json:"content"`
		CategoryID  *uint   `json:"category_id"`
		IsPublished *bool   `json:"is_published"`
		Tags        *string `json:"tags"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.Title != nil {
		title := utils.Sanitize(strings.TrimSpace(*req.Title))
		if title == "" {
			utils.Error(ctx, http.StatusBadRequest, "title cannot be empty")
			return
		}
		article.Title = title
	}
	if req.Content != nil {
		article.Content = utils.Sanitize(*req.Content)
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := a.db.First(&category, *req.CategoryID).Error; err != nil {
			utils.Error(ctx, http.StatusBadRequest, "invalid category_id")
			return
		}
		article.CategoryID = *req.CategoryID
	}
	if req.IsPublished != nil {
		article.IsPublished = *req.IsPublished
	}
	if req.Tags != nil {
		article.Tags = *req.Tags
	}

	if err := a.db.Save(&article).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to update article")
		return
	}

	var updated models.Article
	if err := a.preloaded().First(&updated, article.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load article")
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// Delete removes the article and cascades to its comments and attachments in
// one transaction, children first.
func (a *ArticleController) Delete(ctx *gin.Context) {
	var article models.Article
	if err := a.db.First(&article, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load article")
		return
	}

	if !middleware.AuthorOrReadOnly(ctx, article.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, "you can only delete your own articles")
		return
	}

	err := a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.ArticleAttachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&article).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete article")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// AddAttachment stores one attachment per uploaded file part on the article.
func (a *ArticleController) AddAttachment(ctx *gin.Context) {
	var article models.Article
	if err := a.db.First(&article, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load article")
		return
	}

	if !middleware.AuthorOrReadOnly(ctx, article.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, "you can only modify your own articles")
		return
	}

	a.saveAttachments(ctx, article.ID)
	ctx.JSON(http.StatusOK, gin.H{"status": "attachments added"})
}

// RemoveAttachment deletes one attachment by id, scoped to the article.
func (a *ArticleController) RemoveAttachment(ctx *gin.Context) {
	var article models.Article
	if err := a.db.First(&article, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load article")
		return
	}

	if !middleware.AuthorOrReadOnly(ctx, article.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, "you can only modify your own articles")
		return
	}

	var req struct {
		AttachmentID uint `json:"attachment_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.AttachmentID == 0 {
		utils.Error(ctx, http.StatusBadRequest, "attachment_id not provided")
		return
	}

	var attachment models.ArticleAttachment
	err := a.db.Where("id = ? AND article_id = ?", req.AttachmentID, article.ID).First(&attachment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Attachment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load attachment")
		return
	}

	if err := a.db.Delete(&attachment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete attachment")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "attachment removed"})
}

// saveAttachments persists every file part as an attachment row. Failures
// abort the loop but leave the parent and earlier attachments in place.
func (a *ArticleController) saveAttachments(ctx *gin.Context, articleID uint) {
	for _, fh := range formFiles(ctx) {
		url, err := utils.SaveAttachmentFile(ctx, articleAttachmentDir, fh)
		if err != nil {
			utils.Sugar.Warnf("failed to store attachment %s for article %d: %v", fh.Filename, articleID, err)
			return
		}
		attachment := models.ArticleAttachment{
			ArticleID: articleID,
			File:      url,
			Filename:  fh.Filename,
		}
		if err := a.db.Create(&attachment).Error; err != nil {
			utils.Sugar.Warnf("failed to record attachment %s for article %d: %v", fh.Filename, articleID, err)
			return
		}
	}
}
