package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kbboard/backend/middleware"
	"github.com/kbboard/backend/models"
	"github.com/kbboard/backend/utils"
)

const noticeAttachmentDir = "notice_attachments"

// NoticeController manages CRUD operations for board notices.
type NoticeController struct {
	db *gorm.DB
}

// NewNoticeController creates a new NoticeController instance.
func NewNoticeController(db *gorm.DB) *NoticeController {
	return &NoticeController{db: db}
}

func (n *NoticeController) preloaded() *gorm.DB {
	return n.db.Preload("Author").Preload("Attachments")
}

// List returns notices pinned first, then newest, narrowed by the optional
// query filters.
func (n *NoticeController) List(ctx *gin.Context) {
	query := n.preloaded().Order("pinned DESC, created_at DESC")

	if category := strings.TrimSpace(ctx.Query("category")); category != "" {
		query = query.Where("category = ?", category)
	}

	if search := strings.TrimSpace(ctx.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)", like, like)
	}

	if priority := strings.TrimSpace(ctx.Query("priority")); priority != "" {
		query = query.Where("priority = ?", priority)
	}

	// Unrecognized values fall through to no filtering.
	if strings.EqualFold(ctx.Query("active_only"), "true") {
		query = query.Where("expires_at IS NULL OR expires_at > ?", time.Now())
	}

	var notices []models.Notice
	if err := query.Find(&notices).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to list notices")
		return
	}

	ctx.JSON(http.StatusOK, notices)
}

// Get returns a single notice.
func (n *NoticeController) Get(ctx *gin.Context) {
	var notice models.Notice
	if err := n.preloaded().First(&notice, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Notice not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load notice")
		return
	}
	ctx.JSON(http.StatusOK, notice)
}

// Create stores a new notice. Accepts JSON or multipart; multipart file
// parts each become an attachment. Priority defaults to medium.
func (n *NoticeController) Create(ctx *gin.Context) {
	var req struct {
		Title     string     `json:"title" form:"title"`
		Content   string     `json:"content" form:"content"`
		AuthorID  uint       `json:"author_id" form:"author_id"`
		Category  string     `json:"category" form:"category"`
		Priority  string     `json:"priority" form:"priority"`
		ExpiresAt *time.Time `json:"expires_at" form:"expires_at" time_format:"2006-01-02T15:04:05Z07:00"`
		Pinned    bool       `json:"pinned" form:"pinned"`
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

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		utils.Error(ctx, http.StatusBadRequest, "invalid priority")
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

	notice := models.Notice{
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		Category:  req.Category,
		Priority:  priority,
		ExpiresAt: req.ExpiresAt,
		Pinned:    req.Pinned,
	}
	if err := n.db.Create(&notice).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to create notice")
		return
	}

	n.saveAttachments(ctx, notice.ID)

	var created models.Notice
	if err := n.preloaded().First(&created, notice.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load notice")
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// Update applies provided fields to the notice. Only the author may write.
func (n *NoticeController) Update(ctx *gin.Context) {
	var notice models.Notice
	if err := n.db.First(&notice, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Notice not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load notice")
		return
	}

	if !middleware.AuthorOrReadOnly(ctx, notice.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, "you can only modify your own notices")
		return
	}

	var req struct {
		Title     *string    `json:"title"`
		Content   *string    `json:"content"`
		Category  *string    `json:"category"`
		Priority  *string    `json:"priority"`
		ExpiresAt *time.Time `json:"expires_at"`
		Pinned    *bool      `json:"pinned"`
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
		notice.Title = title
	}
	if req.Content != nil {
		notice.Content = utils.Sanitize(*req.Content)
	}
	if req.Category != nil {
		notice.Category = *req.Category
	}
	if req.Priority != nil {
		if !models.ValidPriority(*req.Priority) {
			utils.Error(ctx, http.StatusBadRequest, "invalid priority")
			return
		}
		notice.Priority = *req.Priority
	}
	if req.ExpiresAt != nil {
		notice.ExpiresAt = req.ExpiresAt
	}
	if req.Pinned != nil {
		notice.Pinned = *req.Pinned
	}

	if err := n.db.Save(&notice).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to update notice")
		return
	}

	var updated models.Notice
	if err := n.preloaded().First(&updated, notice.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load notice")
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// Delete removes the notice and its attachments in one transaction.
func (n *NoticeController) Delete(ctx *gin.Context) {
	var notice models.Notice
	if err := n.db.First(&notice, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Notice not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load notice")
		return
	}

	if !middleware.AuthorOrReadOnly(ctx, notice.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, "you can only delete your own notices")
		return
	}

	err := n.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("notice_id = ?", notice.ID).Delete(&models.NoticeAttachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&notice).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete notice")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// AddAttachment stores one attachment per uploaded file part on the notice.
func (n *NoticeController) AddAttachment(ctx *gin.Context) {
	var notice models.Notice
	if err := n.db.First(&notice, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Notice not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load notice")
		return
	}

	if !middleware.AuthorOrReadOnly(ctx, notice.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, "you can only modify your own notices")
		return
	}

	n.saveAttachments(ctx, notice.ID)
	ctx.JSON(http.StatusOK, gin.H{"status": "attachments added"})
}

// RemoveAttachment deletes one attachment by id, scoped to the notice.
func (n *NoticeController) RemoveAttachment(ctx *gin.Context) {
	var notice models.Notice
	if err := n.db.First(&notice, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Notice not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load notice")
		return
	}

	if !middleware.AuthorOrReadOnly(ctx, notice.AuthorID) {
		utils.Error(ctx, http.StatusForbidden, "you can only modify your own notices")
		return
	}

	var req struct {
		AttachmentID uint `json:"attachment_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.AttachmentID == 0 {
		utils.Error(ctx, http.StatusBadRequest, "attachment_id not provided")
		return
	}

	var attachment models.NoticeAttachment
	err := n.db.Where("id = ? AND notice_id = ?", req.AttachmentID, notice.ID).First(&attachment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "Attachment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load attachment")
		return
	}

	if err := n.db.Delete(&attachment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete attachment")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "attachment removed"})
}

func (n *NoticeController) saveAttachments(ctx *gin.Context, noticeID uint) {
	for _, fh := range formFiles(ctx) {
		url, err := utils.SaveAttachmentFile(ctx, noticeAttachmentDir, fh)
		if err != nil {
			utils.Sugar.Warnf("failed to store attachment %s for notice %d: %v", fh.Filename, noticeID, err)
			return
		}
		attachment := models.NoticeAttachment{
			NoticeID: noticeID,
			File:     url,
			Filename: fh.Filename,
		}
		if err := n.db.Create(&attachment).Error; err != nil {
			utils.Sugar.Warnf("failed to record attachment %s for notice %d: %v", fh.Filename, noticeID, err)
			return
		}
	}
}
