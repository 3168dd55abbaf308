package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kbboard/backend/models"
	"github.com/kbboard/backend/utils"
)

// UserController exposes read-only access to the identity records owned by
// the external auth service.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a new UserController instance.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// List returns all users.
func (u *UserController) List(ctx *gin.Context) {
	var users []models.User
	if err := u.db.Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to list users")
		return
	}
	ctx.JSON(http.StatusOK, users)
}

// Get returns a single user.
func (u *UserController) Get(ctx *gin.Context) {
	var user models.User
	if err := u.db.First(&user, "id = ?", ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "User not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load user")
		return
	}
	ctx.JSON(http.StatusOK, user)
}
