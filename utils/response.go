package utils

import "github.com/gin-gonic/gin"

// Error writes the API's standard error body.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

// AbortError writes the error body and stops the middleware chain.
func AbortError(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, gin.H{"error": message})
}
