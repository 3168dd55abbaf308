package controllers

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"
)

// formFiles collects every uploaded file part regardless of field name.
// Creation and add_attachment both accept ad hoc file parts alongside the
// structured fields, one attachment row per part.
func formFiles(ctx *gin.Context) []*multipart.FileHeader {
	form, err := ctx.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	var files []*multipart.FileHeader
	for _, headers := range form.File {
		files = append(files, headers...)
	}
	return files
}
