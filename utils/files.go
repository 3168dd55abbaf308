package utils

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbboard/backend/config"
)

// Attachment blobs live under <UploadDir>/<subdir>/ and are served at
// /media/<subdir>/<stored name>. The stored name is uuid-prefixed so client
// filenames never collide; the original filename is kept on the row.

const maxAttachmentSize = 50 * 1024 * 1024

// SaveAttachmentFile persists one uploaded file part and returns its public URL.
func SaveAttachmentFile(ctx *gin.Context, subdir string, fh *multipart.FileHeader) (string, error) {
	if fh.Size > maxAttachmentSize {
		return "", fmt.Errorf("file %s exceeds 50MB", fh.Filename)
	}

	cfg := config.Get()
	dir := filepath.Join(cfg.UploadDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	base := filepath.Base(fh.Filename)
	if base == "." || base == "" {
		base = fmt.Sprintf("file_%d", time.Now().UnixNano())
	}
	stored := uuid.NewString() + "_" + base

	if err := ctx.SaveUploadedFile(fh, filepath.Join(dir, stored)); err != nil {
		return "", err
	}
	return "/media/" + subdir + "/" + stored, nil
}
