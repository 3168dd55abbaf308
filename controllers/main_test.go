package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kbboard/backend/config"
	"github.com/kbboard/backend/middleware"
	"github.com/kbboard/backend/models"
	"github.com/kbboard/backend/routes"
	"github.com/kbboard/backend/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	uploadDir, err := os.MkdirTemp("", "kbboard-media")
	if err != nil {
		panic(err)
	}
	os.Setenv("UPLOAD_DIR", uploadDir)
	gin.SetMode(gin.TestMode)

	cfg := config.Load()
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	code := m.Run()
	os.RemoveAll(uploadDir)
	os.Exit(code)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Article{},
		&models.ArticleAttachment{},
		&models.Comment{},
		&models.Notice{},
		&models.NoticeAttachment{},
	))
	return db
}

// newTestRouter builds a router with a fixed authenticated identity in place
// of the JWT middleware.
func newTestRouter(db *gorm.DB, userID uint, isStaff bool) *gin.Engine {
	r := gin.New()
	api := r.Group("")
	api.Use(func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUserIDKey, userID)
		ctx.Set(middleware.ContextUsernameKey, fmt.Sprintf("user%d", userID))
		ctx.Set(middleware.ContextIsStaffKey, isStaff)
	})
	routes.Register(api, db)
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doMultipart sends fields plus one file part per entry in files, each under
// its own ad hoc field name.
func doMultipart(r *gin.Engine, method, path string, fields map[string]string, files map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	i := 0
	for name, content := range files {
		part, err := mw.CreateFormFile(fmt.Sprintf("file%d", i), name)
		if err != nil {
			panic(err)
		}
		_, _ = part.Write([]byte(content))
		i++
	}
	_ = mw.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

func seedUser(t *testing.T, db *gorm.DB, username string, staff bool) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", IsStaff: staff}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	category := models.Category{Name: name}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func seedArticle(t *testing.T, db *gorm.DB, author models.User, category models.Category, title, content, tags string, published bool) models.Article {
	t.Helper()
	article := models.Article{
		Title:       title,
		Content:     content,
		AuthorID:    author.ID,
		CategoryID:  category.ID,
		IsPublished: published,
		Tags:        tags,
	}
	require.NoError(t, db.Create(&article).Error)
	return article
}

func seedNotice(t *testing.T, db *gorm.DB, author models.User, notice models.Notice) models.Notice {
	t.Helper()
	notice.AuthorID = author.ID
	if notice.Priority == "" {
		notice.Priority = models.PriorityMedium
	}
	require.NoError(t, db.Create(&notice).Error)
	return notice
}

func listIDs(items []map[string]any) []uint {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, uint(item["id"].(float64)))
	}
	return ids
}
