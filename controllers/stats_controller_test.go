package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbboard/backend/models"
)

func TestGetStats(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "alice", false)
	tech := seedCategory(t, db, "Tech")
	ops := seedCategory(t, db, "Ops")

	// seven articles with distinct view counts, only the top five should show
	for i := 1; i <= 7; i++ {
		article := models.Article{
			Title:       fmt.Sprintf("Article %d", i),
			Content:     "body",
			AuthorID:    author.ID,
			CategoryID:  tech.ID,
			IsPublished: true,
			ViewCount:   i * 10,
		}
		if i%2 == 0 {
			article.CategoryID = ops.ID
		}
		require.NoError(t, db.Create(&article).Error)
	}

	var first models.Article
	require.NoError(t, db.Where("title = ?", "Article 1").First(&first).Error)
	require.NoError(t, db.Create(&models.Comment{ArticleID: first.ID, AuthorID: author.ID, Content: "hi"}).Error)

	for i := 1; i <= 6; i++ {
		notice := models.Notice{
			Title:    fmt.Sprintf("Notice %d", i),
			Content:  "body",
			AuthorID: author.ID,
			Priority: models.PriorityMedium,
		}
		notice.CreatedAt = time.Now().Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&notice).Error)
	}

	r := newTestRouter(db, author.ID, false)
	w := doJSON(r, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		TotalNotices    int64 `json:"total_notices"`
		TotalArticles   int64 `json:"total_articles"`
		TotalCategories int64 `json:"total_categories"`
		TotalComments   int64 `json:"total_comments"`
		TopArticles     []struct {
			ID        uint   `json:"id"`
			Title     string `json:"title"`
			ViewCount int    `json:"view_count"`
			Category  string `json:"category"`
		} `json:"top_articles"`
		LatestNotices []struct {
			ID       uint   `json:"id"`
			Title    string `json:"title"`
			Priority string `json:"priority"`
		} `json:"latest_notices"`
	}
	decodeBody(t, w, &got)

	assert.EqualValues(t, 6, got.TotalNotices)
	assert.EqualValues(t, 7, got.TotalArticles)
	assert.EqualValues(t, 2, got.TotalCategories)
	assert.EqualValues(t, 1, got.TotalComments)

	require.Len(t, got.TopArticles, 5)
	assert.Equal(t, "Article 7", got.TopArticles[0].Title)
	assert.Equal(t, 70, got.TopArticles[0].ViewCount)
	assert.Equal(t, "Tech", got.TopArticles[0].Category)
	for i := 1; i < len(got.TopArticles); i++ {
		assert.GreaterOrEqual(t, got.TopArticles[i-1].ViewCount, got.TopArticles[i].ViewCount)
	}

	require.Len(t, got.LatestNotices, 5)
	assert.Equal(t, "Notice 6", got.LatestNotices[0].Title)
	assert.Equal(t, models.PriorityMedium, got.LatestNotices[0].Priority)
}

func TestGetStatsEmptyDatabase(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice", false)

	r := newTestRouter(db, user.ID, false)
	w := doJSON(r, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	decodeBody(t, w, &got)
	assert.Equal(t, float64(0), got["total_notices"])
	assert.Equal(t, float64(0), got["total_articles"])
	assert.Empty(t, got["top_articles"])
	assert.Empty(t, got["latest_notices"])
}
