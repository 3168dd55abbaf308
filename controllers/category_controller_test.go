package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbboard/backend/models"
)

func TestCategoryWritesAreAdminOnly(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice", false)
	admin := seedUser(t, db, "root", true)
	category := seedCategory(t, db, "Tech")

	asUser := newTestRouter(db, user.ID, false)
	asAdmin := newTestRouter(db, admin.ID, true)

	w := doJSON(asUser, http.MethodPost, "/categories", map[string]any{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(asUser, http.MethodPatch, fmt.Sprintf("/categories/%d", category.ID), map[string]any{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// reads are open to any authenticated user
	w = doJSON(asUser, http.MethodGet, "/categories", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(asUser, http.MethodGet, fmt.Sprintf("/categories/%d", category.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(asAdmin, http.MethodPost, "/categories", map[string]any{"name": "Ops", "description": "infra"})
	require.Equal(t, http.StatusCreated, w.Code)
	var got map[string]any
	decodeBody(t, w, &got)
	assert.Equal(t, "Ops", got["name"])

	w = doJSON(asAdmin, http.MethodPost, "/categories", map[string]any{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCategoryCascadesToArticles(t *testing.T) {
	db := newTestDB(t)
	admin := seedUser(t, db, "root", true)
	doomed := seedCategory(t, db, "Doomed")
	kept := seedCategory(t, db, "Kept")

	a1 := seedArticle(t, db, admin, doomed, "One", "body", "", true)
	a2 := seedArticle(t, db, admin, doomed, "Two", "body", "", true)
	survivor := seedArticle(t, db, admin, kept, "Safe", "body", "", true)

	require.NoError(t, db.Create(&models.Comment{ArticleID: a1.ID, AuthorID: admin.ID, Content: "c1"}).Error)
	require.NoError(t, db.Create(&models.Comment{ArticleID: a2.ID, AuthorID: admin.ID, Content: "c2"}).Error)
	require.NoError(t, db.Create(&models.Comment{ArticleID: survivor.ID, AuthorID: admin.ID, Content: "keep"}).Error)
	require.NoError(t, db.Create(&models.ArticleAttachment{ArticleID: a1.ID, File: "/media/article_attachments/f", Filename: "f"}).Error)

	r := newTestRouter(db, admin.ID, true)
	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/categories/%d", doomed.ID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var articles, comments, attachments int64
	db.Model(&models.Article{}).Where("category_id = ?", doomed.ID).Count(&articles)
	db.Model(&models.Comment{}).Where("article_id IN ?", []uint{a1.ID, a2.ID}).Count(&comments)
	db.Model(&models.ArticleAttachment{}).Where("article_id = ?", a1.ID).Count(&attachments)
	assert.Zero(t, articles)
	assert.Zero(t, comments)
	assert.Zero(t, attachments)

	// the other category's tree is untouched
	var keptComments int64
	db.Model(&models.Comment{}).Where("article_id = ?", survivor.ID).Count(&keptComments)
	assert.EqualValues(t, 1, keptComments)

	w = doJSON(r, http.MethodDelete, "/categories/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
