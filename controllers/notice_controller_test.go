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

func TestListNoticeFilters(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "alice", false)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired := seedNotice(t, db, author, models.Notice{
		Title: "Old maintenance", Content: "done", Category: "ops",
		Priority: models.PriorityHigh, ExpiresAt: &past,
	})
	upcoming := seedNotice(t, db, author, models.Notice{
		Title: "Upcoming downtime", Content: "window", Category: "ops",
		Priority: models.PriorityHigh, ExpiresAt: &future,
	})
	evergreen := seedNotice(t, db, author, models.Notice{
		Title: "Welcome", Content: "hello downtown", Category: "general",
	})

	r := newTestRouter(db, author.ID, false)

	t.Run("category exact match", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/notices?category=ops", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var items []map[string]any
		decodeBody(t, w, &items)
		assert.ElementsMatch(t, []uint{expired.ID, upcoming.ID}, listIDs(items))
	})

	t.Run("priority exact match", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/notices?priority=medium", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var items []map[string]any
		decodeBody(t, w, &items)
		assert.ElementsMatch(t, []uint{evergreen.ID}, listIDs(items))
	})

	t.Run("search over title and content", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/notices?search=downtime", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var items []map[string]any
		decodeBody(t, w, &items)
		assert.ElementsMatch(t, []uint{upcoming.ID}, listIDs(items))

		// matches content too
		w = doJSON(r, http.MethodGet, "/notices?search=downtown", nil)
		require.Equal(t, http.StatusOK, w.Code)
		decodeBody(t, w, &items)
		assert.ElementsMatch(t, []uint{evergreen.ID}, listIDs(items))
	})

	t.Run("active_only drops expired, keeps null expiry", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/notices?active_only=true", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var items []map[string]any
		decodeBody(t, w, &items)
		assert.ElementsMatch(t, []uint{upcoming.ID, evergreen.ID}, listIDs(items))
	})

	t.Run("unrecognized active_only value is ignored", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/notices?active_only=maybe", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var items []map[string]any
		decodeBody(t, w, &items)
		assert.Len(t, items, 3)
	})
}

func TestListNoticesPinnedFirst(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "alice", false)

	older := models.Notice{Title: "Older pinned", Content: "x", Pinned: true}
	older.CreatedAt = time.Now().Add(-2 * time.Hour)
	pinned := seedNotice(t, db, author, older)

	recent := models.Notice{Title: "Recent", Content: "y"}
	recent.CreatedAt = time.Now()
	unpinned := seedNotice(t, db, author, recent)

	r := newTestRouter(db, author.ID, false)
	w := doJSON(r, http.MethodGet, "/notices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []map[string]any
	decodeBody(t, w, &items)
	require.Len(t, items, 2)
	assert.Equal(t, []uint{pinned.ID, unpinned.ID}, listIDs(items))
}

func TestCreateNoticeDefaultsAndValidation(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "alice", false)
	r := newTestRouter(db, author.ID, false)

	w := doJSON(r, http.MethodPost, "/notices", map[string]any{
		"title": "Defaults", "content": "body",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var got map[string]any
	decodeBody(t, w, &got)
	assert.Equal(t, models.PriorityMedium, got["priority"])
	assert.Equal(t, false, got["pinned"])
	assert.Nil(t, got["expires_at"])
	assert.Equal(t, float64(author.ID), got["author_id"])

	w = doJSON(r, http.MethodPost, "/notices", map[string]any{
		"title": "Bad", "content": "body", "priority": "urgent",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNoticeAttachmentScoping(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "alice", false)
	notice := seedNotice(t, db, author, models.Notice{Title: "Files", Content: "x"})
	r := newTestRouter(db, author.ID, false)

	w := doMultipart(r, http.MethodPost, fmt.Sprintf("/notices/%d/add_attachment", notice.ID),
		nil, map[string]string{"schedule.ics": "ics-bytes"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var attachment models.NoticeAttachment
	require.NoError(t, db.Where("notice_id = ?", notice.ID).First(&attachment).Error)
	assert.Equal(t, "schedule.ics", attachment.Filename)
	assert.Contains(t, attachment.File, "/media/notice_attachments/")

	removePath := fmt.Sprintf("/notices/%d/remove_attachment", notice.ID)

	w = doJSON(r, http.MethodDelete, removePath, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "attachment_id not provided"}`, w.Body.String())

	w = doJSON(r, http.MethodDelete, removePath, map[string]any{"attachment_id": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Attachment not found"}`, w.Body.String())

	w = doJSON(r, http.MethodDelete, removePath, map[string]any{"attachment_id": attachment.ID})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteNoticeCascadesAttachments(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "alice", false)
	notice := seedNotice(t, db, author, models.Notice{Title: "Doomed", Content: "x"})
	require.NoError(t, db.Create(&models.NoticeAttachment{NoticeID: notice.ID, File: "/media/notice_attachments/a", Filename: "a"}).Error)

	r := newTestRouter(db, author.ID, false)
	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/notices/%d", notice.ID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var attachments int64
	db.Model(&models.NoticeAttachment{}).Where("notice_id = ?", notice.ID).Count(&attachments)
	assert.Zero(t, attachments)
}

func TestUpdateNoticeAuthorOnly(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "alice", false)
	stranger := seedUser(t, db, "bob", false)
	notice := seedNotice(t, db, author, models.Notice{Title: "Mine", Content: "x"})
	path := fmt.Sprintf("/notices/%d", notice.ID)

	asStranger := newTestRouter(db, stranger.ID, false)
	w := doJSON(asStranger, http.MethodPatch, path, map[string]any{"pinned": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	asAuthor := newTestRouter(db, author.ID, false)
	w = doJSON(asAuthor, http.MethodPatch, path, map[string]any{"pinned": true})
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	decodeBody(t, w, &got)
	assert.Equal(t, true, got["pinned"])
}
