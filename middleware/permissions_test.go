package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newCtx(method string) *gin.Context {
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest(method, "/", nil)
	return ctx
}

func TestIsSafeMethod(t *testing.T) {
	assert.True(t, IsSafeMethod(http.MethodGet))
	assert.True(t, IsSafeMethod(http.MethodHead))
	assert.True(t, IsSafeMethod(http.MethodOptions))
	assert.False(t, IsSafeMethod(http.MethodPost))
	assert.False(t, IsSafeMethod(http.MethodPut))
	assert.False(t, IsSafeMethod(http.MethodPatch))
	assert.False(t, IsSafeMethod(http.MethodDelete))
}

func TestAuthorOrReadOnly(t *testing.T) {
	// safe methods pass regardless of identity
	ctx := newCtx(http.MethodGet)
	assert.True(t, AuthorOrReadOnly(ctx, 42))

	// unsafe method, matching author
	ctx = newCtx(http.MethodDelete)
	ctx.Set(ContextUserIDKey, uint(42))
	assert.True(t, AuthorOrReadOnly(ctx, 42))

	// unsafe method, different author
	ctx = newCtx(http.MethodDelete)
	ctx.Set(ContextUserIDKey, uint(7))
	assert.False(t, AuthorOrReadOnly(ctx, 42))

	// unsafe method, no identity at all
	ctx = newCtx(http.MethodDelete)
	assert.False(t, AuthorOrReadOnly(ctx, 42))
}

func TestAdminOrReadOnly(t *testing.T) {
	ctx := newCtx(http.MethodGet)
	assert.True(t, AdminOrReadOnly(ctx))

	ctx = newCtx(http.MethodPost)
	ctx.Set(ContextIsStaffKey, true)
	assert.True(t, AdminOrReadOnly(ctx))

	ctx = newCtx(http.MethodPost)
	ctx.Set(ContextIsStaffKey, false)
	assert.False(t, AdminOrReadOnly(ctx))

	ctx = newCtx(http.MethodPost)
	assert.False(t, AdminOrReadOnly(ctx))
}
