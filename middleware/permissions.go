package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Authorization predicates shared by every resource handler. Both assume
// AuthRequired already ran; unauthenticated requests never reach them.

// IsSafeMethod reports whether the HTTP method is read-only.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// AuthorOrReadOnly permits any safe method, and unsafe methods only when the
// requester owns the target object. Evaluated after the object is resolved.
func AuthorOrReadOnly(ctx *gin.Context, authorID uint) bool {
	if IsSafeMethod(ctx.Request.Method) {
		return true
	}
	uid, ok := UserID(ctx)
	return ok && uid == authorID
}

// AdminOrReadOnly permits any safe method, and unsafe methods only for staff
// users. Evaluated before an object is resolved, so it also gates creates.
func AdminOrReadOnly(ctx *gin.Context) bool {
	if IsSafeMethod(ctx.Request.Method) {
		return true
	}
	return IsStaff(ctx)
}
