package utils_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbboard/backend/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := utils.GenerateToken(42, "alice", true, time.Hour)
	require.NoError(t, err)

	claims, err := utils.ParseToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsStaff)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := utils.GenerateToken(7, "bob", false, -time.Minute)
	require.NoError(t, err)

	_, err = utils.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := utils.ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestSanitizeStripsScripts(t *testing.T) {
	out := utils.Sanitize(`<p>ok</p><script>alert(1)</script>`)
	assert.Contains(t, out, "<p>ok</p>")
	assert.NotContains(t, out, "script")

	// plain text passes through untouched
	assert.Equal(t, "hello world", utils.Sanitize("hello world"))
}
