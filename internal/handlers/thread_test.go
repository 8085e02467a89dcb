package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"mangrove/internal/db"
	"mangrove/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	g, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(g))
	db.DB = g

	r := gin.New()
	router.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	parsed := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed), "body: %s", w.Body.String())
	}
	return w, parsed
}

func registerAndLogin(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()

	w, _ := doJSON(t, r, http.MethodPost, "/users", "", gin.H{
		"username": username,
		"password": "secret",
		"fullname": "Test User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, resp := doJSON(t, r, http.MethodPost, "/authentications", "", gin.H{
		"username": username,
		"password": "secret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := resp["data"].(map[string]interface{})
	return data["accessToken"].(string)
}

func data(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", resp)
	return d
}

func TestThreadLifecycle(t *testing.T) {
	r := setupServer(t)
	tokenA := registerAndLogin(t, r, "dicoding")
	tokenB := registerAndLogin(t, r, "johndoe")

	// Thread created by user A.
	w, resp := doJSON(t, r, http.MethodPost, "/threads", tokenA, gin.H{
		"title": "a title",
		"body":  "a body",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	threadID := data(t, resp)["addedThread"].(map[string]interface{})["id"].(string)
	assert.Contains(t, threadID, "thread-")

	// Comment by user A.
	w, resp = doJSON(t, r, http.MethodPost, fmt.Sprintf("/threads/%s/comments", threadID), tokenA, gin.H{
		"content": "a comment",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	commentID := data(t, resp)["addedComment"].(map[string]interface{})["id"].(string)

	// Two replies by user B.
	for _, content := range []string{"first reply", "second reply"} {
		w, _ = doJSON(t, r, http.MethodPost,
			fmt.Sprintf("/threads/%s/comments/%s/replies", threadID, commentID), tokenB, gin.H{
				"content": content,
			})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	// One like by user B.
	w, _ = doJSON(t, r, http.MethodPut,
		fmt.Sprintf("/threads/%s/comments/%s/likes", threadID, commentID), tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Detail view nests comments, replies and like counts.
	w, resp = doJSON(t, r, http.MethodGet, "/threads/"+threadID, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	thread := data(t, resp)["thread"].(map[string]interface{})
	comments := thread["comments"].([]interface{})
	require.Len(t, comments, 1)

	comment := comments[0].(map[string]interface{})
	assert.EqualValues(t, 1, comment["likeCount"])
	replies := comment["replies"].([]interface{})
	require.Len(t, replies, 2)
	assert.Equal(t, "first reply", replies[0].(map[string]interface{})["content"])
	assert.Equal(t, "second reply", replies[1].(map[string]interface{})["content"])

	// Toggling again removes the like.
	w, _ = doJSON(t, r, http.MethodPut,
		fmt.Sprintf("/threads/%s/comments/%s/likes", threadID, commentID), tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, r, http.MethodGet, "/threads/"+threadID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	comment = data(t, resp)["thread"].(map[string]interface{})["comments"].([]interface{})[0].(map[string]interface{})
	assert.EqualValues(t, 0, comment["likeCount"])

	// User B cannot delete user A's comment.
	w, _ = doJSON(t, r, http.MethodDelete,
		fmt.Sprintf("/threads/%s/comments/%s", threadID, commentID), tokenB, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// User A can, and the detail view shows the tombstone afterwards.
	w, _ = doJSON(t, r, http.MethodDelete,
		fmt.Sprintf("/threads/%s/comments/%s", threadID, commentID), tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, r, http.MethodGet, "/threads/"+threadID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	comment = data(t, resp)["thread"].(map[string]interface{})["comments"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "**comment deleted**", comment["content"])
}

func TestThreadEndpointFailures(t *testing.T) {
	r := setupServer(t)
	token := registerAndLogin(t, r, "dicoding")

	t.Run("creating a thread requires authentication", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/threads", "", gin.H{"title": "t", "body": "b"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid thread payload", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/threads", token, gin.H{"title": ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("commenting on a missing thread", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/threads/thread-nope/comments", token, gin.H{"content": "hi"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("detail of a missing thread", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodGet, "/threads/thread-nope", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("replying to a reply", func(t *testing.T) {
		w, resp := doJSON(t, r, http.MethodPost, "/threads", token, gin.H{"title": "a title", "body": "a body"})
		require.Equal(t, http.StatusCreated, w.Code)
		threadID := data(t, resp)["addedThread"].(map[string]interface{})["id"].(string)

		w, resp = doJSON(t, r, http.MethodPost, fmt.Sprintf("/threads/%s/comments", threadID), token, gin.H{"content": "a comment"})
		require.Equal(t, http.StatusCreated, w.Code)
		commentID := data(t, resp)["addedComment"].(map[string]interface{})["id"].(string)

		w, resp = doJSON(t, r, http.MethodPost,
			fmt.Sprintf("/threads/%s/comments/%s/replies", threadID, commentID), token, gin.H{"content": "a reply"})
		require.Equal(t, http.StatusCreated, w.Code)
		replyID := data(t, resp)["addedReply"].(map[string]interface{})["id"].(string)

		w, _ = doJSON(t, r, http.MethodPost,
			fmt.Sprintf("/threads/%s/comments/%s/replies", threadID, replyID), token, gin.H{"content": "nested"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthEndpoints(t *testing.T) {
	r := setupServer(t)

	w, _ := doJSON(t, r, http.MethodPost, "/users", "", gin.H{
		"username": "dicoding",
		"password": "secret",
		"fullname": "Dicoding Indonesia",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("duplicate username", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/users", "", gin.H{
			"username": "dicoding",
			"password": "other",
			"fullname": "Someone Else",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/authentications", "", gin.H{
			"username": "dicoding",
			"password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	w, resp := doJSON(t, r, http.MethodPost, "/authentications", "", gin.H{
		"username": "dicoding",
		"password": "secret",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	refresh := data(t, resp)["refreshToken"].(string)

	t.Run("refresh and logout", func(t *testing.T) {
		w, resp := doJSON(t, r, http.MethodPut, "/authentications", "", gin.H{"refreshToken": refresh})
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, data(t, resp)["accessToken"])

		w, _ = doJSON(t, r, http.MethodDelete, "/authentications", "", gin.H{"refreshToken": refresh})
		assert.Equal(t, http.StatusOK, w.Code)

		w, _ = doJSON(t, r, http.MethodPut, "/authentications", "", gin.H{"refreshToken": refresh})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
