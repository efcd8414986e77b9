package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"Postline/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func followEdgeCount(t *testing.T, server *Server, followerID, followedID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, server.DB.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error)
	return count
}

func TestFollowIsIdempotent(t *testing.T) {
	server := newTestServer(t)
	follower := createTestUser(t, server, "fan")
	author := createTestUser(t, server, "writer")
	token := loginAs(t, follower)

	// Following twice creates exactly one edge.
	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, "/profile/writer/follow", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		server.Router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/profile/writer", w.Header().Get("Location"))
	}

	assert.Equal(t, int64(1), followEdgeCount(t, server, follower.ID, author.ID))
}

func TestSelfFollowIsSilentlySkipped(t *testing.T) {
	server := newTestServer(t)
	user := createTestUser(t, server, "narcissus")

	req, _ := http.NewRequest(http.MethodGet, "/profile/narcissus/follow", nil)
	req.Header.Set("Authorization", "Bearer "+loginAs(t, user))
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/narcissus", w.Header().Get("Location"))
	assert.Equal(t, int64(0), followEdgeCount(t, server, user.ID, user.ID))
}

func TestUnfollowNeverFollowedIsNoop(t *testing.T) {
	server := newTestServer(t)
	follower := createTestUser(t, server, "fan")
	createTestUser(t, server, "writer")

	req, _ := http.NewRequest(http.MethodGet, "/profile/writer/unfollow", nil)
	req.Header.Set("Authorization", "Bearer "+loginAs(t, follower))
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/writer", w.Header().Get("Location"))
}

func TestFollowUnknownUserIs404(t *testing.T) {
	server := newTestServer(t)
	follower := createTestUser(t, server, "fan")

	req, _ := http.NewRequest(http.MethodGet, "/profile/ghost/follow", nil)
	req.Header.Set("Authorization", "Bearer "+loginAs(t, follower))
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFollowRequiresLogin(t *testing.T) {
	server := newTestServer(t)
	createTestUser(t, server, "writer")

	req, _ := http.NewRequest(http.MethodGet, "/profile/writer/follow", nil)
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login?next=/profile/writer/follow", w.Header().Get("Location"))
}

// The personalized feed carries followed authors' posts only, newest first,
// and an empty follow set is an empty page rather than an error.
func TestFollowIndexComposition(t *testing.T) {
	server := newTestServer(t)
	viewer := createTestUser(t, server, "reader")
	followed := createTestUser(t, server, "writer")
	ignored := createTestUser(t, server, "stranger")
	token := loginAs(t, viewer)

	createTestPost(t, server, followed.ID, "from someone I follow")
	createTestPost(t, server, ignored.ID, "from a stranger")

	// Before following: empty feed.
	req, _ := http.NewRequest(http.MethodGet, "/follow", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := getJSON(t, w)
	response := body["response"].(map[string]interface{})
	assert.Len(t, response["posts"], 0)

	follow := models.Follow{FollowerID: viewer.ID, FollowedID: followed.ID}
	created, err := follow.SaveFollow(server.DB)
	require.NoError(t, err)
	require.True(t, created)

	req, _ = http.NewRequest(http.MethodGet, "/follow", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body = getJSON(t, w)
	response = body["response"].(map[string]interface{})
	posts := response["posts"].([]interface{})
	require.Len(t, posts, 1)

	post := posts[0].(map[string]interface{})
	assert.Equal(t, "from someone I follow", post["text"])
}

func TestUnfollowRemovesPostsFromFeed(t *testing.T) {
	server := newTestServer(t)
	viewer := createTestUser(t, server, "reader")
	followed := createTestUser(t, server, "writer")
	token := loginAs(t, viewer)

	createTestPost(t, server, followed.ID, "here today")

	follow := models.Follow{FollowerID: viewer.ID, FollowedID: followed.ID}
	_, err := follow.SaveFollow(server.DB)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/profile/writer/unfollow", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)

	req, _ = http.NewRequest(http.MethodGet, "/follow", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := getJSON(t, w)
	response := body["response"].(map[string]interface{})
	assert.Len(t, response["posts"], 0)
}

func TestProfileReportsFollowingFlag(t *testing.T) {
	server := newTestServer(t)
	viewer := createTestUser(t, server, "reader")
	author := createTestUser(t, server, "writer")

	follow := models.Follow{FollowerID: viewer.ID, FollowedID: author.ID}
	_, err := follow.SaveFollow(server.DB)
	require.NoError(t, err)

	// Logged-in follower sees following=true.
	req, _ := http.NewRequest(http.MethodGet, "/profile/writer", nil)
	req.Header.Set("Authorization", "Bearer "+loginAs(t, viewer))
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := getJSON(t, w)
	response := body["response"].(map[string]interface{})
	assert.Equal(t, true, response["following"])

	// Anonymous viewers simply read following=false.
	req, _ = http.NewRequest(http.MethodGet, "/profile/writer", nil)
	w = httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body = getJSON(t, w)
	response = body["response"].(map[string]interface{})
	assert.Equal(t, false, response["following"])
}

func TestDeleteUserRemovesFollowEdges(t *testing.T) {
	server := newTestServer(t)
	leaver := createTestUser(t, server, "leaver")
	other := createTestUser(t, server, "other")

	for _, edge := range []models.Follow{
		{FollowerID: leaver.ID, FollowedID: other.ID},
		{FollowerID: other.ID, FollowedID: leaver.ID},
	} {
		e := edge
		_, err := e.SaveFollow(server.DB)
		require.NoError(t, err)
	}

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", leaver.ID), nil)
	req.Header.Set("Authorization", "Bearer "+loginAs(t, leaver))
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	server.DB.Model(&models.Follow{}).
		Where("follower_id = ? OR followed_id = ?", leaver.ID, leaver.ID).
		Count(&count)
	assert.Equal(t, int64(0), count)
}
