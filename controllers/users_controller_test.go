package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"Postline/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	server := newTestServer(t)

	payload, _ := json.Marshal(map[string]string{
		"username": "newcomer",
		"email":    "newcomer@example.com",
		"password": "password123",
	})

	req, _ := http.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, server.DB.Where("username = ?", "newcomer").Take(&user).Error)
	assert.Equal(t, "newcomer@example.com", user.Email)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "password123", user.Password, "password must be stored hashed")
}

func TestCreateUserCannotSelfPromote(t *testing.T) {
	server := newTestServer(t)

	payload, _ := json.Marshal(map[string]interface{}{
		"username": "sneaky",
		"email":    "sneaky@example.com",
		"password": "password123",
		"is_admin": true,
	})

	req, _ := http.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, server.DB.Where("username = ?", "sneaky").Take(&user).Error)
	assert.False(t, user.IsAdmin)
}

func TestCreateUserValidation(t *testing.T) {
	server := newTestServer(t)

	payload, _ := json.Marshal(map[string]string{
		"username": "",
		"email":    "not-an-email",
		"password": "123",
	})

	req, _ := http.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestProfilePaginatesAuthorPosts(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "prolific")

	for i := 0; i < 12; i++ {
		createTestPost(t, server, author.ID, fmt.Sprintf("entry %d", i))
	}

	req, _ := http.NewRequest(http.MethodGet, "/profile/prolific", nil)
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := getJSON(t, w)
	response := body["response"].(map[string]interface{})
	posts := response["posts"].([]interface{})
	page := response["page"].(map[string]interface{})

	assert.Len(t, posts, 10)
	assert.Equal(t, float64(12), response["count_post_author"])
	assert.Equal(t, float64(2), page["total_pages"])

	authorInfo := response["author"].(map[string]interface{})
	assert.Equal(t, "prolific", authorInfo["username"])
}

func TestProfileUnknownUserIs404(t *testing.T) {
	server := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, "/profile/nobody", nil)
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUserChangesEmailNotUsername(t *testing.T) {
	server := newTestServer(t)
	user := createTestUser(t, server, "steady")

	payload, _ := json.Marshal(map[string]string{
		"email": "steady-new@example.com",
	})

	req, _ := http.NewRequest(http.MethodPut, fmt.Sprintf("/api/v1/users/%d", user.ID), bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+loginAs(t, user))
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.User
	require.NoError(t, server.DB.First(&reloaded, user.ID).Error)
	assert.Equal(t, "steady-new@example.com", reloaded.Email)
	assert.Equal(t, "steady", reloaded.Username)
}

func TestUpdateUserRejectsOtherUsers(t *testing.T) {
	server := newTestServer(t)
	user := createTestUser(t, server, "victim")
	attacker := createTestUser(t, server, "attacker")

	payload, _ := json.Marshal(map[string]string{"email": "stolen@example.com"})

	req, _ := http.NewRequest(http.MethodPut, fmt.Sprintf("/api/v1/users/%d", user.ID), bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+loginAs(t, attacker))
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteUserCascades(t *testing.T) {
	server := newTestServer(t)
	leaver := createTestUser(t, server, "leaver")
	other := createTestUser(t, server, "other")

	// The leaver has a post with a comment from someone else, and has
	// commented on someone else's post.
	leaverPost := createTestPost(t, server, leaver.ID, "my post")
	otherPost := createTestPost(t, server, other.ID, "their post")

	for _, c := range []models.Comment{
		{PostID: leaverPost.ID, UserID: other.ID, Body: "nice post"},
		{PostID: otherPost.ID, UserID: leaver.ID, Body: "my comment elsewhere"},
	} {
		comment := c
		comment.Prepare()
		_, err := comment.SaveComment(server.DB)
		require.NoError(t, err)
	}

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", leaver.ID), nil)
	req.Header.Set("Authorization", "Bearer "+loginAs(t, leaver))
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var users, posts, comments int64
	server.DB.Model(&models.User{}).Where("id = ?", leaver.ID).Count(&users)
	server.DB.Model(&models.Post{}).Where("author_id = ?", leaver.ID).Count(&posts)
	server.DB.Model(&models.Comment{}).Count(&comments)

	assert.Equal(t, int64(0), users)
	assert.Equal(t, int64(0), posts)
	// Both the comment on the leaver's post and the leaver's own comment
	// are gone; the other user's post survives.
	assert.Equal(t, int64(0), comments)

	var otherPosts int64
	server.DB.Model(&models.Post{}).Where("author_id = ?", other.ID).Count(&otherPosts)
	assert.Equal(t, int64(1), otherPosts)
}
