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

func TestGroupPostsListsOnlyGroupMembers(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "writer")
	group := createTestGroup(t, server, "Travel Notes")

	inGroup := createTestPost(t, server, author.ID, "from the road")
	require.NoError(t, server.DB.Model(inGroup).Update("group_id", group.ID).Error)
	createTestPost(t, server, author.ID, "unaffiliated")

	req, _ := http.NewRequest(http.MethodGet, "/group/travel-notes", nil)
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := getJSON(t, w)
	response := body["response"].(map[string]interface{})
	posts := response["posts"].([]interface{})
	require.Len(t, posts, 1)
	assert.Equal(t, "from the road", posts[0].(map[string]interface{})["text"])

	groupInfo := response["group"].(map[string]interface{})
	assert.Equal(t, "travel-notes", groupInfo["slug"])
}

func TestGroupUnknownSlugIs404(t *testing.T) {
	server := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, "/group/no-such-group", nil)
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateGroupIsAdminOnly(t *testing.T) {
	server := newTestServer(t)
	user := createTestUser(t, server, "plainuser")
	admin := createTestAdmin(t, server, "moderator")

	payload, _ := json.Marshal(map[string]string{
		"title":       "Kitchen Experiments",
		"description": "Recipes and results",
	})

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/groups", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+loginAs(t, user))
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req, _ = http.NewRequest(http.MethodPost, "/api/v1/groups", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+loginAs(t, admin))
	w = httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	group := models.Group{}
	found, err := group.FindGroupBySlug(server.DB, "kitchen-experiments")
	require.NoError(t, err)
	assert.Equal(t, "Kitchen Experiments", found.Title)
}

func TestDeleteGroupDetachesPosts(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "writer")
	admin := createTestAdmin(t, server, "moderator")
	group := createTestGroup(t, server, "Short Lived")

	post := createTestPost(t, server, author.ID, "orphan to be")
	require.NoError(t, server.DB.Model(post).Update("group_id", group.ID).Error)

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/groups/%s", group.Slug), nil)
	req.Header.Set("Authorization", "Bearer "+loginAs(t, admin))
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Post
	require.NoError(t, server.DB.First(&reloaded, post.ID).Error)
	assert.Nil(t, reloaded.GroupID)

	var groups int64
	server.DB.Model(&models.Group{}).Where("id = ?", group.ID).Count(&groups)
	assert.Equal(t, int64(0), groups)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Travel Notes":        "travel-notes",
		"  Kitchen!! Stuff  ": "kitchen-stuff",
		"already-sluggy":      "already-sluggy",
		"C++ corner":          "c-corner",
	}
	for input, want := range cases {
		assert.Equal(t, want, models.Slugify(input), "input %q", input)
	}
}
