package controllers

import (
	"testing"

	"Postline/auth"
	"Postline/cache"
	"Postline/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer builds a server against an in-memory SQLite database with
// the full route table mounted and a fresh in-process cache installed.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("API_SECRET", "testing-secret")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "Failed to connect to in-memory database")

	server := &Server{DB: db, Router: gin.New()}
	require.NoError(t, server.MigrateAndSetup())
	server.initializeRoutes()

	cache.Use(cache.NewMemoryStore())

	return server
}

func createTestUser(t *testing.T, server *Server, username string) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	}
	user.Prepare()
	created, err := user.SaveUser(server.DB)
	require.NoError(t, err)
	return created
}

func createTestAdmin(t *testing.T, server *Server, username string) *models.User {
	t.Helper()

	admin := createTestUser(t, server, username)
	require.NoError(t, server.DB.Model(admin).Update("is_admin", true).Error)
	admin.IsAdmin = true
	return admin
}

func loginAs(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := auth.CreateToken(user.ID)
	require.NoError(t, err)
	return token
}

func createTestPost(t *testing.T, server *Server, authorID uint, text string) *models.Post {
	t.Helper()

	post := models.Post{Text: text, AuthorID: authorID}
	post.Prepare()
	created, err := post.SavePost(server.DB)
	require.NoError(t, err)
	return created
}

func createTestGroup(t *testing.T, server *Server, title string) *models.Group {
	t.Helper()

	group := models.Group{Title: title}
	group.Prepare()
	created, err := group.SaveGroup(server.DB)
	require.NoError(t, err)
	return created
}
