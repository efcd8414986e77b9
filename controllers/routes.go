package controllers

import (
	"net/http"

	"Postline/middlewares"

	"github.com/gin-gonic/gin"
)

func (s *Server) initializeRoutes() {

	loginRequired := middlewares.LoginRequiredMiddleware(s.DB)
	tokenRequired := middlewares.TokenAuthMiddleware(s.DB)

	// Web-style routes. Anonymous access to the gated ones redirects to
	// /auth/login?next=<path>; successful writes redirect like the pages
	// they came from.
	s.Router.GET("/", s.Index)
	s.Router.GET("/group/:slug", s.GroupPosts)
	s.Router.GET("/profile/:username", s.Profile)
	s.Router.GET("/profile/:username/follow", loginRequired, s.FollowAuthor)
	s.Router.GET("/profile/:username/unfollow", loginRequired, s.UnfollowAuthor)
	s.Router.GET("/posts/:id", s.GetPost)
	s.Router.GET("/posts/:id/edit", loginRequired, s.EditPostForm)
	s.Router.POST("/posts/:id/edit", loginRequired, s.EditPost)
	s.Router.POST("/posts/:id/comment", loginRequired, s.AddComment)
	s.Router.POST("/create", loginRequired, s.CreatePost)
	s.Router.GET("/follow", loginRequired, s.FollowIndex)

	// Auth routes
	authRoutes := s.Router.Group("/auth")
	{
		authRoutes.GET("/login", s.LoginForm)
		authRoutes.POST("/login", middlewares.LoginRateLimitMiddleware(), s.Login)
		authRoutes.POST("/signup", s.CreateUser)
		authRoutes.GET("/logout", s.Logout)
		authRoutes.POST("/password/forgot", middlewares.LoginRateLimitMiddleware(), s.ForgotPassword)
		authRoutes.POST("/password/reset", middlewares.LoginRateLimitMiddleware(), s.ResetPassword)
	}

	v1 := s.Router.Group("/api/v1")
	{
		// Users routes
		v1.GET("/users", s.GetUsers)
		v1.GET("/users/:id", s.GetUser)
		v1.PUT("/users/:id", tokenRequired, s.UpdateUser)
		v1.DELETE("/users/:id", tokenRequired, s.DeleteUser)

		// Groups routes (creation and deletion are admin-managed)
		v1.GET("/groups", s.GetGroups)
		v1.POST("/groups", tokenRequired, middlewares.AdminOnlyMiddleware(), s.CreateGroup)
		v1.DELETE("/groups/:slug", tokenRequired, middlewares.AdminOnlyMiddleware(), s.DeleteGroup)

		// Posts routes
		v1.DELETE("/posts/:id", tokenRequired, s.DeletePost)

		// Comments routes
		v1.GET("/posts/:id/comments", s.GetComments)
		v1.DELETE("/comments/:id", tokenRequired, s.DeleteComment)

		// Cache maintenance: the home feed cache never invalidates on
		// writes, this is the explicit manual clear.
		v1.POST("/cache/clear", tokenRequired, middlewares.AdminOnlyMiddleware(), s.ClearIndexCache)
	}

	s.Router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "Page not found",
		})
	})
}
