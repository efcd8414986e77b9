package controllers

import (
	"net/http"

	"Postline/models"
	"Postline/paginator"
	httpctx "Postline/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// FollowAuthor subscribes the viewer to the target author's posts and
// sends them back to the profile. Following twice is harmless: the edge is
// identified by the (follower, followed) pair, and the insert ignores the
// conflict. Following yourself is a no-op.
func (server *Server) FollowAuthor(c *gin.Context) {
	viewerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	target, err := resolveUserByUsername(server.DB, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  map[string]string{"No_user": "User not found"},
		})
		return
	}

	if viewerID != target.ID {
		follow := models.Follow{
			FollowerID: viewerID,
			FollowedID: target.ID,
		}
		if _, err := follow.SaveFollow(server.DB); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error following user"})
			return
		}
	}

	c.Redirect(http.StatusFound, "/profile/"+target.Username)
}

// UnfollowAuthor removes the edge if it exists; unfollowing someone you
// never followed silently succeeds.
func (server *Server) UnfollowAuthor(c *gin.Context) {
	viewerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	target, err := resolveUserByUsername(server.DB, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  map[string]string{"No_user": "User not found"},
		})
		return
	}

	follow := models.Follow{}
	if _, err := follow.DeleteFollow(server.DB, viewerID, target.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error unfollowing user"})
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+target.Username)
}

// FollowIndex composes the personalized feed: the global post stream
// filtered to the authors the viewer follows, newest first. An empty
// follow set yields an empty page, not an error.
func (server *Server) FollowIndex(c *gin.Context) {
	viewerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	post := models.Post{}
	total, err := post.CountFollowedPosts(server.DB, viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading feed"})
		return
	}

	pageObj := paginator.New(total, paginator.PerPage(), paginator.ParsePageNumber(c.Query("page")))
	posts, err := post.FindFollowedPosts(server.DB, viewerID, pageObj.Offset(), pageObj.Limit())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading feed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": PostListDTO{
			Posts: postsToDTO(posts),
			Page:  pageObj,
		},
	})
}
