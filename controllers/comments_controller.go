package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"Postline/models"
	"Postline/utils/formaterror"
	httpctx "Postline/utils/httpctx"

	"github.com/gin-gonic/gin"
)

type commentInput struct {
	Body string `json:"body" form:"body"`
}

// AddComment attaches a comment to a post and bounces the reader back to
// the detail page, like the form it came from.
func (server *Server) AddComment(c *gin.Context) {
	post, err := server.findPostFromParam(c)
	if err != nil {
		return
	}

	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input commentInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Invalid_body": "Invalid request body"},
		})
		return
	}

	comment := models.Comment{
		PostID: post.ID,
		UserID: uid,
		Body:   input.Body,
	}
	comment.Prepare()

	if errList := comment.Validate(); len(errList) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	if _, err := comment.SaveComment(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d", post.ID))
}

// GetComments lists a post's comments, oldest first.
func (server *Server) GetComments(c *gin.Context) {
	post, err := server.findPostFromParam(c)
	if err != nil {
		return
	}

	comment := models.Comment{}
	comments, err := comment.GetComments(server.DB, post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": commentsToDTO(comments),
	})
}

// DeleteComment removes a comment (owner or admin only).
func (server *Server) DeleteComment(c *gin.Context) {
	cid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	comment := models.Comment{}
	if err := server.DB.Where("id = ?", uint(cid)).Take(&comment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  map[string]string{"No_comment": "No comment found"},
		})
		return
	}

	if uid != comment.UserID && !httpctx.IsAdminRequest(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if _, err := comment.DeleteAComment(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Comment deleted",
	})
}
