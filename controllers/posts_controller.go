package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"

	"Postline/cache"
	"Postline/models"
	"Postline/paginator"
	"Postline/utils/formaterror"
	httpctx "Postline/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// postInput is the create/edit form: text plus an optional group and image.
type postInput struct {
	Text    string `json:"text" form:"text"`
	GroupID *uint  `json:"group_id" form:"group_id"`
}

// Index serves the paginated global feed. Pages are memoized for a short
// window keyed by page number; within that window the response is returned
// verbatim, even if posts were created or deleted since.
func (server *Server) Index(c *gin.Context) {
	page := paginator.ParsePageNumber(c.Query("page"))
	cacheKey := indexCacheKey(page)
	ctx := context.Background()

	if cached, err := cache.Get(ctx, cacheKey); err == nil && cached != "" {
		c.Data(http.StatusOK, "application/json", []byte(cached))
		return
	}

	post := models.Post{}
	total, err := post.CountAllPosts(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading posts"})
		return
	}

	pageObj := paginator.New(total, paginator.PerPage(), page)
	posts, err := post.FindAllPosts(server.DB, pageObj.Offset(), pageObj.Limit())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading posts"})
		return
	}

	payload := gin.H{
		"status": http.StatusOK,
		"response": PostListDTO{
			Posts: postsToDTO(posts),
			Page:  pageObj,
		},
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading posts"})
		return
	}
	_ = cache.Set(ctx, cacheKey, jsonBytes, indexCacheTTL())

	c.Data(http.StatusOK, "application/json", jsonBytes)
}

// GetPost renders the post detail: the post itself plus its comments in
// conversation order.
func (server *Server) GetPost(c *gin.Context) {
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

	authorPostCount, err := post.CountAuthorPosts(server.DB, post.AuthorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"post":              postToDTO(post),
			"comments":          commentsToDTO(comments),
			"count_post_author": authorPostCount,
		},
	})
}

// CreatePost publishes a new post and sends the author back to their
// profile, like the page it came from.
func (server *Server) CreatePost(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user := models.User{}
	author, err := user.FindUserByID(server.DB, uid)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input postInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Invalid_body": "Invalid request body"},
		})
		return
	}

	post := models.Post{
		Text:     input.Text,
		AuthorID: uid,
	}
	post.Prepare()

	if errList := server.applyPostGroup(&post, input.GroupID); errList != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	// Optional image (multipart submissions only). A bad file type fails
	// validation before anything is written.
	if file, err := c.FormFile("image"); err == nil && file != nil {
		imagePath, errList := savePostImage(file)
		if errList != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
				"error":  errList,
			})
			return
		}
		post.ImagePath = imagePath
	}

	if errList := post.Validate(); len(errList) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	if _, err := post.SavePost(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+author.Username)
}

// EditPostForm returns the editable fields. A non-author lands back on the
// detail page instead of an error.
func (server *Server) EditPostForm(c *gin.Context) {
	post, err := server.findPostFromParam(c)
	if err != nil {
		return
	}

	uid, _ := httpctx.CurrentUserID(c)
	if uid != post.AuthorID {
		c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d", post.ID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"post":    postToDTO(post),
			"is_edit": true,
		},
	})
}

// EditPost updates text, group and image. The publication date and the
// author never change; a non-author is silently redirected to the detail
// view with no mutation.
func (server *Server) EditPost(c *gin.Context) {
	post, err := server.findPostFromParam(c)
	if err != nil {
		return
	}

	uid, _ := httpctx.CurrentUserID(c)
	if uid != post.AuthorID {
		c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d", post.ID))
		return
	}

	var input postInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Invalid_body": "Invalid request body"},
		})
		return
	}

	updated := models.Post{
		ID:        post.ID,
		Text:      html.EscapeString(strings.TrimSpace(input.Text)),
		AuthorID:  post.AuthorID,
		ImagePath: post.ImagePath,
	}

	if errList := server.applyPostGroup(&updated, input.GroupID); errList != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		imagePath, errList := savePostImage(file)
		if errList != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
				"error":  errList,
			})
			return
		}
		updated.ImagePath = imagePath
	}

	if updated.Text == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Required_text": "Text is required"},
		})
		return
	}

	if _, err := updated.UpdateAPost(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d", post.ID))
}

// DeletePost removes a post and its comments (author or admin only).
func (server *Server) DeletePost(c *gin.Context) {
	post, err := server.findPostFromParam(c)
	if err != nil {
		return
	}

	uid, _ := httpctx.CurrentUserID(c)
	if uid != post.AuthorID && !httpctx.IsAdminRequest(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if _, err := post.DeleteAPost(server.DB, post.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Post deleted",
	})
}

// findPostFromParam resolves :id and writes the error response itself when
// the lookup fails.
func (server *Server) findPostFromParam(c *gin.Context) (*models.Post, error) {
	pid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return nil, err
	}

	post := models.Post{}
	found, err := post.FindPostByID(server.DB, uint(pid))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status": http.StatusNotFound,
				"error":  map[string]string{"No_post": "No post found"},
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading post"})
		}
		return nil, err
	}
	return found, nil
}

// applyPostGroup attaches the optional group, validating it exists.
func (server *Server) applyPostGroup(post *models.Post, groupID *uint) map[string]string {
	if groupID == nil {
		post.GroupID = nil
		return nil
	}

	var group models.Group
	if err := server.DB.Where("id = ?", *groupID).Take(&group).Error; err != nil {
		return map[string]string{"Invalid_group": "No such group"}
	}
	post.GroupID = groupID
	return nil
}
