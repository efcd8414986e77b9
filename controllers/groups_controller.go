package controllers

import (
	"errors"
	"net/http"

	"Postline/models"
	"Postline/paginator"
	"Postline/utils/formaterror"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetGroups lists every group.
func (server *Server) GetGroups(c *gin.Context) {
	group := models.Group{}
	groups, err := group.FindAllGroups(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading groups"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": groups,
	})
}

// GroupPosts renders a group's paginated post listing. An unknown slug is
// a 404.
func (server *Server) GroupPosts(c *gin.Context) {
	group := models.Group{}
	found, err := group.FindGroupBySlug(server.DB, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status": http.StatusNotFound,
				"error":  map[string]string{"No_group": "No group found"},
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading group"})
		}
		return
	}

	post := models.Post{}
	total, err := post.CountGroupPosts(server.DB, found.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading posts"})
		return
	}

	pageObj := paginator.New(total, paginator.PerPage(), paginator.ParsePageNumber(c.Query("page")))
	posts, err := post.FindGroupPosts(server.DB, found.ID, pageObj.Offset(), pageObj.Limit())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"group": groupToDTO(found),
			"posts": postsToDTO(posts),
			"page":  pageObj,
		},
	})
}

// CreateGroup is admin-only; groups are curated, not user-generated.
func (server *Server) CreateGroup(c *gin.Context) {
	var group models.Group
	if err := c.ShouldBindJSON(&group); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Invalid_body": "Invalid request body"},
		})
		return
	}

	group.Prepare()
	if errList := group.Validate(); len(errList) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errList,
		})
		return
	}

	created, err := group.SaveGroup(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": created,
	})
}

// DeleteGroup removes the group; its posts stay, detached.
func (server *Server) DeleteGroup(c *gin.Context) {
	group := models.Group{}
	found, err := group.FindGroupBySlug(server.DB, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status": http.StatusNotFound,
				"error":  map[string]string{"No_group": "No group found"},
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading group"})
		}
		return
	}

	if _, err := found.DeleteAGroup(server.DB, found.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Group deleted",
	})
}
