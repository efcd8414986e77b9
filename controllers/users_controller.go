package controllers

import (
	"net/http"
	"strconv"

	"Postline/auth"
	"Postline/models"
	"Postline/paginator"
	"Postline/security"
	"Postline/utils/formaterror"

	"github.com/gin-gonic/gin"
)

// CreateUser handles signup.
func (server *Server) CreateUser(c *gin.Context) {
	var user models.User
	var payload struct {
		Username string `json:"username" form:"username"`
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}

	if err := c.ShouldBind(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user.Username = payload.Username
	user.Email = payload.Email
	user.Password = payload.Password

	user.Prepare()
	errorMessages := user.Validate("")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	userCreated, err := user.SaveUser(server.DB)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"errors": formattedError})
		return
	}

	userResponse := map[string]interface{}{
		"id":         userCreated.ID,
		"username":   userCreated.Username,
		"email":      userCreated.Email,
		"created_at": userCreated.CreatedAt,
		"updated_at": userCreated.UpdatedAt,
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"response": userResponse,
	})
}

// GetUsers retrieves all users
func (server *Server) GetUsers(c *gin.Context) {
	user := models.User{}

	users, err := user.FindAllUsers(server.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No users found"})
		return
	}

	userResponses := make([]map[string]interface{}, len(*users))
	for i, user := range *users {
		userResponses[i] = map[string]interface{}{
			"id":         user.ID,
			"username":   user.Username,
			"created_at": user.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": userResponses,
	})
}

// GetUser retrieves a user by ID
func (server *Server) GetUser(c *gin.Context) {
	uid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	user := models.User{}
	userGotten, err := user.FindUserByID(server.DB, uint(uid))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": map[string]interface{}{
			"id":         userGotten.ID,
			"username":   userGotten.Username,
			"created_at": userGotten.CreatedAt,
		},
	})
}

// Profile renders an author's page: their paginated posts, post count and
// whether the viewer follows them. Anonymous viewers simply read
// following=false.
func (server *Server) Profile(c *gin.Context) {
	author, err := resolveUserByUsername(server.DB, c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  map[string]string{"No_user": "User not found"},
		})
		return
	}

	post := models.Post{}
	total, err := post.CountAuthorPosts(server.DB, author.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading posts"})
		return
	}

	pageObj := paginator.New(total, paginator.PerPage(), paginator.ParsePageNumber(c.Query("page")))
	posts, err := post.FindAuthorPosts(server.DB, author.ID, pageObj.Offset(), pageObj.Limit())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading posts"})
		return
	}

	// The follow affordance: viewers who aren't logged in are treated as
	// not following, without error.
	following := false
	if viewerID, err := auth.ExtractTokenID(c.Request); err == nil {
		following, _ = models.IsFollowing(server.DB, viewerID, author.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			"author":            userToDTO(author),
			"posts":             postsToDTO(posts),
			"page":              pageObj,
			"count_post_author": total,
			"following":         following,
		},
	})
}

// UpdateUser allows a user to update their email and password
func (server *Server) UpdateUser(c *gin.Context) {
	uid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	tokenID, exists := c.Get("userID")
	if !exists || tokenID != uint(uid) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var requestBody map[string]string
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot parse request body"})
		return
	}

	formerUser := models.User{}
	err = server.DB.Model(&models.User{}).Where("id = ?", uint(uid)).Take(&formerUser).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	newUser := models.User{}
	newUser.Username = formerUser.Username // Usernames are immutable

	if currentPassword, ok := requestBody["current_password"]; ok {
		newPassword, ok := requestBody["new_password"]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "New password is required"})
			return
		}
		if len(newPassword) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password should be at least 6 characters"})
			return
		}
		if err := security.VerifyPassword(formerUser.Password, currentPassword); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
			return
		}
		newUser.Password = newPassword
	}

	if email, ok := requestBody["email"]; ok {
		newUser.Email = email
	} else {
		newUser.Email = formerUser.Email
	}

	newUser.Prepare()
	errorMessages := newUser.Validate("update")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errorMessages})
		return
	}

	updatedUser, err := newUser.UpdateAUser(server.DB, uint(uid))
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"errors": formattedError})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": map[string]interface{}{
			"id":         updatedUser.ID,
			"username":   updatedUser.Username,
			"email":      updatedUser.Email,
			"created_at": updatedUser.CreatedAt,
			"updated_at": updatedUser.UpdatedAt,
		},
	})
}

// DeleteUser deletes a user and everything that cascades with them:
// posts, comments and follow edges.
func (server *Server) DeleteUser(c *gin.Context) {
	uid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	tokenID, exists := c.Get("userID")
	if !exists || tokenID != uint(uid) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user := models.User{}
	if _, err := user.DeleteAUser(server.DB, uint(uid)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "User deleted",
	})
}
