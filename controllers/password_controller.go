package controllers

import (
	"errors"
	"net/http"

	"Postline/mailer"
	"Postline/models"

	"github.com/gin-gonic/gin"
	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

// ForgotPassword issues a one-time reset token and mails the recovery
// link. An unknown email gets the same response as a known one, so the
// endpoint doesn't leak who has an account.
func (server *Server) ForgotPassword(c *gin.Context) {
	user := models.User{}
	var payload struct {
		Email string `json:"email" form:"email"`
	}

	if err := c.ShouldBind(&payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Invalid_body": "Invalid request body"},
		})
		return
	}
	user.Email = payload.Email

	user.Prepare()
	errorMessages := user.Validate("forgotpassword")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	sentResponse := gin.H{
		"status":   http.StatusOK,
		"response": "If that email is registered, a reset link has been sent",
	}

	err := server.DB.Model(models.User{}).Where("email = ?", user.Email).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, sentResponse)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	resetPassword := models.ResetPassword{
		Email: user.Email,
		Token: uuid.NewV4().String(),
	}
	resetPassword.Prepare()

	if _, err := resetPassword.SaveDetails(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	if err := mailer.SendResetPassword(user.Email, resetPassword.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error sending email"})
		return
	}

	c.JSON(http.StatusOK, sentResponse)
}

// ResetPassword consumes the token and sets the new password.
func (server *Server) ResetPassword(c *gin.Context) {
	var payload struct {
		Token          string `json:"token" form:"token"`
		NewPassword    string `json:"new_password" form:"new_password"`
		RetypePassword string `json:"retype_password" form:"retype_password"`
	}

	if err := c.ShouldBind(&payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Invalid_body": "Invalid request body"},
		})
		return
	}

	errorMessages := make(map[string]string)
	if payload.Token == "" {
		errorMessages["Required_token"] = "Token is required"
	}
	if payload.NewPassword == "" || payload.RetypePassword == "" {
		errorMessages["Required_password"] = "Password is required"
	}
	if payload.NewPassword != payload.RetypePassword {
		errorMessages["Mismatched_password"] = "Passwords do not match"
	}
	if len(payload.NewPassword) > 0 && len(payload.NewPassword) < 6 {
		errorMessages["Invalid_password"] = "Password should be at least 6 characters"
	}
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	resetPassword := models.ResetPassword{}
	details, err := resetPassword.FindDetails(server.DB, payload.Token)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  map[string]string{"Invalid_token": "Invalid or expired token"},
		})
		return
	}

	user := models.User{
		Email:    details.Email,
		Password: payload.NewPassword,
	}
	if err := user.UpdatePassword(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	// Tokens are single-use.
	if _, err := details.DeleteDetails(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Please try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": "Password updated, please log in",
	})
}
