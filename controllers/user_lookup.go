package controllers

import (
	"strings"

	"Postline/models"

	"gorm.io/gorm"
)

func resolveUserByUsername(db *gorm.DB, username string) (*models.User, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}

	user := models.User{}
	return user.FindUserByUsername(db, trimmed)
}
