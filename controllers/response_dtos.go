package controllers

import (
	"time"

	"Postline/models"
	"Postline/paginator"
)

type UserDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type GroupDTO struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

type PostDTO struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	Author    UserDTO   `json:"author"`
	Group     *GroupDTO `json:"group"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CommentDTO struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// PostListDTO is the shape of every paginated listing.
type PostListDTO struct {
	Posts []PostDTO      `json:"posts"`
	Page  paginator.Page `json:"page"`
}

func userToDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

func groupToDTO(group *models.Group) *GroupDTO {
	if group == nil {
		return nil
	}
	return &GroupDTO{
		Title:       group.Title,
		Slug:        group.Slug,
		Description: group.Description,
	}
}

func postToDTO(post *models.Post) PostDTO {
	return PostDTO{
		ID:        post.ID,
		Text:      post.Text,
		Author:    userToDTO(&post.Author),
		Group:     groupToDTO(post.Group),
		ImagePath: post.ImagePath,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

func postsToDTO(posts *[]models.Post) []PostDTO {
	out := make([]PostDTO, 0, len(*posts))
	for i := range *posts {
		out = append(out, postToDTO(&(*posts)[i]))
	}
	return out
}

func commentToDTO(comment *models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		UserID:    comment.UserID,
		Username:  comment.Author.Username,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
}

func commentsToDTO(comments *[]models.Comment) []CommentDTO {
	out := make([]CommentDTO, 0, len(*comments))
	for i := range *comments {
		out = append(out, commentToDTO(&(*comments)[i]))
	}
	return out
}
