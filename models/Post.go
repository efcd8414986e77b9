package models

import (
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Post is the unit of publishing. CreatedAt is set once and never touched
// by edits; listings default to newest first.
type Post struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	AuthorID  uint      `gorm:"not null;index;index:idx_posts_author_created,priority:1" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	ImagePath string    `gorm:"size:255" json:"image_path"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_posts_author_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (p *Post) Prepare() {
	p.Text = html.EscapeString(strings.TrimSpace(p.Text))
	p.Author = User{}
	p.Group = nil
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
}

func (p *Post) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if p.Text == "" {
		errorMessages["Required_text"] = "Text is required"
	}
	if p.AuthorID == 0 {
		errorMessages["Required_author"] = "Author is required"
	}
	return errorMessages
}

func (p *Post) SavePost(db *gorm.DB) (*Post, error) {
	if err := db.Create(&p).Error; err != nil {
		return nil, err
	}
	if err := db.Model(p).Association("Author").Find(&p.Author); err != nil {
		return nil, err
	}
	return p, nil
}

// newestFirst is the default listing order. The id tiebreak keeps pages
// stable when several posts share a timestamp.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at desc, id desc")
}

func (p *Post) CountAllPosts(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&Post{}).Count(&total).Error
	return total, err
}

func (p *Post) FindAllPosts(db *gorm.DB, offset, limit int) (*[]Post, error) {
	var posts []Post
	err := newestFirst(db.Preload("Author").Preload("Group")).
		Offset(offset).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return &posts, nil
}

func (p *Post) CountGroupPosts(db *gorm.DB, gid uint) (int64, error) {
	var total int64
	err := db.Model(&Post{}).Where("group_id = ?", gid).Count(&total).Error
	return total, err
}

func (p *Post) FindGroupPosts(db *gorm.DB, gid uint, offset, limit int) (*[]Post, error) {
	var posts []Post
	err := newestFirst(db.Preload("Author").Preload("Group")).
		Where("group_id = ?", gid).
		Offset(offset).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return &posts, nil
}

func (p *Post) CountAuthorPosts(db *gorm.DB, uid uint) (int64, error) {
	var total int64
	err := db.Model(&Post{}).Where("author_id = ?", uid).Count(&total).Error
	return total, err
}

func (p *Post) FindAuthorPosts(db *gorm.DB, uid uint, offset, limit int) (*[]Post, error) {
	var posts []Post
	err := newestFirst(db.Preload("Author").Preload("Group")).
		Where("author_id = ?", uid).
		Offset(offset).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return &posts, nil
}

// CountFollowedPosts and FindFollowedPosts compose the personalized feed:
// the global stream filtered to authors the viewer follows, order unchanged.
func (p *Post) CountFollowedPosts(db *gorm.DB, viewerID uint) (int64, error) {
	var total int64
	err := db.Model(&Post{}).
		Where("author_id IN (?)", db.Table("follows").Select("followed_id").Where("follower_id = ?", viewerID)).
		Count(&total).Error
	return total, err
}

func (p *Post) FindFollowedPosts(db *gorm.DB, viewerID uint, offset, limit int) (*[]Post, error) {
	var posts []Post
	err := newestFirst(db.Preload("Author").Preload("Group")).
		Where("author_id IN (?)", db.Table("follows").Select("followed_id").Where("follower_id = ?", viewerID)).
		Offset(offset).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return &posts, nil
}

func (p *Post) FindPostByID(db *gorm.DB, pid uint) (*Post, error) {
	var post Post
	err := db.Preload("Author").Preload("Group").Where("id = ?", pid).Take(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateAPost changes text, group and image only. CreatedAt and the author
// are immutable once published.
func (p *Post) UpdateAPost(db *gorm.DB) (*Post, error) {
	err := db.Model(&Post{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"text":       p.Text,
		"group_id":   p.GroupID,
		"image_path": p.ImagePath,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}

	err = db.Preload("Author").Preload("Group").Where("id = ?", p.ID).Take(&p).Error
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteAPost removes the post's comments before the post itself.
func (p *Post) DeleteAPost(db *gorm.DB, pid uint) (int64, error) {
	if err := db.Where("post_id = ?", pid).Delete(&Comment{}).Error; err != nil {
		return 0, err
	}

	result := db.Where("id = ?", pid).Delete(&Post{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteUserPosts removes every post by the user, comments included.
func (p *Post) DeleteUserPosts(db *gorm.DB, uid uint) (int64, error) {
	if err := db.Where("post_id IN (?)",
		db.Table("posts").Select("id").Where("author_id = ?", uid),
	).Delete(&Comment{}).Error; err != nil {
		return 0, err
	}

	result := db.Where("author_id = ?", uid).Delete(&Post{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
