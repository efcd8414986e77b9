package models

import (
	"html"
	"strings"

	"gorm.io/gorm"
)

// Group is a named community a post can optionally belong to. Groups are
// admin-managed; deleting one detaches its posts instead of deleting them.
type Group struct {
	ID          uint   `gorm:"primary_key;autoIncrement" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:200;not null;uniqueIndex" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

func (g *Group) Prepare() {
	g.Title = html.EscapeString(strings.TrimSpace(g.Title))
	g.Description = html.EscapeString(strings.TrimSpace(g.Description))
	g.Slug = strings.TrimSpace(g.Slug)
	if g.Slug == "" {
		g.Slug = Slugify(g.Title)
	} else {
		g.Slug = Slugify(g.Slug)
	}
}

func (g *Group) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if g.Title == "" {
		errorMessages["Required_title"] = "Title is required"
	}
	if g.Slug == "" {
		errorMessages["Required_slug"] = "Slug is required"
	}
	return errorMessages
}

// Slugify lowercases the input and collapses every non-alphanumeric run
// into a single dash.
func Slugify(raw string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func (g *Group) SaveGroup(db *gorm.DB) (*Group, error) {
	err := db.Create(&g).Error
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Group) FindAllGroups(db *gorm.DB) (*[]Group, error) {
	var groups []Group
	err := db.Order("title asc").Limit(100).Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return &groups, nil
}

func (g *Group) FindGroupBySlug(db *gorm.DB, slug string) (*Group, error) {
	var group Group
	err := db.Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).Take(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteAGroup detaches the group's posts before deleting the group, so the
// posts outlive their community.
func (g *Group) DeleteAGroup(db *gorm.DB, gid uint) (int64, error) {
	if err := db.Model(&Post{}).Where("group_id = ?", gid).
		Update("group_id", nil).Error; err != nil {
		return 0, err
	}

	result := db.Where("id = ?", gid).Delete(&Group{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
