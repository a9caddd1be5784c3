package models

import (
	"time"
)

const postPreviewLen = 15

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id"` // optional
	Group     *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group"`
	Image     string    `gorm:"size:255" json:"image"`     // relative to MEDIA_ROOT, e.g. posts/small.gif
	Thumbnail string    `gorm:"size:255" json:"thumbnail"` // relative to MEDIA_ROOT, empty when not generated
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Comments []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (p Post) String() string {
	return Truncate(p.Text, postPreviewLen)
}

// PreviewImage prefers the generated thumbnail.
func (p Post) PreviewImage() string {
	if p.Thumbnail != "" {
		return p.Thumbnail
	}
	return p.Image
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
