package domain

import "time"

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `json:"content"`
	Published bool      `gorm:"not null;default:false" json:"published"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Author    User      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
