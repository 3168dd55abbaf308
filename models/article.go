package models

import "time"

// Article is a knowledge-base entry. ViewCount is server controlled and only
// moves through the store-side increment in the retrieve handler.
type Article struct {
	ID          uint                `gorm:"primaryKey" json:"id"`
	Title       string              `gorm:"size:200;not null" json:"title"`
	Content     string              `gorm:"type:text;not null" json:"content"`
	AuthorID    uint                `gorm:"index;not null" json:"author_id"`
	CategoryID  uint                `gorm:"index;not null" json:"category_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	IsPublished bool                `gorm:"not null" json:"is_published"`
	ViewCount   int                 `gorm:"not null;default:0" json:"view_count"`
	Tags        string              `gorm:"size:500" json:"tags"` // comma-separated
	Author      User                `json:"author"`
	Category    Category            `json:"category"`
	Attachments []ArticleAttachment `json:"attachments"`
	Comments    []Comment           `json:"comments"`
}

// ArticleAttachment is a file linked to exactly one article. File holds the
// public URL of the stored blob; Filename keeps the client-supplied name.
type ArticleAttachment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ArticleID  uint      `gorm:"index;not null" json:"article_id"`
	File       string    `gorm:"size:512;not null" json:"file"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	UploadDate time.Time `gorm:"autoCreateTime" json:"upload_date"`
}
