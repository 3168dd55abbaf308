package models

import "time"

// Notice priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidPriority reports whether p is one of the defined priority values.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Notice is a board announcement. Category here is a free-text label and not
// a reference to the knowledge-base Category table. Pinned notices sort
// before all others regardless of recency.
type Notice struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	Title       string             `gorm:"size:200;not null" json:"title"`
	Content     string             `gorm:"type:text;not null" json:"content"`
	AuthorID    uint               `gorm:"index;not null" json:"author_id"`
	Category    string             `gorm:"size:100" json:"category"`
	Priority    string             `gorm:"size:20;not null" json:"priority"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	ExpiresAt   *time.Time         `json:"expires_at"`
	Pinned      bool               `gorm:"not null;default:false" json:"pinned"`
	Author      User               `json:"author"`
	Attachments []NoticeAttachment `json:"attachments"`
}

// NoticeAttachment is a file linked to exactly one notice.
type NoticeAttachment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	NoticeID   uint      `gorm:"index;not null" json:"notice_id"`
	File       string    `gorm:"size:512;not null" json:"file"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	UploadDate time.Time `gorm:"autoCreateTime" json:"upload_date"`
}
