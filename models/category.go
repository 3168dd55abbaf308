package models

import "time"

// Category groups knowledge-base articles. Deleting a category deletes its
// articles and, transitively, their comments and attachments.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
