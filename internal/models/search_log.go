package models

import "time"

// SearchLog records one authenticated search, written before the query runs.
type SearchLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Keywords  string    `gorm:"size:255;not null" json:"keywords"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
