package models

import "time"

// Favorite is a toggleable bookmark edge between a user and a tip.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_tip" json:"user_id"`
	TipID     uint      `gorm:"not null;uniqueIndex:idx_favorites_user_tip;index" json:"tip_id"`
	Tip       *Tip      `gorm:"foreignKey:TipID;constraint:OnDelete:CASCADE" json:"tip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
