package models

import "time"

// Rating is one user's evaluation of a tip. A user may rate a given tip
// at most once; the unique index is the authoritative guard.
type Rating struct {
	ID   uint `gorm:"primaryKey" json:"id"`
	Note int  `gorm:"not null" json:"note"`
	// PerceivedReliability is the rater's own 0-100 estimate, independent of
	// the aggregated score on the tip.
	PerceivedReliability *int      `json:"perceived_reliability,omitempty"`
	Comment              string    `gorm:"type:text" json:"comment"`
	UserID               uint      `gorm:"not null;uniqueIndex:idx_ratings_user_tip" json:"user_id"`
	User                 *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	TipID                uint      `gorm:"not null;uniqueIndex:idx_ratings_user_tip;index" json:"tip_id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
