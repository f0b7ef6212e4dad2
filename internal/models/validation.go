package models

import "time"

// ValidationStatus is the decision recorded by a moderator on a tip.
type ValidationStatus string

const (
	ValidationStatusAcceptee ValidationStatus = "acceptee"
	ValidationStatusRejetee  ValidationStatus = "rejetee"
)

// Valid reports whether the status is one of the known values.
func (s ValidationStatus) Valid() bool {
	return s == ValidationStatusAcceptee || s == ValidationStatusRejetee
}

// Validation is an append-only moderation decision on a tip. Creating one
// flips the tip's valid flag accordingly.
type Validation struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Status      ValidationStatus `gorm:"type:varchar(20);not null" json:"status"`
	Comment     string           `gorm:"type:text" json:"comment"`
	ModeratorID *uint            `gorm:"index" json:"moderator_id,omitempty"`
	Moderator   *User            `gorm:"foreignKey:ModeratorID;constraint:OnDelete:SET NULL" json:"moderator,omitempty"`
	TipID       uint             `gorm:"not null;index" json:"tip_id"`
	Tip         *Tip             `gorm:"foreignKey:TipID;constraint:OnDelete:CASCADE" json:"tip,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}
