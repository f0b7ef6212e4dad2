package models

import "time"

// Term is a glossary entry that can be attached to tips and propositions.
type Term struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Term       string    `gorm:"size:100;uniqueIndex;not null" json:"term"`
	Definition string    `gorm:"type:text;not null" json:"definition"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
