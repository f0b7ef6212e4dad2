package models

import (
	"time"

	"gorm.io/gorm"
)

// Difficulty is the closed set of tip difficulty levels. Wire values are
// kept in French to match existing clients and stored data.
type Difficulty string

const (
	DifficultyDebutant      Difficulty = "debutant"
	DifficultyIntermediaire Difficulty = "intermediaire"
	DifficultyExpert        Difficulty = "expert"
)

// Valid reports whether the difficulty is one of the known values.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyDebutant, DifficultyIntermediaire, DifficultyExpert:
		return true
	}
	return false
}

// Tip is a published community tip. ReliabilityScore and VoteCount are
// denormalized from ratings and recomputed inside the rating transaction.
type Tip struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Source      string     `gorm:"size:255" json:"source"`
	Difficulty  Difficulty `gorm:"type:varchar(20);not null;default:'debutant'" json:"difficulty"`
	PublishedAt time.Time  `gorm:"index" json:"published_at"`
	Valid       bool       `gorm:"default:false;index" json:"valid"`
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
	// AIScore is an optional machine-produced quality estimate in [0,100].
	AIScore          *float64 `json:"ai_score,omitempty"`
	ReliabilityScore float64  `gorm:"default:0" json:"reliability_score"`
	VoteCount        int      `gorm:"default:0" json:"vote_count"`
	CreatorID        *uint    `gorm:"index" json:"creator_id,omitempty"`
	Creator          *User    `gorm:"foreignKey:CreatorID;constraint:OnDelete:SET NULL" json:"creator,omitempty"`
	Categories       []Category `gorm:"many2many:tip_categories" json:"categories,omitempty"`
	Terms            []Term     `gorm:"many2many:tip_terms" json:"terms,omitempty"`
	Images           []TipImage `gorm:"foreignKey:TipID" json:"images,omitempty"`
	// Favorited indicates whether the requesting user favorited this tip (computed)
	Favorited bool           `gorm:"->" json:"favorited"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TipImage is an ordered image attachment on a tip.
type TipImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TipID     uint      `gorm:"not null;index" json:"tip_id"`
	Path      string    `gorm:"size:255;not null" json:"path"`
	URL       string    `gorm:"-" json:"url,omitempty"`
	Caption   string    `gorm:"size:255" json:"caption"`
	Position  int       `gorm:"default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}
