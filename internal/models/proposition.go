package models

import "time"

// PropositionStatus defines lifecycle states for submitted propositions.
type PropositionStatus string

const (
	// PropositionStatusEnAttente indicates the proposition is awaiting review.
	PropositionStatusEnAttente PropositionStatus = "en_attente"
	// PropositionStatusEnRevision indicates a moderator has taken the proposition for review.
	PropositionStatusEnRevision PropositionStatus = "en_revision"
	// PropositionStatusAcceptee indicates the proposition was accepted and published as a tip.
	PropositionStatusAcceptee PropositionStatus = "acceptee"
	// PropositionStatusRejetee indicates the proposition was rejected.
	PropositionStatusRejetee PropositionStatus = "rejetee"
)

// Valid reports whether the status is one of the known values.
func (s PropositionStatus) Valid() bool {
	switch s {
	case PropositionStatusEnAttente, PropositionStatusEnRevision,
		PropositionStatusAcceptee, PropositionStatusRejetee:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s PropositionStatus) Terminal() bool {
	return s == PropositionStatusAcceptee || s == PropositionStatusRejetee
}

// CanTransitionTo reports whether moving from s to next is a legal
// state-machine step. A moderator may decide a pending proposition outright
// or park it in en_revision first; no state ever returns to en_attente and
// terminal states admit no further transitions.
func (s PropositionStatus) CanTransitionTo(next PropositionStatus) bool {
	if next == PropositionStatusEnAttente {
		return false
	}
	switch s {
	case PropositionStatusEnAttente:
		return next == PropositionStatusEnRevision ||
			next == PropositionStatusAcceptee ||
			next == PropositionStatusRejetee
	case PropositionStatusEnRevision:
		return next == PropositionStatusAcceptee || next == PropositionStatusRejetee
	}
	return false
}

// Proposition is a user-submitted tip candidate going through moderation.
type Proposition struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	Title        string            `gorm:"size:200;not null" json:"title"`
	Description  string            `gorm:"type:text;not null" json:"description"`
	Source       string            `gorm:"size:255" json:"source"`
	Difficulty   Difficulty        `gorm:"type:varchar(20);not null;default:'debutant'" json:"difficulty"`
	Image        string            `gorm:"size:255" json:"image"`
	ImageURL     string            `gorm:"-" json:"image_url,omitempty"`
	Status       PropositionStatus `gorm:"type:varchar(20);not null;default:'en_attente';index" json:"status"`
	ModerationComment string       `gorm:"type:text" json:"moderation_comment"`
	UserID       uint              `gorm:"not null;index" json:"user_id"`
	User         *User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	// TipID is set when the proposition is accepted and a tip is published from it.
	TipID      *uint      `gorm:"uniqueIndex" json:"tip_id,omitempty"`
	Tip        *Tip       `gorm:"foreignKey:TipID" json:"tip,omitempty"`
	Categories []Category `gorm:"many2many:proposition_categories" json:"categories,omitempty"`
	Terms      []Term     `gorm:"many2many:proposition_terms" json:"terms,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
