// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of account roles. Wire values are kept in French
// to stay compatible with existing clients and stored data.
type Role string

const (
	// RoleInscrit is a regular registered member.
	RoleInscrit Role = "inscrit"
	// RoleModerateur can review propositions and manage tips.
	RoleModerateur Role = "moderateur"
	// RoleInvite is a guest account with read-only access.
	RoleInvite Role = "invite"
	// RoleExpert is a recognized domain expert.
	RoleExpert Role = "expert"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleInscrit, RoleModerateur, RoleInvite, RoleExpert:
		return true
	}
	return false
}

// CanModerate reports whether the role grants moderation capabilities.
func (r Role) CanModerate() bool {
	return r == RoleModerateur
}

// CanSubmit reports whether the role may submit propositions and ratings.
func (r Role) CanSubmit() bool {
	return r == RoleInscrit || r == RoleModerateur || r == RoleExpert
}

// User represents a platform account.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FullName  string `gorm:"size:100" json:"full_name"`
	Age       *int   `json:"age,omitempty"`
	Interests string `gorm:"type:text" json:"interests"`
	Bio       string `gorm:"type:text" json:"bio"`
	Phone     string `gorm:"size:20" json:"phone"`
	Avatar    string `gorm:"size:255" json:"avatar"`
	// AvatarURL is not persisted; absolute URL computed from Avatar at response time.
	AvatarURL string         `gorm:"-" json:"avatar_url,omitempty"`
	Role      Role           `gorm:"type:varchar(20);not null;default:'inscrit';index" json:"role"`
	IsStaff   bool           `gorm:"default:false" json:"is_staff"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CanModerate reports whether the account can review propositions and
// manage tips. Staff accounts moderate regardless of role.
func (u *User) CanModerate() bool {
	return u.IsStaff || u.Role.CanModerate()
}
