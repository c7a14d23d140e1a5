package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleMarketing Role = "marketing"
	RoleViewer    Role = "viewer"
)

// DefaultDepartment is assigned to auto-provisioned profiles.
const DefaultDepartment = "Marketing"

// UserProfile is the application-side record of a signed-in user.
// Its id is the identity uid.
type UserProfile struct {
	ID         string     `gorm:"primaryKey;type:varchar(64)" json:"uid" bson:"_id"`
	Email      string     `gorm:"uniqueIndex;not null" json:"email" bson:"email"`
	Name       string     `json:"name" bson:"name"`
	Role       Role       `gorm:"default:'viewer'" json:"role" bson:"role"`
	Department string     `json:"department" bson:"department"`
	LastLogin  *time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updatedAt"`
}

func (UserProfile) TableName() string { return "users" }

func (u *UserProfile) GetID() string   { return u.ID }
func (u *UserProfile) SetID(id string) { u.ID = id }

func (u *UserProfile) Created() time.Time      { return u.CreatedAt }
func (u *UserProfile) SetCreated(at time.Time) { u.CreatedAt = at }

func (u *UserProfile) Touch(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}

func (u *UserProfile) SearchFields() map[string]string {
	return map[string]string{"email": u.Email, "name": u.Name}
}

// Can reports whether the profile's role grants perm.
func (u *UserProfile) Can(perm Permission) bool {
	return Can(u.Role, perm)
}

// Credential is the sign-in secret for an email address. The id matches the
// uid of the profile provisioned for it.
type Credential struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)" json:"id" bson:"_id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email" bson:"email"`
	PasswordHash string    `gorm:"not null" json:"passwordHash" bson:"passwordHash"`
	Name         string    `json:"name" bson:"name"`
	TokenVersion int       `gorm:"default:0" json:"tokenVersion" bson:"tokenVersion"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (Credential) TableName() string { return "credentials" }

func (c *Credential) GetID() string   { return c.ID }
func (c *Credential) SetID(id string) { c.ID = id }

func (c *Credential) Created() time.Time      { return c.CreatedAt }
func (c *Credential) SetCreated(at time.Time) { c.CreatedAt = at }

func (c *Credential) Touch(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.Email = NormalizeEmail(c.Email)
	c.UpdatedAt = now
}

func (c *Credential) SearchFields() map[string]string {
	return map[string]string{"email": c.Email}
}

// NormalizeEmail lower-cases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RoleForEmail derives the role granted on first sign-in from the address:
// a local part starting with "admin" gets admin, one containing "marketing"
// gets marketing, anything else is a viewer.
func RoleForEmail(email string) Role {
	local := NormalizeEmail(email)
	if at := strings.IndexByte(local, '@'); at >= 0 {
		local = local[:at]
	}
	switch {
	case strings.HasPrefix(local, "admin"):
		return RoleAdmin
	case strings.Contains(local, "marketing"):
		return RoleMarketing
	default:
		return RoleViewer
	}
}
