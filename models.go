package directory

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Gender is the profile gender field, a small enumerated int.
type Gender int

const (
	GenderFemale Gender = iota
	GenderMale
	GenderUnspecified
)

// IsValid checks the gender is within the enumerated range
func (g Gender) IsValid() bool {
	return g >= GenderFemale && g <= GenderUnspecified
}

// Account is the account model. RevokedAt is the soft delete marker:
// a nil value means the account is active. We deliberately do not use
// bun's soft_delete tag because revoked records must stay visible to
// lookups, listings, and the restore operation.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Login         string     `bun:"login,notnull,unique" json:"login,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Gender        Gender     `bun:"gender,notnull" json:"gender"`
	Birthday      *time.Time `bun:"birthday,nullzero" json:"birthday,omitempty"`
	IsAdmin       bool       `bun:"is_admin" json:"is_admin"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at,omitempty"`
	CreatedBy     string     `bun:"created_by" json:"created_by,omitempty"`
	ModifiedAt    *time.Time `bun:"modified_at,nullzero" json:"modified_at,omitempty"`
	ModifiedBy    string     `bun:"modified_by" json:"modified_by,omitempty"`
	RevokedAt     *time.Time `bun:"revoked_at,nullzero" json:"revoked_at,omitempty"`
	RevokedBy     string     `bun:"revoked_by" json:"revoked_by,omitempty"`
}

// IsActive reports whether the account has not been soft deleted
func (a *Account) IsActive() bool {
	return a.RevokedAt == nil
}

// Role maps the admin flag to the session role claim
func (a *Account) Role() AccountRole {
	if a.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Status returns the lifecycle status derived from the revoke marker
func (a *Account) Status() AccountStatus {
	if a.RevokedAt != nil {
		return StatusRevoked
	}
	return StatusActive
}

// AccountView is the response shape for creation and identity lookups.
// The credential digest is never part of a response view.
type AccountView struct {
	ID      uuid.UUID `json:"id"`
	Login   string    `json:"login"`
	Name    string    `json:"name"`
	IsAdmin bool      `json:"is_admin"`
}

// NewAccountView builds an AccountView from an account record
func NewAccountView(a *Account) AccountView {
	return AccountView{
		ID:      a.ID,
		Login:   a.Login,
		Name:    a.Name,
		IsAdmin: a.IsAdmin,
	}
}

// ProfileView is the response shape for profile reads and listings
type ProfileView struct {
	Name     string     `json:"name"`
	Gender   Gender     `json:"gender"`
	Birthday *time.Time `json:"birthday,omitempty"`
	IsActive bool       `json:"is_active"`
}

// NewProfileView builds a ProfileView from an account record
func NewProfileView(a *Account) ProfileView {
	return ProfileView{
		Name:     a.Name,
		Gender:   a.Gender,
		Birthday: a.Birthday,
		IsActive: a.IsActive(),
	}
}

// NewProfileViews maps a listing into profile views
func NewProfileViews(accounts []*Account) []ProfileView {
	views := make([]ProfileView, len(accounts))
	for i, a := range accounts {
		views[i] = NewProfileView(a)
	}
	return views
}
