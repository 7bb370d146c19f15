// Package permission holds the authorization rules of the catalog API: the
// effective privilege derived from a user's role and escalation flags, and the
// predicates that gate each endpoint group and each owned object.
package permission

import "yamdb/internal/microservices/http-api/models"

// Privilege is the effective authorization level of a principal.
type Privilege int

const (
	Regular Privilege = iota
	Moderator
	Admin
)

func (p Privilege) String() string {
	switch p {
	case Admin:
		return "admin"
	case Moderator:
		return "moderator"
	default:
		return "regular"
	}
}

// PrivilegeOf folds the three underlying signals into one level. Staff and
// superuser flags grant admin regardless of role.
func PrivilegeOf(role models.Role, isStaff, isSuperuser bool) Privilege {
	if role == models.RoleAdmin || isStaff || isSuperuser {
		return Admin
	}
	if role == models.RoleModerator {
		return Moderator
	}
	return Regular
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID    string
	Username  string
	Privilege Privilege
}

// NewPrincipal derives the principal for u once, at authentication time.
func NewPrincipal(u *models.User) *Principal {
	return &Principal{
		UserID:    u.ID,
		Username:  u.DisplayName(),
		Privilege: PrivilegeOf(u.Role, u.IsStaff, u.IsSuperuser),
	}
}

// IsAdmin reports admin-equivalent rights.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Privilege == Admin
}
