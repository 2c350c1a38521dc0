package auth

import "folio-cms/models"

// Level is the capability level of a caller.
type Level int

const (
	Anonymous Level = iota
	Authenticated
	Administrator
)

func (l Level) String() string {
	switch l {
	case Authenticated:
		return "authenticated"
	case Administrator:
		return "administrator"
	default:
		return "anonymous"
	}
}

// Identity is who the caller is for the duration of one request. The zero
// value is the anonymous caller.
type Identity struct {
	UserID   uint
	Username string
	IsAdmin  bool
}

func FromUser(u *models.User) Identity {
	if u == nil {
		return Identity{}
	}
	return Identity{UserID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

func (i Identity) Level() Level {
	switch {
	case i.UserID == 0:
		return Anonymous
	case i.IsAdmin:
		return Administrator
	default:
		return Authenticated
	}
}

func (i Identity) IsAuthenticated() bool {
	return i.Level() >= Authenticated
}

func (i Identity) IsAdministrator() bool {
	return i.Level() == Administrator
}

// CanManagePost reports whether the caller may edit, publish or delete a post
// written by authorID.
func (i Identity) CanManagePost(authorID uint) bool {
	if i.IsAdministrator() {
		return true
	}
	return i.IsAuthenticated() && i.UserID == authorID
}

// CanManageSite covers categories, projects and user administration.
func (i Identity) CanManageSite() bool {
	return i.IsAdministrator()
}
