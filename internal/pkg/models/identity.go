package models

import (
	"errors"
	"strings"
)

// Identity holds the audience attributes of an authenticated connection
type Identity struct {
	UserID         string          `json:"user_id"`
	Role           Role            `json:"role"`
	Branch         string          `json:"branch"`
	EmploymentType EmploymentTypes `json:"employment_type"`
}

// IsAdmin reports whether the identity has the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// NewIdentity validates a user record and turns it into an Identity.
// "*" is a filter value only; a user whose branch is "*" is treated as having no branch.
func NewIdentity(user *User) (*Identity, error) {
	if user == nil {
		return nil, errors.New("identity: nil user")
	}
	userID := strings.TrimSpace(user.ID)
	if userID == "" {
		return nil, errors.New("identity: empty user id")
	}

	role := RoleStaff
	if strings.EqualFold(string(user.Role), string(RoleAdmin)) {
		role = RoleAdmin
	}

	branch := strings.TrimSpace(user.Branch)
	if branch == Wildcard {
		branch = ""
	}

	var employment EmploymentTypes
	for _, t := range user.EmploymentType {
		if t != Wildcard {
			employment = append(employment, t)
		}
	}

	return &Identity{
		UserID:         userID,
		Role:           role,
		Branch:         branch,
		EmploymentType: employment,
	}, nil
}
