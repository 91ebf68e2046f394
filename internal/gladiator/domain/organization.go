package domain

import (
	"fmt"
	"strings"
	"time"
)

// OrgRole is a member's role inside one organization.
type OrgRole string

const (
	OrgRoleOwner  OrgRole = "OWNER"
	OrgRoleAdmin  OrgRole = "ADMIN"
	OrgRoleMember OrgRole = "MEMBER"
	OrgRoleViewer OrgRole = "VIEWER"
)

func (r OrgRole) rank() int {
	switch r {
	case OrgRoleOwner:
		return 4
	case OrgRoleAdmin:
		return 3
	case OrgRoleMember:
		return 2
	case OrgRoleViewer:
		return 1
	default:
		return 0
	}
}

func (r OrgRole) Valid() bool { return r.rank() > 0 }

// AtLeast reports whether r grants everything min grants.
func (r OrgRole) AtLeast(min OrgRole) bool {
	return r.Valid() && r.rank() >= min.rank()
}

// ParseOrgRole accepts any casing.
func ParseOrgRole(s string) (OrgRole, error) {
	r := OrgRole(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown organization role %q", s)
	}
	return r, nil
}

type Organization struct {
	ID                string
	Name              string
	Slug              string
	BillingCustomerID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Membership struct {
	OrganizationID string
	UserID         string
	Role           OrgRole
	CreatedAt      time.Time
}

// Member is a membership joined with the user it belongs to.
type Member struct {
	Membership
	Email string
	Name  string
}

// UserOrganization is one of the organizations a user belongs to.
type UserOrganization struct {
	Organization
	Role OrgRole
}
