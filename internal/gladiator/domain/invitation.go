package domain

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationExpired  InvitationStatus = "EXPIRED"
	InvitationRevoked  InvitationStatus = "REVOKED"
)

// Invitation grants Email the right to join OrganizationID at Role.
// Only the fingerprint of the emailed token is stored.
type Invitation struct {
	ID             string
	OrganizationID string
	Email          string
	Role           OrgRole
	InvitedByID    string
	TokenHash      string
	Status         InvitationStatus
	ExpiresAt      time.Time
	AcceptedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (i Invitation) State() TokenState {
	return TokenState{
		Withdrawn: i.Status == InvitationRevoked,
		Consumed:  i.Status == InvitationAccepted,
		Expired:   i.Status == InvitationExpired,
		ExpiresAt: i.ExpiresAt,
	}
}

// LiveAt reports whether the invitation still blocks a new one to the same
// email and organization.
func (i Invitation) LiveAt(now time.Time) bool {
	return i.Status == InvitationPending && now.Before(i.ExpiresAt)
}
