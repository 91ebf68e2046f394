package domain

import "time"

type WaitlistStatus string

const (
	WaitlistPending  WaitlistStatus = "PENDING"
	WaitlistApproved WaitlistStatus = "APPROVED"
	WaitlistRejected WaitlistStatus = "REJECTED"
)

// WaitlistEntry is a signup request. Approval issues an onboarding token that
// is exchanged once for a user and organization.
type WaitlistEntry struct {
	ID             string
	Email          string
	Name           string
	Company        string
	Reason         string
	Status         WaitlistStatus
	TokenHash      *string
	TokenExpiresAt *time.Time
	TokenUsedAt    *time.Time
	ReviewedBy     *string
	ReviewedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (e WaitlistEntry) State() TokenState {
	s := TokenState{
		Withdrawn: e.Status != WaitlistApproved || e.TokenHash == nil,
		Consumed:  e.TokenUsedAt != nil,
	}
	if e.TokenExpiresAt != nil {
		s.ExpiresAt = *e.TokenExpiresAt
	}
	return s
}
