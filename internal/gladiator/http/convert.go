package http

import (
	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/pkg/gxsdk"
)

func toUser(u domain.User) gxsdk.User {
	return gxsdk.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PlatformRole: string(u.PlatformRole),
		MFAEnabled:   u.MFAEnabled(),
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
}

func toOrganization(o domain.Organization) gxsdk.Organization {
	return gxsdk.Organization{ID: o.ID, Name: o.Name, Slug: o.Slug, CreatedAt: o.CreatedAt}
}

func toMemberships(orgs []domain.UserOrganization) []gxsdk.OrganizationMembership {
	out := make([]gxsdk.OrganizationMembership, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, gxsdk.OrganizationMembership{
			Organization: toOrganization(o.Organization),
			Role:         string(o.Role),
		})
	}
	return out
}

func toMember(m domain.Member) gxsdk.Member {
	return gxsdk.Member{
		UserID:   m.UserID,
		Email:    m.Email,
		Name:     m.Name,
		Role:     string(m.Role),
		JoinedAt: m.CreatedAt,
	}
}

func toInvitation(i domain.Invitation) gxsdk.Invitation {
	return gxsdk.Invitation{
		ID:          i.ID,
		Email:       i.Email,
		Role:        string(i.Role),
		Status:      string(i.Status),
		InvitedByID: i.InvitedByID,
		ExpiresAt:   i.ExpiresAt,
		AcceptedAt:  i.AcceptedAt,
		CreatedAt:   i.CreatedAt,
	}
}

func toWaitlistEntry(e domain.WaitlistEntry) gxsdk.WaitlistEntry {
	return gxsdk.WaitlistEntry{
		ID:             e.ID,
		Email:          e.Email,
		Name:           e.Name,
		Company:        e.Company,
		Reason:         e.Reason,
		Status:         string(e.Status),
		TokenExpiresAt: e.TokenExpiresAt,
		TokenUsedAt:    e.TokenUsedAt,
		ReviewedAt:     e.ReviewedAt,
		CreatedAt:      e.CreatedAt,
	}
}

func toSubscription(s *domain.Subscription) *gxsdk.Subscription {
	if s == nil {
		return nil
	}
	return &gxsdk.Subscription{
		Status:            string(s.Status),
		PriceID:           s.PriceID,
		CurrentPeriodEnd:  s.CurrentPeriodEnd,
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
	}
}

func toInvoice(i domain.Invoice) gxsdk.Invoice {
	return gxsdk.Invoice{
		ID:               i.ID,
		Number:           i.Number,
		Currency:         i.Currency,
		AmountDue:        i.AmountDue,
		AmountPaid:       i.AmountPaid,
		Status:           string(i.Status),
		HostedInvoiceURL: i.HostedInvoiceURL,
		PaidAt:           i.PaidAt,
		CreatedAt:        i.CreatedAt,
	}
}

func toBreachSearches(in []domain.BreachSearch) []gxsdk.BreachSearch {
	out := make([]gxsdk.BreachSearch, 0, len(in))
	for _, s := range in {
		breaches := make([]gxsdk.Breach, 0, len(s.Breaches))
		for _, b := range s.Breaches {
			breaches = append(breaches, gxsdk.Breach{
				Name:        b.Name,
				Title:       b.Title,
				Domain:      b.Domain,
				BreachDate:  b.BreachDate,
				AddedDate:   b.AddedDate,
				PwnCount:    b.PwnCount,
				DataClasses: b.DataClasses,
				IsVerified:  b.IsVerified,
				IsSensitive: b.IsSensitive,
			})
		}
		out = append(out, gxsdk.BreachSearch{
			ID:          s.ID,
			Query:       s.Query,
			QueryType:   string(s.QueryType),
			BreachCount: s.BreachCount,
			Breaches:    breaches,
			Error:       s.Error,
			UserID:      s.UserID,
			CreatedAt:   s.CreatedAt,
		})
	}
	return out
}
