package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Notifier sends the transactional emails the services trigger.
// *email.Mailer implements it.
type Notifier interface {
	SendInvitation(ctx context.Context, to, orgName, inviter, role, rawToken string, expiresAt time.Time) error
	SendInvitationWithdrawn(ctx context.Context, to, orgName string) error
	SendWaitlistReceived(ctx context.Context, to, name string) error
	SendOnboarding(ctx context.Context, to, name, rawToken string, expiresAt time.Time) error
	SendWaitlistRejected(ctx context.Context, to, name string) error
	SendWelcome(ctx context.Context, to, name, orgName string) error
	SendPasswordReset(ctx context.Context, to, rawToken string, expiresAt time.Time) error
	SendPaymentReceipt(ctx context.Context, to, orgName string, amount decimal.Decimal, currency, number, invoiceURL string) error
}
