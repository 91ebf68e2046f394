package email

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/metrics"
	"github.com/gladiatorrx/platform/pkg/slogx"
	"github.com/shopspring/decimal"
)

// Mailer renders the product's transactional templates and hands them to a
// Sender. Failures are returned to the caller; nothing is retried.
type Mailer struct {
	Sender  Sender
	From    string
	Product string
	// BaseURL is the public frontend origin used to build links.
	BaseURL string
}

type InvitationData struct {
	Product          string
	OrganizationName string
	InviterName      string
	Role             string
	URL              string
	ExpiresAt        string
}

type WaitlistData struct {
	Product   string
	Name      string
	URL       string
	ExpiresAt string
}

type WelcomeData struct {
	Product          string
	Name             string
	OrganizationName string
	URL              string
}

type PasswordResetData struct {
	Product   string
	URL       string
	ExpiresAt string
}

type ReceiptData struct {
	Product          string
	OrganizationName string
	Amount           string
	Currency         string
	InvoiceNumber    string
	URL              string
}

func (m *Mailer) SendInvitation(ctx context.Context, to, orgName, inviter, role, rawToken string, expiresAt time.Time) error {
	return m.send(ctx, TemplateInvitation, to, InvitationData{
		Product:          m.Product,
		OrganizationName: orgName,
		InviterName:      inviter,
		Role:             strings.ToLower(role),
		URL:              m.link("/invitations/accept", rawToken),
		ExpiresAt:        formatTime(expiresAt),
	})
}

func (m *Mailer) SendInvitationWithdrawn(ctx context.Context, to, orgName string) error {
	return m.send(ctx, TemplateInvitationWithdrawn, to, InvitationData{
		Product:          m.Product,
		OrganizationName: orgName,
	})
}

func (m *Mailer) SendWaitlistReceived(ctx context.Context, to, name string) error {
	return m.send(ctx, TemplateWaitlistReceived, to, WaitlistData{Product: m.Product, Name: displayName(name)})
}

func (m *Mailer) SendOnboarding(ctx context.Context, to, name, rawToken string, expiresAt time.Time) error {
	return m.send(ctx, TemplateOnboarding, to, WaitlistData{
		Product:   m.Product,
		Name:      displayName(name),
		URL:       m.link("/onboarding", rawToken),
		ExpiresAt: formatTime(expiresAt),
	})
}

func (m *Mailer) SendWaitlistRejected(ctx context.Context, to, name string) error {
	return m.send(ctx, TemplateWaitlistRejected, to, WaitlistData{Product: m.Product, Name: displayName(name)})
}

func (m *Mailer) SendWelcome(ctx context.Context, to, name, orgName string) error {
	return m.send(ctx, TemplateWelcome, to, WelcomeData{
		Product:          m.Product,
		Name:             displayName(name),
		OrganizationName: orgName,
		URL:              m.link("/dashboard", ""),
	})
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, rawToken string, expiresAt time.Time) error {
	return m.send(ctx, TemplatePasswordReset, to, PasswordResetData{
		Product:   m.Product,
		URL:       m.link("/password/reset", rawToken),
		ExpiresAt: formatTime(expiresAt),
	})
}

func (m *Mailer) SendPaymentReceipt(ctx context.Context, to, orgName string, amount decimal.Decimal, currency, number, invoiceURL string) error {
	return m.send(ctx, TemplatePaymentReceipt, to, ReceiptData{
		Product:          m.Product,
		OrganizationName: orgName,
		Amount:           amount.StringFixed(2),
		Currency:         strings.ToUpper(currency),
		InvoiceNumber:    number,
		URL:              invoiceURL,
	})
}

func (m *Mailer) send(ctx context.Context, name, to string, data any) error {
	log := slogx.FromContext(ctx)

	subject, html, text, err := Render(name, data)
	if err != nil {
		metrics.EmailsSentTotal.WithLabelValues(name, "render_error").Inc()
		return err
	}

	err = m.Sender.Send(ctx, Message{From: m.From, To: to, Subject: subject, HTML: html, Text: text})
	if err != nil {
		metrics.EmailsSentTotal.WithLabelValues(name, "error").Inc()
		log.Warn("email delivery failed", "template", name, slogx.Err(err))
		return fmt.Errorf("send %s email: %w", name, err)
	}

	metrics.EmailsSentTotal.WithLabelValues(name, "sent").Inc()
	log.Debug("email sent", "template", name)
	return nil
}

func (m *Mailer) link(path, token string) string {
	u := strings.TrimRight(m.BaseURL, "/") + path
	if token == "" {
		return u
	}
	return u + "?" + url.Values{"token": {token}}.Encode()
}

func formatTime(t time.Time) string {
	return t.UTC().Format("Jan 2, 2006 15:04 UTC")
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "there"
	}
	return name
}
