package email

import (
	"context"
	"errors"
	"html"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, msg)
	return nil
}

func newMailer(s Sender) *Mailer {
	return &Mailer{Sender: s, From: "noreply@gladiatorrx.test", Product: "GladiatorRX", BaseURL: "https://app.gladiatorrx.test/"}
}

func TestRenderAllTemplates(t *testing.T) {
	data := map[string]any{
		TemplateInvitation:          InvitationData{Product: "P", OrganizationName: "Acme", InviterName: "Ann", Role: "member", URL: "https://x/y?token=a", ExpiresAt: "soon"},
		TemplateInvitationWithdrawn: InvitationData{Product: "P", OrganizationName: "Acme"},
		TemplateWaitlistReceived:    WaitlistData{Product: "P", Name: "Bo"},
		TemplateOnboarding:          WaitlistData{Product: "P", Name: "Bo", URL: "https://x/o?token=b", ExpiresAt: "soon"},
		TemplateWaitlistRejected:    WaitlistData{Product: "P", Name: "Bo"},
		TemplateWelcome:             WelcomeData{Product: "P", Name: "Bo", OrganizationName: "Acme", URL: "https://x/d"},
		TemplatePasswordReset:       PasswordResetData{Product: "P", URL: "https://x/r?token=c", ExpiresAt: "soon"},
		TemplatePaymentReceipt:      ReceiptData{Product: "P", OrganizationName: "Acme", Amount: "49.00", Currency: "USD"},
	}
	require.Len(t, data, len(templates))

	for name, d := range data {
		t.Run(name, func(t *testing.T) {
			subject, body, text, err := Render(name, d)
			require.NoError(t, err)
			require.NotEmpty(t, subject)
			require.Contains(t, body, "<html>")
			require.Contains(t, body, html.EscapeString(subject))
			require.NotEmpty(t, strings.TrimSpace(text))
		})
	}

	_, _, _, err := Render("nope", nil)
	require.Error(t, err)
}

func TestRenderEscapesHTML(t *testing.T) {
	_, body, _, err := Render(TemplateWelcome, WelcomeData{Product: "P", Name: "<script>", OrganizationName: "Acme", URL: "https://x"})
	require.NoError(t, err)
	require.NotContains(t, body, "<script>")
	require.Contains(t, body, "&lt;script&gt;")
}

func TestMailerBuildsTokenLinks(t *testing.T) {
	rec := &recordingSender{}
	m := newMailer(rec)
	exp := time.Date(2025, 1, 8, 9, 30, 0, 0, time.UTC)

	require.NoError(t, m.SendInvitation(context.Background(), "c@example.com", "Acme", "Ann", "MEMBER", "tok+/=", exp))
	require.Len(t, rec.msgs, 1)

	msg := rec.msgs[0]
	require.Equal(t, "c@example.com", msg.To)
	require.Equal(t, "noreply@gladiatorrx.test", msg.From)
	require.Equal(t, "You're invited to join Acme on GladiatorRX", msg.Subject)
	require.Contains(t, msg.Text, "https://app.gladiatorrx.test/invitations/accept?token=tok%2B%2F%3D")
	require.Contains(t, msg.Text, "Jan 8, 2025 09:30 UTC")
	require.Contains(t, msg.Text, "as member")
}

func TestMailerReceipt(t *testing.T) {
	rec := &recordingSender{}
	m := newMailer(rec)

	require.NoError(t, m.SendPaymentReceipt(context.Background(), "o@example.com", "Acme", decimal.RequireFromString("49.5"), "usd", "INV-1", ""))
	require.Contains(t, rec.msgs[0].Text, "49.50 USD for invoice INV-1")
	require.NotContains(t, rec.msgs[0].Text, "View invoice")
}

func TestMailerSurfacesSendErrors(t *testing.T) {
	boom := errors.New("relay down")
	m := newMailer(&recordingSender{err: boom})

	err := m.SendPasswordReset(context.Background(), "x@example.com", "tok", time.Now())
	require.ErrorIs(t, err, boom)
}

func TestLogSender(t *testing.T) {
	require.NoError(t, NewLogSender(nil).Send(context.Background(), Message{To: "a@example.com", Subject: "s"}))
}

func TestSMTPSenderReturnsOnContextDone(t *testing.T) {
	// A relay that accepts connections but never sends a greeting.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		var conns []net.Conn
		defer func() {
			for _, c := range conns {
				_ = c.Close()
			}
		}()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conns = append(conns, conn)
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	s := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: addr.Port})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = s.Send(ctx, Message{From: "no-reply@example.com", To: "a@example.com", Subject: "s", Text: "body"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 2*time.Second)
}
