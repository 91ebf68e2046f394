package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	textTemplate "text/template"
)

const layout = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Subject}}</title>
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; margin: 0; padding: 0; background-color: #0f1115;">
<table role="presentation" style="width: 100%; border: 0;">
<tr><td style="padding: 40px 0; text-align: center;">
<table role="presentation" style="max-width: 520px; margin: 0 auto; background: #ffffff; border-radius: 8px; overflow: hidden;">
<tr><td style="padding: 32px 40px; text-align: left; color: #1a1a1a; font-size: 15px; line-height: 1.5;">
<h1 style="margin: 0 0 16px; font-size: 22px;">{{.Subject}}</h1>
{{template "content" .Data}}
<p style="margin: 32px 0 0; color: #999; font-size: 12px;">{{.Data.Product}}</p>
</td></tr>
</table>
</td></tr>
</table>
</body>
</html>`

const buttonStyle = `display: inline-block; padding: 12px 28px; background: #b91c1c; color: #ffffff; text-decoration: none; border-radius: 6px; font-weight: 500;`

// Template names double as metric labels.
const (
	TemplateInvitation          = "invitation"
	TemplateInvitationWithdrawn = "invitation_withdrawn"
	TemplateWaitlistReceived    = "waitlist_received"
	TemplateOnboarding          = "onboarding"
	TemplateWaitlistRejected    = "waitlist_rejected"
	TemplateWelcome             = "welcome"
	TemplatePasswordReset       = "password_reset"
	TemplatePaymentReceipt      = "payment_receipt"
)

type emailTemplate struct {
	subject *textTemplate.Template
	html    *template.Template
	text    *textTemplate.Template
}

var templates = map[string]emailTemplate{
	TemplateInvitation: mustTemplate(
		`You're invited to join {{.OrganizationName}} on {{.Product}}`,
		`<p>{{.InviterName}} invited you to join <strong>{{.OrganizationName}}</strong> as {{.Role}}.</p>
<p><a href="{{.URL}}" style="`+buttonStyle+`">Accept invitation</a></p>
<p style="color: #666;">This invitation expires on {{.ExpiresAt}}.</p>`,
		`{{.InviterName}} invited you to join {{.OrganizationName}} as {{.Role}}.

Accept the invitation: {{.URL}}

This invitation expires on {{.ExpiresAt}}.`),

	TemplateInvitationWithdrawn: mustTemplate(
		`Your invitation to {{.OrganizationName}} was withdrawn`,
		`<p>An invitation to join <strong>{{.OrganizationName}}</strong> was sent to you moments ago but could not be recorded.</p>
<p>Please disregard it. An administrator may invite you again.</p>`,
		`An invitation to join {{.OrganizationName}} was sent to you moments ago but could not be recorded.
Please disregard it. An administrator may invite you again.`),

	TemplateWaitlistReceived: mustTemplate(
		`You're on the {{.Product}} waitlist`,
		`<p>Hi {{.Name}},</p>
<p>Thanks for your interest. We will email you as soon as your access is approved.</p>`,
		`Hi {{.Name}},

Thanks for your interest. We will email you as soon as your access is approved.`),

	TemplateOnboarding: mustTemplate(
		`Your {{.Product}} access is approved`,
		`<p>Hi {{.Name}},</p>
<p>Your request was approved. Set up your account and organization to get started.</p>
<p><a href="{{.URL}}" style="`+buttonStyle+`">Complete setup</a></p>
<p style="color: #666;">This link is single use and expires on {{.ExpiresAt}}.</p>`,
		`Hi {{.Name}},

Your request was approved. Complete setup: {{.URL}}

This link is single use and expires on {{.ExpiresAt}}.`),

	TemplateWaitlistRejected: mustTemplate(
		`Your {{.Product}} waitlist request`,
		`<p>Hi {{.Name}},</p>
<p>Thank you for your interest. We are unable to offer you access at this time.</p>`,
		`Hi {{.Name}},

Thank you for your interest. We are unable to offer you access at this time.`),

	TemplateWelcome: mustTemplate(
		`Welcome to {{.Product}}`,
		`<p>Hi {{.Name}},</p>
<p>Your organization <strong>{{.OrganizationName}}</strong> is ready.</p>
<p><a href="{{.URL}}" style="`+buttonStyle+`">Open dashboard</a></p>`,
		`Hi {{.Name}},

Your organization {{.OrganizationName}} is ready: {{.URL}}`),

	TemplatePasswordReset: mustTemplate(
		`Reset your {{.Product}} password`,
		`<p>We received a request to reset your password.</p>
<p><a href="{{.URL}}" style="`+buttonStyle+`">Choose a new password</a></p>
<p style="color: #666;">This link expires on {{.ExpiresAt}}. If you didn't request a reset, you can ignore this email.</p>`,
		`We received a request to reset your password.

Choose a new password: {{.URL}}

This link expires on {{.ExpiresAt}}. If you didn't request a reset, you can ignore this email.`),

	TemplatePaymentReceipt: mustTemplate(
		`Payment received for {{.OrganizationName}}`,
		`<p>We received your payment of <strong>{{.Amount}} {{.Currency}}</strong>{{if .InvoiceNumber}} for invoice {{.InvoiceNumber}}{{end}}.</p>
{{if .URL}}<p><a href="{{.URL}}" style="`+buttonStyle+`">View invoice</a></p>{{end}}`,
		`We received your payment of {{.Amount}} {{.Currency}}{{if .InvoiceNumber}} for invoice {{.InvoiceNumber}}{{end}}.
{{if .URL}}
View invoice: {{.URL}}{{end}}`),
}

func mustTemplate(subject, htmlBody, textBody string) emailTemplate {
	base := template.Must(template.New("layout").Parse(layout))
	template.Must(base.New("content").Parse(htmlBody))
	return emailTemplate{
		subject: textTemplate.Must(textTemplate.New("subject").Parse(subject)),
		html:    base,
		text:    textTemplate.Must(textTemplate.New("text").Parse(textBody)),
	}
}

// Render produces the subject and bodies of the named template. data must
// expose the fields the template references, including Product.
func Render(name string, data any) (subject, html, text string, err error) {
	t, ok := templates[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}

	var buf bytes.Buffer
	if err := t.subject.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("render %s subject: %w", name, err)
	}
	subject = strings.TrimSpace(buf.String())

	buf.Reset()
	page := struct {
		Subject string
		Data    any
	}{Subject: subject, Data: data}
	if err := t.html.Execute(&buf, page); err != nil {
		return "", "", "", fmt.Errorf("render %s html: %w", name, err)
	}
	html = buf.String()

	buf.Reset()
	if err := t.text.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("render %s text: %w", name, err)
	}
	text = buf.String()
	return subject, html, text, nil
}
