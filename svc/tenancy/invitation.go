package tenancy

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	texttemplate "text/template"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/email"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/qrcode"
)

//go:embed templates/*
var invitationTemplates embed.FS

const qrCodeSize = 192

// Invitation is the payload handed to an Inviter.
type Invitation struct {
	Email            string
	OrganizationName string
	OrganizationSlug string
	InviteCode       string
	InvitedBy        string
}

// EmailInviter renders invitations and hands them to an email.Sender.
type EmailInviter struct {
	sender  email.Sender
	joinURL string
	html    *htmltemplate.Template
	text    *texttemplate.Template
}

// NewEmailInviter creates an inviter. joinURL, when set, gets the invite code
// appended as the "code" query parameter and is embedded as a QR code.
func NewEmailInviter(sender email.Sender, joinURL string) (*EmailInviter, error) {
	if sender == nil {
		return nil, fmt.Errorf("%w: sender is required", email.ErrInvalidConfig)
	}
	html, err := htmltemplate.ParseFS(invitationTemplates, "templates/invitation.html")
	if err != nil {
		return nil, err
	}
	text, err := texttemplate.ParseFS(invitationTemplates, "templates/invitation.txt")
	if err != nil {
		return nil, err
	}
	return &EmailInviter{sender: sender, joinURL: joinURL, html: html, text: text}, nil
}

type invitationView struct {
	Invitation
	JoinURL string
	QRCode  htmltemplate.URL
}

func (i *EmailInviter) SendInvitation(ctx context.Context, inv Invitation) error {
	view := invitationView{Invitation: inv}
	if i.joinURL != "" {
		u, err := url.Parse(i.joinURL)
		if err != nil {
			return fmt.Errorf("%w: join url: %w", email.ErrInvalidConfig, err)
		}
		q := u.Query()
		q.Set("code", inv.InviteCode)
		u.RawQuery = q.Encode()
		view.JoinURL = u.String()

		uri, err := qrcode.DataURI(view.JoinURL, qrCodeSize)
		if err != nil {
			return err
		}
		view.QRCode = htmltemplate.URL(uri)
	}

	var html, text bytes.Buffer
	if err := i.html.Execute(&html, view); err != nil {
		return err
	}
	if err := i.text.Execute(&text, view); err != nil {
		return err
	}
	return i.sender.SendEmail(ctx, email.Message{
		To:       inv.Email,
		Subject:  fmt.Sprintf("You're invited to join %s", inv.OrganizationName),
		HTMLBody: html.String(),
		TextBody: text.String(),
		Tag:      "invitation",
	})
}
