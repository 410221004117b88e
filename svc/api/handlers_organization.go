package api

import (
	"cmp"
	"net/http"
	"net/url"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/handler"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/qrcode"
	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

type updateOrganizationRequest struct {
	Name *string       `json:"name"`
	Plan *tenancy.Plan `json:"plan"`
}

type inviteCodeQRRequest struct {
	Size int `query:"size"`
}

type invitationRequest struct {
	Email string `json:"email"`
}

type joinRequest struct {
	InviteCode string `json:"invite_code"`
}

func (s *Server) getOrganization(ctx handler.Context, _ struct{}) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	org, err := s.tenancy.GetOrganization(ctx, p.OrganizationID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(org)
}

func (s *Server) updateOrganization(ctx handler.Context, req updateOrganizationRequest) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	org, err := s.tenancy.UpdateOrganization(ctx, p.OrganizationID, tenancy.UpdateOrganizationParams{
		Name: req.Name,
		Plan: req.Plan,
	})
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(org)
}

func (s *Server) regenerateInviteCode(ctx handler.Context, _ struct{}) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	org, err := s.tenancy.RegenerateInviteCode(ctx, p.OrganizationID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(org)
}

func (s *Server) inviteCodeQR(ctx handler.Context, req inviteCodeQRRequest) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	org, err := s.tenancy.GetOrganization(ctx, p.OrganizationID)
	if err != nil {
		return handler.Fail(err)
	}
	png, err := qrcode.Generate(s.joinLink(org.InviteCode), cmp.Or(req.Size, s.qrSize))
	if err != nil {
		return handler.Fail(err)
	}
	return handler.Bytes("image/png", png)
}

// joinLink is the content encoded in invite-code QR images.
func (s *Server) joinLink(code string) string {
	if s.joinURL == "" {
		return code
	}
	u, err := url.Parse(s.joinURL)
	if err != nil {
		return code
	}
	q := u.Query()
	q.Set("code", code)
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *Server) sendInvitation(ctx handler.Context, req invitationRequest) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	inviter, err := s.auth.User(ctx, p.UserID)
	if err != nil {
		return handler.Fail(err)
	}
	if err := s.tenancy.SendInvitation(ctx, p.OrganizationID, req.Email, cmp.Or(inviter.Name, inviter.Email)); err != nil {
		return handler.Fail(err)
	}
	return handler.EmptyWithStatus(http.StatusAccepted)
}

func (s *Server) joinOrganization(ctx handler.Context, req joinRequest) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	m, err := s.tenancy.JoinByInviteCode(ctx, p.UserID, req.InviteCode)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(m, handler.WithJSONStatus(http.StatusCreated))
}

// leaveOrganization ends the caller's membership and revokes the session
// bound to it.
func (s *Server) leaveOrganization(ctx handler.Context, _ struct{}) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	m, err := s.tenancy.LeaveOrganization(ctx, p.OrganizationID, p.UserID)
	if err != nil {
		return handler.Fail(err)
	}
	if err := s.auth.Logout(ctx, p); err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(m)
}
