package api

import (
	"net/http"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/handler"
	"github.com/KeeganArn/TaskFlask-sub000/svc/auth"
	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

type registerRequest struct {
	Email            string `json:"email"`
	Name             string `json:"name"`
	Password         string `json:"password"`
	OrganizationName string `json:"organization_name"`
	OrganizationSlug string `json:"organization_slug"`
	InviteCode       string `json:"invite_code"`
}

type loginRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Organization string `json:"organization"`
}

type switchRequest struct {
	Organization string `json:"organization"`
}

// AuthResponse answers register and login. When SelectionRequired is set the
// session is absent and Candidates lists the organizations to choose from.
type AuthResponse struct {
	User              auth.User        `json:"user"`
	SelectionRequired bool             `json:"selection_required"`
	Candidates        []auth.Candidate `json:"candidates,omitempty"`
	Session           *auth.Session    `json:"session,omitempty"`
}

// MeResponse describes the caller.
type MeResponse struct {
	User         auth.User            `json:"user"`
	Principal    auth.Principal       `json:"principal"`
	Organization tenancy.Organization `json:"organization"`
}

func (s *Server) register(ctx handler.Context, req registerRequest) handler.Response {
	res, err := s.auth.Register(ctx, auth.RegisterParams{
		Email:            req.Email,
		Name:             req.Name,
		Password:         req.Password,
		OrganizationName: req.OrganizationName,
		OrganizationSlug: req.OrganizationSlug,
		InviteCode:       req.InviteCode,
	})
	if err != nil {
		return handler.Fail(err)
	}
	return s.authResult(res, http.StatusCreated, "register")
}

func (s *Server) login(ctx handler.Context, req loginRequest) handler.Response {
	res, err := s.auth.Login(ctx, auth.LoginParams{
		Email:        req.Email,
		Password:     req.Password,
		Organization: req.Organization,
	})
	if err != nil {
		return handler.Fail(err)
	}
	return s.authResult(res, http.StatusOK, "login")
}

func (s *Server) authResult(res auth.Result, status int, flow string) handler.Response {
	if res.SelectionRequired() {
		return handler.JSON(AuthResponse{
			User:              res.User,
			SelectionRequired: true,
			Candidates:        res.Candidates,
		})
	}
	s.metrics.SessionIssued(flow)
	return handler.JSON(AuthResponse{User: res.User, Session: res.Session}, handler.WithJSONStatus(status))
}

func (s *Server) switchOrganization(ctx handler.Context, req switchRequest) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	session, err := s.auth.SwitchOrganization(ctx, p, req.Organization)
	if err != nil {
		return handler.Fail(err)
	}
	s.metrics.SessionIssued("switch")
	return handler.JSON(session)
}

func (s *Server) reissue(ctx handler.Context, _ struct{}) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	session, err := s.auth.Reissue(ctx, p)
	if err != nil {
		return handler.Fail(err)
	}
	s.metrics.SessionIssued("reissue")
	return handler.JSON(session)
}

func (s *Server) logout(ctx handler.Context, _ struct{}) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	if err := s.auth.Logout(ctx, p); err != nil {
		return handler.Fail(err)
	}
	return handler.Empty()
}

func (s *Server) me(ctx handler.Context, _ struct{}) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	user, err := s.auth.User(ctx, p.UserID)
	if err != nil {
		return handler.Fail(err)
	}
	org, err := s.tenancy.GetOrganization(ctx, p.OrganizationID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(MeResponse{User: user, Principal: p, Organization: org})
}
