package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/handler"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/rbac"
	"github.com/KeeganArn/TaskFlask-sub000/pkg/validator"
	"github.com/KeeganArn/TaskFlask-sub000/svc/auth"
	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

type listMembersRequest struct {
	Statuses []tenancy.Status `query:"status"`
	RoleID   uuid.UUID        `query:"role_id"`
}

type addMemberRequest struct {
	Email  string    `json:"email"`
	RoleID uuid.UUID `json:"role_id"`
}

type changeRoleRequest struct {
	ID     uuid.UUID `path:"id" json:"-"`
	RoleID uuid.UUID `json:"role_id"`
}

func (s *Server) listMembers(ctx handler.Context, req listMembersRequest) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	rules := make([]validator.Rule, 0, len(req.Statuses))
	for _, st := range req.Statuses {
		rules = append(rules, validator.Rule{
			Check: st.Valid,
			Error: validator.ValidationError{
				Field:   "status",
				Message: fmt.Sprintf("unknown status %q", st),
				Key:     "validation.invalid",
			},
		})
	}
	if err := validator.Apply(rules...); err != nil {
		return handler.Fail(err)
	}

	members, err := s.tenancy.ListMembers(ctx, p.OrganizationID)
	if err != nil {
		return handler.Fail(err)
	}
	filter := tenancy.MemberFilter{RoleID: req.RoleID, Statuses: req.Statuses}
	out := make([]tenancy.Member, 0, len(members))
	for _, m := range members {
		if filter.Matches(m.Membership) {
			out = append(out, m)
		}
	}
	return handler.JSON(out, handler.WithJSONMeta(map[string]any{"total": len(out)}))
}

// addMember creates a pending membership for an existing user. Without a
// role id the catalog's default role is used.
func (s *Server) addMember(ctx handler.Context, req addMemberRequest) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	if err := validator.Apply(
		validator.RequiredString("email", req.Email),
		validator.ValidEmail("email", req.Email),
	); err != nil {
		return handler.Fail(err)
	}

	user, err := s.auth.UserByEmail(ctx, req.Email)
	if err != nil {
		return handler.Fail(err)
	}
	roleID := req.RoleID
	if roleID == uuid.Nil {
		if roleID, err = s.defaultRole(ctx, p.OrganizationID); err != nil {
			return handler.Fail(err)
		}
	}
	if err := s.ensureAssignable(ctx, p, roleID); err != nil {
		return handler.Fail(err)
	}
	m, err := s.tenancy.AddMember(ctx, p.OrganizationID, user.ID, roleID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(m, handler.WithJSONStatus(http.StatusCreated))
}

func (s *Server) defaultRole(ctx handler.Context, orgID uuid.UUID) (uuid.UUID, error) {
	roles, err := s.tenancy.ListRoles(ctx, orgID)
	if err != nil {
		return uuid.Nil, err
	}
	name := s.tenancy.Catalog().DefaultRole
	for _, r := range roles {
		if r.IsSystem && r.Name == name {
			return r.ID, nil
		}
	}
	return uuid.Nil, tenancy.ErrRoleNotFound
}

// ensureAssignable rejects handing out a role carrying permissions the
// caller does not hold.
func (s *Server) ensureAssignable(ctx handler.Context, p auth.Principal, roleID uuid.UUID) error {
	role, err := s.tenancy.GetRole(ctx, p.OrganizationID, roleID)
	if err != nil {
		return err
	}
	if !role.GrantableBy(p.PermissionSet()) {
		return fmt.Errorf("%w: role %q grants more than the caller holds", rbac.ErrPermissionDenied, role.Name)
	}
	return nil
}

func (s *Server) suspendMember(ctx handler.Context, req idRequest) handler.Response {
	return s.membershipAction(ctx, req.ID, s.tenancy.SuspendMember)
}

func (s *Server) reinstateMember(ctx handler.Context, req idRequest) handler.Response {
	return s.membershipAction(ctx, req.ID, s.tenancy.ReinstateMember)
}

func (s *Server) removeMember(ctx handler.Context, req idRequest) handler.Response {
	return s.membershipAction(ctx, req.ID, s.tenancy.RemoveMember)
}

type membershipFunc func(ctx context.Context, orgID, membershipID uuid.UUID) (tenancy.Membership, error)

func (s *Server) membershipAction(ctx handler.Context, membershipID uuid.UUID, fn membershipFunc) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	m, err := fn(ctx, p.OrganizationID, membershipID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(m)
}

func (s *Server) changeMemberRole(ctx handler.Context, req changeRoleRequest) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	if req.RoleID == uuid.Nil {
		return handler.Fail(validator.ValidationErrors{{Field: "role_id", Message: "field is required", Key: "validation.required"}})
	}
	if err := s.ensureAssignable(ctx, p, req.RoleID); err != nil {
		return handler.Fail(err)
	}
	m, err := s.tenancy.ChangeMemberRole(ctx, p.OrganizationID, req.ID, req.RoleID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(m)
}

// acceptMembership activates a pending membership of the caller.
func (s *Server) acceptMembership(ctx handler.Context, req idRequest) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	m, err := s.tenancy.AcceptMembership(ctx, p.UserID, req.ID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(m)
}
