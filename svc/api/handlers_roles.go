package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/KeeganArn/TaskFlask-sub000/pkg/handler"
	"github.com/KeeganArn/TaskFlask-sub000/svc/tenancy"
)

type idRequest struct {
	ID uuid.UUID `path:"id" json:"-"`
}

type createRoleRequest struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Permissions []string `json:"permissions"`
}

type updateRoleRequest struct {
	ID          uuid.UUID `path:"id" json:"-"`
	DisplayName *string   `json:"display_name"`
	Permissions *[]string `json:"permissions"`
}

func (s *Server) listRoles(ctx handler.Context, _ struct{}) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	roles, err := s.tenancy.ListRoles(ctx, p.OrganizationID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(roles, handler.WithJSONMeta(map[string]any{"total": len(roles)}))
}

func (s *Server) getRole(ctx handler.Context, req idRequest) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	role, err := s.tenancy.GetRole(ctx, p.OrganizationID, req.ID)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(role)
}

func (s *Server) createRole(ctx handler.Context, req createRoleRequest) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	role, err := s.tenancy.CreateRole(ctx, p.OrganizationID, tenancy.CreateRoleParams{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Permissions: req.Permissions,
	})
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(role, handler.WithJSONStatus(http.StatusCreated))
}

func (s *Server) updateRole(ctx handler.Context, req updateRoleRequest) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	role, err := s.tenancy.UpdateRole(ctx, p.OrganizationID, req.ID, tenancy.UpdateRoleParams{
		DisplayName: req.DisplayName,
		Permissions: req.Permissions,
	})
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(role)
}

func (s *Server) deleteRole(ctx handler.Context, req idRequest) handler.Response {
	p, err := principal(ctx)
	if err != nil {
		return handler.Fail(err)
	}
	if err := s.tenancy.DeleteRole(ctx, p.OrganizationID, req.ID); err != nil {
		return handler.Fail(err)
	}
	return handler.Empty()
}
