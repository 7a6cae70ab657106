package rbac

import (
	"go-hrms/internal/domain"

	"github.com/casbin/casbin/v2"
)

// The permission table is fixed: the product knows exactly three roles.
// Department heads and admins inherit the employee surface.
var rolePolicies = [][3]string{
	{domain.RoleEmployee, "leave_request", "create"},
	{domain.RoleEmployee, "leave_request", "read_own"},
	{domain.RoleEmployee, "leave_request", "withdraw"},
	{domain.RoleEmployee, "notification", "read"},
	{domain.RoleEmployee, "notification", "mark_seen"},
	{domain.RoleEmployee, "notification", "delete"},
	{domain.RoleEmployee, "department", "read"},

	{domain.RoleDepartmentHead, "leave_request", "read_department"},
	{domain.RoleDepartmentHead, "leave_request", "decide"},

	{domain.RoleAdmin, "leave_request", "read_all"},
}

var roleGroupings = [][2]string{
	{domain.RoleDepartmentHead, domain.RoleEmployee},
	{domain.RoleAdmin, domain.RoleEmployee},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
}

func NewService(enforcer *casbin.Enforcer) (Service, error) {
	s := &service{enforcer: enforcer}
	if err := s.loadPolicy(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *service) loadPolicy() error {
	s.enforcer.ClearPolicy()

	for _, p := range rolePolicies {
		if _, err := s.enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}
	for _, g := range roleGroupings {
		if _, err := s.enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	return s.enforcer.Enforce(req.Role, req.Resource, req.Action)
}
