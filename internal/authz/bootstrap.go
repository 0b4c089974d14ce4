package authz

import (
	"fmt"

	"github.com/dujiao-next/order-desk/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 录单后台预置角色
// 超级管理员由 Admin.IsSuper 直接放行，不写入策略
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleReadonlyAuditor,
			Policies: []Policy{
				{Object: "/admin/me", Action: "GET"},
				{Object: "/admin/logout", Action: "POST"},
				{Object: "/admin/drafts", Action: "GET"},
				{Object: "/admin/catalog/*", Action: "GET"},
				{Object: "/admin/orders", Action: "GET"},
				{Object: "/admin/orders/:order_no", Action: "GET"},
			},
		},
		{
			Role:     constants.RoleCashier,
			Inherits: []string{constants.RoleReadonlyAuditor},
			Policies: []Policy{
				{Object: "/admin/drafts", Action: "POST"},
				{Object: "/admin/drafts/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略（幂等）
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			if err := s.InheritRole(role, parent); err != nil {
				return err
			}
		}
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("add builtin policy %s %s failed: %w", policy.Action, policy.Object, err)
			}
		}
	}
	return nil
}
