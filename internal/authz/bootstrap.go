package authz

import (
	"fmt"

	"github.com/ze-news/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 预置角色矩阵：editor 管理内容，admin 额外管理账号
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleEditor,
			Policies: []Policy{
				{Object: "/articles", Action: "*"},
				{Object: "/articles/*", Action: "*"},
				{Object: "/categories", Action: "*"},
				{Object: "/categories/*", Action: "*"},
				{Object: "/courses", Action: "*"},
				{Object: "/courses/*", Action: "*"},
				{Object: "/fact-checks", Action: "GET"},
				{Object: "/fact-checks/*", Action: "*"},
				{Object: "/upload", Action: "POST"},
			},
		},
		{
			Role:     constants.RoleAdmin,
			Inherits: []string{constants.RoleEditor},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for _, seed := range BuiltinRoleSeeds() {
		for _, parent := range seed.Inherits {
			if err := s.InheritRole(seed.Role, parent); err != nil {
				return err
			}
		}
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(seed.Role, policy.Object, policy.Action); err != nil {
				return err
			}
		}
	}
	return s.enforcer.LoadPolicy()
}
