// Package guard はロールに基づくビューのアクセス制御を提供する。
package guard

import "github.com/oyaguma3/hr-portal/pkg/model"

// Requirement はビューが要求するロール。
// RoleとRolesの両方が指定された場合はRolesが優先される（空スライスでも優先）。
type Requirement struct {
	Role  model.Role
	Roles []model.Role
}

// RequireRole は単一ロールのRequirementを返す。
func RequireRole(role model.Role) Requirement {
	return Requirement{Role: role}
}

// RequireAnyOf は複数ロールのRequirementを返す。
func RequireAnyOf(roles ...model.Role) Requirement {
	if roles == nil {
		roles = []model.Role{}
	}
	return Requirement{Roles: roles}
}

// Normalize は許可ロール集合を返す。
func (r Requirement) Normalize() []model.Role {
	if r.Roles != nil {
		return r.Roles
	}
	if r.Role != "" {
		return []model.Role{r.Role}
	}
	return nil
}
