package authroles

import (
	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
)

// StaticRoleMapper maps IdP groups to roles by simple string membership rules.
// The mapped role only seeds brand-new accounts; stored roles always win.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin
		}
	}
	for _, g := range groups {
		if m.UserGroup != "" && g == m.UserGroup {
			return domainauth.RoleUser
		}
	}
	return domainauth.RoleGuest
}
