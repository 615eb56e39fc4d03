package authroles

import (
	domainauth "github.com/target/chat-session-gateway/internal/domain/auth"
	"github.com/target/chat-session-gateway/internal/ports"
)

var _ ports.RoleMapper = StaticRoleMapper{}

// StaticRoleMapper maps IdP groups to roles by membership. Admin wins over user;
// callers in neither group are guests.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	if m.has(groups, m.AdminGroup) {
		return domainauth.RoleAdmin
	}
	if m.has(groups, m.UserGroup) {
		return domainauth.RoleUser
	}
	return domainauth.RoleGuest
}

func (StaticRoleMapper) has(groups []string, want string) bool {
	if want == "" {
		return false
	}
	for _, g := range groups {
		if g == want {
			return true
		}
	}
	return false
}
