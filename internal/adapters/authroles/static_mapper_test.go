package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/target/chat-session-gateway/internal/domain/auth"
)

func TestStaticRoleMapper_Map(t *testing.T) {
	m := StaticRoleMapper{AdminGroup: "admins", UserGroup: "users"}

	assert.Equal(t, domainauth.RoleAdmin, m.Map([]string{"users", "admins"}))
	assert.Equal(t, domainauth.RoleUser, m.Map([]string{"users"}))
	assert.Equal(t, domainauth.RoleGuest, m.Map([]string{"other"}))
	assert.Equal(t, domainauth.RoleGuest, m.Map(nil))
	assert.Equal(t, domainauth.RoleGuest, StaticRoleMapper{}.Map([]string{""}))
}
