package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTable_Classify(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		path   string
		want   Classification
		legacy bool
	}{
		{path: "/", want: ClassPublic},
		{path: "", want: ClassPublic},
		{path: "/about", want: ClassPublic},
		{path: "/api/characters", want: ClassPublic},
		{path: "/auth/login", want: ClassLoggedOutOnly},
		{path: "/auth/register", want: ClassLoggedOutOnly},
		{path: "/auth/signup", want: ClassLoggedOutOnly},
		{path: "/auth/callback", want: ClassPublic},
		{path: "/login", want: ClassLoggedOutOnly, legacy: true},
		{path: "/register", want: ClassLoggedOutOnly, legacy: true},
		{path: "/signup", want: ClassLoggedOutOnly, legacy: true},
		{path: "/dashboard", want: ClassProtected},
		{path: "/dashboard/", want: ClassProtected},
		{path: "/characters", want: ClassProtected},
		{path: "/characters/42/edit", want: ClassProtected},
		{path: "/personas/new", want: ClassProtected},
		{path: "/profile", want: ClassProtected},
		{path: "/chat", want: ClassProtected},
		{path: "/chat/abc", want: ClassProtected},
		{path: "/chatter", want: ClassPublic},
		{path: "/admin", want: ClassAdmin},
		{path: "/admin/", want: ClassAdmin},
		{path: "/admin/character-showcase", want: ClassAdmin},
		{path: "/administrator", want: ClassPublic},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			route := table.Classify(tt.path)
			assert.Equal(t, tt.want, route.Class)
			assert.Equal(t, tt.legacy, route.Legacy)
		})
	}
}

func TestTable_FirstMatchWins(t *testing.T) {
	table := Table{
		{Prefix: "/admin/public", Class: ClassPublic},
		{Prefix: "/admin", Class: ClassAdmin},
	}

	assert.Equal(t, ClassPublic, table.Classify("/admin/public/page").Class)
	assert.Equal(t, ClassAdmin, table.Classify("/admin/users").Class)
}

func TestRoute_MatchesIgnoresEmptyPrefix(t *testing.T) {
	assert.False(t, Route{Prefix: "", Class: ClassAdmin}.Matches("/anything"))
	assert.False(t, Route{Prefix: "/", Class: ClassAdmin}.Matches("/anything"))
}

func TestEmptyTable_DefaultsToPublic(t *testing.T) {
	assert.Equal(t, ClassPublic, Table(nil).Classify("/admin").Class)
}
