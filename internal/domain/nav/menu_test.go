package nav

import (
	"testing"

	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(items []MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Label)
	}
	return out
}

func TestDefaultMenu(t *testing.T) {
	items := Default()
	require.Len(t, items, 7)
	assert.Equal(t, "Dashboard", items[0].Label)
	assert.True(t, items[5].AdminOnly)
	assert.True(t, items[6].AdminOnly)
}

func TestFilter_NonAdminRolesHideAdminEntries(t *testing.T) {
	for _, role := range []user.Role{user.RoleAgent, user.RoleManager, user.Role(""), user.Role("unknown")} {
		got := Filter(Default(), role, "/dashboard")
		for _, it := range got {
			assert.False(t, it.AdminOnly, "role %q saw %s", role, it.Label)
		}
		assert.NotContains(t, labels(got), "Add Users")
		assert.NotContains(t, labels(got), "Admin Dashboard")
		assert.Len(t, got, 5)
	}
}

func TestFilter_AdminSeesEverything(t *testing.T) {
	all := Default()
	got := Filter(all, user.RoleAdmin, "")
	assert.Equal(t, labels(all), labels(got))
}

func TestFilter_MarksActiveEntry(t *testing.T) {
	got := Filter(Default(), user.RoleAgent, "/reports")
	for _, it := range got {
		assert.Equal(t, it.Href == "/reports", it.Active)
	}
}

func TestParse_RejectsIncompleteEntries(t *testing.T) {
	_, err := Parse([]byte("- label: Home\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("not: [valid"))
	assert.Error(t, err)
}
