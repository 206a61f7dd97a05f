package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnforcer_RoleHierarchy(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)

	cases := []struct {
		role, obj, act string
		want           bool
	}{
		{"agent", ResTickets, ActRead, true},
		{"agent", ResTickets, ActWrite, true},
		{"agent", ResComments, ActWrite, true},
		{"agent", ResReports, ActRead, true},
		{"agent", ResAudit, ActRead, true},
		{"agent", ResReports, ActWrite, false},
		{"agent", ResUsers, ActWrite, false},
		{"manager", ResReports, ActRead, true},
		{"manager", ResAttachments, ActWrite, true},
		{"manager", ResUsers, ActRead, false},
		{"manager", ResAudit, ActRead, true},
		{"admin", ResUsers, ActWrite, true},
		{"admin", ResAudit, ActRead, true},
		{"admin", ResTickets, ActWrite, true},
		{"admin", ResAudit, ActWrite, false},
		{"", ResTickets, ActRead, false},
		{"customer", ResTickets, ActRead, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, e.Allowed(tc.role, tc.obj, tc.act), "%s %s %s", tc.role, tc.obj, tc.act)
	}
}
