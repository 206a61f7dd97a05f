package authz

import (
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Resources and actions guarded by the policy.
const (
	ResTickets     = "tickets"
	ResComments    = "comments"
	ResAttachments = "attachments"
	ResReports     = "reports"
	ResUsers       = "users"
	ResAudit       = "audit"

	ActRead  = "read"
	ActWrite = "write"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && (r.act == p.act || p.act == "*")
`

// Managers inherit agent permissions and admins inherit manager permissions.
// Audit read for non-admins is narrowed to their own entries by AuditService.
var defaultPolicies = [][]string{
	{"agent", ResTickets, "*"},
	{"agent", ResComments, "*"},
	{"agent", ResAttachments, "*"},
	{"agent", ResReports, ActRead},
	{"agent", ResAudit, ActRead},
	{"admin", ResUsers, "*"},
}

var defaultRoleLinks = [][]string{
	{"manager", "agent"},
	{"admin", "manager"},
}

type Enforcer struct {
	enforcer *casbin.Enforcer
}

func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}
	if _, err := e.AddPolicies(defaultPolicies); err != nil {
		return nil, fmt.Errorf("add policies: %w", err)
	}
	if _, err := e.AddGroupingPolicies(defaultRoleLinks); err != nil {
		return nil, fmt.Errorf("add role links: %w", err)
	}
	return &Enforcer{enforcer: e}, nil
}

// Allowed reports whether role may perform act on obj. Errors deny.
func (e *Enforcer) Allowed(role, obj, act string) bool {
	ok, err := e.enforcer.Enforce(role, obj, act)
	if err != nil {
		slog.Error("permission check failed", "error", err, "role", role, "resource", obj, "action", act)
		return false
	}
	return ok
}
