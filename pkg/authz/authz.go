// Package authz is the single authorization decision point: every operation
// asks "may actor A perform action P on resource R" exactly once instead of
// re-implementing ad hoc field comparisons per route.
package authz

import (
	"fmt"

	"github.com/casbin/casbin"

	apperrors "stayindia/pkg/errors"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ResourceListing = "listing"
	ResourceBooking = "booking"

	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionBook   = "book"
)

// Actor is the authenticated identity attached to a request by the gateway.
type Actor struct {
	ID    string
	Email string
	Name  string
	Role  string
}

// Resource names the target of an action. OwnerID is empty for resources
// without an owner (e.g. creating a new listing).
type Resource struct {
	Type    string
	ID      string
	OwnerID string
}

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

type Authorizer struct {
	enforcer *casbin.Enforcer
}

func New() *Authorizer {
	e := casbin.NewEnforcer(casbin.NewModel(modelText))

	e.AddPolicy(RoleUser, ResourceListing, ActionCreate)
	e.AddPolicy(RoleUser, ResourceListing, ActionRead)
	e.AddPolicy(RoleUser, ResourceListing, ActionUpdate)
	e.AddPolicy(RoleUser, ResourceListing, ActionDelete)
	e.AddPolicy(RoleUser, ResourceBooking, ActionBook)
	e.AddPolicy(RoleUser, ResourceBooking, ActionRead)
	e.AddPolicy(RoleAdmin, ResourceBooking, ActionDelete)
	e.AddGroupingPolicy(RoleAdmin, RoleUser)

	return &Authorizer{enforcer: e}
}

// Can evaluates the capability check. It returns nil when the action is
// allowed and an AppError describing the refusal otherwise.
func (a *Authorizer) Can(actor Actor, action string, res Resource) error {
	if actor.ID == "" {
		return apperrors.Unauthorized("Authentication required")
	}

	role := actor.Role
	if role == "" {
		role = RoleUser
	}

	if !a.enforcer.Enforce(role, res.Type, action) {
		return apperrors.Forbidden(fmt.Sprintf("Role %q may not %s a %s", role, action, res.Type))
	}

	switch action {
	case ActionBook:
		if res.OwnerID != "" && res.OwnerID == actor.ID {
			return apperrors.InvalidInput("You cannot book your own listing")
		}
	case ActionRead:
		// bookings are visible to their guest only; listings are public
		if res.Type == ResourceBooking && res.OwnerID != "" && res.OwnerID != actor.ID && role != RoleAdmin {
			return apperrors.Forbidden("Only the guest may view this booking")
		}
	case ActionUpdate, ActionDelete:
		if res.OwnerID != "" && res.OwnerID != actor.ID && role != RoleAdmin {
			return apperrors.Forbidden(fmt.Sprintf("Only the owner may %s this %s", action, res.Type))
		}
	}

	return nil
}
