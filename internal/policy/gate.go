// Package policy holds the authorization rules for packages, user profiles
// and statistics. Decisions are pure functions of the acting identity and
// the resource; nothing here touches storage.
//
// The Gate is a registry of policies keyed by resource type. Handlers and
// services call Authorize with an Actor, an Action and the resource (or nil
// for list/create style checks).
package policy

import (
	"context"
	"errors"

	"track_swiftly/internal/models"
)

// Sentinel errors returned by Gate.Authorize.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
	ErrNoPolicyDefined = errors.New("no policy defined for resource")
)

// Resource type names used with the Gate.
const (
	ResourcePackage = "package"
	ResourceUser    = "user"
	ResourceStats   = "stats"
)

// Action describes the kind of operation an actor wants to perform.
type Action string

const (
	ActionView         Action = "view"
	ActionList         Action = "list"
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionUpdateStatus Action = "update_status"
	ActionDelete       Action = "delete"
	ActionViewHistory  Action = "view_history"
	ActionTrack        Action = "track"
)

// Actor is the identity performing a request. The zero Actor is anonymous.
type Actor struct {
	ID   string
	Role models.Role
}

// Anonymous is the actor of unauthenticated requests.
var Anonymous = Actor{}

func ActorFor(u *models.User) Actor {
	if u == nil {
		return Anonymous
	}
	return Actor{ID: u.ID, Role: u.Role}
}

func (a Actor) IsAnonymous() bool { return a.ID == "" }

func (a Actor) Is(role models.Role) bool { return !a.IsAnonymous() && a.Role == role }

// Policy defines authorization rules for a resource type.
type Policy interface {
	// Can returns true if actor may perform action on resource.
	// For list/create, resource may be nil.
	Can(ctx context.Context, actor Actor, action Action, resource any) bool
}

// Gate is the central authorization checkpoint.
type Gate struct {
	policies map[string]Policy
}

func NewGate() *Gate {
	return &Gate{policies: make(map[string]Policy)}
}

// NewDefaultGate registers the package, user and stats policies.
func NewDefaultGate(restrictStaffUpdates bool) *Gate {
	g := NewGate()
	g.Register(ResourcePackage, PackagePolicy{RestrictStaffUpdates: restrictStaffUpdates})
	g.Register(ResourceUser, UserPolicy{})
	g.Register(ResourceStats, StatsPolicy{})
	return g
}

// Register adds a policy for a resource type, replacing any existing one.
func (g *Gate) Register(resourceType string, p Policy) {
	g.policies[resourceType] = p
}

// Authorize returns nil when the action is allowed. A denied anonymous actor
// gets ErrUnauthenticated, a denied authenticated one ErrForbidden.
func (g *Gate) Authorize(ctx context.Context, actor Actor, action Action, resourceType string, resource any) error {
	p, ok := g.policies[resourceType]
	if !ok {
		return ErrNoPolicyDefined
	}
	if p.Can(ctx, actor, action, resource) {
		return nil
	}
	if actor.IsAnonymous() {
		return ErrUnauthenticated
	}
	return ErrForbidden
}

func (g *Gate) Can(ctx context.Context, actor Actor, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, actor, action, resourceType, resource) == nil
}
