package auth

import (
	"fmt"
	"sort"
	"strings"

	"github.com/upb/spaces-control-plane/models"
)

// RoutePolicy is the authorization metadata attached to one route.
// It is immutable once constructed.
type RoutePolicy struct {
	public bool
	roles  map[models.Role]struct{}
}

// Public marks a route that bypasses authentication entirely.
func Public() RoutePolicy {
	return RoutePolicy{public: true}
}

// Authenticated requires a valid access token but accepts any role.
func Authenticated() RoutePolicy {
	return RoutePolicy{}
}

// RequireRoles requires a valid access token whose role is in roles.
// Calling it with no roles is equivalent to Authenticated.
func RequireRoles(roles ...models.Role) RoutePolicy {
	if len(roles) == 0 {
		return Authenticated()
	}
	set := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return RoutePolicy{roles: set}
}

// IsPublic reports whether the route skips authentication.
func (p RoutePolicy) IsPublic() bool {
	return p.public
}

// Roles returns the required roles in a stable order.
func (p RoutePolicy) Roles() []models.Role {
	out := make([]models.Role, 0, len(p.roles))
	for r := range p.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Permits reports whether role satisfies the policy. An empty role set
// permits every authenticated caller.
func (p RoutePolicy) Permits(role models.Role) bool {
	if len(p.roles) == 0 {
		return true
	}
	_, ok := p.roles[role]
	return ok
}

func (p RoutePolicy) String() string {
	if p.public {
		return "public"
	}
	if len(p.roles) == 0 {
		return "authenticated"
	}
	names := make([]string, 0, len(p.roles))
	for _, r := range p.Roles() {
		names = append(names, string(r))
	}
	return "roles(" + strings.Join(names, ",") + ")"
}

// RouteID builds the key under which a route's policy is registered.
func RouteID(method, pattern string) string {
	return strings.ToUpper(method) + " " + pattern
}

// PolicyTable maps route identifiers to their policies. It is built once
// at startup and only read afterwards, so lookups need no locking.
type PolicyTable struct {
	policies map[string]RoutePolicy
}

// Lookup returns the policy registered for routeID.
func (t *PolicyTable) Lookup(routeID string) (RoutePolicy, bool) {
	p, ok := t.policies[routeID]
	return p, ok
}

// Len returns the number of registered routes.
func (t *PolicyTable) Len() int {
	return len(t.policies)
}

// RouteIDs returns the registered route identifiers in sorted order.
func (t *PolicyTable) RouteIDs() []string {
	ids := make([]string, 0, len(t.policies))
	for id := range t.policies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PolicyTableBuilder collects route policies during route registration.
type PolicyTableBuilder struct {
	policies map[string]RoutePolicy
	built    bool
}

// NewPolicyTableBuilder creates an empty builder.
func NewPolicyTableBuilder() *PolicyTableBuilder {
	return &PolicyTableBuilder{policies: make(map[string]RoutePolicy)}
}

// Register records the policy for routeID. Registering the same route twice
// or registering after Build is a programming error and panics.
func (b *PolicyTableBuilder) Register(routeID string, policy RoutePolicy) {
	if b.built {
		panic(fmt.Sprintf("auth: route %q registered after policy table was built", routeID))
	}
	if _, exists := b.policies[routeID]; exists {
		panic(fmt.Sprintf("auth: duplicate policy for route %q", routeID))
	}
	b.policies[routeID] = policy
}

// Build freezes the collected policies into a PolicyTable.
func (b *PolicyTableBuilder) Build() *PolicyTable {
	b.built = true
	frozen := make(map[string]RoutePolicy, len(b.policies))
	for id, p := range b.policies {
		frozen[id] = p
	}
	return &PolicyTable{policies: frozen}
}
