package auth

import "errors"

var (
	// ErrTokenMissing means the request carried no bearer token.
	ErrTokenMissing = errors.New("token missing")

	// ErrRoleNotPermitted means the caller's role is outside the route's role set.
	ErrRoleNotPermitted = errors.New("role not permitted")

	// ErrRouteNotRegistered means the route has no policy. Such routes are denied.
	ErrRouteNotRegistered = errors.New("route not registered")
)

// Outcome is the result category of an authorization decision.
type Outcome int

const (
	OutcomeAllow Outcome = iota
	OutcomeDeny
	OutcomeUnauthorized
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAllow:
		return "allow"
	case OutcomeDeny:
		return "deny"
	case OutcomeUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Decision is what the gate returns. The gate never writes responses;
// callers translate a Decision into their transport.
type Decision struct {
	Outcome Outcome
	Reason  error
	Claims  *AccessClaims
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}

// AccessTokenVerifier verifies access tokens for the gate.
type AccessTokenVerifier interface {
	VerifyAccessToken(token string) (*AccessClaims, error)
}

// Gate evaluates route policies against bearer tokens.
type Gate struct {
	policies *PolicyTable
	verifier AccessTokenVerifier
}

// NewGate creates a Gate over an already built policy table.
func NewGate(policies *PolicyTable, verifier AccessTokenVerifier) *Gate {
	return &Gate{policies: policies, verifier: verifier}
}

// Authorize decides whether a request to routeID bearing bearerToken may
// proceed. An empty bearerToken means no token was presented.
func (g *Gate) Authorize(routeID, bearerToken string) Decision {
	policy, ok := g.policies.Lookup(routeID)
	if !ok {
		return Decision{Outcome: OutcomeDeny, Reason: ErrRouteNotRegistered}
	}
	return Decide(policy, bearerToken, g.verifier)
}

// Decide applies the three gate stages in order: public bypass, token
// verification, role membership.
func Decide(policy RoutePolicy, bearerToken string, verifier AccessTokenVerifier) Decision {
	if policy.IsPublic() {
		return Decision{Outcome: OutcomeAllow}
	}

	if bearerToken == "" {
		return Decision{Outcome: OutcomeUnauthorized, Reason: ErrTokenMissing}
	}

	claims, err := verifier.VerifyAccessToken(bearerToken)
	if err != nil {
		if !errors.Is(err, ErrTokenInvalid) {
			err = errors.Join(ErrTokenInvalid, err)
		}
		return Decision{Outcome: OutcomeUnauthorized, Reason: err}
	}

	if !policy.Permits(claims.Role()) {
		return Decision{Outcome: OutcomeDeny, Reason: ErrRoleNotPermitted, Claims: claims}
	}

	return Decision{Outcome: OutcomeAllow, Claims: claims}
}
