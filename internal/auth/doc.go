// Package auth provides the token and authorization primitives of the
// spaces control plane.
//
// This package implements:
//   - RS256 access tokens carrying identity and role claims
//   - HS256 refresh tokens signed with a separate secret
//   - Token verification with distinguishable failure reasons
//   - An immutable route policy table built at startup
//   - The route authorization gate (public bypass, authentication, role check)
//   - bcrypt password hashing
//
// Nothing in this package performs I/O. Identity lookups and revocation
// storage live behind interfaces owned by the callers.
package auth
