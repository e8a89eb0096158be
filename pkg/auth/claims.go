package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims accepted by the AML service. The caller identity
// is carried in the registered "sub" claim.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAnyRole reports whether at least one of roles is granted.
func (c Claims) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

const (
	RoleAdmin        = "admin"
	RoleAnalyst      = "analyst"       // compliance analyst: reads verdicts, records reviews
	RoleAuditor      = "auditor"       // read-only
	RoleIngestClient = "ingest_client" // upstream systems submitting transactions
)
