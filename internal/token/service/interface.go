// Package service provides credential signing and verification services.
//
// Credentials are RS256-signed JWTs. The signing key pair is persisted as PEM
// files, generated on first boot if absent, and is read-only after process
// start. Rotating the key pair invalidates every previously issued credential.
package service

import (
	"time"

	tokenDomain "github.com/allisson/proxyadmin/internal/token/domain"
)

// Signer signs and verifies credentials against the process-wide key pair.
type Signer interface {
	// Sign produces a signed credential from the given claims with the given
	// lifetime. A unique jti and the expiry are injected into the claims; the
	// returned claims are the ones actually signed.
	Sign(claims *tokenDomain.Claims, ttl time.Duration) (string, *tokenDomain.Claims, error)

	// Parse verifies a credential string and returns its claims.
	//
	// Failure modes, all AuthError:
	//   - empty string: "empty token"
	//   - expired: "token has expired" (distinct from other verification failures)
	//   - anything else (bad signature, wrong algorithm, malformed encoding):
	//     "invalid token" with the underlying cause attached
	//
	// The deprecated "all" scope marker is rewritten to ["user"] before the
	// claims are returned.
	Parse(tokenString string) (*tokenDomain.Claims, error)
}
