package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
	tokenDomain "github.com/allisson/proxyadmin/internal/token/domain"
)

// signingMethod is fixed; credentials signed with any other algorithm are
// rejected during verification.
var signingMethod = jwt.SigningMethodRS256

// Issuer is the issuer claim stamped on every credential this service signs.
const Issuer = "api"

// rsaSigner implements Signer using an RSA key pair.
type rsaSigner struct {
	keys *KeyPair
	now  func() time.Time
}

// NewSigner creates a Signer backed by the given key pair.
func NewSigner(keys *KeyPair) Signer {
	return &rsaSigner{keys: keys, now: time.Now}
}

// Sign produces a signed credential from the given claims. A random jti and
// the expiry derived from ttl are injected before signing.
func (s *rsaSigner) Sign(claims *tokenDomain.Claims, ttl time.Duration) (string, *tokenDomain.Claims, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", nil, err
	}

	now := s.now().UTC()
	claims.ID = jti
	claims.Issuer = Issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	tokenString, err := jwt.NewWithClaims(signingMethod, claims).SignedString(s.keys.PrivateKey)
	if err != nil {
		return "", nil, apperrors.Wrap(err, "failed to sign token")
	}

	return tokenString, claims, nil
}

// Parse verifies a credential string against the public key and returns its
// claims with the legacy scope marker rewritten.
func (s *rsaSigner) Parse(tokenString string) (*tokenDomain.Claims, error) {
	if tokenString == "" {
		return nil, apperrors.NewAuthError("empty token", nil)
	}

	claims := &tokenDomain.Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return s.keys.PublicKey, nil },
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewAuthError("token has expired", err)
		}
		return nil, apperrors.NewAuthError("invalid token", err)
	}

	claims.NormalizeScope()

	return claims, nil
}

// generateJTI creates a short random unique identifier for the jti claim.
func generateJTI() (string, error) {
	raw := make([]byte, 12)
	if _, err := rand.Read(raw); err != nil {
		return "", apperrors.Wrap(err, "failed to generate token id")
	}
	encoded := base64.StdEncoding.EncodeToString(raw)
	return encoded[len(encoded)-8:], nil
}
