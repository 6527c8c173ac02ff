package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/tokenauth/principal"
)

// Encoded is a signed token with the claims it carries.
type Encoded struct {
	Token    string
	Claims   *Claims
	IssuedAt time.Time
	// ExpiresAt is zero when the token never expires.
	ExpiresAt time.Time
}

// Encode issues a compact token for p. An empty tokenID omits the jti claim.
//
// Claims are written in the order iat, jti, sub, iss, exp, nbf, then ATH$root
// and ATH$prms when permissions are included, then one claim per principal
// parameter when details are included. A parameter named like an earlier
// claim replaces that claim's value in place.
func Encode(cfg *Configuration, p principal.Principal, tokenID string) (string, error) {
	enc, err := EncodeToken(cfg, p, tokenID)
	if err != nil {
		return "", err
	}
	return enc.Token, nil
}

// EncodeToken is [Encode] returning the claim set and timestamps as well.
func EncodeToken(cfg *Configuration, p principal.Principal, tokenID string) (*Encoded, error) {
	if cfg == nil {
		return nil, newError(KindInvalidConfiguration, "configuration is required")
	}
	if p.Subject() == "" {
		return nil, newError(KindInvalidPrincipal, "principal subject is required")
	}

	method, key, err := signingMaterial(cfg)
	if err != nil {
		return nil, err
	}

	now := cfg.clock().Truncate(time.Millisecond)
	claims := buildClaims(cfg, p, tokenID, now)

	token := jwt.NewWithClaims(method, claims)
	if cfg.keyID != "" {
		token.Header["kid"] = cfg.keyID
	}

	signed, err := token.SignedString(key)
	if err != nil {
		if errors.Is(err, jwt.ErrInvalidKey) || errors.Is(err, jwt.ErrInvalidKeyType) {
			return nil, wrapError(KindInvalidConfiguration, fmt.Sprintf("cannot sign with %s", cfg.algorithm), err)
		}
		return nil, wrapError(KindUnexpectedAuthentication, "token signing failed", err)
	}

	out := &Encoded{
		Token:    signed,
		Claims:   claims,
		IssuedAt: now,
	}
	if cfg.expireTime > 0 {
		out.ExpiresAt = expiresAt(now, cfg.expireTime)
	}
	return out, nil
}

func signingMaterial(cfg *Configuration) (jwt.SigningMethod, any, error) {
	method := cfg.algorithm.profile().method
	switch k := cfg.keys.(type) {
	case unsignedKeys:
		return method, jwt.UnsafeAllowNoneSignatureType, nil
	case symmetricKeys:
		if len(k.secret) == 0 {
			return nil, nil, newError(KindInvalidConfiguration, fmt.Sprintf("missing shared key for signature algorithm %s", cfg.algorithm))
		}
		return method, k.secret, nil
	case asymmetricKeys:
		if k.signing == nil {
			return nil, nil, newError(KindInvalidConfiguration, fmt.Sprintf("missing private key for signature algorithm %s", cfg.algorithm))
		}
		return method, k.signing, nil
	default:
		return nil, nil, newError(KindInvalidConfiguration, "configuration was not built with NewConfiguration")
	}
}

// expiresAt is issuedAt plus ttl, both at millisecond precision.
func expiresAt(issuedAt time.Time, ttl time.Duration) time.Time {
	return issuedAt.Add(ttl.Truncate(time.Millisecond))
}

func buildClaims(cfg *Configuration, p principal.Principal, tokenID string, now time.Time) *Claims {
	claims := NewClaims()
	claims.Set(ClaimIssuedAt, numericDateValue(now))
	if tokenID != "" {
		claims.Set(ClaimTokenID, tokenID)
	}
	claims.Set(ClaimSubject, p.Subject())
	if iss, ok := cfg.Issuer(); ok {
		claims.Set(ClaimIssuer, iss)
	}
	if cfg.expireTime > 0 {
		claims.Set(ClaimExpiration, numericDateValue(expiresAt(now, cfg.expireTime)))
	}
	if cfg.notBeforeNow {
		claims.Set(ClaimNotBefore, numericDateValue(now))
	}

	if cfg.includePermissions {
		claims.Set(ClaimRoot, p.IsRoot())
		if perms := p.Permissions(); !perms.IsEmpty() {
			claims.Set(ClaimPermissions, perms.Names())
		}
	}

	if cfg.includeDetails {
		for name, value := range p.Parameters() {
			claims.Set(name, value)
		}
	}
	return claims
}
