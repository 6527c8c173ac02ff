package tokenauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/MrEthical07/tokenauth/jwt"
	"github.com/MrEthical07/tokenauth/principal"
)

var (
	// ErrIssuerMissing is the cause when an issuer allow-list is set and the token has no iss.
	ErrIssuerMissing = errors.New("issuer claim missing")
	// ErrIssuerNotAllowed is the cause when iss is not in the allow-list.
	ErrIssuerNotAllowed = errors.New("issuer not allowed")
	// ErrRequiredClaimMissing is the cause when a required claim is absent.
	ErrRequiredClaimMissing = errors.New("required claim missing")
)

// Authenticator verifies bearer tokens and enforces issuer and
// required-claim policy. It is safe for concurrent use.
type Authenticator struct {
	config         *jwt.Configuration
	issuers        []string
	requiredClaims []string
	logger         *slog.Logger
}

// AuthenticatorBuilder collects authenticator policy. Issuer and
// WithRequiredClaim are additive and ignore duplicates.
type AuthenticatorBuilder struct {
	config         *jwt.Configuration
	issuers        []string
	requiredClaims []string
	logger         *slog.Logger
}

// NewAuthenticator starts an authenticator for cfg.
func NewAuthenticator(cfg *jwt.Configuration) *AuthenticatorBuilder {
	return &AuthenticatorBuilder{config: cfg}
}

// Issuer adds accepted issuers. With at least one, tokens must carry an
// iss claim equal to one of them.
func (b *AuthenticatorBuilder) Issuer(names ...string) *AuthenticatorBuilder {
	b.issuers = appendUnique(b.issuers, names)
	return b
}

// WithRequiredClaim adds claims every token must carry.
func (b *AuthenticatorBuilder) WithRequiredClaim(names ...string) *AuthenticatorBuilder {
	b.requiredClaims = appendUnique(b.requiredClaims, names)
	return b
}

// WithLogger sets the logger for rejected tokens. Nil discards.
func (b *AuthenticatorBuilder) WithLogger(logger *slog.Logger) *AuthenticatorBuilder {
	b.logger = logger
	return b
}

func (b *AuthenticatorBuilder) Build() (*Authenticator, error) {
	if b.config == nil {
		return nil, newKindError(KindUnexpectedAuthentication, "authenticator is not correctly configured")
	}
	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Authenticator{
		config:         b.config,
		issuers:        slices.Clone(b.issuers),
		requiredClaims: slices.Clone(b.requiredClaims),
		logger:         logger,
	}, nil
}

func appendUnique(dst, names []string) []string {
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || slices.Contains(dst, n) {
			continue
		}
		dst = append(dst, n)
	}
	return dst
}

// Configuration returns the token configuration.
func (a *Authenticator) Configuration() *jwt.Configuration {
	if a == nil {
		return nil
	}
	return a.config
}

// Issuers returns the accepted issuers.
func (a *Authenticator) Issuers() []string {
	if a == nil {
		return nil
	}
	return slices.Clone(a.issuers)
}

// RequiredClaims returns the claims every token must carry.
func (a *Authenticator) RequiredClaims() []string {
	if a == nil {
		return nil
	}
	return slices.Clone(a.requiredClaims)
}

// Authenticate verifies token and returns its principal.
//
// Required claims are checked before the issuer allow-list. Every failure
// is a classified [Error].
func (a *Authenticator) Authenticate(ctx context.Context, token string) (principal.Principal, error) {
	decoded, err := a.authenticate(token)
	if err != nil {
		a.logFailure(ctx, err)
		return principal.Principal{}, err
	}
	return decoded.Principal.Build(), nil
}

func (a *Authenticator) authenticate(token string) (*jwt.Token, error) {
	if a == nil || a.config == nil {
		return nil, newKindError(KindUnexpectedAuthentication, "authenticator is not correctly configured")
	}
	if strings.TrimSpace(token) == "" {
		return nil, newKindError(KindUnexpectedAuthentication, "bearer token is required")
	}

	decoded, err := jwt.DecodeToken(a.config, token)
	if err != nil {
		return nil, err
	}

	for _, name := range a.requiredClaims {
		if !decoded.Claims.Has(name) {
			return nil, &Error{
				Kind:    KindInvalidToken,
				Message: fmt.Sprintf("claim %q", name),
				Cause:   ErrRequiredClaimMissing,
			}
		}
	}

	if len(a.issuers) > 0 {
		iss, ok := decoded.Claims.StringClaim(jwt.ClaimIssuer)
		if !ok || iss == "" {
			return nil, &Error{Kind: KindInvalidToken, Cause: ErrIssuerMissing}
		}
		if !slices.Contains(a.issuers, iss) {
			return nil, &Error{Kind: KindInvalidToken, Cause: ErrIssuerNotAllowed}
		}
	}
	return decoded, nil
}

func (a *Authenticator) logFailure(ctx context.Context, err error) {
	if a == nil || a.logger == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	a.logger.DebugContext(ctx, "token authentication failed", "kind", KindOf(err).String())
}
