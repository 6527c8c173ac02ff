package tokenauth

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/tokenauth/internal/audit"
	"github.com/MrEthical07/tokenauth/jwt"
	"github.com/MrEthical07/tokenauth/principal"
)

// Engine issues and authenticates tokens with metrics and audit. Create one
// with [New] and [Builder.Build]. It is safe for concurrent use.
type Engine struct {
	config        Config
	jwt           *jwt.Configuration
	authenticator *Authenticator
	audit         *audit.Dispatcher
	metrics       *Metrics
	logger        *slog.Logger
	newTokenID    func() string
	clock         func() time.Time
	closed        atomic.Bool
}

// Close stops the audit dispatcher after draining queued events. Issue and
// Authenticate fail with [ErrEngineClosed] afterwards.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.closed.Store(true)
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped returns the number of audit events discarded because the
// buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Configuration returns the token configuration built from Config.JWT.
func (e *Engine) Configuration() *jwt.Configuration {
	if e == nil {
		return nil
	}
	return e.jwt
}

// Authenticator returns the authenticator enforcing Config.Policy.
func (e *Engine) Authenticator() *Authenticator {
	if e == nil {
		return nil
	}
	return e.authenticator
}

// Issue creates a token for p. A jti is generated when JWT.GenerateTokenID is set.
func (e *Engine) Issue(ctx context.Context, p principal.Principal) (IssuedToken, error) {
	tokenID := ""
	if e != nil && e.config.JWT.GenerateTokenID {
		tokenID = e.newTokenID()
	}
	return e.IssueWithID(ctx, p, tokenID)
}

// IssueWithID creates a token for p with the given jti. An empty tokenID
// omits the claim.
func (e *Engine) IssueWithID(ctx context.Context, p principal.Principal, tokenID string) (IssuedToken, error) {
	if e == nil || e.jwt == nil {
		return IssuedToken{}, newKindError(KindInvalidConfiguration, "engine is not initialized")
	}
	if e.closed.Load() {
		return IssuedToken{}, ErrEngineClosed
	}

	start := time.Now()
	enc, err := jwt.EncodeToken(e.jwt, p, tokenID)
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricIssueLatency, time.Since(start))
	}
	if err != nil {
		e.metrics.Inc(MetricIssueFailure)
		e.logger.WarnContext(ctx, "token issue failed", "kind", KindOf(err).String())
		e.emitAudit(ctx, auditEventTokenIssueFailed, p.Subject(), tokenID, e.config.JWT.Issuer, err, nil)
		return IssuedToken{}, err
	}

	e.metrics.Inc(MetricIssueSuccess)
	e.emitAudit(ctx, auditEventTokenIssued, p.Subject(), tokenID, e.config.JWT.Issuer, nil, func() map[string]string {
		return map[string]string{"algorithm": e.jwt.Algorithm().String()}
	})
	return IssuedToken{
		Token:     enc.Token,
		TokenID:   tokenID,
		IssuedAt:  enc.IssuedAt,
		ExpiresAt: enc.ExpiresAt,
	}, nil
}

// Authenticate verifies token and applies Config.Policy.
func (e *Engine) Authenticate(ctx context.Context, token string) (principal.Principal, error) {
	if e == nil || e.authenticator == nil {
		return principal.Principal{}, newKindError(KindUnexpectedAuthentication, "engine is not initialized")
	}
	if e.closed.Load() {
		return principal.Principal{}, ErrEngineClosed
	}

	start := time.Now()
	decoded, err := e.authenticator.authenticate(token)
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricAuthenticateLatency, time.Since(start))
	}
	if err != nil {
		e.recordFailure(err)
		e.authenticator.logFailure(ctx, err)
		e.emitAudit(ctx, auditEventTokenRejected, "", "", "", err, nil)
		return principal.Principal{}, err
	}

	e.metrics.Inc(MetricAuthenticateSuccess)
	p := decoded.Principal.Build()
	if e.audit != nil {
		jti, _ := decoded.Claims.StringClaim(jwt.ClaimTokenID)
		iss, _ := decoded.Claims.StringClaim(jwt.ClaimIssuer)
		e.emitAudit(ctx, auditEventTokenAuthenticated, p.Subject(), jti, iss, nil, nil)
	}
	return p, nil
}

func (e *Engine) recordFailure(err error) {
	switch {
	case errors.Is(err, ErrIssuerMissing), errors.Is(err, ErrIssuerNotAllowed):
		e.metrics.Inc(MetricPolicyIssuerRejected)
	case errors.Is(err, ErrRequiredClaimMissing):
		e.metrics.Inc(MetricPolicyClaimMissing)
	}
	e.metrics.Inc(failureMetric(KindOf(err)))
}
