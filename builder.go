package tokenauth

import (
	"crypto"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/tokenauth/internal/audit"
	"github.com/MrEthical07/tokenauth/jwt"
)

// Builder assembles an [Engine]. A builder can be used once.
type Builder struct {
	config Config

	signingKey      crypto.PrivateKey
	verificationKey crypto.PublicKey

	logger     *slog.Logger
	auditSink  AuditSink
	newTokenID func() string
	clock      func() time.Time

	built bool
}

// New starts a builder with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration. The value is copied.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSigningKey supplies the private key, overriding JWT.PrivateKey.
func (b *Builder) WithSigningKey(key crypto.PrivateKey) *Builder {
	b.signingKey = key
	return b
}

// WithVerificationKey supplies the public key, overriding JWT.PublicKey.
func (b *Builder) WithVerificationKey(key crypto.PublicKey) *Builder {
	b.verificationKey = key
	return b
}

func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithTokenIDGenerator replaces uuid.NewString for jti values.
func (b *Builder) WithTokenIDGenerator(fn func() string) *Builder {
	b.newTokenID = fn
	return b
}

// WithClock replaces time.Now for issuance, validation and audit timestamps.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, resolves key material and starts the
// audit dispatcher when enabled. Configuration failures match
// [ErrInvalidConfiguration].
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Kind: KindInvalidConfiguration, Cause: err}
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	jwtCfg, err := b.buildJWTConfiguration(cfg)
	if err != nil {
		return nil, err
	}

	authenticator, err := NewAuthenticator(jwtCfg).
		Issuer(cfg.Policy.Issuers...).
		WithRequiredClaim(cfg.Policy.RequiredClaims...).
		WithLogger(logger).
		Build()
	if err != nil {
		return nil, err
	}

	for _, w := range cfg.Lint() {
		logger.Warn("tokenauth configuration warning", "code", w.Code, "message", w.Message)
	}

	newTokenID := b.newTokenID
	if newTokenID == nil {
		newTokenID = uuid.NewString
	}

	e := &Engine{
		config:        cfg,
		jwt:           jwtCfg,
		authenticator: authenticator,
		metrics:       NewMetrics(cfg.Metrics),
		logger:        logger,
		newTokenID:    newTokenID,
		clock:         b.clock,
	}
	e.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink, logger)

	b.built = true
	return e, nil
}

func (b *Builder) buildJWTConfiguration(cfg Config) (*jwt.Configuration, error) {
	alg, err := jwt.ParseSignatureAlgorithm(cfg.JWT.SignatureAlgorithm)
	if err != nil {
		return nil, err
	}

	jb := jwt.NewConfiguration().
		SignatureAlgorithm(alg).
		Issuer(cfg.JWT.Issuer).
		ExpireTime(cfg.JWT.ExpireTime).
		NotBeforeNow(cfg.JWT.NotBeforeNow).
		IncludeDetails(cfg.JWT.IncludeDetails).
		IncludePermissions(cfg.JWT.IncludePermissions).
		AllowUnsecured(cfg.JWT.AllowUnsecured).
		KeyID(cfg.JWT.KeyID).
		Leeway(cfg.JWT.Leeway)
	if b.clock != nil {
		jb.Clock(b.clock)
	}

	switch {
	case alg.IsSymmetric():
		jb.SharedKey(cfg.JWT.SharedKey)
	case alg.IsAsymmetric():
		priv, pub, err := b.resolveKeys(alg, cfg.JWT)
		if err != nil {
			return nil, err
		}
		jb.PrivateKey(priv).PublicKey(pub)
	}
	return jb.Build()
}

// resolveKeys prefers supplied handles over PEM, and derives the public key
// from the private key when only the latter is available.
func (b *Builder) resolveKeys(alg jwt.SignatureAlgorithm, cfg JWTConfig) (crypto.PrivateKey, crypto.PublicKey, error) {
	priv := b.signingKey
	if priv == nil && len(cfg.PrivateKey) > 0 {
		parsed, err := jwt.ParsePrivateKeyPEM(alg, cfg.PrivateKey)
		if err != nil {
			return nil, nil, err
		}
		priv = parsed
	}

	pub := b.verificationKey
	if pub == nil && len(cfg.PublicKey) > 0 {
		parsed, err := jwt.ParsePublicKeyPEM(alg, cfg.PublicKey)
		if err != nil {
			return nil, nil, err
		}
		pub = parsed
	}
	if pub == nil && priv != nil {
		if signer, ok := priv.(crypto.Signer); ok {
			pub = signer.Public()
		}
	}
	return priv, pub, nil
}
