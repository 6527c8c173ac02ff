package tokenauth

import (
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/tokenauth/jwt"
)

// Config is the engine configuration. It is a plain value: build it in code,
// then pass it to [Builder.WithConfig].
type Config struct {
	JWT     JWTConfig
	Policy  PolicyConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig describes token signing and claim inclusion.
type JWTConfig struct {
	Issuer string
	// SignatureAlgorithm is a JWA name such as "HS256", "ES256" or "none",
	// matched in any case.
	SignatureAlgorithm string
	SharedKey          []byte
	// PrivateKey and PublicKey hold PEM key material. Key handles passed to
	// [Builder.WithSigningKey] and [Builder.WithVerificationKey] take precedence.
	PrivateKey []byte
	PublicKey  []byte
	// ExpireTime of zero or less issues tokens that never expire.
	ExpireTime         time.Duration
	NotBeforeNow       bool
	IncludeDetails     bool
	IncludePermissions bool
	AllowUnsecured     bool
	KeyID              string
	Leeway             time.Duration
	GenerateTokenID    bool
}

/*
====================================
POLICY CONFIG
====================================
*/

// PolicyConfig is applied by the [Authenticator] on top of token verification.
type PolicyConfig struct {
	// Issuers, when non-empty, requires the iss claim to be one of them.
	Issuers []string
	// RequiredClaims must all be present.
	RequiredClaims []string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

const maxLeeway = 2 * time.Minute

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			SignatureAlgorithm: "HS256",
			ExpireTime:         15 * time.Minute,
			IncludeDetails:     true,
			IncludePermissions: true,
			GenerateTokenID:    true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

// DefaultConfig returns the baseline configuration: HS256, 15 minute tokens,
// details and permissions included, generated token ids, metrics on. A
// shared key must still be supplied.
func DefaultConfig() Config {
	return defaultConfig()
}

// HighSecurityConfig returns a stricter preset: ES256, 5 minute tokens with
// nbf, no leeway, no details, generated token ids, audit on. Keys and an
// issuer allow-list must still be supplied.
func HighSecurityConfig() Config {
	cfg := defaultConfig()
	cfg.JWT.SignatureAlgorithm = "ES256"
	cfg.JWT.ExpireTime = 5 * time.Minute
	cfg.JWT.NotBeforeNow = true
	cfg.JWT.IncludeDetails = false
	cfg.JWT.Leeway = 0
	cfg.Audit.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true
	return cfg
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.SharedKey = cloneBytes(cfg.JWT.SharedKey)
	out.JWT.PrivateKey = cloneBytes(cfg.JWT.PrivateKey)
	out.JWT.PublicKey = cloneBytes(cfg.JWT.PublicKey)
	out.Policy.Issuers = cloneStrings(cfg.Policy.Issuers)
	out.Policy.RequiredClaims = cloneStrings(cfg.Policy.RequiredClaims)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the raw configuration. Asymmetric key presence is checked
// by [Builder.Build], since key handles may be supplied separately.
func (c *Config) Validate() error {
	alg, err := jwt.ParseSignatureAlgorithm(c.JWT.SignatureAlgorithm)
	if err != nil {
		return errors.New("unsupported JWT SignatureAlgorithm")
	}
	if alg.IsSymmetric() && len(c.JWT.SharedKey) == 0 {
		return errors.New("JWT SharedKey is required for " + alg.String())
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > maxLeeway {
		return errors.New("JWT Leeway must be between 0 and 2m")
	}
	if strings.TrimSpace(c.JWT.KeyID) != c.JWT.KeyID {
		return errors.New("JWT KeyID must not have surrounding whitespace")
	}

	for _, iss := range c.Policy.Issuers {
		if strings.TrimSpace(iss) == "" {
			return errors.New("Policy Issuers must not contain empty entries")
		}
	}
	for _, name := range c.Policy.RequiredClaims {
		if strings.TrimSpace(name) == "" {
			return errors.New("Policy RequiredClaims must not contain empty entries")
		}
	}

	if c.Audit.BufferSize < 0 {
		return errors.New("Audit BufferSize must be >= 0")
	}
	if c.Audit.Enabled && c.Audit.BufferSize == 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}
	return nil
}
