package jwt

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"fmt"
	"strings"
	"time"
)

// keyMaterial is the closed set of key shapes a Configuration can hold.
type keyMaterial interface {
	isKeyMaterial()
}

type unsignedKeys struct {
	allowUnsecured bool
}

type symmetricKeys struct {
	secret []byte
}

type asymmetricKeys struct {
	signing      crypto.PrivateKey
	verification crypto.PublicKey
}

func (unsignedKeys) isKeyMaterial()   {}
func (symmetricKeys) isKeyMaterial()  {}
func (asymmetricKeys) isKeyMaterial() {}

// Configuration is the immutable token policy shared by [Encode] and [Decode].
// It is safe for concurrent use. Create one with [NewConfiguration].
type Configuration struct {
	issuer             string
	algorithm          SignatureAlgorithm
	keys               keyMaterial
	expireTime         time.Duration
	notBeforeNow       bool
	includeDetails     bool
	includePermissions bool
	keyID              string
	leeway             time.Duration
	now                func() time.Time
}

// Issuer returns the configured issuer and whether one is set.
func (c *Configuration) Issuer() (string, bool) {
	return c.issuer, c.issuer != ""
}

// Algorithm returns the signature algorithm.
func (c *Configuration) Algorithm() SignatureAlgorithm { return c.algorithm }

// ExpireTime returns the token lifetime. Zero or negative means tokens never expire.
func (c *Configuration) ExpireTime() time.Duration { return c.expireTime }

// NotBeforeNow reports whether tokens carry nbf equal to issuance time.
func (c *Configuration) NotBeforeNow() bool { return c.notBeforeNow }

// IncludeDetails reports whether principal parameters travel as claims.
func (c *Configuration) IncludeDetails() bool { return c.includeDetails }

// IncludePermissions reports whether the root flag and permissions travel as claims.
func (c *Configuration) IncludePermissions() bool { return c.includePermissions }

// KeyID returns the kid header value, empty when unset.
func (c *Configuration) KeyID() string { return c.keyID }

// Leeway returns the clock skew tolerated on exp and nbf.
func (c *Configuration) Leeway() time.Duration { return c.leeway }

// AllowUnsecured reports whether unsigned tokens are accepted. It is only
// ever true for [None].
func (c *Configuration) AllowUnsecured() bool {
	k, ok := c.keys.(unsignedKeys)
	return ok && k.allowUnsecured
}

// SharedKey returns the HMAC secret, nil for other algorithms. The slice is
// the configuration's own and must not be modified.
func (c *Configuration) SharedKey() []byte {
	if k, ok := c.keys.(symmetricKeys); ok {
		return k.secret
	}
	return nil
}

// PrivateKey returns the signing key for asymmetric algorithms.
func (c *Configuration) PrivateKey() crypto.PrivateKey {
	if k, ok := c.keys.(asymmetricKeys); ok {
		return k.signing
	}
	return nil
}

// PublicKey returns the verification key for asymmetric algorithms.
func (c *Configuration) PublicKey() crypto.PublicKey {
	if k, ok := c.keys.(asymmetricKeys); ok {
		return k.verification
	}
	return nil
}

func (c *Configuration) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// ConfigurationBuilder collects settings for a [Configuration]. Methods may
// be chained. Builders are not safe for concurrent use.
type ConfigurationBuilder struct {
	cfg            Configuration
	sharedKey      []byte
	privateKey     crypto.PrivateKey
	publicKey      crypto.PublicKey
	allowUnsecured bool
}

// NewConfiguration starts a builder. The default algorithm is [None] with
// unsecured tokens rejected, details and permissions excluded, and no expiry.
func NewConfiguration() *ConfigurationBuilder {
	return &ConfigurationBuilder{cfg: Configuration{algorithm: None}}
}

func (b *ConfigurationBuilder) Issuer(issuer string) *ConfigurationBuilder {
	b.cfg.issuer = strings.TrimSpace(issuer)
	return b
}

func (b *ConfigurationBuilder) SignatureAlgorithm(alg SignatureAlgorithm) *ConfigurationBuilder {
	b.cfg.algorithm = alg
	return b
}

// SharedKey sets the HMAC secret. The slice is retained, not copied.
func (b *ConfigurationBuilder) SharedKey(key []byte) *ConfigurationBuilder {
	b.sharedKey = key
	return b
}

func (b *ConfigurationBuilder) PrivateKey(key crypto.PrivateKey) *ConfigurationBuilder {
	b.privateKey = key
	return b
}

func (b *ConfigurationBuilder) PublicKey(key crypto.PublicKey) *ConfigurationBuilder {
	b.publicKey = key
	return b
}

func (b *ConfigurationBuilder) ExpireTime(d time.Duration) *ConfigurationBuilder {
	b.cfg.expireTime = d
	return b
}

// ExpireTimeMillis sets the token lifetime in milliseconds.
func (b *ConfigurationBuilder) ExpireTimeMillis(ms int64) *ConfigurationBuilder {
	b.cfg.expireTime = time.Duration(ms) * time.Millisecond
	return b
}

func (b *ConfigurationBuilder) NotBeforeNow(enabled bool) *ConfigurationBuilder {
	b.cfg.notBeforeNow = enabled
	return b
}

func (b *ConfigurationBuilder) IncludeDetails(enabled bool) *ConfigurationBuilder {
	b.cfg.includeDetails = enabled
	return b
}

func (b *ConfigurationBuilder) IncludePermissions(enabled bool) *ConfigurationBuilder {
	b.cfg.includePermissions = enabled
	return b
}

// AllowUnsecured accepts unsigned tokens on decode. Ignored unless the
// algorithm is [None].
func (b *ConfigurationBuilder) AllowUnsecured(enabled bool) *ConfigurationBuilder {
	b.allowUnsecured = enabled
	return b
}

func (b *ConfigurationBuilder) KeyID(kid string) *ConfigurationBuilder {
	b.cfg.keyID = strings.TrimSpace(kid)
	return b
}

func (b *ConfigurationBuilder) Leeway(d time.Duration) *ConfigurationBuilder {
	b.cfg.leeway = d
	return b
}

// Clock replaces time.Now for issuance and validation.
func (b *ConfigurationBuilder) Clock(now func() time.Time) *ConfigurationBuilder {
	b.cfg.now = now
	return b
}

// Build validates the settings and returns the configuration. Failures are
// [KindInvalidConfiguration].
func (b *ConfigurationBuilder) Build() (*Configuration, error) {
	cfg := b.cfg
	if !cfg.algorithm.Valid() {
		return nil, newError(KindInvalidConfiguration, fmt.Sprintf("unsupported signature algorithm %s", cfg.algorithm))
	}
	if cfg.leeway < 0 {
		return nil, newError(KindInvalidConfiguration, "leeway must not be negative")
	}

	p := cfg.algorithm.profile()
	switch p.family {
	case familyNone:
		cfg.keys = unsignedKeys{allowUnsecured: b.allowUnsecured}
	case familyHMAC:
		if len(b.sharedKey) == 0 {
			return nil, newError(KindInvalidConfiguration, fmt.Sprintf("missing shared key for signature algorithm %s", cfg.algorithm))
		}
		cfg.keys = symmetricKeys{secret: b.sharedKey}
	default:
		if b.privateKey == nil && b.publicKey == nil {
			return nil, newError(KindInvalidConfiguration, fmt.Sprintf("missing private or public key for signature algorithm %s", cfg.algorithm))
		}
		if err := checkKeyPair(cfg.algorithm, b.privateKey, b.publicKey); err != nil {
			return nil, err
		}
		cfg.keys = asymmetricKeys{signing: b.privateKey, verification: b.publicKey}
	}
	return &cfg, nil
}

func checkKeyPair(alg SignatureAlgorithm, priv crypto.PrivateKey, pub crypto.PublicKey) error {
	if priv != nil {
		if err := checkPrivateKey(alg, priv); err != nil {
			return err
		}
	}
	if pub != nil {
		if err := checkPublicKey(alg, pub); err != nil {
			return err
		}
	}
	if priv != nil && pub != nil {
		signer, ok := priv.(crypto.Signer)
		if !ok {
			return newError(KindInvalidConfiguration, "private key cannot derive a public key")
		}
		derived, ok := signer.Public().(interface{ Equal(crypto.PublicKey) bool })
		if !ok || !derived.Equal(pub) {
			return newError(KindInvalidConfiguration, "public key does not match private key")
		}
	}
	return nil
}

func checkPrivateKey(alg SignatureAlgorithm, key crypto.PrivateKey) error {
	p := alg.profile()
	switch k := key.(type) {
	case *rsa.PrivateKey:
		if p.family == familyRSA {
			return nil
		}
	case *ecdsa.PrivateKey:
		if p.family == familyECDSA {
			if k.Curve != p.curve {
				return newError(KindInvalidConfiguration, fmt.Sprintf("private key curve %s does not match %s", k.Curve.Params().Name, alg))
			}
			return nil
		}
	case ed25519.PrivateKey:
		if p.family == familyEd25519 {
			if len(k) != ed25519.PrivateKeySize {
				return newError(KindInvalidConfiguration, "invalid ed25519 private key size")
			}
			return nil
		}
	}
	return newError(KindInvalidConfiguration, fmt.Sprintf("private key type %T cannot sign %s", key, alg))
}

func checkPublicKey(alg SignatureAlgorithm, key crypto.PublicKey) error {
	p := alg.profile()
	switch k := key.(type) {
	case *rsa.PublicKey:
		if p.family == familyRSA {
			return nil
		}
	case *ecdsa.PublicKey:
		if p.family == familyECDSA {
			if k.Curve != p.curve {
				return newError(KindInvalidConfiguration, fmt.Sprintf("public key curve %s does not match %s", k.Curve.Params().Name, alg))
			}
			return nil
		}
	case ed25519.PublicKey:
		if p.family == familyEd25519 {
			if len(k) != ed25519.PublicKeySize {
				return newError(KindInvalidConfiguration, "invalid ed25519 public key size")
			}
			return nil
		}
	}
	return newError(KindInvalidConfiguration, fmt.Sprintf("public key type %T cannot verify %s", key, alg))
}
