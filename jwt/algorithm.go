package jwt

import (
	"crypto/elliptic"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// SignatureAlgorithm identifies a JWS signature algorithm.
type SignatureAlgorithm uint8

const (
	// None produces unsigned tokens.
	None SignatureAlgorithm = iota
	HS256
	HS384
	HS512
	RS256
	RS384
	RS512
	ES256
	ES384
	ES512
	PS256
	PS384
	PS512
	// EdDSA signs with Ed25519.
	EdDSA
	algorithmCount
)

type keyFamily uint8

const (
	familyNone keyFamily = iota
	familyHMAC
	familyRSA
	familyECDSA
	familyEd25519
)

type signatureProfile struct {
	name        string
	description string
	family      keyFamily
	method      jwt.SigningMethod
	curve       elliptic.Curve
	minKeyBytes int
}

var profiles = [algorithmCount]signatureProfile{
	None:  {name: "none", description: "No digital signature or MAC performed", family: familyNone, method: jwt.SigningMethodNone},
	HS256: {name: "HS256", description: "HMAC using SHA-256", family: familyHMAC, method: jwt.SigningMethodHS256, minKeyBytes: 32},
	HS384: {name: "HS384", description: "HMAC using SHA-384", family: familyHMAC, method: jwt.SigningMethodHS384, minKeyBytes: 48},
	HS512: {name: "HS512", description: "HMAC using SHA-512", family: familyHMAC, method: jwt.SigningMethodHS512, minKeyBytes: 64},
	RS256: {name: "RS256", description: "RSASSA-PKCS-v1_5 using SHA-256", family: familyRSA, method: jwt.SigningMethodRS256},
	RS384: {name: "RS384", description: "RSASSA-PKCS-v1_5 using SHA-384", family: familyRSA, method: jwt.SigningMethodRS384},
	RS512: {name: "RS512", description: "RSASSA-PKCS-v1_5 using SHA-512", family: familyRSA, method: jwt.SigningMethodRS512},
	ES256: {name: "ES256", description: "ECDSA using P-256 and SHA-256", family: familyECDSA, method: jwt.SigningMethodES256, curve: elliptic.P256()},
	ES384: {name: "ES384", description: "ECDSA using P-384 and SHA-384", family: familyECDSA, method: jwt.SigningMethodES384, curve: elliptic.P384()},
	ES512: {name: "ES512", description: "ECDSA using P-521 and SHA-512", family: familyECDSA, method: jwt.SigningMethodES512, curve: elliptic.P521()},
	PS256: {name: "PS256", description: "RSASSA-PSS using SHA-256 and MGF1 with SHA-256", family: familyRSA, method: jwt.SigningMethodPS256},
	PS384: {name: "PS384", description: "RSASSA-PSS using SHA-384 and MGF1 with SHA-384", family: familyRSA, method: jwt.SigningMethodPS384},
	PS512: {name: "PS512", description: "RSASSA-PSS using SHA-512 and MGF1 with SHA-512", family: familyRSA, method: jwt.SigningMethodPS512},
	EdDSA: {name: "EdDSA", description: "Edwards-curve signature using Ed25519", family: familyEd25519, method: jwt.SigningMethodEdDSA},
}

// Algorithms returns every supported algorithm in declaration order.
func Algorithms() []SignatureAlgorithm {
	out := make([]SignatureAlgorithm, 0, algorithmCount)
	for a := None; a < algorithmCount; a++ {
		out = append(out, a)
	}
	return out
}

// ParseSignatureAlgorithm looks up an algorithm by its JWA name in any case.
func ParseSignatureAlgorithm(name string) (SignatureAlgorithm, error) {
	key := strings.TrimSpace(name)
	for a := None; a < algorithmCount; a++ {
		if strings.EqualFold(profiles[a].name, key) {
			return a, nil
		}
	}
	return None, newError(KindInvalidConfiguration, fmt.Sprintf("unsupported signature algorithm %q", name))
}

// Valid reports whether a is a known algorithm.
func (a SignatureAlgorithm) Valid() bool {
	return a < algorithmCount
}

// String returns the JWA name, as carried in the alg header.
func (a SignatureAlgorithm) String() string {
	if !a.Valid() {
		return fmt.Sprintf("SignatureAlgorithm(%d)", uint8(a))
	}
	return profiles[a].name
}

// Description returns a human-readable description.
func (a SignatureAlgorithm) Description() string {
	if !a.Valid() {
		return ""
	}
	return profiles[a].description
}

// IsSymmetric reports whether the algorithm uses a shared secret.
func (a SignatureAlgorithm) IsSymmetric() bool {
	return a.Valid() && profiles[a].family == familyHMAC
}

// IsAsymmetric reports whether the algorithm uses a private/public key pair.
func (a SignatureAlgorithm) IsAsymmetric() bool {
	if !a.Valid() {
		return false
	}
	f := profiles[a].family
	return f != familyNone && f != familyHMAC
}

// IsUnsecured reports whether the algorithm produces unsigned tokens.
func (a SignatureAlgorithm) IsUnsecured() bool {
	return a == None
}

// MinSharedKeyBytes returns the recommended shared key length for HMAC
// algorithms and zero otherwise.
func (a SignatureAlgorithm) MinSharedKeyBytes() int {
	if !a.Valid() {
		return 0
	}
	return profiles[a].minKeyBytes
}

func (a SignatureAlgorithm) profile() signatureProfile {
	return profiles[a]
}
