package jwt

import (
	"crypto"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ParsePrivateKeyPEM parses PEM-encoded signing key material for alg. Raw
// 64-byte Ed25519 private keys are accepted for [EdDSA].
func ParsePrivateKeyPEM(alg SignatureAlgorithm, data []byte) (crypto.PrivateKey, error) {
	if !alg.IsAsymmetric() {
		return nil, newError(KindInvalidConfiguration, fmt.Sprintf("signature algorithm %s does not use a private key", alg))
	}
	var (
		key crypto.PrivateKey
		err error
	)
	switch alg.profile().family {
	case familyRSA:
		key, err = jwt.ParseRSAPrivateKeyFromPEM(data)
	case familyECDSA:
		key, err = jwt.ParseECPrivateKeyFromPEM(data)
	case familyEd25519:
		if len(data) == ed25519.PrivateKeySize {
			return ed25519.PrivateKey(data), nil
		}
		key, err = jwt.ParseEdPrivateKeyFromPEM(data)
	}
	if err != nil {
		return nil, wrapError(KindInvalidConfiguration, fmt.Sprintf("invalid %s private key", alg), err)
	}
	if err := checkPrivateKey(alg, key); err != nil {
		return nil, err
	}
	return key, nil
}

// ParsePublicKeyPEM parses PEM-encoded verification key material for alg.
// RSA input may also be a certificate. Raw 32-byte Ed25519 keys are accepted.
func ParsePublicKeyPEM(alg SignatureAlgorithm, data []byte) (crypto.PublicKey, error) {
	if !alg.IsAsymmetric() {
		return nil, newError(KindInvalidConfiguration, fmt.Sprintf("signature algorithm %s does not use a public key", alg))
	}
	var (
		key crypto.PublicKey
		err error
	)
	switch alg.profile().family {
	case familyRSA:
		key, err = jwt.ParseRSAPublicKeyFromPEM(data)
	case familyECDSA:
		key, err = jwt.ParseECPublicKeyFromPEM(data)
	case familyEd25519:
		if len(data) == ed25519.PublicKeySize {
			return ed25519.PublicKey(data), nil
		}
		key, err = jwt.ParseEdPublicKeyFromPEM(data)
	}
	if err != nil {
		return nil, wrapError(KindInvalidConfiguration, fmt.Sprintf("invalid %s public key", alg), err)
	}
	if err := checkPublicKey(alg, key); err != nil {
		return nil, err
	}
	return key, nil
}

// DecodeSharedKey decodes a base64 shared secret in standard or URL alphabet,
// padded or not.
func DecodeSharedKey(encoded string) ([]byte, error) {
	s := strings.TrimSpace(encoded)
	if s == "" {
		return nil, newError(KindInvalidConfiguration, "empty shared key")
	}
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	for _, enc := range encodings {
		if key, err := enc.DecodeString(s); err == nil {
			return key, nil
		}
	}
	return nil, newError(KindInvalidConfiguration, "shared key is not valid base64")
}
