package jwt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/tokenauth/principal"
)

var (
	errUnsecuredRejected = errors.New("unsecured tokens are not accepted")
	errMissingKeyID      = errors.New("missing kid")
	errUnknownKeyID      = errors.New("unknown kid")
)

// Token is a verified token.
type Token struct {
	Header    map[string]any
	Claims    *Claims
	Principal *principal.Builder
}

// Decode verifies token against cfg and returns a principal builder for its
// subject. The builder's scheme is [principal.SchemeBearer] and its root flag
// is false regardless of the ATH$root claim.
func Decode(cfg *Configuration, token string) (*principal.Builder, error) {
	t, err := DecodeToken(cfg, token)
	if err != nil {
		return nil, err
	}
	return t.Principal, nil
}

// DecodeToken is [Decode] returning the header and claims as well.
func DecodeToken(cfg *Configuration, token string) (*Token, error) {
	if cfg == nil {
		return nil, newError(KindUnexpectedAuthentication, "configuration is required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, newError(KindUnexpectedAuthentication, "token is required")
	}

	verifyKey, err := verificationKey(cfg)
	if err != nil {
		return nil, err
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{cfg.algorithm.String()}),
	}
	if cfg.leeway > 0 {
		options = append(options, jwt.WithLeeway(cfg.leeway))
	}
	if cfg.now != nil {
		options = append(options, jwt.WithTimeFunc(cfg.now))
	}

	claims := NewClaims()
	parsed, err := jwt.NewParser(options...).ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if cfg.keyID != "" {
			kid, _ := t.Header["kid"].(string)
			if kid == "" {
				return nil, errMissingKeyID
			}
			if kid != cfg.keyID {
				return nil, errUnknownKeyID
			}
		}
		return verifyKey, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}
	if !parsed.Valid {
		return nil, newError(KindInvalidToken, "token is not valid")
	}

	if claims.Len() == 0 {
		return nil, newError(KindUnknownAccount, "token carries no claims")
	}
	subject, ok := claims.StringClaim(ClaimSubject)
	if !ok || subject == "" {
		return nil, newError(KindUnknownAccount, "token has no subject")
	}

	builder, err := principalFromClaims(cfg, subject, claims)
	if err != nil {
		return nil, err
	}
	return &Token{Header: parsed.Header, Claims: claims, Principal: builder}, nil
}

// verificationKey selects the key handed to the parser. For a strict
// unsigned configuration it returns an error so that every token fails.
func verificationKey(cfg *Configuration) (any, error) {
	switch k := cfg.keys.(type) {
	case unsignedKeys:
		if !k.allowUnsecured {
			return nil, newError(KindInvalidToken, errUnsecuredRejected.Error())
		}
		return jwt.UnsafeAllowNoneSignatureType, nil
	case symmetricKeys:
		if len(k.secret) == 0 {
			return nil, newError(KindUnexpectedAuthentication, fmt.Sprintf("missing shared key for signature algorithm %s", cfg.algorithm))
		}
		return k.secret, nil
	case asymmetricKeys:
		if k.verification == nil {
			return nil, newError(KindUnexpectedAuthentication, fmt.Sprintf("missing public key for signature algorithm %s", cfg.algorithm))
		}
		return k.verification, nil
	default:
		return nil, newError(KindUnexpectedAuthentication, "configuration was not built with NewConfiguration")
	}
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return wrapError(KindExpiredCredentials, "token expired", err)
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenInvalidClaims),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwt.ErrSignatureInvalid),
		errors.Is(err, jwt.ErrInvalidType):
		return wrapError(KindInvalidToken, "token rejected", err)
	default:
		return wrapError(KindUnexpectedAuthentication, "token parsing failed", err)
	}
}

func principalFromClaims(cfg *Configuration, subject string, claims *Claims) (*principal.Builder, error) {
	b := principal.NewBuilder(subject).Scheme(principal.SchemeBearer).Root(false)
	for name, value := range claims.All() {
		if name == ClaimPermissions {
			if !cfg.includePermissions {
				continue
			}
			names, err := permissionNames(value)
			if err != nil {
				return nil, err
			}
			b.WithPermission(names...)
			continue
		}
		if cfg.includeDetails {
			b.WithParameter(name, value)
		}
	}
	return b, nil
}

func permissionNames(value any) ([]string, error) {
	switch x := value.(type) {
	case nil:
		return nil, nil
	case []string:
		return x, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, newError(KindInvalidToken, fmt.Sprintf("%s entries must be strings", ClaimPermissions))
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, newError(KindInvalidToken, fmt.Sprintf("%s must be a string array", ClaimPermissions))
	}
}
