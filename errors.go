package tokenauth

import (
	"errors"

	"github.com/MrEthical07/tokenauth/jwt"
)

// Kind classifies authentication failures. See [jwt.Kind].
type Kind = jwt.Kind

// Error is the classified error type returned by issuing and authenticating.
type Error = jwt.Error

const (
	KindInvalidConfiguration     = jwt.KindInvalidConfiguration
	KindInvalidPrincipal         = jwt.KindInvalidPrincipal
	KindExpiredCredentials       = jwt.KindExpiredCredentials
	KindInvalidToken             = jwt.KindInvalidToken
	KindUnknownAccount           = jwt.KindUnknownAccount
	KindUnexpectedAuthentication = jwt.KindUnexpectedAuthentication
)

var (
	// ErrInvalidConfiguration matches configuration and key material failures.
	ErrInvalidConfiguration = jwt.ErrInvalidConfiguration
	// ErrInvalidPrincipal matches principals that cannot be issued a token.
	ErrInvalidPrincipal = jwt.ErrInvalidPrincipal
	// ErrExpiredCredentials matches expired tokens.
	ErrExpiredCredentials = jwt.ErrExpiredCredentials
	// ErrInvalidToken matches malformed, tampered or policy-violating tokens.
	ErrInvalidToken = jwt.ErrInvalidToken
	// ErrUnknownAccount matches tokens without a subject.
	ErrUnknownAccount = jwt.ErrUnknownAccount
	// ErrUnexpectedAuthentication matches everything else.
	ErrUnexpectedAuthentication = jwt.ErrUnexpectedAuthentication

	// ErrBuilderUsed is returned by a second call to Build.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrEngineClosed is returned by Engine methods after Close.
	ErrEngineClosed = errors.New("engine closed")
)

// KindOf classifies err. See [jwt.KindOf].
func KindOf(err error) Kind {
	return jwt.KindOf(err)
}

func newKindError(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}
