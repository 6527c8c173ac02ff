package jwt

import (
	"errors"
)

// Kind classifies token failures. The set is closed.
type Kind uint8

const (
	// KindInvalidConfiguration reports unusable configuration or key material.
	KindInvalidConfiguration Kind = iota + 1
	// KindInvalidPrincipal reports a principal that cannot be encoded.
	KindInvalidPrincipal
	// KindExpiredCredentials reports a token past its exp claim.
	KindExpiredCredentials
	// KindInvalidToken reports a malformed, tampered or policy-violating token.
	KindInvalidToken
	// KindUnknownAccount reports a token without claims or without a subject.
	KindUnknownAccount
	// KindUnexpectedAuthentication reports any other failure.
	KindUnexpectedAuthentication
)

var (
	ErrInvalidConfiguration     = errors.New("invalid configuration")
	ErrInvalidPrincipal         = errors.New("invalid principal")
	ErrExpiredCredentials       = errors.New("expired credentials")
	ErrInvalidToken             = errors.New("invalid token")
	ErrUnknownAccount           = errors.New("unknown account")
	ErrUnexpectedAuthentication = errors.New("unexpected authentication failure")
)

// String returns a stable snake_case name, used in logs, metrics and audit records.
func (k Kind) String() string {
	switch k {
	case KindInvalidConfiguration:
		return "invalid_configuration"
	case KindInvalidPrincipal:
		return "invalid_principal"
	case KindExpiredCredentials:
		return "expired_credentials"
	case KindInvalidToken:
		return "invalid_token"
	case KindUnknownAccount:
		return "unknown_account"
	case KindUnexpectedAuthentication:
		return "unexpected_authentication"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidConfiguration:
		return ErrInvalidConfiguration
	case KindInvalidPrincipal:
		return ErrInvalidPrincipal
	case KindExpiredCredentials:
		return ErrExpiredCredentials
	case KindInvalidToken:
		return ErrInvalidToken
	case KindUnknownAccount:
		return ErrUnknownAccount
	default:
		return ErrUnexpectedAuthentication
	}
}

// Error is the error type returned by every operation in this package.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// KindOf returns the kind of err. Errors not produced by this package are
// KindUnexpectedAuthentication and nil is zero.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpectedAuthentication
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}
