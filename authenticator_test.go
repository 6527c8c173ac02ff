package tokenauth

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/MrEthical07/tokenauth/jwt"
)

func newTestConfiguration(t *testing.T, issuer string) *jwt.Configuration {
	t.Helper()

	cfg, err := jwt.NewConfiguration().
		SignatureAlgorithm(jwt.HS256).
		SharedKey(testSecret).
		Issuer(issuer).
		ExpireTime(time.Minute).
		IncludeDetails(true).
		IncludePermissions(true).
		Clock(func() time.Time { return testNow }).
		Build()
	if err != nil {
		t.Fatalf("configuration build failed: %v", err)
	}
	return cfg
}

func TestAuthenticatorBuilderDeduplicates(t *testing.T) {
	a, err := NewAuthenticator(newTestConfiguration(t, "issuer-a")).
		Issuer("issuer-a", " issuer-b ", "issuer-a", "").
		WithRequiredClaim("tenant").
		WithRequiredClaim("tenant", "region").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got, want := a.Issuers(), []string{"issuer-a", "issuer-b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("issuers: got %v want %v", got, want)
	}
	if got, want := a.RequiredClaims(), []string{"tenant", "region"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("required claims: got %v want %v", got, want)
	}
}

func TestAuthenticatorBuildWithoutConfiguration(t *testing.T) {
	_, err := NewAuthenticator(nil).Build()
	if KindOf(err) != KindUnexpectedAuthentication {
		t.Fatalf("expected unexpected authentication, got %v", err)
	}
}

func TestAuthenticatorWithoutPolicyAcceptsAnyIssuer(t *testing.T) {
	verify := newTestConfiguration(t, "issuer-a")
	a, err := NewAuthenticator(verify).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	token, err := jwt.Encode(newTestConfiguration(t, "somewhere-else"), testPrincipal(), "")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	p, err := a.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if p.Subject() != "alice" {
		t.Fatalf("expected alice, got %q", p.Subject())
	}
}

func TestAuthenticatorRequiredClaimsCheckedBeforeIssuer(t *testing.T) {
	a, err := NewAuthenticator(newTestConfiguration(t, "issuer-a")).
		Issuer("issuer-a").
		WithRequiredClaim("region").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	token, err := jwt.Encode(newTestConfiguration(t, "issuer-z"), testPrincipal(), "")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	_, err = a.Authenticate(context.Background(), token)
	if !errors.Is(err, ErrRequiredClaimMissing) {
		t.Fatalf("expected required claim error first, got %v", err)
	}

	var authErr *Error
	if !errors.As(err, &authErr) || authErr.Kind != KindInvalidToken {
		t.Fatalf("expected *Error with invalid token kind, got %#v", err)
	}
}

func TestAuthenticatorRegisteredClaimCanBeRequired(t *testing.T) {
	a, err := NewAuthenticator(newTestConfiguration(t, "issuer-a")).
		WithRequiredClaim(jwt.ClaimTokenID).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	cfg := newTestConfiguration(t, "issuer-a")

	withID, err := jwt.Encode(cfg, testPrincipal(), "id-1")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := a.Authenticate(context.Background(), withID); err != nil {
		t.Fatalf("expected token with jti to pass, got %v", err)
	}

	withoutID, err := jwt.Encode(cfg, testPrincipal(), "")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := a.Authenticate(context.Background(), withoutID); !errors.Is(err, ErrRequiredClaimMissing) {
		t.Fatalf("expected missing jti, got %v", err)
	}
}

func TestAuthenticatorPropagatesDecodeKinds(t *testing.T) {
	a, err := NewAuthenticator(newTestConfiguration(t, "issuer-a")).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
		want  Kind
	}{
		{name: "empty", token: "", want: KindUnexpectedAuthentication},
		{name: "garbage", token: "not-a-token", want: KindInvalidToken},
		{name: "two segments", token: "a.b", want: KindInvalidToken},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.Authenticate(context.Background(), tc.token)
			if got := KindOf(err); got != tc.want {
				t.Fatalf("expected %v, got %v (%v)", tc.want, got, err)
			}
		})
	}
}

func TestAuthenticatorNoSubject(t *testing.T) {
	cfg := newTestConfiguration(t, "issuer-a")
	a, err := NewAuthenticator(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// A principal cannot be issued without a subject, so sign the claims directly.
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"iss": "issuer-a",
		"exp": testNow.Add(time.Minute).Unix(),
	}).SignedString(testSecret)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	_, err = a.Authenticate(context.Background(), token)
	if !errors.Is(err, ErrUnknownAccount) {
		t.Fatalf("expected unknown account, got %v", err)
	}
}

func TestNilAuthenticator(t *testing.T) {
	var a *Authenticator
	_, err := a.Authenticate(context.Background(), "a.b.c")
	if KindOf(err) != KindUnexpectedAuthentication {
		t.Fatalf("expected unexpected authentication, got %v", err)
	}
	if a.Issuers() != nil || a.RequiredClaims() != nil || a.Configuration() != nil {
		t.Fatal("nil authenticator should expose nothing")
	}
}
