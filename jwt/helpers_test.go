package jwt

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/tokenauth/principal"
)

var testEpoch = time.Unix(1_700_000_000, 0)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testRSAKey(t testing.TB) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func testECKey(t testing.TB, curve elliptic.Curve) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	require.NoError(t, err)
	return key
}

func testEdKey(t testing.TB) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub, priv
}

func hmacConfig(t testing.TB, clock *fakeClock) *ConfigurationBuilder {
	t.Helper()
	b := NewConfiguration().
		SignatureAlgorithm(HS256).
		SharedKey(testSecret).
		Issuer("issuer-a").
		ExpireTime(time.Minute).
		IncludeDetails(true).
		IncludePermissions(true)
	if clock != nil {
		b.Clock(clock.Now)
	}
	return b
}

func mustBuild(t testing.TB, b *ConfigurationBuilder) *Configuration {
	t.Helper()
	cfg, err := b.Build()
	require.NoError(t, err)
	return cfg
}

func samplePrincipal() principal.Principal {
	return principal.NewBuilder("alice").
		Root(true).
		WithPermission("read", "write").
		WithParameter("tenant", "acme").
		WithParameter("level", int64(7)).
		Build()
}

// payloadKeys returns the payload claim names in serialized order.
func payloadKeys(t testing.TB, token string) []string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	dec := json.NewDecoder(strings.NewReader(string(raw)))
	_, err = dec.Token()
	require.NoError(t, err)
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		keys = append(keys, tok.(string))
		var skip json.RawMessage
		require.NoError(t, dec.Decode(&skip))
	}
	return keys
}

func decodePayload(t testing.TB, token string) map[string]json.RawMessage {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func requireKind(t testing.TB, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected kind for %v", err)
	require.ErrorIs(t, err, kind.sentinel())
}
