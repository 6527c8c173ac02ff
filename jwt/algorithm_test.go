package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignatureAlgorithmAnyCase(t *testing.T) {
	cases := map[string]SignatureAlgorithm{
		"none":  None,
		"NONE":  None,
		"hs256": HS256,
		"Rs384": RS384,
		"ES512": ES512,
		"ps256": PS256,
		"eddsa": EdDSA,
	}
	for in, want := range cases {
		got, err := ParseSignatureAlgorithm(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseSignatureAlgorithmUnknown(t *testing.T) {
	_, err := ParseSignatureAlgorithm("HS1024")
	requireKind(t, err, KindInvalidConfiguration)
}

func TestSignatureAlgorithmFamilies(t *testing.T) {
	for _, alg := range Algorithms() {
		switch alg {
		case None:
			assert.False(t, alg.IsSymmetric())
			assert.False(t, alg.IsAsymmetric())
			assert.True(t, alg.IsUnsecured())
		case HS256, HS384, HS512:
			assert.True(t, alg.IsSymmetric(), alg.String())
			assert.False(t, alg.IsAsymmetric(), alg.String())
			assert.Positive(t, alg.MinSharedKeyBytes())
		default:
			assert.False(t, alg.IsSymmetric(), alg.String())
			assert.True(t, alg.IsAsymmetric(), alg.String())
			assert.Zero(t, alg.MinSharedKeyBytes())
		}
		assert.NotEmpty(t, alg.Description(), alg.String())
		assert.Equal(t, alg.String(), alg.profile().method.Alg())
	}
}

func TestInvalidSignatureAlgorithm(t *testing.T) {
	bad := SignatureAlgorithm(200)

	assert.False(t, bad.Valid())
	assert.False(t, bad.IsSymmetric())
	assert.False(t, bad.IsAsymmetric())
	assert.Empty(t, bad.Description())
	assert.Contains(t, bad.String(), "200")
}
