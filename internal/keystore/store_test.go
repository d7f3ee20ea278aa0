package keystore

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey(t *testing.T) {
	tests := []struct {
		keyType KeyType
		check   func(t *testing.T, pub any)
	}{
		{KeyTypeECP256, func(t *testing.T, pub any) {
			assert.Equal(t, "P-256", pub.(*ecdsa.PublicKey).Curve.Params().Name)
		}},
		{KeyTypeECP384, func(t *testing.T, pub any) {
			assert.Equal(t, "P-384", pub.(*ecdsa.PublicKey).Curve.Params().Name)
		}},
		{KeyTypeRSA2048, func(t *testing.T, pub any) {
			assert.Equal(t, 2048, pub.(*rsa.PublicKey).N.BitLen())
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.keyType), func(t *testing.T) {
			signer, err := GenerateKey(tt.keyType)
			require.NoError(t, err)
			tt.check(t, signer.Public())
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		_, err := GenerateKey("DSA-1024")
		assert.ErrorContains(t, err, "unsupported key type")
	})
}

func TestEntry_PublicKey(t *testing.T) {
	signer, err := GenerateKey(KeyTypeECP256)
	require.NoError(t, err)
	cert := selfSigned(t, signer)

	assert.Nil(t, (&Entry{}).PublicKey())
	assert.Equal(t, signer.Public(), (&Entry{Private: signer}).PublicKey())
	assert.Equal(t, cert.PublicKey, (&Entry{Private: signer, Certificates: []*x509.Certificate{cert}}).PublicKey())
	assert.Equal(t, "explicit", (&Entry{Public: "explicit", Private: signer}).PublicKey())
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	signer, err := GenerateKey(KeyTypeECP256)
	require.NoError(t, err)

	m := NewMemory(&Entry{Name: "signing", Public: signer.Public()})
	require.NoError(t, m.Put(&Entry{Name: "shared", Secret: []byte("0123456789abcdef")}))
	assert.Error(t, m.Put(&Entry{}))

	entry, err := m.Get(ctx, "signing")
	require.NoError(t, err)
	assert.Equal(t, signer.Public(), entry.Public)

	entry, err = m.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, []byte("0123456789abcdef"), entry.Secret)

	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"shared", "signing"}, m.Names())
}

type equaler interface {
	Equal(x crypto.PublicKey) bool
}

type privateEqualer interface {
	Equal(x crypto.PrivateKey) bool
}

// assertSameKey compares keys with their Equal methods, which ignore
// precomputed values that differ between generated and parsed keys
func assertSameKey(t *testing.T, expected, actual any) {
	t.Helper()
	if e, ok := expected.(privateEqualer); ok {
		assert.True(t, e.Equal(actual), "keys differ")
		return
	}
	e, ok := expected.(equaler)
	require.True(t, ok, "%T has no Equal method", expected)
	assert.True(t, e.Equal(actual), "keys differ")
}
