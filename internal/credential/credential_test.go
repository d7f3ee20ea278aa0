package credential

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKey(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	secret := SecretKey("0123456789abcdef")

	tests := []struct {
		name   string
		cred   Credential
		want   Key
		wantOK bool
	}{
		{
			name:   "public key wins over everything",
			cred:   &Basic{Public: &rsaKey.PublicKey, Secret: secret, Private: ecKey},
			want:   &rsaKey.PublicKey,
			wantOK: true,
		},
		{
			name:   "public key wins over private key",
			cred:   &Basic{Public: &ecKey.PublicKey, Private: rsaKey},
			want:   &ecKey.PublicKey,
			wantOK: true,
		},
		{
			name:   "secret key when no public key",
			cred:   &Basic{Secret: secret, Private: rsaKey},
			want:   secret,
			wantOK: true,
		},
		{
			name:   "private key when it is the only key",
			cred:   &Basic{Private: rsaKey},
			want:   rsaKey,
			wantOK: true,
		},
		{
			name:   "no keys",
			cred:   &Basic{EntityID: "https://idp.example.com"},
			wantOK: false,
		},
		{
			name:   "empty secret counts as absent",
			cred:   &Basic{Secret: SecretKey{}},
			wantOK: false,
		},
		{
			name:   "nil credential",
			cred:   nil,
			wantOK: false,
		},
		{
			name:   "typed nil credential",
			cred:   (*Basic)(nil),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractKey(tt.cred)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestAlgorithmKindSize(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ecKey, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)
	edPub, edPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	tests := []struct {
		name     string
		key      Key
		wantAlg  string
		wantKind string
		wantSize int
	}{
		{"rsa public", &rsaKey.PublicKey, AlgorithmRSA, KindPublic, 2048},
		{"rsa private", rsaKey, AlgorithmRSA, KindPrivate, 2048},
		{"ec public", &ecKey.PublicKey, AlgorithmEC, KindPublic, 384},
		{"ec private", ecKey, AlgorithmEC, KindPrivate, 384},
		{"ed25519 public", edPub, AlgorithmEd25519, KindPublic, 256},
		{"ed25519 private", edPriv, AlgorithmEd25519, KindPrivate, 256},
		{"secret", SecretKey(make([]byte, 32)), AlgorithmOct, KindSecret, 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAlg, Algorithm(tt.key))
			assert.Equal(t, tt.wantKind, Kind(tt.key))
			assert.Equal(t, tt.wantSize, Size(tt.key))
		})
	}
}

func TestThumbprint(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pubPrint, err := Thumbprint(&rsaKey.PublicKey)
	require.NoError(t, err)
	privPrint, err := Thumbprint(rsaKey)
	require.NoError(t, err)

	assert.Len(t, pubPrint, 43, "SHA-256 thumbprint should be 43 characters")
	assert.Equal(t, pubPrint, privPrint, "private keys thumbprint through their public half")

	secretPrint, err := Thumbprint(SecretKey("0123456789abcdef"))
	require.NoError(t, err)
	assert.NotEqual(t, pubPrint, secretPrint)
}

func TestDescribe(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	attrs := Describe(&Basic{
		EntityID: "https://sp.example.com",
		KeyNames: []string{"sp-signing"},
		Usage:    UsageSigning,
		Public:   &ecKey.PublicKey,
	})

	assert.Equal(t, AlgorithmEC, attrs["algorithm"])
	assert.Equal(t, KindPublic, attrs["kind"])
	assert.Equal(t, int64(256), attrs["key_size"])
	assert.Equal(t, "https://sp.example.com", attrs["entity_id"])
	assert.Equal(t, []string{"sp-signing"}, attrs["key_names"])
	assert.Equal(t, "signing", attrs["usage"])
	assert.Equal(t, false, attrs["has_certificate"])
	assert.NotEmpty(t, attrs["thumbprint"])

	empty := Describe(&Basic{})
	assert.Equal(t, "", empty["algorithm"])
	assert.Equal(t, "unspecified", empty["usage"])
}

func TestBasicClone(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	original := &Basic{
		EntityID: "https://idp.example.com",
		KeyNames: []string{"signing"},
		Usage:    UsageSigning,
		Public:   &ecKey.PublicKey,
		Secret:   SecretKey("0123456789abcdef"),
	}

	clone := original.Clone()
	require.NotSame(t, original, clone)
	assert.Equal(t, original, clone)
	assert.Same(t, original.Public, clone.Public)

	clone.KeyNames[0] = "changed"
	clone.Secret[0] = 'x'
	clone.EntityID = "changed"
	assert.Equal(t, []string{"signing"}, original.KeyNames)
	assert.Equal(t, SecretKey("0123456789abcdef"), original.Secret)
	assert.Equal(t, "https://idp.example.com", original.EntityID)

	assert.Nil(t, (*Basic)(nil).Clone())
}
