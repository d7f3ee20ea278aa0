package keyinfo

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alechenninger/keyinfo/internal/credential"
	"github.com/alechenninger/keyinfo/internal/xmlobject"
	"github.com/alechenninger/keyinfo/internal/xmlsig"
)

// failingResolver cannot produce contexts
type failingResolver struct {
	err error
}

func (r *failingResolver) NewCredentialContext() (CredentialContext, error) {
	return nil, r.err
}

// nilContextResolver returns a nil context without an error
type nilContextResolver struct{}

func (nilContextResolver) NewCredentialContext() (CredentialContext, error) {
	return (*Context)(nil), nil
}

func newKeyInfo() *xmlsig.KeyInfo {
	return xmlsig.NewKeyInfo(xmlsig.KeyInfoName)
}

func TestBuildContext(t *testing.T) {
	resolver, err := NewChainResolver(ChainResolverConfig{})
	require.NoError(t, err)

	t.Run("sets the KeyInfo on the resolver's context", func(t *testing.T) {
		keyInfo := newKeyInfo()

		kiContext, err := BuildContext(keyInfo, resolver)
		require.NoError(t, err)

		assert.Same(t, keyInfo, kiContext.KeyInfo())
		assert.Same(t, resolver, kiContext.Resolver())
		assert.NotEmpty(t, kiContext.ContextID())
		assert.IsType(t, &Context{}, kiContext)
	})

	t.Run("accepts a nil KeyInfo", func(t *testing.T) {
		kiContext, err := BuildContext(nil, resolver)
		require.NoError(t, err)
		assert.Nil(t, kiContext.KeyInfo())
	})

	t.Run("creates a fresh context each time", func(t *testing.T) {
		a, err := BuildContext(newKeyInfo(), resolver)
		require.NoError(t, err)
		b, err := BuildContext(newKeyInfo(), resolver)
		require.NoError(t, err)

		assert.NotSame(t, a, b)
		assert.NotEqual(t, a.ContextID(), b.ContextID())
	})

	t.Run("fails for a nil resolver", func(t *testing.T) {
		for _, keyInfo := range []*xmlsig.KeyInfo{newKeyInfo(), nil} {
			kiContext, err := BuildContext(keyInfo, nil)
			assert.ErrorIs(t, err, ErrSecurity)
			assert.ErrorContains(t, err, "resolver reference was nil")
			assert.Nil(t, kiContext)
		}
	})

	t.Run("fails for a typed nil resolver", func(t *testing.T) {
		var typedNil *ChainResolver
		_, err := BuildContext(newKeyInfo(), typedNil)
		assert.ErrorIs(t, err, ErrSecurity)
	})

	t.Run("folds factory failures into the security error", func(t *testing.T) {
		cause := errors.New("out of contexts")
		_, err := BuildContext(newKeyInfo(), &failingResolver{err: cause})

		assert.ErrorIs(t, err, ErrSecurity)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("rejects a nil context from the factory", func(t *testing.T) {
		_, err := BuildContext(newKeyInfo(), nilContextResolver{})
		assert.ErrorIs(t, err, ErrSecurity)
	})

	t.Run("base provider delegates", func(t *testing.T) {
		keyInfo := newKeyInfo()
		kiContext, err := BaseProvider{}.BuildContext(keyInfo, resolver)
		require.NoError(t, err)
		assert.Same(t, keyInfo, kiContext.KeyInfo())

		_, err = BaseProvider{}.BuildContext(keyInfo, nil)
		assert.ErrorIs(t, err, ErrSecurity)
	})
}

func TestExtractKeyValue(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	secret := credential.SecretKey("0123456789abcdef")

	t.Run("public key takes precedence", func(t *testing.T) {
		key, ok := BaseProvider{}.ExtractKeyValue(&credential.Basic{
			Public:  &rsaKey.PublicKey,
			Secret:  secret,
			Private: ecKey,
		})
		require.True(t, ok)
		assert.Same(t, &rsaKey.PublicKey, key)
	})

	t.Run("secret key without public key", func(t *testing.T) {
		key, ok := ExtractKeyValue(&credential.Basic{Secret: secret, Private: ecKey})
		require.True(t, ok)
		assert.Equal(t, secret, key)
	})

	t.Run("private key alone", func(t *testing.T) {
		key, ok := ExtractKeyValue(&credential.Basic{Private: ecKey})
		require.True(t, ok)
		assert.Same(t, ecKey, key)
	})

	t.Run("nothing to extract", func(t *testing.T) {
		_, ok := ExtractKeyValue(nil)
		assert.False(t, ok)

		_, ok = ExtractKeyValue(&credential.Basic{})
		assert.False(t, ok)
	})
}

// nameHandler handles KeyName children and fails on the name "bad"
type nameHandler struct{}

func (nameHandler) Handles(child xmlobject.XMLObject) bool {
	_, ok := child.(*xmlsig.KeyName)
	return ok
}

func (nameHandler) Process(_ context.Context, resolver Resolver, keyInfo *xmlsig.KeyInfo, child xmlobject.XMLObject, _ *Criteria) ([]credential.Credential, error) {
	name := child.(*xmlsig.KeyName).Value
	if name == "bad" {
		return nil, SecurityErrorf("bad name")
	}
	kiContext, err := BuildContext(keyInfo, resolver)
	if err != nil {
		return nil, err
	}
	return []credential.Credential{&credential.Basic{KeyNames: []string{name}, Context: kiContext}}, nil
}

func TestProcessChildren(t *testing.T) {
	resolver, err := NewChainResolver(ChainResolverConfig{})
	require.NoError(t, err)

	t.Run("visits handled children in order", func(t *testing.T) {
		keyInfo, err := xmlsig.ParseKeyInfo([]byte(`<KeyInfo xmlns="http://www.w3.org/2000/09/xmldsig#">
  <KeyName>a</KeyName><X509Data/><KeyName>b</KeyName></KeyInfo>`))
		require.NoError(t, err)

		creds, err := ProcessChildren(context.Background(), nameHandler{}, resolver, keyInfo, nil)
		require.NoError(t, err)
		require.Len(t, creds, 2)
		assert.Equal(t, []string{"a"}, creds[0].(*credential.Basic).KeyNames)
		assert.Equal(t, []string{"b"}, creds[1].(*credential.Basic).KeyNames)
		assert.Same(t, keyInfo, creds[0].(*credential.Basic).Context.(CredentialContext).KeyInfo())
	})

	t.Run("stops at the first error", func(t *testing.T) {
		keyInfo, err := xmlsig.ParseKeyInfo([]byte(`<KeyInfo xmlns="http://www.w3.org/2000/09/xmldsig#">
  <KeyName>a</KeyName><KeyName>bad</KeyName></KeyInfo>`))
		require.NoError(t, err)

		creds, err := ProcessChildren(context.Background(), nameHandler{}, resolver, keyInfo, nil)
		assert.ErrorIs(t, err, ErrSecurity)
		assert.Nil(t, creds)
	})

	t.Run("nil KeyInfo yields nothing", func(t *testing.T) {
		creds, err := ProcessChildren(context.Background(), nameHandler{}, resolver, nil, nil)
		assert.NoError(t, err)
		assert.Empty(t, creds)
	})
}
