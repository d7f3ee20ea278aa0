package providers

import (
	"context"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/alechenninger/keyinfo/internal/credential"
	"github.com/alechenninger/keyinfo/internal/keyinfo"
	"github.com/alechenninger/keyinfo/internal/xmlobject"
	"github.com/alechenninger/keyinfo/internal/xmlsig"
)

// JWKNamespace is the namespace of the JWK KeyInfo extension element
const JWKNamespace = "urn:keyinfo:jwk"

// JWKName is the extension element carrying a JSON Web Key as its text
var JWKName = xmlobject.NewQName(JWKNamespace, "JWK", "jwk")

// JWK resolves keys from the JWK extension element. Public keys fill the
// public slot, private keys the private slot and "oct" keys the secret
// slot. A "kid" is recorded as a key name.
type JWK struct {
	keyinfo.BaseProvider
}

// NewJWK creates a JWK provider
func NewJWK() *JWK {
	return &JWK{}
}

// Name implements keyinfo.Provider
func (p *JWK) Name() string { return NameJWK }

// Resolve implements keyinfo.Provider
func (p *JWK) Resolve(ctx context.Context, resolver keyinfo.Resolver, keyInfo *xmlsig.KeyInfo, criteria *keyinfo.Criteria) ([]credential.Credential, error) {
	return keyinfo.ProcessChildren(ctx, p, resolver, keyInfo, criteria)
}

// Handles implements keyinfo.ChildHandler
func (p *JWK) Handles(child xmlobject.XMLObject) bool {
	el, ok := child.(*xmlobject.Element)
	return ok && el.ElementQName().Equal(JWKName)
}

// Process implements keyinfo.ChildHandler
func (p *JWK) Process(_ context.Context, resolver keyinfo.Resolver, keyInfo *xmlsig.KeyInfo, child xmlobject.XMLObject, criteria *keyinfo.Criteria) ([]credential.Credential, error) {
	text := strings.TrimSpace(child.(*xmlobject.Element).Text)
	if text == "" {
		return nil, keyinfo.SecurityErrorf("empty JWK element")
	}

	key, err := jwk.ParseKey([]byte(text))
	if err != nil {
		return nil, keyinfo.SecurityErrorf("invalid JWK: %w", err)
	}

	var raw any
	if err := key.Raw(&raw); err != nil {
		return nil, keyinfo.SecurityErrorf("unsupported JWK: %w", err)
	}

	cred := &credential.Basic{}
	switch key.(type) {
	case jwk.SymmetricKey:
		secret, ok := raw.([]byte)
		if !ok || len(secret) == 0 {
			return nil, keyinfo.SecurityErrorf("JWK symmetric key has no key material")
		}
		cred.Secret = credential.SecretKey(secret)
	case jwk.RSAPrivateKey, jwk.ECDSAPrivateKey, jwk.OKPPrivateKey:
		cred.Private = raw
	default:
		cred.Public = raw
	}

	if kid := key.KeyID(); kid != "" {
		cred.KeyNames = []string{kid}
	}

	cred, err = newCredential(p.BaseProvider, resolver, keyInfo, criteria, cred)
	if err != nil {
		return nil, err
	}
	return []credential.Credential{cred}, nil
}
