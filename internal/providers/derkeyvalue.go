package providers

import (
	"context"
	"crypto/x509"

	"github.com/alechenninger/keyinfo/internal/credential"
	"github.com/alechenninger/keyinfo/internal/keyinfo"
	"github.com/alechenninger/keyinfo/internal/xmlobject"
	"github.com/alechenninger/keyinfo/internal/xmlsig"
)

// DEREncodedKeyValue resolves public keys from dsig11:DEREncodedKeyValue,
// a base64 SubjectPublicKeyInfo
type DEREncodedKeyValue struct {
	keyinfo.BaseProvider
}

// NewDEREncodedKeyValue creates a DEREncodedKeyValue provider
func NewDEREncodedKeyValue() *DEREncodedKeyValue {
	return &DEREncodedKeyValue{}
}

// Name implements keyinfo.Provider
func (p *DEREncodedKeyValue) Name() string { return NameDEREncodedKeyValue }

// Resolve implements keyinfo.Provider
func (p *DEREncodedKeyValue) Resolve(ctx context.Context, resolver keyinfo.Resolver, keyInfo *xmlsig.KeyInfo, criteria *keyinfo.Criteria) ([]credential.Credential, error) {
	return keyinfo.ProcessChildren(ctx, p, resolver, keyInfo, criteria)
}

// Handles implements keyinfo.ChildHandler
func (p *DEREncodedKeyValue) Handles(child xmlobject.XMLObject) bool {
	_, ok := child.(*xmlsig.DEREncodedKeyValue)
	return ok
}

// Process implements keyinfo.ChildHandler
func (p *DEREncodedKeyValue) Process(_ context.Context, resolver keyinfo.Resolver, keyInfo *xmlsig.KeyInfo, child xmlobject.XMLObject, criteria *keyinfo.Criteria) ([]credential.Credential, error) {
	der, err := decodeBase64(child.(*xmlsig.DEREncodedKeyValue).Value)
	if err != nil {
		return nil, keyinfo.SecurityErrorf("invalid DEREncodedKeyValue encoding: %w", err)
	}

	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, keyinfo.SecurityErrorf("invalid DEREncodedKeyValue key: %w", err)
	}

	cred, err := newCredential(p.BaseProvider, resolver, keyInfo, criteria, &credential.Basic{Public: pub})
	if err != nil {
		return nil, err
	}
	return []credential.Credential{cred}, nil
}
