package providers

import (
	"context"
	"crypto/x509"

	"github.com/alechenninger/keyinfo/internal/credential"
	"github.com/alechenninger/keyinfo/internal/keyinfo"
	"github.com/alechenninger/keyinfo/internal/xmlobject"
	"github.com/alechenninger/keyinfo/internal/xmlsig"
)

// InlineX509Data resolves one credential per ds:X509Data carrying
// certificates. The entity certificate is the one whose key matches a
// KeyValue in the same KeyInfo, otherwise the first certificate.
type InlineX509Data struct {
	keyinfo.BaseProvider
}

// NewInlineX509Data creates an InlineX509Data provider
func NewInlineX509Data() *InlineX509Data {
	return &InlineX509Data{}
}

// Name implements keyinfo.Provider
func (p *InlineX509Data) Name() string { return NameInlineX509Data }

// Resolve implements keyinfo.Provider
func (p *InlineX509Data) Resolve(ctx context.Context, resolver keyinfo.Resolver, keyInfo *xmlsig.KeyInfo, criteria *keyinfo.Criteria) ([]credential.Credential, error) {
	return keyinfo.ProcessChildren(ctx, p, resolver, keyInfo, criteria)
}

// Handles implements keyinfo.ChildHandler
func (p *InlineX509Data) Handles(child xmlobject.XMLObject) bool {
	_, ok := child.(*xmlsig.X509Data)
	return ok
}

// Process implements keyinfo.ChildHandler
func (p *InlineX509Data) Process(_ context.Context, resolver keyinfo.Resolver, keyInfo *xmlsig.KeyInfo, child xmlobject.XMLObject, criteria *keyinfo.Criteria) ([]credential.Credential, error) {
	data := child.(*xmlsig.X509Data)

	var chain []*x509.Certificate
	for i, c := range data.X509Certificates() {
		der, err := decodeBase64(c.Value)
		if err != nil {
			return nil, keyinfo.SecurityErrorf("invalid X509Certificate %d encoding: %w", i, err)
		}
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			return nil, keyinfo.SecurityErrorf("invalid X509Certificate %d: %w", i, err)
		}
		chain = append(chain, cert)
	}
	if len(chain) == 0 {
		return nil, nil
	}

	entity := entityCertificate(keyInfo, chain)
	cred, err := newCredential(p.BaseProvider, resolver, keyInfo, criteria, &credential.Basic{
		Public:            entity.PublicKey,
		EntityCertificate: entity,
		CertificateChain:  chain,
	})
	if err != nil {
		return nil, err
	}
	return []credential.Credential{cred}, nil
}

func entityCertificate(keyInfo *xmlsig.KeyInfo, chain []*x509.Certificate) *x509.Certificate {
	for _, kv := range keyInfo.KeyValues() {
		pub, err := decodeKeyValue(kv)
		if err != nil || pub == nil {
			continue
		}
		for _, cert := range chain {
			if sameKey(pub, cert.PublicKey) {
				return cert
			}
		}
	}
	return chain[0]
}
