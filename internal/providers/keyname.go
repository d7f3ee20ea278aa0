package providers

import (
	"context"
	"errors"

	"github.com/alechenninger/keyinfo/internal/credential"
	"github.com/alechenninger/keyinfo/internal/keyinfo"
	"github.com/alechenninger/keyinfo/internal/keystore"
	"github.com/alechenninger/keyinfo/internal/xmlobject"
	"github.com/alechenninger/keyinfo/internal/xmlsig"
)

// KeyName resolves ds:KeyName values against a key store. Names the store
// does not know yield nothing.
type KeyName struct {
	keyinfo.BaseProvider

	store keystore.Store
}

// NewKeyName creates a KeyName provider backed by store
func NewKeyName(store keystore.Store) *KeyName {
	return &KeyName{store: store}
}

// Name implements keyinfo.Provider
func (p *KeyName) Name() string { return NameKeyName }

// Resolve implements keyinfo.Provider
func (p *KeyName) Resolve(ctx context.Context, resolver keyinfo.Resolver, keyInfo *xmlsig.KeyInfo, criteria *keyinfo.Criteria) ([]credential.Credential, error) {
	return keyinfo.ProcessChildren(ctx, p, resolver, keyInfo, criteria)
}

// Handles implements keyinfo.ChildHandler
func (p *KeyName) Handles(child xmlobject.XMLObject) bool {
	_, ok := child.(*xmlsig.KeyName)
	return ok
}

// Process implements keyinfo.ChildHandler
func (p *KeyName) Process(ctx context.Context, resolver keyinfo.Resolver, keyInfo *xmlsig.KeyInfo, child xmlobject.XMLObject, criteria *keyinfo.Criteria) ([]credential.Credential, error) {
	name := child.(*xmlsig.KeyName).Value
	if name == "" || !criteria.WantsKeyName(name) {
		return nil, nil
	}

	entry, err := p.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, keystore.ErrNotFound) {
			return nil, nil
		}
		return nil, keyinfo.SecurityErrorf("failed to look up key name %q: %w", name, err)
	}

	cred := &credential.Basic{
		KeyNames: []string{name},
		Public:   entry.PublicKey(),
		Secret:   credential.SecretKey(entry.Secret),
		Private:  entry.Private,
	}
	if len(entry.Certificates) > 0 {
		cred.EntityCertificate = entry.Certificates[0]
		cred.CertificateChain = entry.Certificates
	}

	cred, err = newCredential(p.BaseProvider, resolver, keyInfo, criteria, cred)
	if err != nil {
		return nil, err
	}
	return []credential.Credential{cred}, nil
}
