// Package credential models resolved key material.
package credential

import (
	"crypto"
	"crypto/x509"
)

// SecretKey is symmetric key material
type SecretKey []byte

// Key is any one of crypto.PublicKey, SecretKey or crypto.PrivateKey
type Key any

// Usage indicates what a credential may be used for
type Usage string

const (
	UsageUnspecified Usage = "unspecified"
	UsageSigning     Usage = "signing"
	UsageEncryption  Usage = "encryption"
)

// Credential is a bundle of key material. Any subset of the key slots may be unset.
type Credential interface {
	PublicKey() crypto.PublicKey
	SecretKey() SecretKey
	PrivateKey() crypto.PrivateKey
}

// Context is bookkeeping attached to a credential by whatever produced it
type Context interface {
	// ContextID uniquely identifies the context
	ContextID() string
}

// ExtractKey returns the key carried by c. A public key wins over a secret
// key, which wins over a private key. A nil credential or one with no key
// yields false.
func ExtractKey(c Credential) (Key, bool) {
	if c == nil {
		return nil, false
	}
	if pub := c.PublicKey(); pub != nil {
		return pub, true
	}
	// derived keys (e.g. key agreement) have no public/private split
	if secret := c.SecretKey(); len(secret) > 0 {
		return secret, true
	}
	if priv := c.PrivateKey(); priv != nil {
		return priv, true
	}
	return nil, false
}

// Basic is the Credential produced by KeyInfo providers
type Basic struct {
	// EntityID identifies the owner of the credential, if known
	EntityID string

	// KeyNames are names the key is known by
	KeyNames []string

	// Usage is the usage the credential was resolved for
	Usage Usage

	Public  crypto.PublicKey
	Secret  SecretKey
	Private crypto.PrivateKey

	// EntityCertificate is the certificate whose key this credential carries
	EntityCertificate *x509.Certificate

	// CertificateChain holds every certificate that accompanied the key,
	// including EntityCertificate
	CertificateChain []*x509.Certificate

	// Context links the credential to the resolution that produced it
	Context Context
}

// PublicKey implements Credential
func (b *Basic) PublicKey() crypto.PublicKey {
	if b == nil {
		return nil
	}
	return b.Public
}

// SecretKey implements Credential
func (b *Basic) SecretKey() SecretKey {
	if b == nil {
		return nil
	}
	return b.Secret
}

// PrivateKey implements Credential
func (b *Basic) PrivateKey() crypto.PrivateKey {
	if b == nil {
		return nil
	}
	return b.Private
}

// Clone returns a copy of b whose slices can be changed without affecting b.
// Keys and certificates are shared.
func (b *Basic) Clone() *Basic {
	if b == nil {
		return nil
	}
	clone := *b
	clone.KeyNames = append([]string(nil), b.KeyNames...)
	clone.Secret = append(SecretKey(nil), b.Secret...)
	clone.CertificateChain = append([]*x509.Certificate(nil), b.CertificateChain...)
	return &clone
}
