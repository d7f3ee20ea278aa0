// Package keystore looks up key material by name for the KeyName provider.
package keystore

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a store has no key with the requested name
var ErrNotFound = errors.New("key not found")

// ErrInvalidName is returned when a name cannot be stored. Lookups of such
// names also wrap ErrNotFound since no key can exist under them.
var ErrInvalidName = errors.New("invalid key name")

// Store resolves key names to key material
type Store interface {
	// Get returns the entry named name, or an error wrapping ErrNotFound
	Get(ctx context.Context, name string) (*Entry, error)
}

// Entry is the key material stored under a name. Any of the key fields may be unset.
type Entry struct {
	Name string

	Public  crypto.PublicKey
	Private crypto.PrivateKey
	Secret  []byte

	// Certificates holds the entity certificate first, then the rest of its chain
	Certificates []*x509.Certificate
}

// PublicKey returns the entry's public key, falling back to the
// certificate's key, then to the private key's public half
func (e *Entry) PublicKey() crypto.PublicKey {
	if e.Public != nil {
		return e.Public
	}
	if len(e.Certificates) > 0 {
		return e.Certificates[0].PublicKey
	}
	if signer, ok := e.Private.(crypto.Signer); ok {
		return signer.Public()
	}
	return nil
}

// KeyType is a key type a store can generate
type KeyType string

const (
	KeyTypeECP256  KeyType = "EC-P256"
	KeyTypeECP384  KeyType = "EC-P384"
	KeyTypeRSA2048 KeyType = "RSA-2048"
	KeyTypeRSA4096 KeyType = "RSA-4096"
)

// KeyTypes lists the supported key types
func KeyTypes() []KeyType {
	return []KeyType{KeyTypeECP256, KeyTypeECP384, KeyTypeRSA2048, KeyTypeRSA4096}
}

// GenerateKey creates a new private key of the given type
func GenerateKey(keyType KeyType) (crypto.Signer, error) {
	var signer crypto.Signer
	var err error

	switch keyType {
	case KeyTypeECP256:
		signer, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	case KeyTypeECP384:
		signer, err = ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	case KeyTypeRSA2048:
		signer, err = rsa.GenerateKey(rand.Reader, 2048)
	case KeyTypeRSA4096:
		signer, err = rsa.GenerateKey(rand.Reader, 4096)
	default:
		return nil, fmt.Errorf("unsupported key type: %s", keyType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s key: %w", keyType, err)
	}

	return signer, nil
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

func invalidName(name string) error {
	return fmt.Errorf("%w: %q", ErrInvalidName, name)
}
