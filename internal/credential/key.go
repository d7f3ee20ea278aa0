package credential

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"encoding/base64"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// Key algorithm names, following JWK "kty" values where one exists
const (
	AlgorithmRSA     = "RSA"
	AlgorithmEC      = "EC"
	AlgorithmEd25519 = "Ed25519"
	AlgorithmOct     = "oct"
)

// Key kinds reported by Kind
const (
	KindPublic  = "public"
	KindSecret  = "secret"
	KindPrivate = "private"
)

// Algorithm returns the key algorithm of k, or "" if unknown
func Algorithm(k Key) string {
	switch k.(type) {
	case *rsa.PublicKey, *rsa.PrivateKey:
		return AlgorithmRSA
	case *ecdsa.PublicKey, *ecdsa.PrivateKey:
		return AlgorithmEC
	case ed25519.PublicKey, ed25519.PrivateKey:
		return AlgorithmEd25519
	case SecretKey, []byte:
		return AlgorithmOct
	default:
		return ""
	}
}

// Kind reports whether k is a public, secret or private key
func Kind(k Key) string {
	switch k.(type) {
	case SecretKey, []byte:
		return KindSecret
	case *rsa.PrivateKey, *ecdsa.PrivateKey, ed25519.PrivateKey:
		return KindPrivate
	case nil:
		return ""
	default:
		return KindPublic
	}
}

// Size returns the key size in bits, or 0 if unknown
func Size(k Key) int {
	switch key := k.(type) {
	case *rsa.PublicKey:
		return key.N.BitLen()
	case *rsa.PrivateKey:
		return key.N.BitLen()
	case *ecdsa.PublicKey:
		return key.Curve.Params().BitSize
	case *ecdsa.PrivateKey:
		return key.Curve.Params().BitSize
	case ed25519.PublicKey, ed25519.PrivateKey:
		return 256
	case SecretKey:
		return len(key) * 8
	case []byte:
		return len(key) * 8
	default:
		return 0
	}
}

// Thumbprint computes the RFC 7638 JWK thumbprint (SHA-256, base64url) of k.
// Private keys are thumbprinted through their public half.
func Thumbprint(k Key) (string, error) {
	raw := any(k)
	if s, ok := k.(SecretKey); ok {
		raw = []byte(s)
	}

	key, err := jwk.FromRaw(raw)
	if err != nil {
		return "", fmt.Errorf("failed to convert key to JWK: %w", err)
	}

	if Kind(k) == KindPrivate {
		key, err = key.PublicKey()
		if err != nil {
			return "", fmt.Errorf("failed to derive public JWK: %w", err)
		}
	}

	sum, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", fmt.Errorf("failed to compute thumbprint: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(sum), nil
}

// Describe returns the inspectable attributes of a credential. It is the
// shape exposed to criteria expressions and printed by the CLI.
func Describe(c Credential) map[string]any {
	attrs := map[string]any{
		"algorithm":       "",
		"kind":            "",
		"key_size":        int64(0),
		"thumbprint":      "",
		"entity_id":       "",
		"key_names":       []string{},
		"usage":           string(UsageUnspecified),
		"has_certificate": false,
		"subject":         "",
		"issuer":          "",
	}

	if key, ok := ExtractKey(c); ok {
		attrs["algorithm"] = Algorithm(key)
		attrs["kind"] = Kind(key)
		attrs["key_size"] = int64(Size(key))
		if tp, err := Thumbprint(key); err == nil {
			attrs["thumbprint"] = tp
		}
	}

	if b, ok := c.(*Basic); ok && b != nil {
		attrs["entity_id"] = b.EntityID
		if b.KeyNames != nil {
			attrs["key_names"] = b.KeyNames
		}
		if b.Usage != "" {
			attrs["usage"] = string(b.Usage)
		}
		if b.EntityCertificate != nil {
			attrs["has_certificate"] = true
			attrs["subject"] = b.EntityCertificate.Subject.String()
			attrs["issuer"] = b.EntityCertificate.Issuer.String()
		}
	}

	return attrs
}
