package providers

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"math/big"

	"github.com/alechenninger/keyinfo/internal/credential"
	"github.com/alechenninger/keyinfo/internal/keyinfo"
	"github.com/alechenninger/keyinfo/internal/xmlobject"
	"github.com/alechenninger/keyinfo/internal/xmlsig"
)

// Named curve URIs of ECKeyValue
const (
	CurveP256 = "urn:oid:1.2.840.10045.3.1.7"
	CurveP384 = "urn:oid:1.3.132.0.34"
	CurveP521 = "urn:oid:1.3.132.0.35"
)

var namedCurves = map[string]elliptic.Curve{
	CurveP256: elliptic.P256(),
	CurveP384: elliptic.P384(),
	CurveP521: elliptic.P521(),
}

// KeyValue resolves raw public keys from ds:KeyValue (RSAKeyValue and
// dsig11:ECKeyValue with a named curve)
type KeyValue struct {
	keyinfo.BaseProvider
}

// NewKeyValue creates a KeyValue provider
func NewKeyValue() *KeyValue {
	return &KeyValue{}
}

// Name implements keyinfo.Provider
func (p *KeyValue) Name() string { return NameKeyValue }

// Resolve implements keyinfo.Provider
func (p *KeyValue) Resolve(ctx context.Context, resolver keyinfo.Resolver, keyInfo *xmlsig.KeyInfo, criteria *keyinfo.Criteria) ([]credential.Credential, error) {
	return keyinfo.ProcessChildren(ctx, p, resolver, keyInfo, criteria)
}

// Handles implements keyinfo.ChildHandler
func (p *KeyValue) Handles(child xmlobject.XMLObject) bool {
	_, ok := child.(*xmlsig.KeyValue)
	return ok
}

// Process implements keyinfo.ChildHandler
func (p *KeyValue) Process(_ context.Context, resolver keyinfo.Resolver, keyInfo *xmlsig.KeyInfo, child xmlobject.XMLObject, criteria *keyinfo.Criteria) ([]credential.Credential, error) {
	pub, err := decodeKeyValue(child.(*xmlsig.KeyValue))
	if err != nil || pub == nil {
		return nil, err
	}

	cred, err := newCredential(p.BaseProvider, resolver, keyInfo, criteria, &credential.Basic{Public: pub})
	if err != nil {
		return nil, err
	}
	return []credential.Credential{cred}, nil
}

// decodeKeyValue returns nil without error for KeyValue content it does not know
func decodeKeyValue(kv *xmlsig.KeyValue) (crypto.PublicKey, error) {
	switch v := kv.Value.(type) {
	case *xmlsig.RSAKeyValue:
		return decodeRSAKeyValue(v)
	case *xmlsig.ECKeyValue:
		return decodeECKeyValue(v)
	default:
		return nil, nil
	}
}

func decodeRSAKeyValue(v *xmlsig.RSAKeyValue) (*rsa.PublicKey, error) {
	if v.Modulus == "" || v.Exponent == "" {
		return nil, keyinfo.SecurityErrorf("RSAKeyValue is missing its modulus or exponent")
	}

	n, err := decodeBase64(v.Modulus)
	if err != nil {
		return nil, keyinfo.SecurityErrorf("invalid RSAKeyValue modulus: %w", err)
	}
	e, err := decodeBase64(v.Exponent)
	if err != nil {
		return nil, keyinfo.SecurityErrorf("invalid RSAKeyValue exponent: %w", err)
	}

	modulus := new(big.Int).SetBytes(n)
	exponent := new(big.Int).SetBytes(e)
	if modulus.Sign() == 0 {
		return nil, keyinfo.SecurityErrorf("RSAKeyValue modulus is zero")
	}
	if !exponent.IsInt64() || exponent.Int64() < 2 || exponent.Int64() > 1<<31-1 {
		return nil, keyinfo.SecurityErrorf("RSAKeyValue exponent out of range")
	}

	return &rsa.PublicKey{N: modulus, E: int(exponent.Int64())}, nil
}

func decodeECKeyValue(v *xmlsig.ECKeyValue) (*ecdsa.PublicKey, error) {
	curve, ok := namedCurves[v.NamedCurve]
	if !ok {
		return nil, keyinfo.SecurityErrorf("unsupported ECKeyValue curve: %q", v.NamedCurve)
	}

	point, err := decodeBase64(v.PublicKey)
	if err != nil {
		return nil, keyinfo.SecurityErrorf("invalid ECKeyValue public key: %w", err)
	}

	pub, err := ecdsa.ParseUncompressedPublicKey(curve, point)
	if err != nil {
		return nil, keyinfo.SecurityErrorf("invalid ECKeyValue point: %w", err)
	}
	return pub, nil
}
