// Package providers holds the KeyInfo provider variants: one per key
// encoding that can appear under ds:KeyInfo.
package providers

import (
	"crypto"
	"encoding/base64"
	"strings"

	"github.com/alechenninger/keyinfo/internal/credential"
	"github.com/alechenninger/keyinfo/internal/keyinfo"
	"github.com/alechenninger/keyinfo/internal/xmlsig"
)

// Provider names
const (
	NameKeyValue           = "key-value"
	NameDEREncodedKeyValue = "der-key-value"
	NameInlineX509Data     = "inline-x509"
	NameKeyName            = "key-name"
	NameJWK                = "jwk"
)

// newCredential links cred to a fresh context for keyInfo, records the
// KeyInfo's key names and applies criteria
func newCredential(base keyinfo.BaseProvider, resolver keyinfo.Resolver, keyInfo *xmlsig.KeyInfo, criteria *keyinfo.Criteria, cred *credential.Basic) (*credential.Basic, error) {
	kiContext, err := base.BuildContext(keyInfo, resolver)
	if err != nil {
		return nil, err
	}
	cred.Context = kiContext

	for _, name := range keyNames(keyInfo) {
		if !contains(cred.KeyNames, name) {
			cred.KeyNames = append(cred.KeyNames, name)
		}
	}

	criteria.Apply(cred)
	return cred, nil
}

func keyNames(keyInfo *xmlsig.KeyInfo) []string {
	var names []string
	for _, kn := range keyInfo.KeyNames() {
		if kn.Value != "" {
			names = append(names, kn.Value)
		}
	}
	return names
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// decodeBase64 decodes base64 text that may be wrapped across lines
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)
	return base64.StdEncoding.DecodeString(s)
}

func sameKey(a, b crypto.PublicKey) bool {
	e, ok := a.(interface{ Equal(crypto.PublicKey) bool })
	return ok && e.Equal(b)
}
