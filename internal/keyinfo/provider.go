// Package keyinfo resolves credentials from XML Signature KeyInfo elements
// through an ordered chain of providers.
package keyinfo

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/alechenninger/keyinfo/internal/credential"
	"github.com/alechenninger/keyinfo/internal/xmlobject"
	"github.com/alechenninger/keyinfo/internal/xmlsig"
)

// ErrSecurity is wrapped by every security-layer failure: contract
// violations such as a missing resolver, and content a provider claims to
// handle but cannot decode. A provider that does not recognize content
// returns no credentials and no error.
var ErrSecurity = errors.New("security error")

// SecurityErrorf returns an error wrapping ErrSecurity. The arguments
// may include one error, which is wrapped too.
func SecurityErrorf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return fmt.Errorf("%w: %w", ErrSecurity, err)
}

// CredentialContext links resolved credentials to the KeyInfo they came
// from and the resolver that produced them
type CredentialContext interface {
	credential.Context

	// KeyInfo returns the KeyInfo being processed
	KeyInfo() *xmlsig.KeyInfo

	// SetKeyInfo records the KeyInfo being processed
	SetKeyInfo(keyInfo *xmlsig.KeyInfo)

	// Resolver returns the resolver that created the context
	Resolver() Resolver
}

// Resolver is the part of a resolver that providers call back into.
// The resolver decides the concrete context type.
type Resolver interface {
	NewCredentialContext() (CredentialContext, error)
}

// Provider extracts the credentials of one KeyInfo encoding
type Provider interface {
	// Name identifies the provider in configuration and logs
	Name() string

	// Resolve returns the credentials this provider can decode from keyInfo.
	// It returns nothing when it recognizes none of the content, and an
	// error wrapping ErrSecurity when it recognizes content it cannot decode.
	Resolve(ctx context.Context, resolver Resolver, keyInfo *xmlsig.KeyInfo, criteria *Criteria) ([]credential.Credential, error)
}

// BuildContext creates a credential context for keyInfo through resolver.
// A nil resolver is a contract violation and fails with ErrSecurity, as
// does a resolver that cannot produce a context.
func BuildContext(keyInfo *xmlsig.KeyInfo, resolver Resolver) (CredentialContext, error) {
	if isNil(resolver) {
		return nil, SecurityErrorf("can't create new KeyInfo credential context because invoking resolver reference was nil")
	}

	kiContext, err := resolver.NewCredentialContext()
	if err != nil {
		return nil, SecurityErrorf("resolver failed to create KeyInfo credential context: %w", err)
	}
	if isNil(kiContext) {
		return nil, SecurityErrorf("resolver returned a nil KeyInfo credential context")
	}

	kiContext.SetKeyInfo(keyInfo)
	return kiContext, nil
}

// ExtractKeyValue returns the key carried by cred, if any.
// See credential.ExtractKey for the precedence between key kinds.
func ExtractKeyValue(cred credential.Credential) (credential.Key, bool) {
	return credential.ExtractKey(cred)
}

// BaseProvider supplies the behaviour shared by all providers.
// Concrete providers embed it.
type BaseProvider struct{}

// BuildContext calls the package level BuildContext
func (BaseProvider) BuildContext(keyInfo *xmlsig.KeyInfo, resolver Resolver) (CredentialContext, error) {
	return BuildContext(keyInfo, resolver)
}

// ExtractKeyValue calls the package level ExtractKeyValue
func (BaseProvider) ExtractKeyValue(cred credential.Credential) (credential.Key, bool) {
	return ExtractKeyValue(cred)
}

// ChildHandler decodes one kind of KeyInfo child
type ChildHandler interface {
	// Handles reports whether child is an encoding this handler decodes
	Handles(child xmlobject.XMLObject) bool

	// Process decodes a handled child
	Process(ctx context.Context, resolver Resolver, keyInfo *xmlsig.KeyInfo, child xmlobject.XMLObject, criteria *Criteria) ([]credential.Credential, error)
}

// ProcessChildren runs h over every KeyInfo child it handles, in document
// order, and collects the results. It stops at the first error.
func ProcessChildren(ctx context.Context, h ChildHandler, resolver Resolver, keyInfo *xmlsig.KeyInfo, criteria *Criteria) ([]credential.Credential, error) {
	if keyInfo == nil {
		return nil, nil
	}

	var creds []credential.Credential
	for _, child := range keyInfo.OrderedChildren() {
		if !h.Handles(child) {
			continue
		}
		found, err := h.Process(ctx, resolver, keyInfo, child, criteria)
		if err != nil {
			return nil, err
		}
		creds = append(creds, found...)
	}
	return creds, nil
}

// isNil catches both nil interfaces and interfaces holding nil pointers
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
