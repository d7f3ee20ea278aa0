package keyinfo

import (
	"fmt"
	"strings"

	"github.com/alechenninger/keyinfo/internal/credential"
)

// Criteria narrows what a resolution should return. A nil *Criteria
// matches everything.
type Criteria struct {
	// EntityID is recorded on resolved credentials
	EntityID string

	// KeyNames restricts name-based providers to these names.
	// Empty means every name found in the KeyInfo.
	KeyNames []string

	// Usage is recorded on resolved credentials
	Usage credential.Usage

	// KeyAlgorithm drops credentials whose key algorithm differs (e.g. "RSA")
	KeyAlgorithm string

	// Filter is evaluated against each credential after KeyAlgorithm
	Filter CredentialFilter
}

// CredentialFilter decides whether a resolved credential is kept
type CredentialFilter interface {
	Match(cred credential.Credential) (bool, error)
}

// Matches reports whether cred satisfies the criteria
func (c *Criteria) Matches(cred credential.Credential) (bool, error) {
	if c == nil {
		return true, nil
	}

	if c.KeyAlgorithm != "" {
		key, ok := credential.ExtractKey(cred)
		if !ok || !strings.EqualFold(credential.Algorithm(key), c.KeyAlgorithm) {
			return false, nil
		}
	}

	if c.Filter != nil {
		ok, err := c.Filter.Match(cred)
		if err != nil {
			return false, fmt.Errorf("credential filter failed: %w", err)
		}
		return ok, nil
	}

	return true, nil
}

// WantsKeyName reports whether a name-based provider should resolve name
func (c *Criteria) WantsKeyName(name string) bool {
	if c == nil || len(c.KeyNames) == 0 {
		return true
	}
	for _, n := range c.KeyNames {
		if n == name {
			return true
		}
	}
	return false
}

// Apply records entity ID and usage on a credential produced by a provider
func (c *Criteria) Apply(cred *credential.Basic) {
	if cred.Usage == "" {
		cred.Usage = credential.UsageUnspecified
	}
	if c == nil {
		return
	}
	if c.EntityID != "" {
		cred.EntityID = c.EntityID
	}
	if c.Usage != "" {
		cred.Usage = c.Usage
	}
}

// cacheKey returns a string identifying the criteria, or false when the
// criteria cannot be identified (a filter that does not describe itself)
func (c *Criteria) cacheKey() (string, bool) {
	if c == nil {
		return "", true
	}

	filter := ""
	if c.Filter != nil {
		s, ok := c.Filter.(fmt.Stringer)
		if !ok {
			return "", false
		}
		filter = s.String()
	}

	return fmt.Sprintf("%q|%q|%q|%q|%q", c.EntityID, c.KeyNames, c.Usage, c.KeyAlgorithm, filter), true
}
