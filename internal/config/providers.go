package config

import (
	"fmt"

	"github.com/alechenninger/keyinfo/internal/keyinfo"
	"github.com/alechenninger/keyinfo/internal/keystore"
	"github.com/alechenninger/keyinfo/internal/providers"
)

// DefaultProviders are used when no providers are configured. The key-name
// provider is appended when a key store is configured.
var DefaultProviders = []string{
	providers.NameKeyValue,
	providers.NameDEREncodedKeyValue,
	providers.NameInlineX509Data,
	providers.NameJWK,
}

// NewProviders creates the configured providers in order. store may be nil
// unless the key-name provider is configured.
func NewProviders(cfgs []ProviderConfig, store keystore.Store) ([]keyinfo.Provider, error) {
	types := make([]string, 0, len(cfgs))
	for _, cfg := range cfgs {
		types = append(types, cfg.Type)
	}
	if len(types) == 0 {
		types = append(types, DefaultProviders...)
		if store != nil {
			types = append(types, providers.NameKeyName)
		}
	}

	result := make([]keyinfo.Provider, 0, len(types))
	for _, t := range types {
		p, err := newProvider(t, store)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}

func newProvider(providerType string, store keystore.Store) (keyinfo.Provider, error) {
	switch providerType {
	case providers.NameKeyValue:
		return providers.NewKeyValue(), nil
	case providers.NameDEREncodedKeyValue:
		return providers.NewDEREncodedKeyValue(), nil
	case providers.NameInlineX509Data:
		return providers.NewInlineX509Data(), nil
	case providers.NameJWK:
		return providers.NewJWK(), nil
	case providers.NameKeyName:
		if store == nil {
			return nil, fmt.Errorf("provider %s requires a key_store", providerType)
		}
		return providers.NewKeyName(store), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", providerType)
	}
}
