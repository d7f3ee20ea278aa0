package config

import (
	"context"
	"fmt"

	"github.com/alechenninger/keyinfo/internal/keystore"
)

// NewKeyStore creates a key store from configuration
func NewKeyStore(ctx context.Context, cfg KeyStoreConfig) (keystore.Store, error) {
	switch cfg.Type {
	case "memory":
		return keystore.NewMemory(), nil

	case "disk":
		disk, err := keystore.NewDisk(keystore.DiskConfig{
			KeysDir: cfg.KeysDir,
		})
		if err != nil {
			return nil, err
		}
		return disk, nil

	case "aws_kms":
		kms, err := keystore.NewAWSKMS(ctx, keystore.AWSKMSConfig{
			Region:      cfg.Region,
			AliasPrefix: cfg.AliasPrefix,
		})
		if err != nil {
			return nil, err
		}
		return kms, nil

	default:
		return nil, fmt.Errorf("unknown key store type: %s (supported: memory, disk, aws_kms)", cfg.Type)
	}
}
