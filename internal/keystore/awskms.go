package keystore

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
)

// validAlias matches what KMS accepts after the "alias/" prefix
var validAlias = regexp.MustCompile(`^[a-zA-Z0-9/_-]+$`)

// maxAliasLength is the KMS limit on a full alias name
const maxAliasLength = 256

// KMSClient is the part of the KMS API the store calls. *kms.Client satisfies it.
type KMSClient interface {
	GetPublicKey(ctx context.Context, params *kms.GetPublicKeyInput, optFns ...func(*kms.Options)) (*kms.GetPublicKeyOutput, error)
}

// AWSKMS is a Store resolving key names to KMS aliases and returning their public keys
type AWSKMS struct {
	client      KMSClient
	aliasPrefix string

	mu    sync.RWMutex
	cache map[string]*Entry
}

// AWSKMSConfig configures the AWS KMS store
type AWSKMSConfig struct {
	// Region is the AWS region (e.g., "us-east-1")
	Region string

	// AliasPrefix is prepended to key names. Must start with "alias/".
	// Default: "alias/keyinfo/"
	AliasPrefix string

	// Client is an optional pre-configured client
	Client KMSClient
}

// NewAWSKMS creates a KMS store. Without a client it loads the default AWS config.
func NewAWSKMS(ctx context.Context, cfg AWSKMSConfig) (*AWSKMS, error) {
	if cfg.AliasPrefix == "" {
		cfg.AliasPrefix = "alias/keyinfo/"
	}
	if !strings.HasPrefix(cfg.AliasPrefix, "alias/") {
		return nil, fmt.Errorf("alias prefix must start with 'alias/', got: %s", cfg.AliasPrefix)
	}

	client := cfg.Client
	if client == nil {
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = kms.NewFromConfig(awsCfg)
	}

	return &AWSKMS{
		client:      client,
		aliasPrefix: cfg.AliasPrefix,
		cache:       make(map[string]*Entry),
	}, nil
}

// Get implements Store. Public keys are cached per name since KMS keys
// behind an alias only change through rotation.
func (s *AWSKMS) Get(ctx context.Context, name string) (*Entry, error) {
	s.mu.RLock()
	entry, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return entry, nil
	}

	alias := s.aliasPrefix + name
	if !validAlias.MatchString(name) || len(alias) > maxAliasLength {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, invalidName(name))
	}

	resp, err := s.client.GetPublicKey(ctx, &kms.GetPublicKeyInput{
		KeyId: aws.String(alias),
	})
	if err != nil {
		var notFound *types.NotFoundException
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, alias)
		}
		return nil, fmt.Errorf("failed to get public key for %s: %w", alias, err)
	}

	pub, err := x509.ParsePKIXPublicKey(resp.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key for %s: %w", alias, err)
	}

	entry = &Entry{Name: name, Public: pub}

	s.mu.Lock()
	s.cache[name] = entry
	s.mu.Unlock()

	return entry, nil
}

// Invalidate drops the cached key for name, e.g. after a rotation
func (s *AWSKMS) Invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, name)
}
