package keystore

import (
	"bytes"
	"context"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alechenninger/keyinfo/internal/fs"
)

const pemExt = ".pem"

// Disk is a Store reading one PEM file per key name from a directory.
// A file may hold a PUBLIC KEY, a private key (PKCS#8, PKCS#1 or SEC 1)
// and any number of CERTIFICATE blocks, entity certificate first.
type Disk struct {
	mu      sync.RWMutex
	keysDir string
	fs      fs.FileSystem
}

// DiskConfig configures the disk store
type DiskConfig struct {
	// KeysDir is the directory holding <name>.pem files
	KeysDir string

	// FileSystem defaults to the OS filesystem
	FileSystem fs.FileSystem
}

// NewDisk creates a disk store, creating the directory if needed
func NewDisk(cfg DiskConfig) (*Disk, error) {
	if cfg.KeysDir == "" {
		return nil, fmt.Errorf("keys_dir is required")
	}

	filesystem := cfg.FileSystem
	if filesystem == nil {
		filesystem = fs.NewOSFileSystem()
	}

	if err := filesystem.MkdirAll(cfg.KeysDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create keys directory: %w", err)
	}

	return &Disk{
		keysDir: cfg.KeysDir,
		fs:      filesystem,
	}, nil
}

// Get implements Store
func (d *Disk) Get(_ context.Context, name string) (*Entry, error) {
	path, err := d.keyFilePath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	d.mu.RLock()
	data, err := d.fs.ReadFile(path)
	d.mu.RUnlock()
	if err != nil {
		if d.fs.IsNotExist(err) {
			return nil, notFound(name)
		}
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	entry, err := decodePEM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key file %s: %w", path, err)
	}
	entry.Name = name
	return entry, nil
}

// Put writes entry to <name>.pem, replacing any previous file
func (d *Disk) Put(_ context.Context, entry *Entry) error {
	path, err := d.keyFilePath(entry.Name)
	if err != nil {
		return err
	}

	data, err := encodePEM(entry)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.fs.WriteFileAtomic(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return nil
}

// Create generates a key of keyType and stores it under name
func (d *Disk) Create(ctx context.Context, name string, keyType KeyType) (*Entry, error) {
	signer, err := GenerateKey(keyType)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		Name:    name,
		Public:  signer.Public(),
		Private: signer,
	}
	if err := d.Put(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Names lists the key names in the directory
func (d *Disk) Names() ([]string, error) {
	d.mu.RLock()
	files, err := d.fs.ReadDir(d.keysDir)
	d.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys directory: %w", err)
	}

	var names []string
	for _, f := range files {
		if strings.HasSuffix(f, pemExt) {
			names = append(names, strings.TrimSuffix(f, pemExt))
		}
	}
	return names, nil
}

// keyFilePath rejects names that would escape the keys directory
func (d *Disk) keyFilePath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", invalidName(name)
	}
	return filepath.Join(d.keysDir, name+pemExt), nil
}

func decodePEM(data []byte) (*Entry, error) {
	entry := &Entry{}

	for rest := data; ; {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}

		switch block.Type {
		case "PUBLIC KEY":
			pub, err := x509.ParsePKIXPublicKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("failed to parse public key: %w", err)
			}
			entry.Public = pub
		case "CERTIFICATE":
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("failed to parse certificate: %w", err)
			}
			entry.Certificates = append(entry.Certificates, cert)
		case "PRIVATE KEY":
			key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("failed to parse private key: %w", err)
			}
			entry.Private = key
		case "RSA PRIVATE KEY":
			key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
			}
			entry.Private = key
		case "EC PRIVATE KEY":
			key, err := x509.ParseECPrivateKey(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("failed to parse EC private key: %w", err)
			}
			entry.Private = key
		default:
			return nil, fmt.Errorf("unsupported PEM block: %s", block.Type)
		}
	}

	if entry.Public == nil && entry.Private == nil && len(entry.Certificates) == 0 {
		return nil, fmt.Errorf("no key material found")
	}
	return entry, nil
}

func encodePEM(entry *Entry) ([]byte, error) {
	var buf bytes.Buffer

	if pub := entry.PublicKey(); pub != nil {
		der, err := x509.MarshalPKIXPublicKey(pub)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal public key: %w", err)
		}
		if err := pem.Encode(&buf, &pem.Block{Type: "PUBLIC KEY", Bytes: der}); err != nil {
			return nil, err
		}
	}

	if entry.Private != nil {
		der, err := x509.MarshalPKCS8PrivateKey(entry.Private)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal private key: %w", err)
		}
		if err := pem.Encode(&buf, &pem.Block{Type: "PRIVATE KEY", Bytes: der}); err != nil {
			return nil, err
		}
	}

	for _, cert := range entry.Certificates {
		if err := pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw}); err != nil {
			return nil, err
		}
	}

	if buf.Len() == 0 {
		return nil, fmt.Errorf("entry %s has no key material", entry.Name)
	}
	return buf.Bytes(), nil
}
