package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alechenninger/keyinfo/internal/config"
	"github.com/alechenninger/keyinfo/internal/credential"
	"github.com/alechenninger/keyinfo/internal/keystore"
)

// NewKeysCmd creates the keys command
func NewKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage keys in the configured key store",
		Long: `Manage the named keys that the key-name provider resolves.

create and list require a disk key store. show works with any key store.`,
	}

	cmd.AddCommand(newKeysCreateCmd())
	cmd.AddCommand(newKeysListCmd())
	cmd.AddCommand(newKeysShowCmd())

	return cmd
}

func newKeysCreateCmd() *cobra.Command {
	var keyType string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Generate a key pair and store it under name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			disk, provider, err := diskStore(cmd)
			if err != nil {
				return err
			}

			entry, err := disk.Create(cmd.Context(), args[0], keystore.KeyType(keyType))
			if err != nil {
				return fmt.Errorf("failed to create key %s: %w", args[0], err)
			}

			return writeOutput(cmd.OutOrStdout(), provider.Output(), describeEntry(entry))
		},
	}

	types := make([]string, 0, len(keystore.KeyTypes()))
	for _, t := range keystore.KeyTypes() {
		types = append(types, string(t))
	}
	cmd.Flags().StringVar(&keyType, "type", string(keystore.KeyTypeECP256), "key type: "+strings.Join(types, ", "))
	config.RegisterFlags(cmd.Flags())

	return cmd
}

func newKeysListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored key names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			disk, _, err := diskStore(cmd)
			if err != nil {
				return err
			}

			names, err := disk.Names()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

func newKeysShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Describe the public key stored under name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := loadProvider(cmd)
			if err != nil {
				return err
			}

			store, err := provider.KeyStore(cmd.Context())
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("no key_store configured")
			}

			entry, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), provider.Output(), describeEntry(entry))
		},
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

func diskStore(cmd *cobra.Command) (*keystore.Disk, *config.Provider, error) {
	provider, err := loadProvider(cmd)
	if err != nil {
		return nil, nil, err
	}

	store, err := provider.KeyStore(cmd.Context())
	if err != nil {
		return nil, nil, err
	}

	disk, ok := store.(*keystore.Disk)
	if !ok {
		return nil, nil, errors.New("a disk key_store is required (set key_store.type=disk and key_store.keys_dir)")
	}
	return disk, provider, nil
}

func describeEntry(entry *keystore.Entry) map[string]any {
	cred := &credential.Basic{
		Public:           entry.PublicKey(),
		KeyNames:         []string{entry.Name},
		CertificateChain: entry.Certificates,
	}
	if len(entry.Certificates) > 0 {
		cred.EntityCertificate = entry.Certificates[0]
	}

	attrs := credential.Describe(cred)
	attrs["name"] = entry.Name
	attrs["has_private_key"] = entry.Private != nil
	return attrs
}
