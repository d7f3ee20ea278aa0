package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alechenninger/keyinfo/internal/config"
)

var (
	// Global flags
	configFile string
)

// NewRootCmd creates the root command for keyinfo
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "keyinfo",
		Short: "keyinfo - resolve credentials from XML Signature KeyInfo",
		Long: `keyinfo extracts keys and certificates from XML Signature <ds:KeyInfo>
elements by running them through a configurable chain of providers:
  1. key-value      - RSA and EC public keys in <ds:KeyValue>
  2. der-key-value  - DER-encoded public keys in <dsig11:DEREncodedKeyValue>
  3. inline-x509    - certificates in <ds:X509Data>
  4. jwk            - JSON Web Keys embedded in KeyInfo
  5. key-name       - <ds:KeyName> looked up in a key store (memory, disk, AWS KMS)

Configuration precedence (highest to lowest):
  1. Command-line flags
  2. Environment variables (KEYINFO_*, nested keys separated by __)
  3. Configuration file`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default: $KEYINFO_CONFIG)")

	// Add subcommands
	rootCmd.AddCommand(NewResolveCmd())
	rootCmd.AddCommand(NewProvidersCmd())
	rootCmd.AddCommand(NewKeysCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadProvider loads configuration (file + env vars + flags) and returns a
// provider that builds components from it
func loadProvider(cmd *cobra.Command) (*config.Provider, error) {
	configPath := configFile
	if configPath == "" {
		configPath = os.Getenv("KEYINFO_CONFIG")
	}

	loader, err := config.NewLoaderWithFlags(configPath, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg, err := loader.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config.NewProvider(cfg, cmd.ErrOrStderr()), nil
}
