package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alechenninger/keyinfo/internal/config"
)

// NewProvidersCmd creates the providers command
func NewProvidersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List the configured providers in invocation order",
		Args:  cobra.NoArgs,
		RunE:  runProviders,
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

func runProviders(cmd *cobra.Command, _ []string) error {
	provider, err := loadProvider(cmd)
	if err != nil {
		return err
	}

	providers, err := provider.Providers(cmd.Context())
	if err != nil {
		return err
	}

	for _, p := range providers {
		fmt.Fprintln(cmd.OutOrStdout(), p.Name())
	}
	return nil
}
