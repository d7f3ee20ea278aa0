package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/alechenninger/keyinfo/internal/config"
	"github.com/alechenninger/keyinfo/internal/credential"
	"github.com/alechenninger/keyinfo/internal/keyinfo"
	"github.com/alechenninger/keyinfo/internal/xmlsig"
)

// NewResolveCmd creates the resolve command
func NewResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [file]",
		Short: "Resolve credentials from a KeyInfo",
		Long: `Resolve credentials from the first <ds:KeyInfo> in an XML document.

The document is read from file, or from stdin when file is "-" or omitted.
KeyInfo may be the document root or nested anywhere inside it, such as in
a signed SAML assertion. Each resolved credential is printed with the
provider that produced it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runResolve,
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	provider, err := loadProvider(cmd)
	if err != nil {
		return err
	}

	resolver, err := provider.Resolver(ctx)
	if err != nil {
		return err
	}

	criteria, err := provider.Criteria()
	if err != nil {
		return err
	}

	keyInfo, err := xmlsig.ParseKeyInfo(data)
	if err != nil {
		return fmt.Errorf("failed to parse KeyInfo: %w", err)
	}

	resolutions, err := resolver.Resolve(ctx, keyInfo, criteria)
	if err != nil {
		return fmt.Errorf("failed to resolve credentials: %w", err)
	}

	return writeOutput(cmd.OutOrStdout(), provider.Output(), describeResolutions(resolutions))
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return data, nil
}

func describeResolutions(resolutions []keyinfo.Resolution) []map[string]any {
	out := make([]map[string]any, 0, len(resolutions))
	for _, r := range resolutions {
		attrs := credential.Describe(r.Credential)
		attrs["provider"] = r.Provider
		out = append(out, attrs)
	}
	return out
}

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err

	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)

	default:
		return fmt.Errorf("unknown output format: %s (supported: yaml, json)", format)
	}
}
