package criteria

import (
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	"github.com/alechenninger/keyinfo/internal/credential"
)

// KeyInfoHelpersLibrary creates a CEL library with helper functions for
// credential criteria.
//
// Provides:
//   - hasKeyName(credential, name) - checks if credential.key_names contains name
//   - isAlgorithm(credential, alg) - case-insensitive match on credential.algorithm
//   - allowsUsage(credential, usage) - true when credential.usage is usage or unspecified
func KeyInfoHelpersLibrary() cel.EnvOption {
	return cel.Lib(&keyInfoHelpersLib{})
}

type keyInfoHelpersLib struct{}

func (lib *keyInfoHelpersLib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		cel.Function("hasKeyName",
			cel.Overload("hasKeyName_map_string",
				[]*cel.Type{cel.DynType, cel.StringType},
				cel.BoolType,
				cel.BinaryBinding(lib.hasKeyName),
			),
		),

		cel.Function("isAlgorithm",
			cel.Overload("isAlgorithm_map_string",
				[]*cel.Type{cel.DynType, cel.StringType},
				cel.BoolType,
				cel.BinaryBinding(lib.isAlgorithm),
			),
		),

		cel.Function("allowsUsage",
			cel.Overload("allowsUsage_map_string",
				[]*cel.Type{cel.DynType, cel.StringType},
				cel.BoolType,
				cel.BinaryBinding(lib.allowsUsage),
			),
		),
	}
}

func (lib *keyInfoHelpersLib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

// hasKeyName checks if credential.key_names contains the given name
func (lib *keyInfoHelpersLib) hasKeyName(credVal, nameVal ref.Val) ref.Val {
	name, ok := nameVal.Value().(string)
	if !ok {
		return types.Bool(false)
	}

	attrs, ok := credVal.Value().(map[string]any)
	if !ok {
		return types.Bool(false)
	}

	var names []any
	switch n := attrs["key_names"].(type) {
	case []any:
		names = n
	case []string:
		names = make([]any, len(n))
		for i, v := range n {
			names[i] = v
		}
	default:
		return types.Bool(false)
	}

	for _, n := range names {
		if s, ok := n.(string); ok && s == name {
			return types.Bool(true)
		}
	}
	return types.Bool(false)
}

// isAlgorithm compares credential.algorithm ignoring case
func (lib *keyInfoHelpersLib) isAlgorithm(credVal, algVal ref.Val) ref.Val {
	alg, ok := algVal.Value().(string)
	if !ok {
		return types.Bool(false)
	}

	attrs, ok := credVal.Value().(map[string]any)
	if !ok {
		return types.Bool(false)
	}

	actual, ok := attrs["algorithm"].(string)
	return types.Bool(ok && actual != "" && strings.EqualFold(actual, alg))
}

// allowsUsage reports whether a credential may serve usage. A credential
// resolved without a usage serves any.
func (lib *keyInfoHelpersLib) allowsUsage(credVal, usageVal ref.Val) ref.Val {
	usage, ok := usageVal.Value().(string)
	if !ok {
		return types.Bool(false)
	}

	attrs, ok := credVal.Value().(map[string]any)
	if !ok {
		return types.Bool(false)
	}

	actual, _ := attrs["usage"].(string)
	switch actual {
	case "", string(credential.UsageUnspecified):
		return types.Bool(true)
	default:
		return types.Bool(actual == usage)
	}
}
