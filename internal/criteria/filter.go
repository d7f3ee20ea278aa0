// Package criteria compiles CEL expressions into credential filters.
//
// Expressions see one variable, credential, holding the attributes
// produced by credential.Describe:
//
//	credential.algorithm == "RSA" && credential.key_size >= 2048
//	hasKeyName(credential, "idp-signing")
package criteria

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/alechenninger/keyinfo/internal/credential"
	"github.com/alechenninger/keyinfo/internal/keyinfo"
)

// Filter is a compiled CEL expression. It implements keyinfo.CredentialFilter
// and is safe for concurrent use.
type Filter struct {
	expression string
	program    cel.Program
}

var _ keyinfo.CredentialFilter = (*Filter)(nil)

// Compile parses and type-checks expression, which must evaluate to a bool
func Compile(expression string) (*Filter, error) {
	env, err := cel.NewEnv(
		cel.Variable("credential", cel.MapType(cel.StringType, cel.DynType)),
		KeyInfoHelpersLibrary(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile criteria expression: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) && !ast.OutputType().IsExactType(cel.DynType) {
		return nil, fmt.Errorf("criteria expression must return bool, got %s", ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	return &Filter{
		expression: expression,
		program:    program,
	}, nil
}

// Match implements keyinfo.CredentialFilter
func (f *Filter) Match(cred credential.Credential) (bool, error) {
	out, _, err := f.program.Eval(map[string]any{
		"credential": credential.Describe(cred),
	})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate %q: %w", f.expression, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("criteria expression returned %T, not bool", out.Value())
	}
	return result, nil
}

// String returns the source expression
func (f *Filter) String() string {
	return f.expression
}
