package agent

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/cel-go/cel"
)

// SuccessToken is the distinguished substring that marks a goal-reaching
// observation. Tools embed it in their success messages; the default
// predicate looks for it anywhere in the observation text.
const SuccessToken = "SUCCESS"

// SuccessPredicate decides whether a tool observation terminates the run
// on the goal-reached path. It receives the observation text and the
// 1-based step number.
type SuccessPredicate func(observation string, step int) bool

// SuccessSubstring returns a predicate matching observations that
// contain token anywhere. This is the loop's default with SuccessToken;
// substring matching keeps the check compatible with free-text oracles.
func SuccessSubstring(token string) SuccessPredicate {
	return func(observation string, _ int) bool {
		return strings.Contains(observation, token)
	}
}

// CompileSuccessExpression compiles a CEL expression into a
// SuccessPredicate. The expression has two variables in scope:
//
//	observation (string) - the tool observation text
//	step        (int)    - the 1-based step number
//
// and must evaluate to a bool. For example:
//
//	observation.contains("SUCCESS") && step <= 10
//
// Evaluation errors are treated as a non-match.
func CompileSuccessExpression(expr string) (SuccessPredicate, error) {
	env, err := cel.NewEnv(
		cel.Variable("observation", cel.StringType),
		cel.Variable("step", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("agent: create cel environment: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("agent: compile success expression: %w", iss.Err())
	}
	if !reflect.DeepEqual(ast.OutputType(), cel.BoolType) {
		return nil, fmt.Errorf("agent: success expression must evaluate to bool, got %v", ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("agent: build success program: %w", err)
	}

	return func(observation string, step int) bool {
		out, _, err := prg.Eval(map[string]any{
			"observation": observation,
			"step":        step,
		})
		if err != nil {
			return false
		}
		matched, ok := out.Value().(bool)
		return ok && matched
	}, nil
}
