// Package exec implements the semantic-action execution engine described in
// spec.md §4.5: given a single matched rule sequence (as produced by
// match.Matcher.Match), it replays the grammar tree's enter/exit lifecycle,
// running pre- and post-match bindings in the order spec.md requires and
// scoping `$name`/`$<n>` variables the way nessaid_cli's ExecContext does.
//
// Ported from nessaid_cli/interface.py's ExecContext.
package exec

import "github.com/nessaid/gocli/action"

// Host is what a running grammar needs from its embedding application:
// the builtin table's Print/ReadInput hooks (action.Host), plus dispatch
// for any `call name(...)` or bare `name(...)` binding that isn't one of
// the fixed builtins. Ported from CliInterface.execute_binding_call's
// getattr(self, func_name) dispatch — Go has no equivalent of reaching into
// an arbitrary object's method table by string name, so the embedding
// application supplies one explicit Call method instead.
type Host interface {
	action.Host

	// Call invokes the external function name with already-evaluated
	// arguments, returning its result as a binding-language Value.
	Call(name string, args []*action.Value) (*action.Value, error)
}
