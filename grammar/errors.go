package grammar

import "github.com/nessaid/gocli/internal/errs"

// Compile error kinds, per spec.md §7's CompileError taxonomy.
const (
	ErrUnknownRule         errs.Kind = "grammar.unknown_rule"
	ErrDuplicateDefinition errs.Kind = "grammar.duplicate_definition"
	ErrDuplicateToken      errs.Kind = "grammar.duplicate_token"
	ErrBadArgument         errs.Kind = "grammar.bad_argument"
	ErrBadRepeater         errs.Kind = "grammar.bad_repeater"
	ErrSyntax              errs.Kind = "grammar.syntax"
)
