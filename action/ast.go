// Package action implements the semantic-action snippet language described
// in spec.md §4.2 and §4.6: the small assignment/call/literal grammar
// embedded in `<< ... >>` binding blocks inside grammar source, plus the
// builtin function table every host implicitly gets.
//
// Ported from nessaid_cli.binding_parser (binding_objects.py and
// binding_text_parser.py); the hand-written lexer/parser idiom follows
// internal/tunascript's lexer.go/parser.go rather than PLY's lex/yacc
// tables, since this is a small enough grammar to hand-roll and spec.md's
// Non-goals exclude generated parse tables entirely.
package action

// Code is a parsed binding block: a sequence of statements executed in
// order. Ported from nessaid_cli.binding_parser.binding_objects.BindingCode.
type Code struct {
	Statements []Statement
}

// Statement is one semicolon-terminated element of a Code block.
type Statement interface {
	statementNode()
}

// Assignment is `$name = rhs;`. Ported from
// binding_objects.AssignmentStatement.
type Assignment struct {
	LHS *NamedVariable
	RHS Expr
}

func (*Assignment) statementNode() {}

// ExprStatement is a bare call or function-call used for its side effect
// (`call host_fn(...);` or `builtin_fn(...);`), with no assignment.
type ExprStatement struct {
	Expr Expr
}

func (*ExprStatement) statementNode() {}

// Expr is any value-producing subexpression: a variable reference, a
// literal, or a call.
type Expr interface {
	exprNode()
}

// NamedVariable is a `$name` reference, scoped to the enclosing NamedRule
// frame. Ported from binding_objects.NamedVariable.
type NamedVariable struct {
	Name string
}

func (*NamedVariable) exprNode() {}

// PositionalVariable is a `$<n>` reference, scoped to the enclosing
// element. Ported from binding_objects.TokenVariable.
type PositionalVariable struct {
	Index int
}

func (*PositionalVariable) exprNode() {}

// Call is a function invocation: either a builtin/host dispatch (bare
// identifier) or an explicit host dispatch (prefixed with the `call`
// keyword, bypassing the builtin table). Ported from
// binding_objects.FunctionCall / BindingCall.
type Call struct {
	Name     string
	Args     []Expr
	IsHostly bool // true for `call name(...)`, forces host dispatch
}

func (*Call) exprNode() {}

// IntLiteral is an integer constant.
type IntLiteral struct{ Value int64 }

func (*IntLiteral) exprNode() {}

// FloatLiteral is a floating-point constant.
type FloatLiteral struct{ Value float64 }

func (*FloatLiteral) exprNode() {}

// StringLiteral is a double-quoted string constant, escapes already
// resolved.
type StringLiteral struct{ Value string }

func (*StringLiteral) exprNode() {}
