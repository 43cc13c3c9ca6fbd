package action

import (
	"fmt"
	"strconv"

	"github.com/nessaid/gocli/internal/errs"
)

// ErrSyntax classifies every parser-reported error.
const ErrSyntax errs.Kind = "action.syntax"

// Parse compiles a `<< ... >>` binding block's inner text into a Code
// value. Ported from nessaid_cli.binding_parser.binding_text_parser's
// grammar productions (p_binding_content through p_argument), translated
// from PLY's yacc grammar into recursive descent.
func Parse(src string) (*Code, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, errs.Wrap(ErrSyntax, "lexing binding block", err)
	}
	p := &parser{toks: toks}
	code, err := p.parseCode()
	if err != nil {
		return nil, err
	}
	if p.cur().class != tkEOF {
		return nil, p.errorf("unexpected trailing input %q", p.cur().text)
	}
	return code, nil
}

type parser struct {
	toks []lexToken
	pos  int
}

func (p *parser) cur() lexToken  { return p.toks[p.pos] }
func (p *parser) advance() lexToken {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return errs.Newf(ErrSyntax, "position %d: %s", p.cur().pos, fmt.Sprintf(format, args...))
}

func (p *parser) expect(class tokenClass, what string) (lexToken, error) {
	if p.cur().class != class {
		return lexToken{}, p.errorf("expected %s, found %q", what, p.cur().text)
	}
	return p.advance(), nil
}

func (p *parser) parseCode() (*Code, error) {
	code := &Code{}
	for p.cur().class != tkEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		code.Statements = append(code.Statements, stmt)
		if _, err := p.expect(tkSemicolon, "';'"); err != nil {
			return nil, err
		}
	}
	return code, nil
}

func (p *parser) parseStatement() (Statement, error) {
	if p.cur().class == tkDollarName && p.pos+1 < len(p.toks) && p.toks[p.pos+1].class == tkAssign {
		name := p.advance()
		p.advance() // '='
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &Assignment{LHS: &NamedVariable{Name: name.text[1:]}, RHS: rhs}, nil
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ExprStatement{Expr: expr}, nil
}

// parseExpr handles rhs_block/argument: a dollar-id, a call/function
// block, a quoted string, or a number.
func (p *parser) parseExpr() (Expr, error) {
	switch p.cur().class {
	case tkDollarName:
		t := p.advance()
		return &NamedVariable{Name: t.text[1:]}, nil
	case tkDollarNumber:
		t := p.advance()
		n, err := strconv.Atoi(t.text[1:])
		if err != nil {
			return nil, p.errorf("malformed positional variable %q", t.text)
		}
		return &PositionalVariable{Index: n}, nil
	case tkString:
		t := p.advance()
		return &StringLiteral{Value: t.text}, nil
	case tkInteger:
		t := p.advance()
		n, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, p.errorf("malformed integer literal %q", t.text)
		}
		return &IntLiteral{Value: n}, nil
	case tkFloat:
		t := p.advance()
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, p.errorf("malformed float literal %q", t.text)
		}
		return &FloatLiteral{Value: f}, nil
	case tkCall:
		p.advance()
		name, err := p.expect(tkIdentifier, "function name")
		if err != nil {
			return nil, err
		}
		args, err := p.parseOptionalArgs()
		if err != nil {
			return nil, err
		}
		return &Call{Name: name.text, Args: args, IsHostly: true}, nil
	case tkIdentifier:
		name := p.advance()
		args, err := p.parseOptionalArgs()
		if err != nil {
			return nil, err
		}
		return &Call{Name: name.text, Args: args}, nil
	default:
		return nil, p.errorf("expected an expression, found %q", p.cur().text)
	}
}

func (p *parser) parseOptionalArgs() ([]Expr, error) {
	if p.cur().class != tkLParen {
		return nil, nil
	}
	p.advance()
	var args []Expr
	if p.cur().class != tkRParen {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur().class != tkComma {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(tkRParen, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}
