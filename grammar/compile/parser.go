package compile

import (
	"github.com/nessaid/gocli/action"
	"github.com/nessaid/gocli/grammar"
	"github.com/nessaid/gocli/internal/errs"
)

// Compile parses grammar source text into a resolved, validated
// *grammar.Spec (spec.md §4.3's "Input: grammar source text. Output: a
// GrammarSpecification..."). It runs Resolve and Validate before
// returning, so a successful Compile never hands back a tree with
// Unresolved nodes.
func Compile(src string) (*grammar.Spec, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, errs.Wrap(grammar.ErrSyntax, "lexing grammar source", err)
	}
	p := &parser{toks: toks}
	spec := grammar.New()
	if err := p.parseFile(spec); err != nil {
		return nil, err
	}
	if err := spec.Resolve(); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

type parser struct {
	toks []lexToken
	pos  int
}

func (p *parser) cur() lexToken { return p.toks[p.pos] }

func (p *parser) advance() lexToken {
	t := p.toks[p.pos]
	if p.pos+1 < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) expect(c tokenClass, what string) (lexToken, error) {
	if p.cur().class != c {
		return lexToken{}, errs.Newf(grammar.ErrSyntax, "line %d: expected %s, found %q", p.cur().line, what, p.cur().text)
	}
	return p.advance(), nil
}

func (p *parser) parseFile(spec *grammar.Spec) error {
	for p.cur().class != tkEOF {
		if err := p.parseBlock(spec); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) parseBlock(spec *grammar.Spec) error {
	if p.cur().class == tkIdentifier && p.cur().text == "token" {
		return p.parseTokenDecl(spec)
	}
	return p.parseRuleDecl(spec)
}

// parseTokenDecl handles `token NAME [ClassName(args...)] [: "help"] ;`.
func (p *parser) parseTokenDecl(spec *grammar.Spec) error {
	p.advance() // 'token'
	nameTok, err := p.expect(tkIdentifier, "token name")
	if err != nil {
		return err
	}

	d := &grammar.TokenDef{Name: nameTok.text}

	if p.cur().class == tkIdentifier {
		classTok := p.advance()
		d.ClassName = classTok.text
		if _, err := p.expect(tkLParen, "'('"); err != nil {
			return err
		}
		args, err := p.parseLiteralArgs()
		if err != nil {
			return err
		}
		d.Args = args
		if _, err := p.expect(tkRParen, "')'"); err != nil {
			return err
		}
	}

	if p.cur().class == tkColon {
		p.advance()
		helpTok, err := p.expect(tkString, "helpstring")
		if err != nil {
			return err
		}
		d.Helpstring = helpTok.text
	}

	if _, err := p.expect(tkSemicolon, "';'"); err != nil {
		return err
	}
	return spec.AddTokenDef(d)
}

func (p *parser) parseLiteralArgs() ([]any, error) {
	var args []any
	if p.cur().class == tkRParen {
		return args, nil
	}
	for {
		v, err := p.parseLiteralArg()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		if p.cur().class != tkComma {
			break
		}
		p.advance()
	}
	return args, nil
}

func (p *parser) parseLiteralArg() (any, error) {
	switch p.cur().class {
	case tkInteger:
		t := p.advance()
		return parseInt(t.text), nil
	case tkFloat:
		t := p.advance()
		return parseFloat(t.text), nil
	case tkString:
		t := p.advance()
		return t.text, nil
	case tkIdentifier:
		t := p.advance()
		return t.text, nil
	default:
		return nil, errs.Newf(grammar.ErrSyntax, "line %d: expected a literal argument, found %q", p.cur().line, p.cur().text)
	}
}

// parseRuleDecl handles `NAME ['[' params ']'] ':' alt ';'`.
func (p *parser) parseRuleDecl(spec *grammar.Spec) error {
	nameTok, err := p.expect(tkIdentifier, "rule name")
	if err != nil {
		return err
	}

	var params []grammar.Param
	if p.cur().class == tkLBracket {
		p.advance()
		params, err = p.parseParamList()
		if err != nil {
			return err
		}
		if _, err := p.expect(tkRBracket, "']'"); err != nil {
			return err
		}
	}

	if _, err := p.expect(tkColon, "':'"); err != nil {
		return err
	}

	body, err := p.parseAlt()
	if err != nil {
		return err
	}

	if _, err := p.expect(tkSemicolon, "';'"); err != nil {
		return err
	}

	rule := grammar.NewNamedRule(nameTok.text, params, body)
	return spec.AddRule(rule)
}

func (p *parser) parseParamList() ([]grammar.Param, error) {
	var params []grammar.Param
	if p.cur().class == tkRBracket {
		return params, nil
	}
	for {
		nameTok, err := p.expect(tkDollarName, "'$param'")
		if err != nil {
			return nil, err
		}
		param := grammar.Param{Name: nameTok.text[1:]}
		if p.cur().class == tkAssign {
			p.advance()
			v, err := p.parseDefaultValue()
			if err != nil {
				return nil, err
			}
			param.HasDefault = true
			param.Default = v
		}
		params = append(params, param)
		if p.cur().class != tkComma {
			break
		}
		p.advance()
	}
	return params, nil
}

func (p *parser) parseDefaultValue() (*action.Value, error) {
	switch p.cur().class {
	case tkInteger:
		t := p.advance()
		return action.NewInt(parseInt(t.text)), nil
	case tkFloat:
		t := p.advance()
		return action.NewFloat(parseFloat(t.text)), nil
	case tkString:
		t := p.advance()
		return action.NewString(t.text), nil
	default:
		return nil, errs.Newf(grammar.ErrSyntax, "line %d: expected a default-value literal, found %q", p.cur().line, p.cur().text)
	}
}

// parseAlt parses `seq { '|' seq }`.
func (p *parser) parseAlt() (grammar.Element, error) {
	first, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	if p.cur().class != tkPipe {
		return first, nil
	}
	children := []grammar.Element{first}
	for p.cur().class == tkPipe {
		p.advance()
		next, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	return grammar.NewAlternative(children...), nil
}

func (p *parser) startsElem() bool {
	switch p.cur().class {
	case tkString, tkIdentifier, tkLParen, tkLBrace, tkBinding:
		return true
	default:
		return false
	}
}

// parseSeq parses one or more juxtaposed elements as a Sequence,
// collapsing to the bare element when there is only one.
func (p *parser) parseSeq() (grammar.Element, error) {
	first, err := p.parseElem()
	if err != nil {
		return nil, err
	}
	if !p.startsElem() {
		return first, nil
	}
	children := []grammar.Element{first}
	for p.startsElem() {
		next, err := p.parseElem()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	return grammar.NewSequence(children...), nil
}

// parseElem parses one element: optional pre-binding, a primary, optional
// post-binding, optional helpstring, optional repetition suffix.
func (p *parser) parseElem() (grammar.Element, error) {
	var pre *action.Code
	if p.cur().class == tkBinding {
		c, err := p.parseBindingToken()
		if err != nil {
			return nil, err
		}
		pre = c
	}

	elem, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if p.cur().class == tkBinding {
		post, err := p.parseBindingToken()
		if err != nil {
			return nil, err
		}
		elem.AddPostBinding(post)
	}

	if pre != nil {
		elem.AddPreBinding(pre)
	}

	if p.cur().class == tkColon {
		p.advance()
		helpTok, err := p.expect(tkString, "helpstring")
		if err != nil {
			return nil, err
		}
		elem.SetHelpstring(helpTok.text)
	}

	if p.cur().class == tkStar {
		p.advance()
		minN, maxN, err := p.parseRepeater()
		if err != nil {
			return nil, err
		}
		elem, err = applyRepetition(elem, minN, maxN)
		if err != nil {
			return nil, err
		}
	}

	return elem, nil
}

func (p *parser) parseBindingToken() (*action.Code, error) {
	t, err := p.expect(tkBinding, "'<< ... >>'")
	if err != nil {
		return nil, err
	}
	code, err := action.Parse(t.text)
	if err != nil {
		return nil, errs.Wrap(grammar.ErrSyntax, "parsing action block", err)
	}
	return code, nil
}

func (p *parser) parseRepeater() (int, int, error) {
	if p.cur().class == tkInteger {
		t := p.advance()
		n := int(parseInt(t.text))
		return n, n, nil
	}
	if _, err := p.expect(tkLParen, "'(' or an integer repeat count"); err != nil {
		return 0, 0, err
	}
	minTok, err := p.expect(tkInteger, "minimum repeat count")
	if err != nil {
		return 0, 0, err
	}
	if _, err := p.expect(tkColon, "':'"); err != nil {
		return 0, 0, err
	}
	maxTok, err := p.expect(tkInteger, "maximum repeat count")
	if err != nil {
		return 0, 0, err
	}
	if _, err := p.expect(tkRParen, "')'"); err != nil {
		return 0, 0, err
	}
	minN, maxN := int(parseInt(minTok.text)), int(parseInt(maxTok.text))
	if minN > maxN {
		minN, maxN = maxN, minN
	}
	return minN, maxN, nil
}

// parsePrimary parses a literal, a rule/token reference, or a
// parenthesized/braced group.
func (p *parser) parsePrimary() (grammar.Element, error) {
	switch p.cur().class {
	case tkString:
		t := p.advance()
		return grammar.NewLiteral(t.text), nil
	case tkIdentifier:
		t := p.advance()
		var args []grammar.Arg
		if p.cur().class == tkLBracket {
			p.advance()
			var err error
			args, err = p.parseArgList()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tkRBracket, "']'"); err != nil {
				return nil, err
			}
		}
		return grammar.NewUnresolved(t.text, args), nil
	case tkLParen:
		p.advance()
		items, err := p.parseCommaGroup(tkRParen)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tkRParen, "')'"); err != nil {
			return nil, err
		}
		if len(items) == 1 {
			return items[0], nil
		}
		return grammar.NewOrderlessSet(items...), nil
	case tkLBrace:
		p.advance()
		items, err := p.parseCommaGroup(tkRBrace)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tkRBrace, "'}'"); err != nil {
			return nil, err
		}
		if len(items) == 1 {
			return grammar.NewOptional(items[0]), nil
		}
		return grammar.NewOrderlessSet(items...), nil
	default:
		return nil, errs.Newf(grammar.ErrSyntax, "line %d: unexpected token %q", p.cur().line, p.cur().text)
	}
}

// parseCommaGroup parses one or more comma-separated alt-level items up
// to (not consuming) closer.
func (p *parser) parseCommaGroup(closer tokenClass) ([]grammar.Element, error) {
	var items []grammar.Element
	for {
		item, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.cur().class != tkComma {
			break
		}
		p.advance()
	}
	if p.cur().class != closer {
		return nil, errs.Newf(grammar.ErrSyntax, "line %d: unexpected token %q", p.cur().line, p.cur().text)
	}
	return items, nil
}

func (p *parser) parseArgList() ([]grammar.Arg, error) {
	var args []grammar.Arg
	if p.cur().class == tkRBracket {
		return args, nil
	}
	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur().class != tkComma {
			break
		}
		p.advance()
	}
	return args, nil
}

// parseArg parses one rule-reference argument: a bare expr (positional)
// or `$name = expr` (keyword).
func (p *parser) parseArg() (grammar.Arg, error) {
	if p.cur().class == tkDollarName && p.pos+1 < len(p.toks) && p.toks[p.pos+1].class == tkAssign {
		nameTok := p.advance()
		p.advance() // '='
		expr, err := p.parseArgExpr()
		if err != nil {
			return grammar.Arg{}, err
		}
		return grammar.Arg{ParamName: nameTok.text[1:], Value: expr}, nil
	}
	expr, err := p.parseArgExpr()
	if err != nil {
		return grammar.Arg{}, err
	}
	return grammar.Arg{Value: expr}, nil
}

func (p *parser) parseArgExpr() (action.Expr, error) {
	switch p.cur().class {
	case tkDollarName:
		t := p.advance()
		return &action.NamedVariable{Name: t.text[1:]}, nil
	case tkDollarNumber:
		t := p.advance()
		return &action.PositionalVariable{Index: int(parseInt(t.text[1:]))}, nil
	case tkInteger:
		t := p.advance()
		return &action.IntLiteral{Value: parseInt(t.text)}, nil
	case tkFloat:
		t := p.advance()
		return &action.FloatLiteral{Value: parseFloat(t.text)}, nil
	case tkString:
		t := p.advance()
		return &action.StringLiteral{Value: t.text}, nil
	default:
		return nil, errs.Newf(grammar.ErrSyntax, "line %d: expected an argument, found %q", p.cur().line, p.cur().text)
	}
}

func parseInt(s string) int64 {
	var n int64
	for _, r := range s {
		n = n*10 + int64(r-'0')
	}
	return n
}

func parseFloat(s string) float64 {
	var whole int64
	var frac int64
	var fracDiv float64 = 1
	seenDot := false
	for _, r := range s {
		if r == '.' {
			seenDot = true
			continue
		}
		if !seenDot {
			whole = whole*10 + int64(r-'0')
		} else {
			frac = frac*10 + int64(r-'0')
			fracDiv *= 10
		}
	}
	return float64(whole) + float64(frac)/fracDiv
}
