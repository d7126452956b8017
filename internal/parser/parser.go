package parser

import (
	"fmt"
	"strings"

	"lumen/internal/ast"
	"lumen/internal/diag"
	"lumen/internal/lexer"
	"lumen/internal/source"
	"lumen/internal/token"
)

// maxExpansionDepth bounds recursive macro expansion.
const maxExpansionDepth = 100

// Parser turns a token stream into an AST. Parse failures are reported as
// *diag.Diagnostic values; the first failure aborts the file, matching the
// fatal raise-and-unwind model of the semantic phase.
type Parser struct {
	toks   []token.Token
	pos    int
	lines  []string
	ref    source.Ref
	macros map[string]*ast.MacroDef
	depth  int
}

// ParseFile parses src as the contents of path.
func ParseFile(path, src string) (*ast.File, error) {
	p := &Parser{
		toks:   lexer.Scan(src),
		lines:  source.SplitLines(src),
		ref:    &source.RealFile{Path: path},
		macros: make(map[string]*ast.MacroDef),
	}
	stmts, err := p.parseStmts(token.EOF)
	if err != nil {
		return nil, err
	}
	return &ast.File{Stmts: stmts}, nil
}

// expanded parses the synthesized text of a macro expansion.
func (p *Parser) expanded(ref *source.VirtualFile) ([]ast.Node, error) {
	sub := &Parser{
		toks:   lexer.Scan(ref.Text),
		lines:  source.SplitLines(ref.Text),
		ref:    ref,
		macros: p.macros,
		depth:  p.depth + 1,
	}
	return sub.parseStmts(token.EOF)
}

func (p *Parser) parseStmts(until token.Kind) ([]ast.Node, error) {
	var stmts []ast.Node
	for {
		p.skipNewlines()
		tok := p.peek()
		if tok.Kind == until {
			p.next()
			return stmts, nil
		}
		if tok.Kind == token.EOF {
			return nil, p.errorAt(tok, fmt.Sprintf("expecting %s, not end of file", until))
		}

		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}

		switch tok := p.peek(); tok.Kind {
		case token.Newline, until, token.EOF:
		case token.Invalid:
			return nil, p.errorAt(tok, fmt.Sprintf("unexpected character %q", tok.Lexeme))
		default:
			return nil, p.errorAt(tok, fmt.Sprintf("unexpected %s", tok.Kind))
		}
	}
}

func (p *Parser) parseStmt() (ast.Node, error) {
	switch tok := p.peek(); tok.Kind {
	case token.KwClass:
		return p.parseClass()
	case token.KwDef:
		return p.parseMethod()
	case token.KwMacro:
		return p.parseMacro()
	case token.Invalid:
		return nil, p.errorAt(tok, fmt.Sprintf("unexpected character %q", tok.Lexeme))
	default:
		return p.parseExpr()
	}
}

func (p *Parser) parseClass() (ast.Node, error) {
	p.next() // 'class'
	name, err := p.expect(token.Const)
	if err != nil {
		return nil, err
	}

	var methods []*ast.MethodDef
	for {
		p.skipNewlines()
		switch tok := p.peek(); tok.Kind {
		case token.KwEnd:
			p.next()
			return ast.NewClassDef(p.locOf(name), name.Lexeme, methods), nil
		case token.KwDef:
			m, err := p.parseMethod()
			if err != nil {
				return nil, err
			}
			methods = append(methods, m)
		case token.EOF:
			return nil, p.errorAt(tok, fmt.Sprintf("expecting 'end' for class %s, not end of file", name.Lexeme))
		default:
			return nil, p.errorAt(tok, fmt.Sprintf("expecting 'def' or 'end' inside class body, not %s", tok.Kind))
		}
	}
}

func (p *Parser) parseMethod() (*ast.MethodDef, error) {
	p.next() // 'def'
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	var params []*ast.Param
	if p.peek().Kind == token.LParen {
		p.next()
		for p.peek().Kind != token.RParen {
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if p.peek().Kind == token.Comma {
				p.next()
			}
		}
		p.next() // ')'
	}

	body, err := p.parseStmts(token.KwEnd)
	if err != nil {
		return nil, err
	}
	return ast.NewMethodDef(p.locOf(name), name.Lexeme, params, body), nil
}

func (p *Parser) parseParam() (*ast.Param, error) {
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	restriction := ""
	var def ast.Node
	switch p.peek().Kind {
	case token.Colon:
		p.next()
		typ, err := p.expect(token.Const)
		if err != nil {
			return nil, err
		}
		restriction = typ.Lexeme
	case token.Assign:
		p.next()
		var err error
		if def, err = p.parsePrimary(); err != nil {
			return nil, err
		}
	}
	return ast.NewParam(p.locOf(name), name.Lexeme, restriction, def), nil
}

// parseMacro captures the macro body as raw text straight from the source
// lines: the body is re-lexed on every expansion against a virtual source,
// which is what lets expansion diagnostics point into synthesized text.
func (p *Parser) parseMacro() (ast.Node, error) {
	p.next() // 'macro'
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	// Consume the body tokens, tracking block openers so a nested
	// 'def ... end' inside the body does not terminate the macro early.
	depth := 0
	endLine := 0
	for endLine == 0 {
		switch tok := p.next(); tok.Kind {
		case token.EOF:
			return nil, p.errorAt(name, fmt.Sprintf("expecting 'end' for macro %s, not end of file", name.Lexeme))
		case token.KwDef, token.KwClass, token.KwMacro:
			depth++
		case token.KwEnd:
			if depth == 0 {
				endLine = tok.Line
			} else {
				depth--
			}
		}
	}

	// The raw body is every source line between the header and the
	// terminating 'end'; it is re-lexed on each expansion.
	var body strings.Builder
	if endLine > name.Line {
		for _, line := range p.lines[name.Line : endLine-1] {
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}

	def := ast.NewMacroDef(p.locOf(name), name.Lexeme, body.String())
	p.macros[def.Name] = def
	return def, nil
}

func (p *Parser) parseExpr() (ast.Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if p.peek().Kind == token.Assign {
		switch left.(type) {
		case *ast.Ident, *ast.InstanceVar, *ast.ClassVar, *ast.GlobalVar:
		default:
			return nil, p.errorAt(p.peek(), "left-hand side of assignment is not assignable")
		}
		p.next()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.NewAssign(left, value), nil
	}
	return left, nil
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.peek()
	var node ast.Node
	switch tok.Kind {
	case token.Int:
		p.next()
		node = ast.NewIntLit(p.locOf(tok), tok.Lexeme)
	case token.String:
		p.next()
		node = ast.NewStringLit(p.locOf(tok), tok.Lexeme)
	case token.InstanceVar:
		p.next()
		node = ast.NewInstanceVar(p.locOf(tok), tok.Lexeme)
	case token.ClassVar:
		p.next()
		node = ast.NewClassVar(p.locOf(tok), tok.Lexeme)
	case token.GlobalVar:
		p.next()
		node = ast.NewGlobalVar(p.locOf(tok), tok.Lexeme)
	case token.KwSelf:
		p.next()
		node = ast.NewSelf(p.locOf(tok))
	case token.Const:
		p.next()
		node = ast.NewConstRef(p.locOf(tok), tok.Lexeme)
	case token.Ident:
		p.next()
		if p.peek().Kind == token.LParen {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			node = ast.NewCall(p.locOf(tok), nil, tok.Lexeme, args)
		} else if def, ok := p.macros[tok.Lexeme]; ok {
			return p.expandMacro(tok, def)
		} else {
			node = ast.NewIdent(p.locOf(tok), tok.Lexeme)
		}
	case token.Invalid:
		return nil, p.errorAt(tok, fmt.Sprintf("unexpected character %q", tok.Lexeme))
	default:
		return nil, p.errorAt(tok, fmt.Sprintf("expecting expression, not %s", tok.Kind))
	}
	return p.parseCallChain(node)
}

func (p *Parser) parseCallChain(recv ast.Node) (ast.Node, error) {
	for p.peek().Kind == token.Dot {
		p.next()
		name, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		var args []ast.Node
		if p.peek().Kind == token.LParen {
			if args, err = p.parseArgs(); err != nil {
				return nil, err
			}
		}
		recv = ast.NewCall(p.locOf(name), recv, name.Lexeme, args)
	}
	return recv, nil
}

func (p *Parser) parseArgs() ([]ast.Node, error) {
	p.next() // '('
	var args []ast.Node
	for p.peek().Kind != token.RParen {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peek().Kind == token.Comma {
			p.next()
		}
	}
	p.next() // ')'
	return args, nil
}

// expandMacro synthesizes a virtual source from the macro body and parses
// it. Failures inside the expansion are wrapped at the invocation site, so
// the rendered chain shows both the call and the synthesized text.
func (p *Parser) expandMacro(tok token.Token, def *ast.MacroDef) (ast.Node, error) {
	call := ast.NewCall(p.locOf(tok), nil, tok.Lexeme, nil)
	if p.depth >= maxExpansionDepth {
		return nil, diag.NewFromNode(fmt.Sprintf("macro expansion of '%s' is too deep", def.Name), call)
	}

	ref := &source.VirtualFile{
		MacroName: def.Name,
		MacroPath: p.macroPath(def),
		MacroLine: p.macroLine(def),
		Text:      def.Body,
	}
	stmts, err := p.expanded(ref)
	if err != nil {
		inner, ok := err.(*diag.Diagnostic)
		if !ok {
			inner = diag.New(err.Error())
		}
		return nil, diag.WrapNode("expanding macro", call, inner)
	}
	return ast.NewMacroCall(p.locOf(tok), def, stmts), nil
}

func (p *Parser) macroPath(def *ast.MacroDef) string {
	if loc := def.Loc(); loc != nil {
		switch ref := loc.Ref.(type) {
		case *source.RealFile:
			return ref.Path
		case *source.VirtualFile:
			return ref.MacroPath
		}
	}
	return ""
}

func (p *Parser) macroLine(def *ast.MacroDef) int {
	if loc := def.Loc(); loc != nil {
		return loc.Line
	}
	return 0
}

func (p *Parser) locOf(tok token.Token) *source.Location {
	return source.New(p.ref, tok.Line, tok.Column, 0)
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) next() token.Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *Parser) skipNewlines() {
	for p.peek().Kind == token.Newline {
		p.next()
	}
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, p.errorAt(tok, fmt.Sprintf("expecting %s, not %s", kind, tok.Kind))
	}
	return p.next(), nil
}

func (p *Parser) errorAt(tok token.Token, msg string) error {
	return diag.NewAt(msg, source.New(p.ref, tok.Line, tok.Column, 0))
}
