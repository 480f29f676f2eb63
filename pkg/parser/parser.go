// Package parser implements a recursive descent parser for the SysY subset
package parser

import (
	"fmt"
	"strings"

	"github.com/raymyers/sysyc/pkg/ast"
	"github.com/raymyers/sysyc/pkg/lexer"
)

// Parser parses SysY source code into an AST
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []string
}

// New creates a new Parser for the given lexer
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// Read two tokens to initialize curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns the list of parsing errors
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d, col %d: %s",
		p.curToken.Line, p.curToken.Column, msg))
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) curPos() ast.Pos {
	return ast.Pos{Line: p.curToken.Line, Column: p.curToken.Column}
}

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf("expected %s, got %s", t, p.describeCur()))
	return false
}

func (p *Parser) describeCur() string {
	switch p.curToken.Type {
	case lexer.TokenIdent, lexer.TokenInt, lexer.TokenIllegal:
		return fmt.Sprintf("%s %q", p.curToken.Type, p.curToken.Literal)
	}
	return p.curToken.Type.String()
}

// Parse parses a complete translation unit from source text.
// It returns the first batch of diagnostics as a single error.
func Parse(src string) (*ast.CompUnit, error) {
	p := New(lexer.New(src))
	cu := p.ParseCompUnit()
	if len(p.Errors()) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrSyntax, strings.Join(p.Errors(), "; "))
	}
	return cu, nil
}

// ParseCompUnit parses: FuncDef EOF
func (p *Parser) ParseCompUnit() *ast.CompUnit {
	fn, ok := p.parseFuncDef()
	if !ok {
		return nil
	}
	if !p.curTokenIs(lexer.TokenEOF) {
		p.addError(fmt.Sprintf("unexpected %s after function body", p.describeCur()))
		return nil
	}
	return &ast.CompUnit{FuncDef: fn}
}

// parseFuncDef parses: "int" IDENT "(" ")" Block
func (p *Parser) parseFuncDef() (ast.FuncDef, bool) {
	pos := p.curPos()
	if !p.expect(lexer.TokenInt_) {
		return ast.FuncDef{}, false
	}
	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError(fmt.Sprintf("expected function name, got %s", p.describeCur()))
		return ast.FuncDef{}, false
	}
	name := p.curToken.Literal
	p.nextToken()

	if !p.expect(lexer.TokenLParen) || !p.expect(lexer.TokenRParen) {
		return ast.FuncDef{}, false
	}
	if !p.curTokenIs(lexer.TokenLBrace) {
		p.addError(fmt.Sprintf("expected '{', got %s", p.describeCur()))
		return ast.FuncDef{}, false
	}
	block := p.parseBlock()
	if len(p.errors) > 0 {
		return ast.FuncDef{}, false
	}
	return ast.FuncDef{FuncType: ast.FuncInt, Ident: name, Block: block, Pos: pos}, true
}

func (p *Parser) parseBlock() ast.Block {
	block := ast.Block{Items: []ast.BlockItem{}}

	p.nextToken() // consume '{'

	for !p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		before := len(p.errors)
		item := p.parseBlockItem()
		if len(p.errors) > before {
			p.synchronize()
			continue
		}
		block.Items = append(block.Items, item)
	}

	p.expect(lexer.TokenRBrace)
	return block
}

// synchronize skips past the next ';' so one bad statement reports one error.
func (p *Parser) synchronize() {
	for !p.curTokenIs(lexer.TokenSemicolon) && !p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		p.nextToken()
	}
	if p.curTokenIs(lexer.TokenSemicolon) {
		p.nextToken()
	}
}

func (p *Parser) parseBlockItem() ast.BlockItem {
	switch p.curToken.Type {
	case lexer.TokenConst:
		return p.parseConstDecl()
	case lexer.TokenInt_:
		return p.parseVarDecl()
	case lexer.TokenReturn:
		return p.parseReturnStatement()
	case lexer.TokenIdent:
		return p.parseAssignStatement()
	default:
		p.addError(fmt.Sprintf("unexpected %s in statement", p.describeCur()))
		return nil
	}
}

// parseConstDecl parses: "const" "int" ConstDef {"," ConstDef} ";"
func (p *Parser) parseConstDecl() ast.BlockItem {
	p.nextToken() // consume 'const'
	if !p.expect(lexer.TokenInt_) {
		return nil
	}
	decl := ast.ConstDecl{}
	for {
		pos := p.curPos()
		ident, ok := p.parseIdent()
		if !ok || !p.expect(lexer.TokenAssign) {
			return nil
		}
		value := p.parseExp()
		if value == nil {
			return nil
		}
		decl.Defs = append(decl.Defs, ast.ConstDef{Ident: ident, Value: value, Pos: pos})
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	if !p.expect(lexer.TokenSemicolon) {
		return nil
	}
	return decl
}

// parseVarDecl parses: "int" VarDef {"," VarDef} ";"
func (p *Parser) parseVarDecl() ast.BlockItem {
	p.nextToken() // consume 'int'
	decl := ast.VarDecl{}
	for {
		pos := p.curPos()
		ident, ok := p.parseIdent()
		if !ok {
			return nil
		}
		def := ast.VarDef{Ident: ident, Pos: pos}
		if p.curTokenIs(lexer.TokenAssign) {
			p.nextToken()
			def.Init = p.parseExp()
			if def.Init == nil {
				return nil
			}
		}
		decl.Defs = append(decl.Defs, def)
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	if !p.expect(lexer.TokenSemicolon) {
		return nil
	}
	return decl
}

func (p *Parser) parseIdent() (string, bool) {
	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError(fmt.Sprintf("expected identifier, got %s", p.describeCur()))
		return "", false
	}
	name := p.curToken.Literal
	p.nextToken()
	return name, true
}

func (p *Parser) parseReturnStatement() ast.BlockItem {
	pos := p.curPos()
	p.nextToken() // consume 'return'

	exp := p.parseExp()
	if exp == nil {
		return nil
	}
	if !p.expect(lexer.TokenSemicolon) {
		return nil
	}
	return ast.Return{Exp: exp, Pos: pos}
}

// parseAssignStatement parses: LVal "=" Exp ";"
func (p *Parser) parseAssignStatement() ast.BlockItem {
	lval := ast.LVal{Ident: p.curToken.Literal, Pos: p.curPos()}
	p.nextToken()
	if !p.expect(lexer.TokenAssign) {
		return nil
	}
	exp := p.parseExp()
	if exp == nil {
		return nil
	}
	if !p.expect(lexer.TokenSemicolon) {
		return nil
	}
	return ast.Assign{LVal: lval, Exp: exp}
}
