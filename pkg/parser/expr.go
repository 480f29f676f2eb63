package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/raymyers/sysyc/pkg/ast"
	"github.com/raymyers/sysyc/pkg/lexer"
)

// ErrSyntax is returned by Parse when the source has syntax errors
var ErrSyntax = errors.New("syntax error")

func (p *Parser) parseExp() ast.Exp {
	return p.parseLOr()
}

func (p *Parser) parseLOr() ast.LOrExp {
	left := p.parseLAnd()
	if left == nil {
		return nil
	}
	var result ast.LOrExp = left
	for p.curTokenIs(lexer.TokenOr) {
		p.nextToken()
		right := p.parseLAnd()
		if right == nil {
			return nil
		}
		result = ast.LOr{Left: result, Right: right}
	}
	return result
}

func (p *Parser) parseLAnd() ast.LAndExp {
	left := p.parseEq()
	if left == nil {
		return nil
	}
	var result ast.LAndExp = left
	for p.curTokenIs(lexer.TokenAnd) {
		p.nextToken()
		right := p.parseEq()
		if right == nil {
			return nil
		}
		result = ast.LAnd{Left: result, Right: right}
	}
	return result
}

var eqOps = map[lexer.TokenType]ast.EqOp{
	lexer.TokenEq: ast.OpEq,
	lexer.TokenNe: ast.OpNe,
}

func (p *Parser) parseEq() ast.EqExp {
	left := p.parseRel()
	if left == nil {
		return nil
	}
	var result ast.EqExp = left
	for {
		op, ok := eqOps[p.curToken.Type]
		if !ok {
			return result
		}
		p.nextToken()
		right := p.parseRel()
		if right == nil {
			return nil
		}
		result = ast.Eq{Left: result, Op: op, Right: right}
	}
}

var relOps = map[lexer.TokenType]ast.RelOp{
	lexer.TokenLt: ast.OpLt,
	lexer.TokenLe: ast.OpLe,
	lexer.TokenGt: ast.OpGt,
	lexer.TokenGe: ast.OpGe,
}

func (p *Parser) parseRel() ast.RelExp {
	left := p.parseAdd()
	if left == nil {
		return nil
	}
	var result ast.RelExp = left
	for {
		op, ok := relOps[p.curToken.Type]
		if !ok {
			return result
		}
		p.nextToken()
		right := p.parseAdd()
		if right == nil {
			return nil
		}
		result = ast.Rel{Left: result, Op: op, Right: right}
	}
}

var addOps = map[lexer.TokenType]ast.AddOp{
	lexer.TokenPlus:  ast.OpAdd,
	lexer.TokenMinus: ast.OpSub,
}

func (p *Parser) parseAdd() ast.AddExp {
	left := p.parseMul()
	if left == nil {
		return nil
	}
	var result ast.AddExp = left
	for {
		op, ok := addOps[p.curToken.Type]
		if !ok {
			return result
		}
		p.nextToken()
		right := p.parseMul()
		if right == nil {
			return nil
		}
		result = ast.Add{Left: result, Op: op, Right: right}
	}
}

var mulOps = map[lexer.TokenType]ast.MulOp{
	lexer.TokenStar:    ast.OpMul,
	lexer.TokenSlash:   ast.OpDiv,
	lexer.TokenPercent: ast.OpMod,
}

func (p *Parser) parseMul() ast.MulExp {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	var result ast.MulExp = left
	for {
		op, ok := mulOps[p.curToken.Type]
		if !ok {
			return result
		}
		p.nextToken()
		right := p.parseUnary()
		if right == nil {
			return nil
		}
		result = ast.Mul{Left: result, Op: op, Right: right}
	}
}

var unaryOps = map[lexer.TokenType]ast.UnaryOp{
	lexer.TokenPlus:  ast.OpPlus,
	lexer.TokenMinus: ast.OpMinus,
	lexer.TokenNot:   ast.OpNot,
}

func (p *Parser) parseUnary() ast.UnaryExp {
	if op, ok := unaryOps[p.curToken.Type]; ok {
		p.nextToken()
		x := p.parseUnary()
		if x == nil {
			return nil
		}
		return ast.Unary{Op: op, X: x}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.PrimaryExp {
	switch p.curToken.Type {
	case lexer.TokenLParen:
		p.nextToken()
		x := p.parseExp()
		if x == nil {
			return nil
		}
		if !p.expect(lexer.TokenRParen) {
			return nil
		}
		return ast.Paren{X: x}
	case lexer.TokenIdent:
		lval := ast.LVal{Ident: p.curToken.Literal, Pos: p.curPos()}
		p.nextToken()
		return lval
	case lexer.TokenInt:
		v, err := parseIntLiteral(p.curToken.Literal)
		if err != nil {
			p.addError(err.Error())
			return nil
		}
		p.nextToken()
		return ast.Number{Value: v}
	default:
		p.addError(fmt.Sprintf("expected expression, got %s", p.describeCur()))
		return nil
	}
}

// parseIntLiteral accepts decimal, octal (leading 0) and hex (0x/0X) literals
// up to 32 bits. Literals above MaxInt32 wrap, so -2147483648 round-trips.
func parseIntLiteral(lit string) (int32, error) {
	base := 10
	digits := lit
	switch {
	case strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X"):
		base, digits = 16, lit[2:]
	case len(lit) > 1 && lit[0] == '0':
		base, digits = 8, lit[1:]
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid integer literal %q", lit)
	}
	return int32(uint32(v)), nil
}
