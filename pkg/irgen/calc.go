// Constant evaluation for const initializers.
// Mirrors every lowering rule in expr.go arithmetically, emitting no IR.

package irgen

import (
	"fmt"

	"github.com/raymyers/sysyc/pkg/ast"
	"github.com/raymyers/sysyc/pkg/koopa"
)

// Calc evaluates e to an integer using the constants in syms.
// Variables are rejected with ErrNotConstant.
func Calc(e ast.Exp, syms *SymbolTable) (int32, error) {
	switch x := e.(type) {
	case ast.Number:
		return x.Value, nil
	case ast.LVal:
		sym, ok := syms.Lookup(x.Ident)
		if !ok {
			return 0, semanticError(x.Pos, x.Ident, ErrUndefined)
		}
		c, ok := sym.(ConstSymbol)
		if !ok {
			return 0, semanticError(x.Pos, x.Ident, ErrNotConstant)
		}
		return c.Value, nil
	case ast.Paren:
		return Calc(x.X, syms)
	case ast.Unary:
		v, err := Calc(x.X, syms)
		if err != nil {
			return 0, err
		}
		switch x.Op {
		case ast.OpPlus:
			return v, nil
		case ast.OpMinus:
			return koopa.Sub.Eval(0, v)
		case ast.OpNot:
			return koopa.Eq.Eval(v, 0)
		}
		return 0, fmt.Errorf("unknown unary operator %s", x.Op)
	case ast.Mul:
		return calcBinary(mulOps[x.Op], x.Left, x.Right, syms)
	case ast.Add:
		return calcBinary(addOps[x.Op], x.Left, x.Right, syms)
	case ast.Rel:
		return calcBinary(relOps[x.Op], x.Left, x.Right, syms)
	case ast.Eq:
		return calcBinary(eqOps[x.Op], x.Left, x.Right, syms)
	case ast.LAnd:
		l, r, err := calcOperands(x.Left, x.Right, syms)
		if err != nil {
			return 0, err
		}
		ln, _ := koopa.NotEq.Eval(l, 0)
		rn, _ := koopa.NotEq.Eval(r, 0)
		return koopa.And.Eval(ln, rn)
	case ast.LOr:
		l, r, err := calcOperands(x.Left, x.Right, syms)
		if err != nil {
			return 0, err
		}
		or, _ := koopa.Or.Eval(l, r)
		return koopa.NotEq.Eval(or, 0)
	}
	return 0, fmt.Errorf("unexpected expression %T", e)
}

func calcOperands(left, right ast.Exp, syms *SymbolTable) (int32, int32, error) {
	l, err := Calc(left, syms)
	if err != nil {
		return 0, 0, err
	}
	r, err := Calc(right, syms)
	if err != nil {
		return 0, 0, err
	}
	return l, r, nil
}

func calcBinary(op koopa.BinaryOp, left, right ast.Exp, syms *SymbolTable) (int32, error) {
	l, r, err := calcOperands(left, right, syms)
	if err != nil {
		return 0, err
	}
	return op.Eval(l, r)
}
