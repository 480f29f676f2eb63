// Expression lowering.
// Each function returns the value holding the expression's result; integer
// operands are created in the arena, every other result is an instruction
// appended to the current basic block.

package irgen

import (
	"fmt"

	"github.com/raymyers/sysyc/pkg/ast"
	"github.com/raymyers/sysyc/pkg/koopa"
)

func (b *Builder) lowerExp(e ast.Exp) (koopa.Value, error) {
	switch x := e.(type) {
	case ast.Number:
		return b.fn.DFG.Integer(x.Value), nil
	case ast.LVal:
		return b.lowerLVal(x)
	case ast.Paren:
		return b.lowerExp(x.X)
	case ast.Unary:
		return b.lowerUnary(x)
	case ast.Mul:
		return b.lowerBinary(mulOps[x.Op], x.Left, x.Right)
	case ast.Add:
		return b.lowerBinary(addOps[x.Op], x.Left, x.Right)
	case ast.Rel:
		return b.lowerBinary(relOps[x.Op], x.Left, x.Right)
	case ast.Eq:
		return b.lowerBinary(eqOps[x.Op], x.Left, x.Right)
	case ast.LAnd:
		return b.lowerLAnd(x)
	case ast.LOr:
		return b.lowerLOr(x)
	}
	return 0, fmt.Errorf("unexpected expression %T", e)
}

// lowerLVal reads a name: constants become a fresh integer, variables a load
func (b *Builder) lowerLVal(x ast.LVal) (koopa.Value, error) {
	sym, ok := b.syms.Lookup(x.Ident)
	if !ok {
		return 0, semanticError(x.Pos, x.Ident, ErrUndefined)
	}
	switch s := sym.(type) {
	case ConstSymbol:
		return b.fn.DFG.Integer(s.Value), nil
	case VarSymbol:
		return b.emit(koopa.Load{Src: s.Slot}), nil
	}
	return 0, fmt.Errorf("unexpected symbol %T", sym)
}

func (b *Builder) lowerUnary(x ast.Unary) (koopa.Value, error) {
	v, err := b.lowerExp(x.X)
	if err != nil {
		return 0, err
	}
	switch x.Op {
	case ast.OpPlus:
		return v, nil
	case ast.OpMinus:
		return b.binary(koopa.Sub, b.fn.DFG.Integer(0), v), nil
	case ast.OpNot:
		return b.binary(koopa.Eq, v, b.fn.DFG.Integer(0)), nil
	}
	return 0, fmt.Errorf("unknown unary operator %s", x.Op)
}

func (b *Builder) lowerBinary(op koopa.BinaryOp, left, right ast.Exp) (koopa.Value, error) {
	l, err := b.lowerExp(left)
	if err != nil {
		return 0, err
	}
	r, err := b.lowerExp(right)
	if err != nil {
		return 0, err
	}
	return b.binary(op, l, r), nil
}

// lowerLAnd evaluates both sides eagerly: and (ne l, 0), (ne r, 0)
func (b *Builder) lowerLAnd(x ast.LAnd) (koopa.Value, error) {
	l, err := b.lowerExp(x.Left)
	if err != nil {
		return 0, err
	}
	ln := b.binary(koopa.NotEq, l, b.fn.DFG.Integer(0))
	r, err := b.lowerExp(x.Right)
	if err != nil {
		return 0, err
	}
	rn := b.binary(koopa.NotEq, r, b.fn.DFG.Integer(0))
	return b.binary(koopa.And, ln, rn), nil
}

// lowerLOr evaluates both sides eagerly: ne (or l, r), 0
func (b *Builder) lowerLOr(x ast.LOr) (koopa.Value, error) {
	or, err := b.lowerBinary(koopa.Or, x.Left, x.Right)
	if err != nil {
		return 0, err
	}
	return b.binary(koopa.NotEq, or, b.fn.DFG.Integer(0)), nil
}

func (b *Builder) binary(op koopa.BinaryOp, l, r koopa.Value) koopa.Value {
	return b.emit(koopa.Binary{Op: op, LHS: l, RHS: r})
}
