package irgen

import (
	"github.com/raymyers/sysyc/pkg/ast"
	"github.com/raymyers/sysyc/pkg/koopa"
)

var eqOps = map[ast.EqOp]koopa.BinaryOp{
	ast.OpEq: koopa.Eq,
	ast.OpNe: koopa.NotEq,
}

var relOps = map[ast.RelOp]koopa.BinaryOp{
	ast.OpLt: koopa.Lt,
	ast.OpLe: koopa.Le,
	ast.OpGt: koopa.Gt,
	ast.OpGe: koopa.Ge,
}

var addOps = map[ast.AddOp]koopa.BinaryOp{
	ast.OpAdd: koopa.Add,
	ast.OpSub: koopa.Sub,
}

var mulOps = map[ast.MulOp]koopa.BinaryOp{
	ast.OpMul: koopa.Mul,
	ast.OpDiv: koopa.Div,
	ast.OpMod: koopa.Mod,
}
