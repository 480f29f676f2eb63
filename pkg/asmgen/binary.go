// Instruction selection for binary operators.

package asmgen

import (
	"fmt"

	"github.com/raymyers/sysyc/pkg/asm"
	"github.com/raymyers/sysyc/pkg/koopa"
)

// selectBinary returns the template computing rd = rl op rr.
func selectBinary(op koopa.BinaryOp, rd, rl, rr asm.Reg) ([]asm.Instruction, error) {
	switch op {
	case koopa.Eq:
		return []asm.Instruction{asm.SUB{Rd: rd, Rs1: rl, Rs2: rr}, asm.SEQZ{Rd: rd, Rs: rd}}, nil
	case koopa.NotEq:
		return []asm.Instruction{asm.SUB{Rd: rd, Rs1: rl, Rs2: rr}, asm.SNEZ{Rd: rd, Rs: rd}}, nil
	case koopa.Lt:
		return []asm.Instruction{asm.SLT{Rd: rd, Rs1: rl, Rs2: rr}}, nil
	case koopa.Gt:
		return []asm.Instruction{asm.SLT{Rd: rd, Rs1: rr, Rs2: rl}}, nil
	case koopa.Le:
		// l <= r is !(r < l)
		return []asm.Instruction{asm.SLT{Rd: rd, Rs1: rr, Rs2: rl}, asm.SEQZ{Rd: rd, Rs: rd}}, nil
	case koopa.Ge:
		return []asm.Instruction{asm.SLT{Rd: rd, Rs1: rl, Rs2: rr}, asm.SEQZ{Rd: rd, Rs: rd}}, nil
	case koopa.And:
		return []asm.Instruction{asm.AND{Rd: rd, Rs1: rl, Rs2: rr}}, nil
	case koopa.Or:
		return []asm.Instruction{asm.OR{Rd: rd, Rs1: rl, Rs2: rr}}, nil
	case koopa.Add:
		return []asm.Instruction{asm.ADD{Rd: rd, Rs1: rl, Rs2: rr}}, nil
	case koopa.Sub:
		return []asm.Instruction{asm.SUB{Rd: rd, Rs1: rl, Rs2: rr}}, nil
	case koopa.Mul:
		return []asm.Instruction{asm.MUL{Rd: rd, Rs1: rl, Rs2: rr}}, nil
	case koopa.Div:
		return []asm.Instruction{asm.DIV{Rd: rd, Rs1: rl, Rs2: rr}}, nil
	case koopa.Mod:
		return []asm.Instruction{asm.REM{Rd: rd, Rs1: rl, Rs2: rr}}, nil
	}
	return nil, fmt.Errorf("no instruction for binary operator %s", op)
}
