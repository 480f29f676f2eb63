// Package asmgen lowers Koopa IR to RV32IM assembly: constant folding,
// instruction selection and register assignment from a fixed pool, with
// variables kept in sp-relative stack slots.
package asmgen

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/raymyers/sysyc/pkg/asm"
	"github.com/raymyers/sysyc/pkg/koopa"
)

// ErrFrameTooLarge is returned when the stack frame does not fit a 12-bit immediate
var ErrFrameTooLarge = errors.New("stack frame too large")

const slotSize = 4

// Generate transforms a Koopa program to assembly. Generation stops at the
// first error and no partial program is returned.
func Generate(prog *koopa.Program) (*asm.Program, error) {
	result := &asm.Program{
		Functions: make([]asm.Function, 0, len(prog.Funcs)),
	}
	for _, fn := range prog.Funcs {
		f, err := transformFunction(fn)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name, err)
		}
		result.Functions = append(result.Functions, f)
	}
	return result, nil
}

// genContext holds state during code generation of one function
type genContext struct {
	fn    *koopa.Function
	vm    *ValueManager
	out   *asm.Function
	slots map[koopa.Value]int32 // alloc -> offset from sp
	frame int32
}

// transformFunction transforms a single Koopa function to assembly
func transformFunction(fn *koopa.Function) (asm.Function, error) {
	ctx := &genContext{
		fn:    fn,
		vm:    NewValueManager(),
		out:   asm.NewFunction(strings.TrimPrefix(fn.Name, "@")),
		slots: make(map[koopa.Value]int32),
	}
	if err := ctx.layoutFrame(); err != nil {
		return asm.Function{}, err
	}
	if ctx.frame > 0 {
		ctx.out.Append(asm.ADDI{Rd: asm.SP, Rs: asm.SP, Imm: -ctx.frame})
	}

	for i, bb := range fn.Layout {
		if i > 0 {
			ctx.out.AppendLabel(ctx.blockLabel(bb))
		}
		for _, inst := range fn.DFG.BB(bb).Insts {
			if err := ctx.translateInstruction(inst); err != nil {
				return asm.Function{}, err
			}
		}
	}

	slog.Debug("generated function", "func", ctx.out.Name,
		"frame", ctx.frame, "instructions", len(ctx.out.Code), "freeRegs", ctx.vm.FreeRegs())
	return *ctx.out, nil
}

// layoutFrame gives every alloc a 4-byte slot and rounds the frame up to 16 bytes
func (ctx *genContext) layoutFrame() error {
	var offset int32
	for _, bb := range ctx.fn.Layout {
		for _, inst := range ctx.fn.DFG.BB(bb).Insts {
			if _, ok := ctx.fn.DFG.Value(inst).Kind.(koopa.Alloc); ok {
				ctx.slots[inst] = offset
				offset += slotSize
			}
		}
	}
	ctx.frame = (offset + 15) &^ 15
	if ctx.frame > asm.Imm12Max {
		return fmt.Errorf("%d bytes: %w", ctx.frame, ErrFrameTooLarge)
	}
	return nil
}

// blockLabel returns the local label of a non-entry block
func (ctx *genContext) blockLabel(bb koopa.BasicBlock) asm.Label {
	name := strings.TrimPrefix(ctx.fn.DFG.BB(bb).Name, "%")
	return asm.Label(fmt.Sprintf(".L%s_%s", ctx.out.Name, name))
}

func (ctx *genContext) emit(insts ...asm.Instruction) {
	for _, inst := range insts {
		if inst != nil {
			ctx.out.Append(inst)
		}
	}
}

// translateInstruction translates a Koopa instruction to assembly
func (ctx *genContext) translateInstruction(v koopa.Value) error {
	switch k := ctx.fn.DFG.Value(v).Kind.(type) {
	case koopa.Binary:
		return ctx.translateBinary(v, k)
	case koopa.Return:
		return ctx.translateReturn(k)
	case koopa.Alloc:
		return nil
	case koopa.Load:
		return ctx.translateLoad(v, k)
	case koopa.Store:
		return ctx.translateStore(k)
	default:
		return fmt.Errorf("unsupported instruction %T", k)
	}
}

// visitValue makes an operand known to the value manager. Integers become
// constant stores; anything else must already have been generated.
func (ctx *genContext) visitValue(v koopa.Value) (ValueStore, error) {
	if s, ok := ctx.vm.Value(v); ok {
		return s, nil
	}
	if k, ok := ctx.fn.DFG.Value(v).Kind.(koopa.Integer); ok {
		c := ConstStore{Value: k.Value}
		ctx.vm.SetValue(v, c)
		return c, nil
	}
	return nil, fmt.Errorf("value %d used before it is defined", v)
}

// loadOperand forces v into a register and returns it
func (ctx *genContext) loadOperand(v koopa.Value) (asm.Reg, error) {
	if _, err := ctx.visitValue(v); err != nil {
		return 0, err
	}
	inst, err := ctx.vm.LoadReg(v)
	if err != nil {
		return 0, err
	}
	ctx.emit(inst)
	r, _ := ctx.vm.Reg(v)
	return r, nil
}

// translateBinary folds constant operands, otherwise selects an instruction
// template writing a freshly allocated register
func (ctx *genContext) translateBinary(v koopa.Value, b koopa.Binary) error {
	ls, err := ctx.visitValue(b.LHS)
	if err != nil {
		return err
	}
	rs, err := ctx.visitValue(b.RHS)
	if err != nil {
		return err
	}
	lc, lconst := ls.(ConstStore)
	rc, rconst := rs.(ConstStore)
	if lconst && rconst {
		res, err := b.Op.Eval(lc.Value, rc.Value)
		if err != nil {
			return fmt.Errorf("%d %s %d: %w", lc.Value, b.Op, rc.Value, err)
		}
		ctx.vm.SetValue(v, ConstStore{Value: res})
		return nil
	}

	rl, err := ctx.loadOperand(b.LHS)
	if err != nil {
		return err
	}
	rr, err := ctx.loadOperand(b.RHS)
	if err != nil {
		return err
	}
	rd, err := ctx.vm.AllocReg(v)
	if err != nil {
		return err
	}
	insts, err := selectBinary(b.Op, rd, rl, rr)
	if err != nil {
		return err
	}
	ctx.emit(insts...)
	return nil
}

// translateReturn places the result in a0, tears down the frame and returns
func (ctx *genContext) translateReturn(r koopa.Return) error {
	if r.Value != nil {
		s, err := ctx.visitValue(*r.Value)
		if err != nil {
			return err
		}
		switch st := s.(type) {
		case ConstStore:
			evict, err := ctx.vm.ResetReg(asm.A0)
			if err != nil {
				return err
			}
			ctx.emit(evict, asm.LI{Rd: asm.A0, Imm: st.Value})
		case RegStore:
			if st.Reg != asm.A0 {
				evict, err := ctx.vm.ResetReg(asm.A0)
				if err != nil {
					return err
				}
				ctx.emit(evict, asm.MV{Rd: asm.A0, Rs: st.Reg})
			}
		}
	}
	if ctx.frame > 0 {
		ctx.emit(asm.ADDI{Rd: asm.SP, Rs: asm.SP, Imm: ctx.frame})
	}
	ctx.emit(asm.RET{})
	ctx.vm.ReleaseAll()
	return nil
}

func (ctx *genContext) slot(v koopa.Value) (int32, error) {
	off, ok := ctx.slots[v]
	if !ok {
		return 0, fmt.Errorf("value %d is not a stack slot", v)
	}
	return off, nil
}

// translateLoad reads a slot into a fresh register
func (ctx *genContext) translateLoad(v koopa.Value, l koopa.Load) error {
	off, err := ctx.slot(l.Src)
	if err != nil {
		return err
	}
	rd, err := ctx.vm.AllocReg(v)
	if err != nil {
		return err
	}
	ctx.emit(asm.LW{Rd: rd, Base: asm.SP, Offset: off})
	return nil
}

// translateStore writes a value, loaded into a register first, to its slot.
// Every value of the statement is dead afterwards, so the pool is emptied.
func (ctx *genContext) translateStore(s koopa.Store) error {
	off, err := ctx.slot(s.Dest)
	if err != nil {
		return err
	}
	rs, err := ctx.loadOperand(s.Value)
	if err != nil {
		return err
	}
	ctx.emit(asm.SW{Rs: rs, Base: asm.SP, Offset: off})
	ctx.vm.ReleaseAll()
	return nil
}
