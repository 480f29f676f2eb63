// Package irgen lowers the SysY AST to Koopa IR.
//
// Constants are folded through Calc and never reach the IR as declarations;
// every use materializes a fresh integer. Variables get one alloc'd slot each
// and are accessed with load/store. Logical operators are evaluated eagerly
// with bitwise and/or over normalized operands.
package irgen

import (
	"fmt"
	"log/slog"

	"github.com/raymyers/sysyc/pkg/ast"
	"github.com/raymyers/sysyc/pkg/koopa"
)

// Builder holds the state for lowering one function.
type Builder struct {
	fn     *koopa.Function
	cur    koopa.BasicBlock
	syms   *SymbolTable
	nextBB int
}

// NewBuilder creates a builder with an empty symbol table.
func NewBuilder() *Builder {
	return &Builder{syms: NewSymbolTable()}
}

// Build lowers a translation unit. Lowering stops at the first error.
func Build(cu *ast.CompUnit) (*koopa.Program, error) {
	fn, err := NewBuilder().BuildFunc(cu.FuncDef)
	if err != nil {
		return nil, err
	}
	return &koopa.Program{Funcs: []*koopa.Function{fn}}, nil
}

// BuildFunc lowers a function definition.
func (b *Builder) BuildFunc(def ast.FuncDef) (*koopa.Function, error) {
	b.fn = koopa.NewFunction("@"+def.Ident, koopa.TypeI32)
	b.cur = b.newBB()

	for _, item := range def.Block.Items {
		if b.fn.Terminated(b.cur) {
			b.cur = b.newBB()
		}
		if err := b.lowerItem(item); err != nil {
			return nil, err
		}
	}
	if !b.fn.Terminated(b.cur) {
		zero := b.fn.DFG.Integer(0)
		b.emit(koopa.Return{Value: &zero})
	}

	slog.Debug("lowered function", "func", b.fn.Name,
		"blocks", len(b.fn.Layout), "values", b.fn.DFG.NumValues(), "symbols", b.syms.Len())
	return b.fn, nil
}

// newBB appends a block labelled from the builder's counter
func (b *Builder) newBB() koopa.BasicBlock {
	bb := b.fn.AppendBB(fmt.Sprintf("%%bb%d", b.nextBB))
	b.nextBB++
	return bb
}

func (b *Builder) emit(kind koopa.ValueKind) koopa.Value {
	return b.fn.AppendInst(b.cur, kind)
}

func (b *Builder) lowerItem(item ast.BlockItem) error {
	switch s := item.(type) {
	case ast.ConstDecl:
		return b.lowerConstDecl(s)
	case ast.VarDecl:
		return b.lowerVarDecl(s)
	case ast.Assign:
		return b.lowerAssign(s)
	case ast.Return:
		return b.lowerReturn(s)
	}
	return fmt.Errorf("unexpected block item %T", item)
}

func (b *Builder) lowerConstDecl(decl ast.ConstDecl) error {
	for _, def := range decl.Defs {
		v, err := Calc(def.Value, b.syms)
		if err != nil {
			return semanticError(def.Pos, def.Ident, err)
		}
		if err := b.syms.DeclareConst(def.Ident, v); err != nil {
			return semanticError(def.Pos, def.Ident, err)
		}
	}
	return nil
}

// lowerVarDecl allocates the slot before lowering the initializer; the name
// is bound afterwards, so an initializer cannot read its own variable.
func (b *Builder) lowerVarDecl(decl ast.VarDecl) error {
	for _, def := range decl.Defs {
		if _, ok := b.syms.Lookup(def.Ident); ok {
			return semanticError(def.Pos, def.Ident, ErrRedeclared)
		}
		slot := b.emit(koopa.Alloc{})
		b.fn.DFG.SetName(slot, "@"+def.Ident)
		if def.Init != nil {
			v, err := b.lowerExp(def.Init)
			if err != nil {
				return semanticError(def.Pos, def.Ident, err)
			}
			b.emit(koopa.Store{Value: v, Dest: slot})
		}
		if err := b.syms.DeclareVar(def.Ident, slot); err != nil {
			return semanticError(def.Pos, def.Ident, err)
		}
	}
	return nil
}

func (b *Builder) lowerAssign(s ast.Assign) error {
	sym, ok := b.syms.Lookup(s.LVal.Ident)
	if !ok {
		return semanticError(s.LVal.Pos, s.LVal.Ident, ErrUndefined)
	}
	vs, ok := sym.(VarSymbol)
	if !ok {
		return semanticError(s.LVal.Pos, s.LVal.Ident, ErrAssignToConst)
	}
	v, err := b.lowerExp(s.Exp)
	if err != nil {
		return err
	}
	b.emit(koopa.Store{Value: v, Dest: vs.Slot})
	return nil
}

func (b *Builder) lowerReturn(s ast.Return) error {
	v, err := b.lowerExp(s.Exp)
	if err != nil {
		return err
	}
	b.emit(koopa.Return{Value: &v})
	return nil
}
