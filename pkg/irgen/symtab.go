// Symbol table for IR generation.
// Maps source identifiers to compile-time constants or to the stack slots
// holding variables. One flat scope per function; entries are write-once.

package irgen

import "github.com/raymyers/sysyc/pkg/koopa"

// Symbol is either a ConstSymbol or a VarSymbol
type Symbol interface {
	implSymbol()
}

// ConstSymbol is a folded constant, materialized as a fresh integer at every use
type ConstSymbol struct {
	Value int32
}

// VarSymbol is a variable living in an alloc'd slot
type VarSymbol struct {
	Slot koopa.Value
}

func (ConstSymbol) implSymbol() {}
func (VarSymbol) implSymbol()   {}

// SymbolTable maps identifiers to symbols
type SymbolTable struct {
	symbols map[string]Symbol
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]Symbol)}
}

// DeclareConst binds name to a constant value.
func (s *SymbolTable) DeclareConst(name string, value int32) error {
	return s.declare(name, ConstSymbol{Value: value})
}

// DeclareVar binds name to a variable slot.
func (s *SymbolTable) DeclareVar(name string, slot koopa.Value) error {
	return s.declare(name, VarSymbol{Slot: slot})
}

func (s *SymbolTable) declare(name string, sym Symbol) error {
	if _, ok := s.symbols[name]; ok {
		return ErrRedeclared
	}
	s.symbols[name] = sym
	return nil
}

// Lookup returns the symbol bound to name.
func (s *SymbolTable) Lookup(name string) (Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Len returns the number of declared symbols.
func (s *SymbolTable) Len() int {
	return len(s.symbols)
}
