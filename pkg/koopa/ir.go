// Package koopa defines the Koopa IR: an SSA intermediate representation where
// a function owns a data-flow graph (an arena of values and basic blocks) and a
// layout listing its basic blocks in emission order.
//
// Values and basic blocks are opaque handles into the arena. Integer constants
// live only in the arena; every other value is an instruction appended to
// exactly one basic block.
package koopa

// Value is a handle to a value in a function's data-flow graph
type Value int

// BasicBlock is a handle to a basic block in a function's data-flow graph
type BasicBlock int

// Type is the type of a value or function result
type Type int

const (
	TypeI32 Type = iota
	TypeUnit
	TypeI32Ptr
)

func (t Type) String() string {
	switch t {
	case TypeI32:
		return "i32"
	case TypeUnit:
		return "unit"
	case TypeI32Ptr:
		return "*i32"
	}
	return "?"
}

// --- Value kinds ---

// ValueKind is the closed set of value variants
type ValueKind interface {
	implValueKind()
}

// Integer is a 32-bit integer constant
type Integer struct {
	Value int32
}

// Binary applies a binary operator to two values
type Binary struct {
	Op  BinaryOp
	LHS Value
	RHS Value
}

// Return terminates a basic block. Value is nil for a unit return.
type Return struct {
	Value *Value
}

// Alloc reserves a stack slot holding one i32
type Alloc struct{}

// Load reads the i32 held by an alloc'd slot
type Load struct {
	Src Value
}

// Store writes Value into the slot Dest
type Store struct {
	Value Value
	Dest  Value
}

func (Integer) implValueKind() {}
func (Binary) implValueKind()  {}
func (Return) implValueKind()  {}
func (Alloc) implValueKind()   {}
func (Load) implValueKind()    {}
func (Store) implValueKind()   {}

// ValueData is the arena entry for a value
type ValueData struct {
	Name string // "@x" for named values, empty otherwise
	Ty   Type
	Kind ValueKind
}

// HasResult reports whether the value produces something other operands can use
func (d ValueData) HasResult() bool {
	return d.Ty != TypeUnit
}

// IsTerminator reports whether the value ends a basic block
func IsTerminator(kind ValueKind) bool {
	_, ok := kind.(Return)
	return ok
}

// BasicBlockData is the arena entry for a basic block
type BasicBlockData struct {
	Name  string // "%bb0"
	Insts []Value
}

// DataFlowGraph is the arena owning all values and basic blocks of a function
type DataFlowGraph struct {
	values []ValueData
	blocks []BasicBlockData
}

// NewValue adds a value to the arena and returns its handle
func (g *DataFlowGraph) NewValue(kind ValueKind) Value {
	g.values = append(g.values, ValueData{Ty: typeOf(kind), Kind: kind})
	return Value(len(g.values) - 1)
}

// Integer adds an integer constant to the arena
func (g *DataFlowGraph) Integer(v int32) Value {
	return g.NewValue(Integer{Value: v})
}

// SetName names a value; names are printed in place of %N
func (g *DataFlowGraph) SetName(v Value, name string) {
	g.values[v].Name = name
}

// Value returns the arena entry for v
func (g *DataFlowGraph) Value(v Value) ValueData {
	return g.values[v]
}

// NumValues returns the number of values in the arena
func (g *DataFlowGraph) NumValues() int {
	return len(g.values)
}

// NewBB adds a basic block to the arena without placing it in a layout
func (g *DataFlowGraph) NewBB(name string) BasicBlock {
	g.blocks = append(g.blocks, BasicBlockData{Name: name})
	return BasicBlock(len(g.blocks) - 1)
}

// BB returns the arena entry for b
func (g *DataFlowGraph) BB(b BasicBlock) *BasicBlockData {
	return &g.blocks[b]
}

func typeOf(kind ValueKind) Type {
	switch kind.(type) {
	case Integer, Binary, Load:
		return TypeI32
	case Alloc:
		return TypeI32Ptr
	}
	return TypeUnit
}

// Function is a Koopa function: a name with sigil, a return type, its arena
// and the ordered list of its basic blocks
type Function struct {
	Name   string // "@main"
	Ret    Type
	DFG    *DataFlowGraph
	Layout []BasicBlock
}

// NewFunction creates an empty function
func NewFunction(name string, ret Type) *Function {
	return &Function{Name: name, Ret: ret, DFG: &DataFlowGraph{}}
}

// AppendBB creates a basic block and appends it to the layout
func (f *Function) AppendBB(name string) BasicBlock {
	bb := f.DFG.NewBB(name)
	f.Layout = append(f.Layout, bb)
	return bb
}

// AppendInst creates an instruction value and appends it to bb
func (f *Function) AppendInst(bb BasicBlock, kind ValueKind) Value {
	v := f.DFG.NewValue(kind)
	data := f.DFG.BB(bb)
	data.Insts = append(data.Insts, v)
	return v
}

// Terminated reports whether bb already ends in a terminator
func (f *Function) Terminated(bb BasicBlock) bool {
	insts := f.DFG.BB(bb).Insts
	if len(insts) == 0 {
		return false
	}
	return IsTerminator(f.DFG.Value(insts[len(insts)-1]).Kind)
}

// Program is a complete Koopa program
type Program struct {
	Funcs []*Function
}
