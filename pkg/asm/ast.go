// Package asm defines the RISC-V (RV32IM) assembly representation.
// This is the final output of the compiler - actual assembly code.
package asm

// Reg is a RISC-V integer register. The numbering is the allocation
// pool order, not the hardware encoding.
type Reg int

const (
	X0 Reg = iota // hard-wired zero
	T0
	T1
	T2
	T3
	T4
	T5
	T6
	A7
	A1
	A2
	A3
	A4
	A5
	A6
	A0 // first return register, handed out last
	SP // stack pointer, never allocated
)

// NumPoolRegs is the number of registers tracked by the allocator, X0 included
const NumPoolRegs = int(A0) + 1

var regNames = []string{
	"x0", "t0", "t1", "t2", "t3", "t4", "t5", "t6",
	"a7", "a1", "a2", "a3", "a4", "a5", "a6", "a0", "sp",
}

func (r Reg) String() string {
	if r >= 0 && int(r) < len(regNames) {
		return regNames[r]
	}
	return "?"
}

// LookupReg returns the register with the given ABI name
func LookupReg(name string) (Reg, bool) {
	for i, n := range regNames {
		if n == name {
			return Reg(i), true
		}
	}
	switch name {
	case "zero":
		return X0, true
	}
	return 0, false
}

// Label represents a branch target label
type Label string

// --- Instruction Interface ---

// Instruction is the interface for RISC-V instructions
type Instruction interface {
	implInstruction()
}

// --- Pseudo-instructions ---

// LI - Load immediate
type LI struct {
	Rd  Reg
	Imm int32
}

// MV - Copy register
type MV struct {
	Rd, Rs Reg
}

// SEQZ - Set if equal to zero
type SEQZ struct {
	Rd, Rs Reg
}

// SNEZ - Set if not equal to zero
type SNEZ struct {
	Rd, Rs Reg
}

// RET - Return from function
type RET struct{}

// --- Register-register arithmetic ---

// ADD - Add
type ADD struct {
	Rd, Rs1, Rs2 Reg
}

// SUB - Subtract
type SUB struct {
	Rd, Rs1, Rs2 Reg
}

// MUL - Multiply (M extension)
type MUL struct {
	Rd, Rs1, Rs2 Reg
}

// DIV - Signed divide (M extension)
type DIV struct {
	Rd, Rs1, Rs2 Reg
}

// REM - Signed remainder (M extension)
type REM struct {
	Rd, Rs1, Rs2 Reg
}

// SLT - Set if less than (signed)
type SLT struct {
	Rd, Rs1, Rs2 Reg
}

// AND - Bitwise and
type AND struct {
	Rd, Rs1, Rs2 Reg
}

// OR - Bitwise or
type OR struct {
	Rd, Rs1, Rs2 Reg
}

// --- Immediate and memory ---

// ADDI - Add 12-bit immediate
type ADDI struct {
	Rd, Rs Reg
	Imm    int32
}

// LW - Load word: rd = mem[base + offset]
type LW struct {
	Rd     Reg
	Base   Reg
	Offset int32
}

// SW - Store word: mem[base + offset] = rs
type SW struct {
	Rs     Reg
	Base   Reg
	Offset int32
}

// LabelDef marks a position in the code
type LabelDef struct {
	Name Label
}

// --- Marker methods for Instruction interface ---

func (LI) implInstruction()       {}
func (MV) implInstruction()       {}
func (SEQZ) implInstruction()     {}
func (SNEZ) implInstruction()     {}
func (RET) implInstruction()      {}
func (ADD) implInstruction()      {}
func (SUB) implInstruction()      {}
func (MUL) implInstruction()      {}
func (DIV) implInstruction()      {}
func (REM) implInstruction()      {}
func (SLT) implInstruction()      {}
func (AND) implInstruction()      {}
func (OR) implInstruction()       {}
func (ADDI) implInstruction()     {}
func (LW) implInstruction()       {}
func (SW) implInstruction()       {}
func (LabelDef) implInstruction() {}

// Imm12Min and Imm12Max bound the signed 12-bit immediate of ADDI, LW and SW
const (
	Imm12Min = -2048
	Imm12Max = 2047
)

// --- Function and Program ---

// Function represents an assembly function
type Function struct {
	Name string
	Code []Instruction
}

// Program represents a complete assembly program
type Program struct {
	Functions []Function
}

// NewFunction creates a new assembly function
func NewFunction(name string) *Function {
	return &Function{
		Name: name,
		Code: make([]Instruction, 0),
	}
}

// Append adds instructions to the function
func (f *Function) Append(insts ...Instruction) {
	f.Code = append(f.Code, insts...)
}

// AppendLabel adds a label definition
func (f *Function) AppendLabel(name Label) {
	f.Code = append(f.Code, LabelDef{Name: name})
}
