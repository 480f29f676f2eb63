package asm

import (
	"fmt"
	"io"
	"strings"
)

// Printer outputs RISC-V assembly in GNU as syntax
type Printer struct {
	w io.Writer
}

// NewPrinter creates a new assembly printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintProgram outputs an entire program
func (p *Printer) PrintProgram(prog *Program) {
	fmt.Fprintf(p.w, "  .text\n")
	for _, f := range prog.Functions {
		p.printFunction(f)
	}
}

func (p *Printer) printFunction(f Function) {
	fmt.Fprintf(p.w, "  .global %s\n", f.Name)
	fmt.Fprintf(p.w, "%s:\n", f.Name)
	for _, inst := range f.Code {
		p.printInstruction(inst)
	}
}

func (p *Printer) printInstruction(inst Instruction) {
	if l, ok := inst.(LabelDef); ok {
		fmt.Fprintf(p.w, "%s:\n", l.Name)
		return
	}
	fmt.Fprintf(p.w, "  %s\n", Format(inst))
}

// String renders the program as assembly text
func (prog *Program) String() string {
	var sb strings.Builder
	NewPrinter(&sb).PrintProgram(prog)
	return sb.String()
}

// Format renders a single instruction without indentation
func Format(inst Instruction) string {
	switch i := inst.(type) {
	case LI:
		return fmt.Sprintf("li %s, %d", i.Rd, i.Imm)
	case MV:
		return fmt.Sprintf("mv %s, %s", i.Rd, i.Rs)
	case SEQZ:
		return fmt.Sprintf("seqz %s, %s", i.Rd, i.Rs)
	case SNEZ:
		return fmt.Sprintf("snez %s, %s", i.Rd, i.Rs)
	case RET:
		return "ret"
	case ADD:
		return rtype("add", i.Rd, i.Rs1, i.Rs2)
	case SUB:
		return rtype("sub", i.Rd, i.Rs1, i.Rs2)
	case MUL:
		return rtype("mul", i.Rd, i.Rs1, i.Rs2)
	case DIV:
		return rtype("div", i.Rd, i.Rs1, i.Rs2)
	case REM:
		return rtype("rem", i.Rd, i.Rs1, i.Rs2)
	case SLT:
		return rtype("slt", i.Rd, i.Rs1, i.Rs2)
	case AND:
		return rtype("and", i.Rd, i.Rs1, i.Rs2)
	case OR:
		return rtype("or", i.Rd, i.Rs1, i.Rs2)
	case ADDI:
		return fmt.Sprintf("addi %s, %s, %d", i.Rd, i.Rs, i.Imm)
	case LW:
		return fmt.Sprintf("lw %s, %d(%s)", i.Rd, i.Offset, i.Base)
	case SW:
		return fmt.Sprintf("sw %s, %d(%s)", i.Rs, i.Offset, i.Base)
	case LabelDef:
		return string(i.Name) + ":"
	}
	return fmt.Sprintf("# unknown instruction %T", inst)
}

func rtype(mnemonic string, rd, rs1, rs2 Reg) string {
	return fmt.Sprintf("%s %s, %s, %s", mnemonic, rd, rs1, rs2)
}
