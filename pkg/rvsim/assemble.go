// Package rvsim executes the RV32IM subset emitted by the compiler.
// Source text is assembled back into asm instructions and interpreted
// on a small register file with a downward-growing stack.
package rvsim

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/raymyers/sysyc/pkg/asm"
)

var (
	// ErrUnknownInstruction indicates a mnemonic outside the emitted subset
	ErrUnknownInstruction = errors.New("unknown instruction")
	// ErrBadOperand indicates a malformed register, immediate or memory operand
	ErrBadOperand = errors.New("bad operand")
	// ErrNoEntry indicates the entry label is not defined
	ErrNoEntry = errors.New("entry label not found")
)

// Program is assembled code with its label table
type Program struct {
	Code   []asm.Instruction
	Lines  []int          // source line of each instruction
	Labels map[string]int // label -> index into Code
}

// Assemble parses assembly text. Directives are accepted and ignored.
func Assemble(text string) (*Program, error) {
	prog := &Program{Labels: map[string]int{}}
	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(stripComment(raw))
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, ":") {
			label := strings.TrimSuffix(line, ":")
			if _, dup := prog.Labels[label]; dup {
				return nil, fmt.Errorf("line %d: duplicate label %q", lineNo, label)
			}
			prog.Labels[label] = len(prog.Code)
			continue
		}
		if strings.HasPrefix(line, ".") {
			continue
		}
		inst, err := parseInstruction(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		prog.Code = append(prog.Code, inst)
		prog.Lines = append(prog.Lines, lineNo)
	}
	return prog, nil
}

func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}

func parseInstruction(line string) (asm.Instruction, error) {
	mnemonic, rest := line, ""
	if idx := strings.IndexAny(line, " \t"); idx >= 0 {
		mnemonic, rest = line[:idx], line[idx+1:]
	}
	var ops []string
	if rest = strings.TrimSpace(rest); rest != "" {
		for _, op := range strings.Split(rest, ",") {
			ops = append(ops, strings.TrimSpace(op))
		}
	}
	p := operandParser{ops: ops}

	var inst asm.Instruction
	switch strings.ToLower(mnemonic) {
	case "ret":
		inst = asm.RET{}
	case "li":
		inst = asm.LI{Rd: p.reg(0), Imm: p.imm(1)}
	case "mv":
		inst = asm.MV{Rd: p.reg(0), Rs: p.reg(1)}
	case "seqz":
		inst = asm.SEQZ{Rd: p.reg(0), Rs: p.reg(1)}
	case "snez":
		inst = asm.SNEZ{Rd: p.reg(0), Rs: p.reg(1)}
	case "add":
		inst = asm.ADD{Rd: p.reg(0), Rs1: p.reg(1), Rs2: p.reg(2)}
	case "sub":
		inst = asm.SUB{Rd: p.reg(0), Rs1: p.reg(1), Rs2: p.reg(2)}
	case "mul":
		inst = asm.MUL{Rd: p.reg(0), Rs1: p.reg(1), Rs2: p.reg(2)}
	case "div":
		inst = asm.DIV{Rd: p.reg(0), Rs1: p.reg(1), Rs2: p.reg(2)}
	case "rem":
		inst = asm.REM{Rd: p.reg(0), Rs1: p.reg(1), Rs2: p.reg(2)}
	case "slt":
		inst = asm.SLT{Rd: p.reg(0), Rs1: p.reg(1), Rs2: p.reg(2)}
	case "and":
		inst = asm.AND{Rd: p.reg(0), Rs1: p.reg(1), Rs2: p.reg(2)}
	case "or":
		inst = asm.OR{Rd: p.reg(0), Rs1: p.reg(1), Rs2: p.reg(2)}
	case "addi":
		inst = asm.ADDI{Rd: p.reg(0), Rs: p.reg(1), Imm: p.imm12(2)}
	case "lw":
		off, base := p.mem(1)
		inst = asm.LW{Rd: p.reg(0), Base: base, Offset: off}
	case "sw":
		off, base := p.mem(1)
		inst = asm.SW{Rs: p.reg(0), Base: base, Offset: off}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownInstruction, mnemonic)
	}
	if p.err == nil && len(ops) != p.used {
		p.err = fmt.Errorf("%w: %s takes %d operands, got %d", ErrBadOperand, mnemonic, p.used, len(ops))
	}
	if p.err != nil {
		return nil, p.err
	}
	return inst, nil
}

// operandParser reads operands by index and keeps the first error
type operandParser struct {
	ops  []string
	used int
	err  error
}

func (p *operandParser) get(i int) (string, bool) {
	if i+1 > p.used {
		p.used = i + 1
	}
	if i >= len(p.ops) {
		p.fail("missing operand %d", i+1)
		return "", false
	}
	return p.ops[i], true
}

func (p *operandParser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s", ErrBadOperand, fmt.Sprintf(format, args...))
	}
}

func (p *operandParser) reg(i int) asm.Reg {
	s, ok := p.get(i)
	if !ok {
		return 0
	}
	r, ok := asm.LookupReg(s)
	if !ok {
		p.fail("unknown register %q", s)
	}
	return r
}

func (p *operandParser) imm(i int) int32 {
	s, ok := p.get(i)
	if !ok {
		return 0
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil || v < -1<<31 || v > 1<<32-1 {
		p.fail("bad immediate %q", s)
		return 0
	}
	return int32(v)
}

func (p *operandParser) imm12(i int) int32 {
	v := p.imm(i)
	if v < asm.Imm12Min || v > asm.Imm12Max {
		p.fail("immediate %d out of 12-bit range", v)
	}
	return v
}

// mem parses "off(base)"
func (p *operandParser) mem(i int) (int32, asm.Reg) {
	s, ok := p.get(i)
	if !ok {
		return 0, 0
	}
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		p.fail("bad memory operand %q", s)
		return 0, 0
	}
	offText := s[:open]
	if offText == "" {
		offText = "0"
	}
	off, err := strconv.ParseInt(offText, 0, 32)
	if err != nil || off < asm.Imm12Min || off > asm.Imm12Max {
		p.fail("bad offset in %q", s)
		return 0, 0
	}
	base, ok := asm.LookupReg(s[open+1 : len(s)-1])
	if !ok {
		p.fail("unknown base register in %q", s)
	}
	return int32(off), base
}
