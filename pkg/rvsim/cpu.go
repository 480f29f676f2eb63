package rvsim

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/raymyers/sysyc/pkg/asm"
)

var (
	// ErrMemoryFault indicates a load or store outside memory or not word aligned
	ErrMemoryFault = errors.New("memory fault")
	// ErrRanOffEnd indicates the program counter left the code without a ret
	ErrRanOffEnd = errors.New("execution ran past the last instruction")
	// ErrStepLimit indicates the instruction budget ran out
	ErrStepLimit = errors.New("step limit exceeded")
)

const (
	// DefaultMemSize is the memory given to a CPU by Run, in bytes
	DefaultMemSize = 64 * 1024
	// DefaultMaxSteps is the instruction budget of a new CPU
	DefaultMaxSteps = 1 << 20
)

// CPU is the machine state. Regs is indexed by asm.Reg, so x0 is Regs[0].
type CPU struct {
	Regs     [asm.SP + 1]int32
	PC       int
	Memory   []byte
	Halted   bool
	Steps    int
	MaxSteps int

	prog *Program
}

// NewCPU creates a CPU with memSize bytes of memory and sp at the top.
func NewCPU(prog *Program, memSize int) *CPU {
	c := &CPU{
		Memory:   make([]byte, memSize),
		MaxSteps: DefaultMaxSteps,
		prog:     prog,
	}
	c.Regs[asm.SP] = int32(memSize)
	return c
}

func (c *CPU) get(r asm.Reg) int32 {
	if r == asm.X0 {
		return 0
	}
	return c.Regs[r]
}

func (c *CPU) set(r asm.Reg, v int32) {
	if r != asm.X0 {
		c.Regs[r] = v
	}
}

func (c *CPU) addr(base asm.Reg, off int32) (int, error) {
	a := int(c.get(base)) + int(off)
	if a < 0 || a+4 > len(c.Memory) || a%4 != 0 {
		return 0, fmt.Errorf("%w: address %d", ErrMemoryFault, a)
	}
	return a, nil
}

// Step executes one instruction.
func (c *CPU) Step() error {
	if c.Halted {
		return nil
	}
	if c.PC < 0 || c.PC >= len(c.prog.Code) {
		return ErrRanOffEnd
	}
	if c.Steps >= c.MaxSteps {
		return ErrStepLimit
	}
	c.Steps++

	inst := c.prog.Code[c.PC]
	c.PC++

	switch i := inst.(type) {
	case asm.RET:
		c.Halted = true
	case asm.LI:
		c.set(i.Rd, i.Imm)
	case asm.MV:
		c.set(i.Rd, c.get(i.Rs))
	case asm.SEQZ:
		c.set(i.Rd, b2i(c.get(i.Rs) == 0))
	case asm.SNEZ:
		c.set(i.Rd, b2i(c.get(i.Rs) != 0))
	case asm.ADD:
		c.set(i.Rd, c.get(i.Rs1)+c.get(i.Rs2))
	case asm.SUB:
		c.set(i.Rd, c.get(i.Rs1)-c.get(i.Rs2))
	case asm.MUL:
		c.set(i.Rd, c.get(i.Rs1)*c.get(i.Rs2))
	case asm.DIV:
		c.set(i.Rd, div(c.get(i.Rs1), c.get(i.Rs2)))
	case asm.REM:
		c.set(i.Rd, rem(c.get(i.Rs1), c.get(i.Rs2)))
	case asm.SLT:
		c.set(i.Rd, b2i(c.get(i.Rs1) < c.get(i.Rs2)))
	case asm.AND:
		c.set(i.Rd, c.get(i.Rs1)&c.get(i.Rs2))
	case asm.OR:
		c.set(i.Rd, c.get(i.Rs1)|c.get(i.Rs2))
	case asm.ADDI:
		c.set(i.Rd, c.get(i.Rs)+i.Imm)
	case asm.LW:
		a, err := c.addr(i.Base, i.Offset)
		if err != nil {
			return c.fault(err)
		}
		c.set(i.Rd, int32(binary.LittleEndian.Uint32(c.Memory[a:])))
	case asm.SW:
		a, err := c.addr(i.Base, i.Offset)
		if err != nil {
			return c.fault(err)
		}
		binary.LittleEndian.PutUint32(c.Memory[a:], uint32(c.get(i.Rs)))
	default:
		return c.fault(fmt.Errorf("%w %T", ErrUnknownInstruction, inst))
	}
	return nil
}

func (c *CPU) fault(err error) error {
	return fmt.Errorf("line %d: %w", c.prog.Lines[c.PC-1], err)
}

// RunFrom executes from the given label until ret.
func (c *CPU) RunFrom(entry string) error {
	pc, ok := c.prog.Labels[entry]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoEntry, entry)
	}
	c.PC = pc
	for !c.Halted {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Run assembles text, executes main and returns a0.
func Run(text string) (int32, error) {
	prog, err := Assemble(text)
	if err != nil {
		return 0, err
	}
	c := NewCPU(prog, DefaultMemSize)
	if err := c.RunFrom("main"); err != nil {
		return 0, err
	}
	return c.Regs[asm.A0], nil
}

// div and rem follow the M extension: no traps on zero or overflow
func div(l, r int32) int32 {
	switch {
	case r == 0:
		return -1
	case l == math.MinInt32 && r == -1:
		return l
	}
	return l / r
}

func rem(l, r int32) int32 {
	switch {
	case r == 0:
		return l
	case l == math.MinInt32 && r == -1:
		return 0
	}
	return l % r
}

func b2i(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
