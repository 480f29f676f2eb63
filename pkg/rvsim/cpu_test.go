package rvsim

import (
	"errors"
	"math"
	"testing"

	"github.com/raymyers/sysyc/pkg/asm"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected int32
	}{
		{"Li", "  .text\n  .global main\nmain:\n  li a0, 7\n  ret\n", 7},
		{"Mv", "main:\n  li t0, -3\n  mv a0, t0\n  ret\n", -3},
		{"Add", "main:\n  li t0, 2\n  li t1, 3\n  add a0, t0, t1\n  ret\n", 5},
		{"Sub", "main:\n  li t0, 2\n  li t1, 3\n  sub a0, t0, t1\n  ret\n", -1},
		{"Mul", "main:\n  li t0, -4\n  li t1, 3\n  mul a0, t0, t1\n  ret\n", -12},
		{"Div_Truncates", "main:\n  li t0, -7\n  li t1, 2\n  div a0, t0, t1\n  ret\n", -3},
		{"Rem_Truncates", "main:\n  li t0, -7\n  li t1, 2\n  rem a0, t0, t1\n  ret\n", -1},
		{"Slt_True", "main:\n  li t0, 1\n  li t1, 2\n  slt a0, t0, t1\n  ret\n", 1},
		{"Slt_False", "main:\n  li t0, 2\n  li t1, 2\n  slt a0, t0, t1\n  ret\n", 0},
		{"Seqz", "main:\n  li t0, 0\n  seqz a0, t0\n  ret\n", 1},
		{"Snez", "main:\n  li t0, 9\n  snez a0, t0\n  ret\n", 1},
		{"And", "main:\n  li t0, 6\n  li t1, 3\n  and a0, t0, t1\n  ret\n", 2},
		{"Or", "main:\n  li t0, 6\n  li t1, 3\n  or a0, t0, t1\n  ret\n", 7},
		{"Addi", "main:\n  li t0, 10\n  addi a0, t0, -3\n  ret\n", 7},
		{"Hex_Immediate", "main:\n  li a0, 0x10\n  ret\n", 16},
		{"X0_Reads_Zero", "main:\n  li x0, 5\n  mv a0, x0\n  ret\n", 0},
		{"Stack", "main:\n  addi sp, sp, -16\n  li t0, 42\n  sw t0, 4(sp)\n  lw a0, 4(sp)\n  addi sp, sp, 16\n  ret\n", 42},
		{"Comments", "main: \n  li a0, 1 # one\n  # nothing\n  ret\n", 1},
		{"Fall_Through_Label", "main:\n  li a0, 1\n.Lmain_bb1:\n  li a0, 2\n  ret\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Run(tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestDivisionFollowsMExtension(t *testing.T) {
	tests := []struct {
		name     string
		l, r     int32
		quotient int32
		rem      int32
	}{
		{"By_Zero", 7, 0, -1, 7},
		{"Negative_By_Zero", -7, 0, -1, -7},
		{"Overflow", math.MinInt32, -1, math.MinInt32, 0},
		{"Exact", 12, 4, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := div(tt.l, tt.r); got != tt.quotient {
				t.Errorf("div: expected %d, got %d", tt.quotient, got)
			}
			if got := rem(tt.l, tt.r); got != tt.rem {
				t.Errorf("rem: expected %d, got %d", tt.rem, got)
			}
		})
	}
}

func TestAssemble(t *testing.T) {
	prog, err := Assemble("  .text\n  .global main\nmain:\n  li a0, 1\n.L1:\n  lw t0, -4(sp)\n  ret\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(prog.Code) != 3 {
		t.Fatalf("Expected 3 instructions, got %d", len(prog.Code))
	}
	if prog.Labels["main"] != 0 || prog.Labels[".L1"] != 1 {
		t.Errorf("unexpected labels: %v", prog.Labels)
	}
	lw, ok := prog.Code[1].(asm.LW)
	if !ok || lw.Rd != asm.T0 || lw.Base != asm.SP || lw.Offset != -4 {
		t.Errorf("unexpected lw: %#v", prog.Code[1])
	}
	if prog.Lines[2] != 7 {
		t.Errorf("ret should be on line 7, got %d", prog.Lines[2])
	}
}

func TestAssembleRoundTripsFormat(t *testing.T) {
	insts := []asm.Instruction{
		asm.LI{Rd: asm.T0, Imm: -2048},
		asm.MV{Rd: asm.A0, Rs: asm.T6},
		asm.SEQZ{Rd: asm.A1, Rs: asm.A2},
		asm.SNEZ{Rd: asm.A3, Rs: asm.A4},
		asm.ADD{Rd: asm.A5, Rs1: asm.A6, Rs2: asm.A7},
		asm.SLT{Rd: asm.T1, Rs1: asm.T2, Rs2: asm.T3},
		asm.REM{Rd: asm.T4, Rs1: asm.T5, Rs2: asm.T6},
		asm.ADDI{Rd: asm.SP, Rs: asm.SP, Imm: 2032},
		asm.SW{Rs: asm.T0, Base: asm.SP, Offset: 8},
		asm.RET{},
	}
	for _, want := range insts {
		text := asm.Format(want)
		got, err := parseInstruction(text)
		if err != nil {
			t.Errorf("%s: %v", text, err)
			continue
		}
		if got != want {
			t.Errorf("%s: parsed %#v", text, got)
		}
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"Unknown_Mnemonic", "main:\n  jal foo\n", ErrUnknownInstruction},
		{"Xor_Not_In_Subset", "main:\n  xor a0, t0, t1\n", ErrUnknownInstruction},
		{"Unknown_Register", "main:\n  li s0, 1\n", ErrBadOperand},
		{"Missing_Operand", "main:\n  add t0, t1\n", ErrBadOperand},
		{"Extra_Operand", "main:\n  mv t0, t1, t2\n", ErrBadOperand},
		{"Imm12_Range", "main:\n  addi sp, sp, 4096\n", ErrBadOperand},
		{"Bad_Memory", "main:\n  lw t0, sp\n", ErrBadOperand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.src)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"No_Main", "start:\n  ret\n", ErrNoEntry},
		{"Ran_Off_End", "main:\n  li a0, 1\n", ErrRanOffEnd},
		{"Stack_Underflow", "main:\n  lw a0, 0(sp)\n  ret\n", ErrMemoryFault},
		{"Misaligned", "main:\n  addi sp, sp, -16\n  sw a0, 2(sp)\n  ret\n", ErrMemoryFault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(tt.src)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestStepLimit(t *testing.T) {
	prog, err := Assemble("main:\n  li a0, 1\n  li a0, 2\n  ret\n")
	if err != nil {
		t.Fatal(err)
	}
	c := NewCPU(prog, 64)
	c.MaxSteps = 2
	if err := c.RunFrom("main"); !errors.Is(err, ErrStepLimit) {
		t.Errorf("Expected ErrStepLimit, got %v", err)
	}
	if c.Steps != 2 {
		t.Errorf("Expected 2 steps, got %d", c.Steps)
	}
}
