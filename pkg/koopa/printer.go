package koopa

import (
	"fmt"
	"io"
	"strings"
)

// Printer outputs a Koopa program in text form
type Printer struct {
	w io.Writer
}

// NewPrinter creates a new Koopa printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintProgram prints every function, separated by a blank line
func (p *Printer) PrintProgram(prog *Program) {
	for i, fn := range prog.Funcs {
		if i > 0 {
			fmt.Fprintln(p.w)
		}
		p.PrintFunction(fn)
	}
}

// PrintFunction prints one function. Unnamed results are numbered %0, %1, ...
// in layout order.
func (p *Printer) PrintFunction(fn *Function) {
	names := numberValues(fn)

	fmt.Fprintf(p.w, "fun %s(): %s {\n", fn.Name, fn.Ret)
	for _, bb := range fn.Layout {
		data := fn.DFG.BB(bb)
		fmt.Fprintf(p.w, "%s:\n", data.Name)
		for _, inst := range data.Insts {
			fmt.Fprintf(p.w, "  %s\n", formatInst(fn.DFG, names, inst))
		}
	}
	fmt.Fprintln(p.w, "}")
}

// String renders the program as Koopa text
func (prog *Program) String() string {
	var sb strings.Builder
	NewPrinter(&sb).PrintProgram(prog)
	return sb.String()
}

func numberValues(fn *Function) map[Value]string {
	names := make(map[Value]string)
	next := 0
	for _, bb := range fn.Layout {
		for _, inst := range fn.DFG.BB(bb).Insts {
			data := fn.DFG.Value(inst)
			if !data.HasResult() {
				continue
			}
			if data.Name != "" {
				names[inst] = data.Name
				continue
			}
			names[inst] = fmt.Sprintf("%%%d", next)
			next++
		}
	}
	return names
}

func formatInst(g *DataFlowGraph, names map[Value]string, v Value) string {
	operand := func(o Value) string {
		if k, ok := g.Value(o).Kind.(Integer); ok {
			return fmt.Sprintf("%d", k.Value)
		}
		if n, ok := names[o]; ok {
			return n
		}
		return "%?"
	}

	data := g.Value(v)
	switch k := data.Kind.(type) {
	case Binary:
		return fmt.Sprintf("%s = %s %s, %s", names[v], k.Op, operand(k.LHS), operand(k.RHS))
	case Alloc:
		return fmt.Sprintf("%s = alloc i32", names[v])
	case Load:
		return fmt.Sprintf("%s = load %s", names[v], operand(k.Src))
	case Store:
		return fmt.Sprintf("store %s, %s", operand(k.Value), operand(k.Dest))
	case Return:
		if k.Value == nil {
			return "ret"
		}
		return "ret " + operand(*k.Value)
	case Integer:
		return fmt.Sprintf("%d", k.Value)
	}
	return "???"
}
