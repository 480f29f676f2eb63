package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer renders the AST back to SysY source
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new AST printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// PrintCompUnit prints a complete translation unit
func (p *Printer) PrintCompUnit(cu *CompUnit) {
	f := cu.FuncDef
	fmt.Fprintf(p.w, "%s %s()\n", f.FuncType, f.Ident)
	p.printBlock(&f.Block)
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}

func (p *Printer) printBlock(b *Block) {
	p.writeIndent()
	fmt.Fprintln(p.w, "{")
	p.indent++
	for _, item := range b.Items {
		p.printBlockItem(item)
	}
	p.indent--
	p.writeIndent()
	fmt.Fprintln(p.w, "}")
}

func (p *Printer) printBlockItem(item BlockItem) {
	p.writeIndent()
	switch it := item.(type) {
	case ConstDecl:
		fmt.Fprint(p.w, "const int ")
		for i, d := range it.Defs {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			fmt.Fprintf(p.w, "%s = ", d.Ident)
			p.PrintExp(d.Value)
		}
	case VarDecl:
		fmt.Fprint(p.w, "int ")
		for i, d := range it.Defs {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			fmt.Fprint(p.w, d.Ident)
			if d.Init != nil {
				fmt.Fprint(p.w, " = ")
				p.PrintExp(d.Init)
			}
		}
	case Assign:
		fmt.Fprintf(p.w, "%s = ", it.LVal.Ident)
		p.PrintExp(it.Exp)
	case Return:
		fmt.Fprint(p.w, "return ")
		p.PrintExp(it.Exp)
	default:
		fmt.Fprintf(p.w, "/* unknown item %T */", item)
	}
	fmt.Fprintln(p.w, ";")
}

// PrintExp prints an expression exactly as parenthesized in the source
func (p *Printer) PrintExp(e Exp) {
	switch x := e.(type) {
	case LOr:
		p.printBinary(x.Left, "||", x.Right)
	case LAnd:
		p.printBinary(x.Left, "&&", x.Right)
	case Eq:
		p.printBinary(x.Left, x.Op.String(), x.Right)
	case Rel:
		p.printBinary(x.Left, x.Op.String(), x.Right)
	case Add:
		p.printBinary(x.Left, x.Op.String(), x.Right)
	case Mul:
		p.printBinary(x.Left, x.Op.String(), x.Right)
	case Unary:
		fmt.Fprint(p.w, x.Op.String())
		p.PrintExp(x.X)
	case Paren:
		fmt.Fprint(p.w, "(")
		p.PrintExp(x.X)
		fmt.Fprint(p.w, ")")
	case LVal:
		fmt.Fprint(p.w, x.Ident)
	case Number:
		fmt.Fprintf(p.w, "%d", x.Value)
	default:
		fmt.Fprintf(p.w, "/* unknown expression %T */", e)
	}
}

func (p *Printer) printBinary(left Exp, op string, right Exp) {
	p.PrintExp(left)
	fmt.Fprintf(p.w, " %s ", op)
	p.PrintExp(right)
}
