package koopa

import "errors"

// ErrDivisionByZero is returned when folding a division or modulo by zero
var ErrDivisionByZero = errors.New("division by zero")

// BinaryOp is a Koopa binary operator
type BinaryOp int

const (
	NotEq BinaryOp = iota
	Eq
	Gt
	Lt
	Ge
	Le
	Add
	Sub
	Mul
	Div
	Mod
	And
	Or
)

var binaryOpNames = []string{
	"ne", "eq", "gt", "lt", "ge", "le",
	"add", "sub", "mul", "div", "mod", "and", "or",
}

func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// Eval computes l op r with 32-bit two's-complement semantics.
// Comparisons yield 0 or 1; div and mod truncate toward zero.
func (op BinaryOp) Eval(l, r int32) (int32, error) {
	switch op {
	case NotEq:
		return b2i(l != r), nil
	case Eq:
		return b2i(l == r), nil
	case Gt:
		return b2i(l > r), nil
	case Lt:
		return b2i(l < r), nil
	case Ge:
		return b2i(l >= r), nil
	case Le:
		return b2i(l <= r), nil
	case Add:
		return l + r, nil
	case Sub:
		return l - r, nil
	case Mul:
		return l * r, nil
	case Div:
		if r == 0 {
			return 0, ErrDivisionByZero
		}
		return l / r, nil
	case Mod:
		if r == 0 {
			return 0, ErrDivisionByZero
		}
		return l % r, nil
	case And:
		return l & r, nil
	case Or:
		return l | r, nil
	}
	return 0, errors.New("unknown binary operator " + op.String())
}

func b2i(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
