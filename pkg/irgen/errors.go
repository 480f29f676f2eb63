package irgen

import (
	"errors"
	"fmt"

	"github.com/raymyers/sysyc/pkg/ast"
)

var (
	// ErrUndefined indicates a use of an identifier that was never declared
	ErrUndefined = errors.New("undefined identifier")
	// ErrRedeclared indicates a second declaration of the same identifier
	ErrRedeclared = errors.New("identifier redeclared")
	// ErrNotConstant indicates a const initializer that reads a variable
	ErrNotConstant = errors.New("not a constant expression")
	// ErrAssignToConst indicates an assignment whose target is a constant
	ErrAssignToConst = errors.New("assignment to constant")
)

// SemanticError locates a lowering failure at an identifier in the source.
// Err is one of the sentinels above or koopa.ErrDivisionByZero.
type SemanticError struct {
	Pos   ast.Pos
	Ident string
	Err   error
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s: %v", e.Pos.Line, e.Pos.Column, e.Ident, e.Err)
}

func (e *SemanticError) Unwrap() error {
	return e.Err
}

func semanticError(pos ast.Pos, ident string, err error) error {
	var se *SemanticError
	if errors.As(err, &se) {
		return err
	}
	return &SemanticError{Pos: pos, Ident: ident, Err: err}
}
