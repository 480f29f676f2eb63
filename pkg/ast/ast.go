// Package ast defines the abstract syntax tree for the SysY subset.
//
// Expressions follow the grammar's precedence layering. Each level is an
// interface embedding the level above it, so a node of a tighter-binding level
// can stand wherever a looser one is expected:
//
//	LOrExp ⊃ LAndExp ⊃ EqExp ⊃ RelExp ⊃ AddExp ⊃ MulExp ⊃ UnaryExp ⊃ PrimaryExp
//
// Consumers lower expressions with a single exhaustive type switch over the
// concrete node types.
package ast

// Pos is a source position (1-based).
type Pos struct {
	Line   int
	Column int
}

// Node is the base interface for all AST nodes
type Node interface {
	implNode()
}

// CompUnit is the root of a translation unit
type CompUnit struct {
	FuncDef FuncDef
}

// FuncType is the return type of a function
type FuncType int

const (
	FuncInt FuncType = iota
)

func (t FuncType) String() string {
	switch t {
	case FuncInt:
		return "int"
	}
	return "?"
}

// FuncDef is a function definition
type FuncDef struct {
	FuncType FuncType
	Ident    string
	Block    Block
	Pos      Pos
}

// Block is a braced sequence of declarations and statements
type Block struct {
	Items []BlockItem
}

// BlockItem is either a Decl or a Stmt
type BlockItem interface {
	Node
	implBlockItem()
}

// Decl is either a ConstDecl or a VarDecl
type Decl interface {
	BlockItem
	implDecl()
}

// ConstDecl declares one or more compile-time constants: const int a = 1, b = 2;
type ConstDecl struct {
	Defs []ConstDef
}

// ConstDef binds an identifier to a constant expression
type ConstDef struct {
	Ident string
	Value Exp
	Pos   Pos
}

// VarDecl declares one or more variables: int a, b = 2;
type VarDecl struct {
	Defs []VarDef
}

// VarDef declares a variable with an optional initializer (Init is nil when absent)
type VarDef struct {
	Ident string
	Init  Exp
	Pos   Pos
}

// Stmt is either an Assign or a Return
type Stmt interface {
	BlockItem
	implStmt()
}

// Assign stores an expression into a variable: LVal = Exp;
type Assign struct {
	LVal LVal
	Exp  Exp
}

// Return returns an expression from the function
type Return struct {
	Exp Exp
	Pos Pos
}

func (ConstDecl) implNode()      {}
func (ConstDecl) implBlockItem() {}
func (ConstDecl) implDecl()      {}
func (VarDecl) implNode()        {}
func (VarDecl) implBlockItem()   {}
func (VarDecl) implDecl()        {}
func (Assign) implNode()         {}
func (Assign) implBlockItem()    {}
func (Assign) implStmt()         {}
func (Return) implNode()         {}
func (Return) implBlockItem()    {}
func (Return) implStmt()         {}

// --- Expressions ---

// Exp is a full expression
type Exp = LOrExp

// LOrExp: LAndExp | LOrExp "||" LAndExp
type LOrExp interface {
	Node
	implLOrExp()
}

// LAndExp: EqExp | LAndExp "&&" EqExp
type LAndExp interface {
	LOrExp
	implLAndExp()
}

// EqExp: RelExp | EqExp ("==" | "!=") RelExp
type EqExp interface {
	LAndExp
	implEqExp()
}

// RelExp: AddExp | RelExp ("<" | ">" | "<=" | ">=") AddExp
type RelExp interface {
	EqExp
	implRelExp()
}

// AddExp: MulExp | AddExp ("+" | "-") MulExp
type AddExp interface {
	RelExp
	implAddExp()
}

// MulExp: UnaryExp | MulExp ("*" | "/" | "%") UnaryExp
type MulExp interface {
	AddExp
	implMulExp()
}

// UnaryExp: PrimaryExp | UnaryOp UnaryExp
type UnaryExp interface {
	MulExp
	implUnaryExp()
}

// PrimaryExp: "(" Exp ")" | LVal | Number
type PrimaryExp interface {
	UnaryExp
	implPrimaryExp()
}

// EqOp represents equality operators
type EqOp int

const (
	OpEq EqOp = iota // ==
	OpNe             // !=
)

func (op EqOp) String() string {
	names := []string{"==", "!="}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// RelOp represents relational operators
type RelOp int

const (
	OpLt RelOp = iota // <
	OpLe              // <=
	OpGt              // >
	OpGe              // >=
)

func (op RelOp) String() string {
	names := []string{"<", "<=", ">", ">="}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// AddOp represents additive operators
type AddOp int

const (
	OpAdd AddOp = iota // +
	OpSub              // -
)

func (op AddOp) String() string {
	names := []string{"+", "-"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// MulOp represents multiplicative operators
type MulOp int

const (
	OpMul MulOp = iota // *
	OpDiv              // /
	OpMod              // %
)

func (op MulOp) String() string {
	names := []string{"*", "/", "%"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// UnaryOp represents unary operators
type UnaryOp int

const (
	OpPlus  UnaryOp = iota // +
	OpMinus                // -
	OpNot                  // !
)

func (op UnaryOp) String() string {
	names := []string{"+", "-", "!"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

// LOr is a logical-or expression
type LOr struct {
	Left  LOrExp
	Right LAndExp
}

// LAnd is a logical-and expression
type LAnd struct {
	Left  LAndExp
	Right EqExp
}

// Eq is an equality comparison
type Eq struct {
	Left  EqExp
	Op    EqOp
	Right RelExp
}

// Rel is a relational comparison
type Rel struct {
	Left  RelExp
	Op    RelOp
	Right AddExp
}

// Add is an additive expression
type Add struct {
	Left  AddExp
	Op    AddOp
	Right MulExp
}

// Mul is a multiplicative expression
type Mul struct {
	Left  MulExp
	Op    MulOp
	Right UnaryExp
}

// Unary applies a unary operator
type Unary struct {
	Op UnaryOp
	X  UnaryExp
}

// Paren is a parenthesized expression
type Paren struct {
	X Exp
}

// LVal references a named constant or variable
type LVal struct {
	Ident string
	Pos   Pos
}

// Number is an integer literal
type Number struct {
	Value int32
}

func (LOr) implNode()     {}
func (LOr) implLOrExp()   {}
func (LAnd) implNode()    {}
func (LAnd) implLOrExp()  {}
func (LAnd) implLAndExp() {}

func (Eq) implNode()        {}
func (Eq) implLOrExp()      {}
func (Eq) implLAndExp()     {}
func (Eq) implEqExp()       {}
func (Rel) implNode()       {}
func (Rel) implLOrExp()     {}
func (Rel) implLAndExp()    {}
func (Rel) implEqExp()      {}
func (Rel) implRelExp()     {}
func (Add) implNode()       {}
func (Add) implLOrExp()     {}
func (Add) implLAndExp()    {}
func (Add) implEqExp()      {}
func (Add) implRelExp()     {}
func (Add) implAddExp()     {}
func (Mul) implNode()       {}
func (Mul) implLOrExp()     {}
func (Mul) implLAndExp()    {}
func (Mul) implEqExp()      {}
func (Mul) implRelExp()     {}
func (Mul) implAddExp()     {}
func (Mul) implMulExp()     {}
func (Unary) implNode()     {}
func (Unary) implLOrExp()   {}
func (Unary) implLAndExp()  {}
func (Unary) implEqExp()    {}
func (Unary) implRelExp()   {}
func (Unary) implAddExp()   {}
func (Unary) implMulExp()   {}
func (Unary) implUnaryExp() {}

func (Paren) implNode()        {}
func (Paren) implLOrExp()      {}
func (Paren) implLAndExp()     {}
func (Paren) implEqExp()       {}
func (Paren) implRelExp()      {}
func (Paren) implAddExp()      {}
func (Paren) implMulExp()      {}
func (Paren) implUnaryExp()    {}
func (Paren) implPrimaryExp()  {}
func (LVal) implNode()         {}
func (LVal) implLOrExp()       {}
func (LVal) implLAndExp()      {}
func (LVal) implEqExp()        {}
func (LVal) implRelExp()       {}
func (LVal) implAddExp()       {}
func (LVal) implMulExp()       {}
func (LVal) implUnaryExp()     {}
func (LVal) implPrimaryExp()   {}
func (Number) implNode()       {}
func (Number) implLOrExp()     {}
func (Number) implLAndExp()    {}
func (Number) implEqExp()      {}
func (Number) implRelExp()     {}
func (Number) implAddExp()     {}
func (Number) implMulExp()     {}
func (Number) implUnaryExp()   {}
func (Number) implPrimaryExp() {}
