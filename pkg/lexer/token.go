package lexer

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal

	// Literals
	TokenIdent // main, foo, x
	TokenInt   // 42, 0x2a, 052

	// Keywords
	TokenInt_   // int
	TokenConst  // const
	TokenReturn // return

	// Operators
	TokenPlus    // +
	TokenMinus   // -
	TokenStar    // *
	TokenSlash   // /
	TokenPercent // %
	TokenAssign  // =
	TokenEq      // ==
	TokenNe      // !=
	TokenLt      // <
	TokenLe      // <=
	TokenGt      // >
	TokenGe      // >=
	TokenAnd     // &&
	TokenOr      // ||
	TokenNot     // !

	// Delimiters
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenSemicolon // ;
	TokenComma     // ,
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenIllegal:   "ILLEGAL",
	TokenIdent:     "IDENT",
	TokenInt:       "INT",
	TokenInt_:      "int",
	TokenConst:     "const",
	TokenReturn:    "return",
	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenStar:      "*",
	TokenSlash:     "/",
	TokenPercent:   "%",
	TokenAssign:    "=",
	TokenEq:        "==",
	TokenNe:        "!=",
	TokenLt:        "<",
	TokenLe:        "<=",
	TokenGt:        ">",
	TokenGe:        ">=",
	TokenAnd:       "&&",
	TokenOr:        "||",
	TokenNot:       "!",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenSemicolon: ";",
	TokenComma:     ",",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// keywords maps keyword strings to token types
var keywords = map[string]TokenType{
	"int":    TokenInt_,
	"const":  TokenConst,
	"return": TokenReturn,
}

// LookupIdent returns the token type for an identifier (keyword or IDENT)
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}
