// Package lexer tokenizes SysY source text.
package lexer

import (
	"unicode"
)

// Lexer tokenizes SysY source code
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // next reading position
	ch      byte // current character
	line    int
	column  int
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	tok := Token{Line: l.line, Column: l.column}

	switch l.ch {
	case 0:
		tok.Type = TokenEOF
		tok.Literal = ""
		return tok
	case '+':
		tok = l.newToken(TokenPlus, "+")
	case '-':
		tok = l.newToken(TokenMinus, "-")
	case '*':
		tok = l.newToken(TokenStar, "*")
	case '/':
		tok = l.newToken(TokenSlash, "/")
	case '%':
		tok = l.newToken(TokenPercent, "%")
	case '=':
		tok = l.twoCharToken('=', TokenEq, TokenAssign)
	case '!':
		tok = l.twoCharToken('=', TokenNe, TokenNot)
	case '<':
		tok = l.twoCharToken('=', TokenLe, TokenLt)
	case '>':
		tok = l.twoCharToken('=', TokenGe, TokenGt)
	case '&':
		tok = l.twoCharToken('&', TokenAnd, TokenIllegal)
	case '|':
		tok = l.twoCharToken('|', TokenOr, TokenIllegal)
	case '(':
		tok = l.newToken(TokenLParen, "(")
	case ')':
		tok = l.newToken(TokenRParen, ")")
	case '{':
		tok = l.newToken(TokenLBrace, "{")
	case '}':
		tok = l.newToken(TokenRBrace, "}")
	case ';':
		tok = l.newToken(TokenSemicolon, ";")
	case ',':
		tok = l.newToken(TokenComma, ",")
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok
		} else if isDigit(l.ch) {
			tok.Type = TokenInt
			tok.Literal = l.readNumber()
			return tok
		}
		tok = l.newToken(TokenIllegal, string(l.ch))
	}

	l.readChar()
	return tok
}

func (l *Lexer) newToken(tokenType TokenType, lit string) Token {
	return Token{Type: tokenType, Literal: lit, Line: l.line, Column: l.column}
}

// twoCharToken consumes a one- or two-character operator whose second
// character is next.
func (l *Lexer) twoCharToken(next byte, double, single TokenType) Token {
	if l.peekChar() == next {
		tok := l.newToken(double, string([]byte{l.ch, next}))
		l.readChar()
		return tok
	}
	return l.newToken(single, string(l.ch))
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch != '/' {
			return
		}
		switch l.peekChar() {
		case '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case '*':
			l.readChar() // consume /
			l.readChar() // consume *
			for l.ch != 0 && !(l.ch == '*' && l.peekChar() == '/') {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar() // consume *
				l.readChar() // consume /
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

// readNumber reads decimal, octal (leading 0) and hex (0x) literals.
// Validation of the digits is left to the parser.
func (l *Lexer) readNumber() string {
	pos := l.pos
	for isDigit(l.ch) || isLetter(l.ch) {
		l.readChar()
	}
	return l.input[pos:l.pos]
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
