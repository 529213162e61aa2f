package lexer

import "fmt"

// TokenType represents the type of a token.
type TokenType string

// Span represents a location in source code.
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // index in []rune or original string
	End      int    // exclusive end index
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Operator token constants. The syntax tree refers to operators by these
// values; the checker only cares about their classification.
const (
	ILLEGAL TokenType = "ILLEGAL"

	// Arithmetic and bitwise
	PLUS      TokenType = "+"
	MINUS     TokenType = "-"
	ASTERISK  TokenType = "*"
	SLASH     TokenType = "/"
	PERCENT   TokenType = "%"
	AMPERSAND TokenType = "&"
	PIPE      TokenType = "|"
	CARET     TokenType = "^"
	SHL       TokenType = "<<"
	SHR       TokenType = ">>"
	AND       TokenType = "&&"
	OR        TokenType = "||"

	// Unary
	BANG  TokenType = "!"
	TILDE TokenType = "~"
	INC   TokenType = "++"
	DEC   TokenType = "--"

	// Relational
	LT     TokenType = "<"
	GT     TokenType = ">"
	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LE     TokenType = "<="
	GE     TokenType = ">="

	// Assignment
	ASSIGN          TokenType = "="
	PLUS_ASSIGN     TokenType = "+="
	MINUS_ASSIGN    TokenType = "-="
	ASTERISK_ASSIGN TokenType = "*="
	SLASH_ASSIGN    TokenType = "/="
	PERCENT_ASSIGN  TokenType = "%="
	AND_ASSIGN      TokenType = "&="
	OR_ASSIGN       TokenType = "|="
	XOR_ASSIGN      TokenType = "^="
	SHL_ASSIGN      TokenType = "<<="
	SHR_ASSIGN      TokenType = ">>="
)

var infixOps = map[TokenType]bool{
	PLUS: true, MINUS: true, ASTERISK: true, SLASH: true, PERCENT: true,
	AMPERSAND: true, PIPE: true, CARET: true, SHL: true, SHR: true,
	AND: true, OR: true,
	LT: true, GT: true, EQ: true, NOT_EQ: true, LE: true, GE: true,
	ASSIGN: true, PLUS_ASSIGN: true, MINUS_ASSIGN: true, ASTERISK_ASSIGN: true,
	SLASH_ASSIGN: true, PERCENT_ASSIGN: true, AND_ASSIGN: true, OR_ASSIGN: true,
	XOR_ASSIGN: true, SHL_ASSIGN: true, SHR_ASSIGN: true,
}

// IsRelational reports whether op compares its operands and yields a bool.
func (t TokenType) IsRelational() bool {
	switch t {
	case LT, GT, EQ, NOT_EQ, LE, GE:
		return true
	}
	return false
}

// IsAssign reports whether op stores into its left operand.
func (t TokenType) IsAssign() bool {
	switch t {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, ASTERISK_ASSIGN, SLASH_ASSIGN,
		PERCENT_ASSIGN, AND_ASSIGN, OR_ASSIGN, XOR_ASSIGN, SHL_ASSIGN, SHR_ASSIGN:
		return true
	}
	return false
}

// IsInfix reports whether op may appear between two operands.
func (t TokenType) IsInfix() bool {
	return infixOps[t]
}

// IsPrefix reports whether op may precede a single operand.
func (t TokenType) IsPrefix() bool {
	switch t {
	case MINUS, PLUS, BANG, TILDE, INC, DEC:
		return true
	}
	return false
}

// IsPostfix reports whether op may follow a single operand.
func (t TokenType) IsPostfix() bool {
	return t == INC || t == DEC
}

// LookupOperator maps operator text to its token type, or ILLEGAL.
func LookupOperator(text string) TokenType {
	t := TokenType(text)
	if t.IsInfix() || t.IsPrefix() {
		return t
	}
	return ILLEGAL
}
