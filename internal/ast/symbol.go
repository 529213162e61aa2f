package ast

import "golang.org/x/text/unicode/norm"

// Symbol is an identifier name in Unicode normalization form C. Two
// identifiers that render identically compare equal as symbols.
type Symbol string

// NewSymbol normalizes name into a Symbol.
func NewSymbol(name string) Symbol {
	return Symbol(norm.NFC.String(name))
}

func (s Symbol) String() string { return string(s) }
