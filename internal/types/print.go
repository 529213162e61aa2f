package types

import (
	"strconv"
	"strings"
)

// String renders t for diagnostics, e.g. "fn<A: Show, B>(int, A) -> B" or
// "tuple(int, bool)".
func (tb *Table) String(t Type) string {
	if t <= NoType || int(t) >= len(tb.recs) {
		return "<no type>"
	}
	var sb strings.Builder
	tb.write(&sb, tb.Find(t))
	return sb.String()
}

func (tb *Table) write(sb *strings.Builder, t Type) {
	t = tb.Find(t)
	r := tb.recs[t]
	switch r.kind {
	case KindError:
		sb.WriteString("<type error>")
	case KindPrimitive:
		sb.WriteString(r.prim.String())
	case KindVar:
		sb.WriteString(tb.varName(t))
	case KindFunction:
		sb.WriteString("fn")
		tb.writeBinders(sb, r.bound)
		tb.writeList(sb, r.operands[:len(r.operands)-1])
		sb.WriteString(" -> ")
		tb.write(sb, r.operands[len(r.operands)-1])
	case KindTuple:
		sb.WriteString("tuple")
		tb.writeBinders(sb, r.bound)
		tb.writeList(sb, r.operands)
	default:
		sb.WriteString("<invalid>")
	}
}

func (tb *Table) writeBinders(sb *strings.Builder, vars []Type) {
	if len(vars) == 0 {
		return
	}
	sb.WriteByte('<')
	for i, v := range vars {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(tb.varName(v))
		for j, tr := range tb.Bounds(v) {
			if j == 0 {
				sb.WriteString(": ")
			} else {
				sb.WriteString(" + ")
			}
			sb.WriteString(tr.name)
		}
	}
	sb.WriteByte('>')
}

func (tb *Table) writeList(sb *strings.Builder, ts []Type) {
	sb.WriteByte('(')
	for i, t := range ts {
		if i > 0 {
			sb.WriteString(", ")
		}
		tb.write(sb, t)
	}
	sb.WriteByte(')')
}

// varName returns the declared name of a variable. Anonymous variables
// are named A through Z by id, then Z26, Z27 and so on.
func (tb *Table) varName(v Type) string {
	r := tb.recs[tb.Find(v)]
	if r.name != "" {
		return r.name
	}
	id := r.id
	if id < 26 {
		return string(rune('A' + id))
	}
	return "Z" + strconv.Itoa(id)
}
