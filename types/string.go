package types

import (
	"strconv"
	"strings"
)

func (n Prim) String() string {
	switch n {
	case Unit:
		return "Unit"
	case Int:
		return "Int"
	case BigInt:
		return "BigInt"
	case Double:
		return "Double"
	case Bool:
		return "Bool"
	case String:
		return "String"
	case Qubit:
		return "Qubit"
	case Result:
		return "Result"
	case Pauli:
		return "Pauli"
	case Range:
		return "Range"
	default:
		panic("impossible primitive " + strconv.Itoa(int(n)))
	}
}

func (n Array) String() string {
	return n.Item.String() + "[]"
}

func (n Tuple) String() string {
	var s strings.Builder
	s.WriteRune('(')
	for i, it := range n.Items {
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(it.String())
	}
	s.WriteRune(')')
	return s.String()
}

func (n UDT) String() string { return n.Name }

func (n Fun) String() string {
	var s strings.Builder
	s.WriteRune('(')
	s.WriteString(n.Arg.String())
	s.WriteString(" -> ")
	s.WriteString(n.Ret.String())
	s.WriteRune(')')
	return s.String()
}

func (n Op) String() string {
	var s strings.Builder
	s.WriteRune('(')
	s.WriteString(n.Arg.String())
	s.WriteString(" => ")
	s.WriteString(n.Ret.String())
	switch {
	case n.Info.Adj && n.Info.Ctl:
		s.WriteString(" is Adj + Ctl")
	case n.Info.Adj:
		s.WriteString(" is Adj")
	case n.Info.Ctl:
		s.WriteString(" is Ctl")
	}
	s.WriteRune(')')
	return s.String()
}

func (n Param) String() string { return "'" + n.Name }

func (n Var) String() string { return "?" + strconv.Itoa(n.id) }

func (n Invalid) String() string { return "<invalid>" }

func (n Missing) String() string { return "_" }
