package entities

import (
	"fmt"
	"strings"
)

// BasicType is the kind tag shared by Var and TypeInfo.
type BasicType uint8

const (
	TypeNone BasicType = iota
	TypeAny
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeSeq
	TypeTable
	TypeObject
	TypeContextVar
)

var basicTypeNames = [...]string{
	TypeNone:       "None",
	TypeAny:        "Any",
	TypeBool:       "Bool",
	TypeInt:        "Int",
	TypeFloat:      "Float",
	TypeString:     "String",
	TypeSeq:        "Seq",
	TypeTable:      "Table",
	TypeObject:     "Object",
	TypeContextVar: "ContextVar",
}

func (t BasicType) String() string {
	if int(t) < len(basicTypeNames) {
		return basicTypeNames[t]
	}
	return fmt.Sprintf("BasicType(%d)", uint8(t))
}

// ObjectType identifies the payload behind an opaque object handle.
// Vendor namespaces the TypeID so independent unit packages cannot collide.
type ObjectType struct {
	Vendor uint32
	TypeID uint32
}

// FourCC packs a four character code, e.g. FourCC("eguU").
func FourCC(code string) uint32 {
	var v uint32
	for i := 0; i < 4 && i < len(code); i++ {
		v = v<<8 | uint32(code[i])
	}
	return v
}

func (o ObjectType) String() string {
	return fmt.Sprintf("%08x:%08x", o.Vendor, o.TypeID)
}

// TypeInfo describes the type of a value slot.
//
// Variable marks a slot that may hold either a literal of the basic type or a
// ContextVar binding resolved at warmup. Elements, when non-empty, restricts the
// element types of a Seq.
type TypeInfo struct {
	Elements []TypeInfo
	Object   ObjectType
	Basic    BasicType
	Variable bool
}

// Types is an ordered list of accepted types.
type Types []TypeInfo

// AsVariable returns a copy of t flagged as variable.
func (t TypeInfo) AsVariable() TypeInfo {
	t.Variable = true
	return t
}

// Literal returns a copy of t with the variable flag cleared.
func (t TypeInfo) Literal() TypeInfo {
	t.Variable = false
	return t
}

// MatchesValue reports whether v can be stored in a slot of type t.
func (t TypeInfo) MatchesValue(v Var) bool {
	if t.Basic == TypeAny {
		return true
	}
	if v.Kind() == TypeContextVar {
		return t.Variable
	}
	if v.Kind() != t.Basic {
		return false
	}
	switch t.Basic {
	case TypeObject:
		return v.ObjectType() == t.Object
	case TypeSeq:
		if len(t.Elements) == 0 {
			return true
		}
		for _, item := range v.seq {
			if !Types(t.Elements).MatchValue(item) {
				return false
			}
		}
	}
	return true
}

// Accepts reports whether a value described by other may flow into a slot of type t.
// It is the compose-time counterpart of MatchesValue.
func (t TypeInfo) Accepts(other TypeInfo) bool {
	if t.Basic == TypeAny {
		return true
	}
	if other.Basic != t.Basic {
		return false
	}
	switch t.Basic {
	case TypeObject:
		return t.Object == other.Object
	case TypeSeq:
		if len(t.Elements) == 0 {
			return true
		}
		if len(other.Elements) == 0 {
			// an unconstrained seq may hold anything
			return Types(t.Elements).containsAny()
		}
		for _, e := range other.Elements {
			if !Types(t.Elements).Accept(e) {
				return false
			}
		}
	}
	return true
}

// Equal compares two descriptors structurally.
func (t TypeInfo) Equal(other TypeInfo) bool {
	if t.Basic != other.Basic || t.Variable != other.Variable || t.Object != other.Object {
		return false
	}
	if len(t.Elements) != len(other.Elements) {
		return false
	}
	for i := range t.Elements {
		if !t.Elements[i].Equal(other.Elements[i]) {
			return false
		}
	}
	return true
}

func (t TypeInfo) String() string {
	var sb strings.Builder
	switch t.Basic {
	case TypeObject:
		sb.WriteString("Object(")
		sb.WriteString(t.Object.String())
		sb.WriteString(")")
	case TypeSeq:
		sb.WriteString("Seq")
		if len(t.Elements) > 0 {
			sb.WriteString("[")
			sb.WriteString(Types(t.Elements).String())
			sb.WriteString("]")
		}
	default:
		sb.WriteString(t.Basic.String())
	}
	if t.Variable {
		sb.WriteString("&")
	}
	return sb.String()
}

// MatchValue reports whether any type in the list matches v.
func (ts Types) MatchValue(v Var) bool {
	for _, t := range ts {
		if t.MatchesValue(v) {
			return true
		}
	}
	return false
}

// Accept reports whether any type in the list accepts other.
func (ts Types) Accept(other TypeInfo) bool {
	for _, t := range ts {
		if t.Accepts(other) {
			return true
		}
	}
	return false
}

func (ts Types) containsAny() bool {
	for _, t := range ts {
		if t.Basic == TypeAny {
			return true
		}
	}
	return false
}

func (ts Types) String() string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, " | ")
}

// Literals returns a copy of ts with every variable flag cleared.
func (ts Types) Literals() Types {
	out := make(Types, len(ts))
	for i, t := range ts {
		out[i] = t.Literal()
	}
	return out
}
