package entities

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Object is an opaque handle tagged with its object type.
// Handles are shared by reference: cloning a Var never copies the payload.
type Object struct {
	Handle any
	Type   ObjectType
}

// Var is the tagged value flowing between shards.
// The zero Var is None.
type Var struct {
	table map[string]Var
	obj   *Object
	s     string
	seq   []Var
	i     int64
	f     float64
	kind  BasicType
	b     bool
}

// None returns the empty value.
func None() Var { return Var{} }

// Bool wraps a boolean.
func Bool(b bool) Var { return Var{kind: TypeBool, b: b} }

// Int wraps an integer.
func Int(i int64) Var { return Var{kind: TypeInt, i: i} }

// Float wraps a float.
func Float(f float64) Var { return Var{kind: TypeFloat, f: f} }

// String wraps a string.
func String(s string) Var { return Var{kind: TypeString, s: s} }

// Seq wraps an ordered sequence. The slice is copied.
func Seq(items ...Var) Var {
	seq := make([]Var, len(items))
	copy(seq, items)
	return Var{kind: TypeSeq, seq: seq}
}

// Floats builds a Seq of Float values, the representation used for vectors.
func Floats(fs ...float64) Var {
	seq := make([]Var, len(fs))
	for i, f := range fs {
		seq[i] = Float(f)
	}
	return Var{kind: TypeSeq, seq: seq}
}

// Strings builds a Seq of String values.
func Strings(ss ...string) Var {
	seq := make([]Var, len(ss))
	for i, s := range ss {
		seq[i] = String(s)
	}
	return Var{kind: TypeSeq, seq: seq}
}

// Table wraps a mapping. The map is copied.
func Table(m map[string]Var) Var {
	t := make(map[string]Var, len(m))
	for k, v := range m {
		t[k] = v
	}
	return Var{kind: TypeTable, table: t}
}

// NewObject wraps a handle as an object of the given type.
func NewObject(typ ObjectType, handle any) Var {
	return Var{kind: TypeObject, obj: &Object{Type: typ, Handle: handle}}
}

// ContextVar references a named variable resolved at runtime.
func ContextVar(name string) Var { return Var{kind: TypeContextVar, s: name} }

// Kind returns the value's tag.
func (v Var) Kind() BasicType { return v.kind }

// IsNone reports whether v is None.
func (v Var) IsNone() bool { return v.kind == TypeNone }

// AsBool returns the boolean payload.
func (v Var) AsBool() (bool, error) {
	if v.kind != TypeBool {
		return false, v.castError(TypeBool)
	}
	return v.b, nil
}

// AsInt returns the integer payload.
func (v Var) AsInt() (int64, error) {
	if v.kind != TypeInt {
		return 0, v.castError(TypeInt)
	}
	return v.i, nil
}

// AsFloat returns the float payload. Ints are widened.
func (v Var) AsFloat() (float64, error) {
	switch v.kind {
	case TypeFloat:
		return v.f, nil
	case TypeInt:
		return float64(v.i), nil
	}
	return 0, v.castError(TypeFloat)
}

// AsString returns the string payload. None converts to the empty string.
func (v Var) AsString() (string, error) {
	switch v.kind {
	case TypeString:
		return v.s, nil
	case TypeNone:
		return "", nil
	}
	return "", v.castError(TypeString)
}

// Name returns the variable name of a ContextVar.
func (v Var) Name() string {
	if v.kind != TypeContextVar {
		return ""
	}
	return v.s
}

// AsSeq returns the sequence payload. The returned slice must not be modified.
func (v Var) AsSeq() ([]Var, error) {
	if v.kind != TypeSeq {
		return nil, v.castError(TypeSeq)
	}
	return v.seq, nil
}

// AsFloats converts a Seq of numbers into a float slice.
func (v Var) AsFloats() ([]float64, error) {
	seq, err := v.AsSeq()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(seq))
	for i, item := range seq {
		f, err := item.AsFloat()
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// AsTable returns the table payload. The returned map must not be modified.
func (v Var) AsTable() (map[string]Var, error) {
	if v.kind != TypeTable {
		return nil, v.castError(TypeTable)
	}
	return v.table, nil
}

// AsObject returns the handle if v is an object of the given type.
func (v Var) AsObject(typ ObjectType) (any, error) {
	if v.kind != TypeObject {
		return nil, v.castError(TypeObject)
	}
	if v.obj.Type != typ {
		return nil, fmt.Errorf("expected object of type %s, got %s", typ, v.obj.Type)
	}
	return v.obj.Handle, nil
}

// ObjectType returns the object tag, or the zero ObjectType for non-objects.
func (v Var) ObjectType() ObjectType {
	if v.kind != TypeObject {
		return ObjectType{}
	}
	return v.obj.Type
}

// Len returns the element count of a Seq or Table, the rune count of a String, zero otherwise.
func (v Var) Len() int {
	switch v.kind {
	case TypeSeq:
		return len(v.seq)
	case TypeTable:
		return len(v.table)
	case TypeString:
		return len([]rune(v.s))
	}
	return 0
}

// Append returns a new Seq with item appended. v must be a Seq or None.
func (v Var) Append(item Var) (Var, error) {
	if v.kind != TypeSeq && v.kind != TypeNone {
		return Var{}, v.castError(TypeSeq)
	}
	seq := make([]Var, len(v.seq), len(v.seq)+1)
	copy(seq, v.seq)
	return Var{kind: TypeSeq, seq: append(seq, item)}, nil
}

// Clone returns a deep copy. Object handles are shared.
func (v Var) Clone() Var {
	switch v.kind {
	case TypeSeq:
		seq := make([]Var, len(v.seq))
		for i, item := range v.seq {
			seq[i] = item.Clone()
		}
		return Var{kind: TypeSeq, seq: seq}
	case TypeTable:
		t := make(map[string]Var, len(v.table))
		for k, item := range v.table {
			t[k] = item.Clone()
		}
		return Var{kind: TypeTable, table: t}
	}
	return v
}

// Equal compares by value; objects compare by type tag and handle identity.
func (v Var) Equal(other Var) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case TypeNone:
		return true
	case TypeBool:
		return v.b == other.b
	case TypeInt:
		return v.i == other.i
	case TypeFloat:
		return v.f == other.f
	case TypeString, TypeContextVar:
		return v.s == other.s
	case TypeSeq:
		if len(v.seq) != len(other.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(other.seq[i]) {
				return false
			}
		}
		return true
	case TypeTable:
		if len(v.table) != len(other.table) {
			return false
		}
		for k, item := range v.table {
			o, ok := other.table[k]
			if !ok || !item.Equal(o) {
				return false
			}
		}
		return true
	case TypeObject:
		return sameObject(v.obj, other.obj)
	}
	return false
}

func sameObject(a, b *Object) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Type != b.Type {
		return false
	}
	if a.Handle == nil || b.Handle == nil {
		return a.Handle == nil && b.Handle == nil
	}
	ta, tb := reflect.TypeOf(a.Handle), reflect.TypeOf(b.Handle)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a.Handle == b.Handle
}

// TypeInfo derives the descriptor of a concrete value.
func (v Var) TypeInfo() TypeInfo {
	switch v.kind {
	case TypeObject:
		return TypeInfo{Basic: TypeObject, Object: v.obj.Type}
	case TypeContextVar:
		return TypeInfo{Basic: TypeAny, Variable: true}
	case TypeSeq:
		var elems Types
		for _, item := range v.seq {
			t := item.TypeInfo()
			if !containsType(elems, t) {
				elems = append(elems, t)
			}
		}
		return TypeInfo{Basic: TypeSeq, Elements: elems}
	}
	return TypeInfo{Basic: v.kind}
}

func containsType(ts Types, t TypeInfo) bool {
	for _, e := range ts {
		if e.Equal(t) {
			return true
		}
	}
	return false
}

// Any converts v into plain Go values (nil, bool, int64, float64, string,
// []any, map[string]any). Objects become their handle, context variables
// become {"var": name}.
func (v Var) Any() any {
	switch v.kind {
	case TypeBool:
		return v.b
	case TypeInt:
		return v.i
	case TypeFloat:
		return v.f
	case TypeString:
		return v.s
	case TypeSeq:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Any()
		}
		return out
	case TypeTable:
		out := make(map[string]any, len(v.table))
		for k, item := range v.table {
			out[k] = item.Any()
		}
		return out
	case TypeObject:
		return v.obj.Handle
	case TypeContextVar:
		return map[string]any{"var": v.s}
	}
	return nil
}

// FromAny converts decoded YAML/JSON data into a Var.
// A single-key map {"var": name} becomes a ContextVar.
func FromAny(x any) (Var, error) {
	switch val := x.(type) {
	case nil:
		return None(), nil
	case Var:
		return val, nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint64:
		return Int(int64(val)), nil
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case string:
		return String(val), nil
	case []any:
		seq := make([]Var, len(val))
		for i, item := range val {
			converted, err := FromAny(item)
			if err != nil {
				return Var{}, fmt.Errorf("index %d: %w", i, err)
			}
			seq[i] = converted
		}
		return Var{kind: TypeSeq, seq: seq}, nil
	case map[string]any:
		if name, ok := val["var"].(string); ok && len(val) == 1 {
			return ContextVar(name), nil
		}
		t := make(map[string]Var, len(val))
		for k, item := range val {
			converted, err := FromAny(item)
			if err != nil {
				return Var{}, fmt.Errorf("key %q: %w", k, err)
			}
			t[k] = converted
		}
		return Var{kind: TypeTable, table: t}, nil
	}
	return Var{}, fmt.Errorf("unsupported value of type %T", x)
}

func (v Var) String() string {
	switch v.kind {
	case TypeNone:
		return "None"
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeString:
		return v.s
	case TypeContextVar:
		return "$" + v.s
	case TypeSeq:
		parts := make([]string, len(v.seq))
		for i, item := range v.seq {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	case TypeTable:
		keys := make([]string, 0, len(v.table))
		for k := range v.table {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.table[k].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case TypeObject:
		return "Object(" + v.obj.Type.String() + ")"
	}
	return "?"
}

func (v Var) castError(want BasicType) error {
	return fmt.Errorf("expected %s value, got %s", want, v.kind)
}
