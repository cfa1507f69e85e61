// Package types implements tyc's type system (spec §3.4): a closed set
// of kinds including two placeholder kinds — Prototype and Marker —
// that exist only during checking and must be gone by the time SEMA
// finishes with zero errors.
//
// This generalizes the teacher's internal/semantic/types package: the
// teacher's String()/Equals() methods become Table.String/Table.Equal
// over IDs, and the concrete representation switches from one struct-per-kind
// (InvalidType, IntType, ArrayType, ...) to a single ID-indexed table,
// because spec §3.5 requires types to be addressable by a stable
// TypeID that SEMA's unification algorithm can rewrite in place —
// something a set of independent Go types can't support without an
// extra indirection layer anyway. KindFloat/KindArray/KindChar are
// dropped (no floats; arrays are Aggregate+Pointer) per spec Non-goals;
// Prototype/Marker are new, grounded on spec §4.5's unification
// algorithm.
package types

import (
	"fmt"
	"strings"
)

// Kind is the closed set of type shapes from spec §3.4.
type Kind uint8

const (
	Void Kind = iota
	Never
	Integer
	Pointer
	String
	Aggregate
	Function
	Prototype
	Marker
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Never:
		return "never"
	case Integer:
		return "integer"
	case Pointer:
		return "pointer"
	case String:
		return "string"
	case Aggregate:
		return "aggregate"
	case Function:
		return "function"
	case Prototype:
		return "prototype"
	case Marker:
		return "marker"
	default:
		return "unknown"
	}
}

// ID indexes into a Table. The zero value is never a valid type.
type ID uint32

// Member is one named field of an Aggregate type.
type Member struct {
	Name string
	Type ID
}

// Type is one entry in a Table. Only the fields relevant to Kind are
// meaningful — e.g. Size is read only when Kind == Integer — matching
// the "tagged record, not tagged union of structs" choice spec §3.5
// makes for LIR and which this package mirrors for consistency.
type Type struct {
	Kind Kind

	// Integer
	Size int // bit width: 1 (bool), 8, 16, 32, 64

	// Pointer
	Pointee ID

	// Aggregate
	Name    string // empty for anonymous/never-named aggregates
	Members []Member

	// Function
	Return  ID
	Params  []ID
	Vararg  bool

	// Prototype
	ProtoName string

	// Marker: no extra fields; a Marker is identified solely by its
	// own ID; resolution replaces every occurrence of that ID in the
	// assigned-type table (see sema.Unify).
}

// Table is the per-module type arena. Pointer types are interned: one
// ID per pointee, per spec §3.4.
type Table struct {
	types []Type

	pointerIntern map[ID]ID

	// Builtins, created once by NewTable; sema's phase 2 binds their
	// names (spec §4.5).
	VoidID  ID
	BoolID  ID
	I8ID    ID
	I16ID   ID
	I32ID   ID
	I64ID   ID
	StrID   ID
	NeverID ID
}

// NewTable creates an empty table and installs the builtin primitive
// types spec §4.5 phase 2 names: void, bool (i1), i8/i16/i32/i64, str
// (≡ *i8), and ! (Never).
func NewTable() *Table {
	t := &Table{pointerIntern: map[ID]ID{}}
	t.VoidID = t.add(Type{Kind: Void})
	t.NeverID = t.add(Type{Kind: Never})
	t.BoolID = t.add(Type{Kind: Integer, Size: 1})
	t.I8ID = t.add(Type{Kind: Integer, Size: 8})
	t.I16ID = t.add(Type{Kind: Integer, Size: 16})
	t.I32ID = t.add(Type{Kind: Integer, Size: 32})
	t.I64ID = t.add(Type{Kind: Integer, Size: 64})
	// str ≡ *i8 (spec §4.5 phase 2).
	t.StrID = t.Intern(Type{Kind: Pointer, Pointee: t.I8ID})
	return t
}

func (t *Table) add(ty Type) ID {
	t.types = append(t.types, ty)
	return ID(len(t.types))
}

// Get returns the Type stored at id.
func (t *Table) Get(id ID) Type { return t.types[id-1] }

// Set overwrites the Type stored at id — used by sema's phase 5 to turn
// a type definition's Prototype entry into its finished Aggregate
// without changing any ID that already refers to it.
func (t *Table) Set(id ID, ty Type) { t.types[id-1] = ty }

// NewMarker allocates a fresh placeholder type for an untyped literal
// or a let-without-annotation (spec §3.4 "Marker types").
func (t *Table) NewMarker() ID { return t.add(Type{Kind: Marker}) }

// NewPrototype allocates a placeholder type for a user type
// definition, before its members are known (spec §4.5 phase 3).
func (t *Table) NewPrototype(name string) ID { return t.add(Type{Kind: Prototype, ProtoName: name}) }

// Intern returns the shared ID for ty, creating one if this is the
// first time a pointer to this pointee (or a function/aggregate with
// this structure) has been requested. Only Pointer is actually
// interned per spec §3.4 ("Pointer types are interned: one ID per
// pointee"); Function/Aggregate are allocated fresh each time since
// spec doesn't require sharing them and SEMA's prototype phases build
// each one exactly once anyway.
func (t *Table) Intern(ty Type) ID {
	if ty.Kind == Pointer {
		if id, ok := t.pointerIntern[ty.Pointee]; ok {
			return id
		}
		id := t.add(ty)
		t.pointerIntern[ty.Pointee] = id
		return id
	}
	return t.add(ty)
}

// NewFunction allocates a function type (not interned; see Intern).
func (t *Table) NewFunction(ret ID, params []ID, vararg bool) ID {
	return t.add(Type{Kind: Function, Return: ret, Params: params, Vararg: vararg})
}

// NewAggregate allocates a struct type (not interned; see Intern).
func (t *Table) NewAggregate(name string, members []Member) ID {
	return t.add(Type{Kind: Aggregate, Name: name, Members: members})
}

// LookupMember finds a member by name in an Aggregate type. Returns
// (Member{}, false) if id isn't an Aggregate or has no such member.
func (t *Table) LookupMember(id ID, name string) (Member, bool) {
	ty := t.Get(id)
	if ty.Kind != Aggregate {
		return Member{}, false
	}
	for _, m := range ty.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// MemberIndex is LookupMember's positional counterpart, needed by LIR
// lowering's GetField instruction (spec §4.6: "field access with an
// integer index").
func (t *Table) MemberIndex(id ID, name string) (int, bool) {
	ty := t.Get(id)
	if ty.Kind != Aggregate {
		return 0, false
	}
	for i, m := range ty.Members {
		if m.Name == name {
			return i, true
		}
	}
	return 0, false
}

// String renders id for diagnostics.
func (t *Table) String(id ID) string {
	if id == 0 {
		return "<none>"
	}
	ty := t.Get(id)
	switch ty.Kind {
	case Void:
		return "void"
	case Never:
		return "!"
	case Integer:
		if ty.Size == 1 {
			return "bool"
		}
		return fmt.Sprintf("i%d", ty.Size)
	case Pointer:
		if ty.Pointee == t.I8ID {
			return "str"
		}
		return "*" + t.String(ty.Pointee)
	case String:
		return "str"
	case Aggregate:
		if ty.Name != "" {
			return ty.Name
		}
		parts := make([]string, len(ty.Members))
		for i, m := range ty.Members {
			parts[i] = m.Name + ": " + t.String(m.Type)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case Function:
		parts := make([]string, len(ty.Params))
		for i, p := range ty.Params {
			parts[i] = t.String(p)
		}
		variadic := ""
		if ty.Vararg {
			variadic = ", ..."
		}
		return fmt.Sprintf("fn(%s%s) -> %s", strings.Join(parts, ", "), variadic, t.String(ty.Return))
	case Prototype:
		return "<prototype " + ty.ProtoName + ">"
	case Marker:
		return fmt.Sprintf("<marker %d>", id)
	default:
		return "<invalid>"
	}
}

// Equal reports whether a and b denote the same type. Pointer equality
// holds because pointers are interned (spec §3.4); Aggregate/Function
// compare structurally since they are not.
func (t *Table) Equal(a, b ID) bool {
	if a == b {
		return true
	}
	ta, tb := t.Get(a), t.Get(b)
	if ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case Void, Never, String:
		return true
	case Integer:
		return ta.Size == tb.Size
	case Pointer:
		return t.Equal(ta.Pointee, tb.Pointee)
	case Aggregate:
		if ta.Name != "" || tb.Name != "" {
			return ta.Name == tb.Name
		}
		if len(ta.Members) != len(tb.Members) {
			return false
		}
		for i := range ta.Members {
			if ta.Members[i].Name != tb.Members[i].Name || !t.Equal(ta.Members[i].Type, tb.Members[i].Type) {
				return false
			}
		}
		return true
	case Function:
		if ta.Vararg != tb.Vararg || len(ta.Params) != len(tb.Params) || !t.Equal(ta.Return, tb.Return) {
			return false
		}
		for i := range ta.Params {
			if !t.Equal(ta.Params[i], tb.Params[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsMarker/IsPrototype/IsNever and the kind checks below are the small predicates SEMA's
// unification algorithm and expression checker branch on.
func (t *Table) IsMarker(id ID) bool    { return id != 0 && t.Get(id).Kind == Marker }
func (t *Table) IsPrototype(id ID) bool { return id != 0 && t.Get(id).Kind == Prototype }
func (t *Table) IsNever(id ID) bool     { return id != 0 && t.Get(id).Kind == Never }
func (t *Table) IsInteger(id ID) bool   { return id != 0 && t.Get(id).Kind == Integer }
func (t *Table) IsFunction(id ID) bool  { return id != 0 && t.Get(id).Kind == Function }
func (t *Table) IsPointer(id ID) bool   { return id != 0 && t.Get(id).Kind == Pointer }
func (t *Table) IsAggregate(id ID) bool { return id != 0 && t.Get(id).Kind == Aggregate }
