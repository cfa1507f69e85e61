// Package diag defines the single error-channel type every compiler
// stage returns alongside its result (spec §6.4): a byte offset, a
// length, a message, and a closed Kind so one renderer in the driver
// can format errors from the lexer through SEMA without each stage
// inventing its own shape (generalizing the teacher's informal
// []error slices in internal/parser and internal/semantic).
package diag

import "fmt"

// Kind is the closed taxonomy of spec §7: Lex, Parse, Name, Type and
// Binding errors, each with its own enumerated sub-kinds.
type Kind int

const (
	// Lex
	LexInvalidChar Kind = iota
	LexUnterminatedString

	// Parse
	ParseUnexpectedToken
	ParseUnexpectedEOF

	// Name
	NameUnknownName
	NameUnknownType
	NameUnknownCall

	// Type
	TypeUnification
	TypeInvalidIndexType
	TypeInvalidPointeeType
	TypeCallToNonFnType
	TypeInvalidCallReceiver
	TypeInvalidFieldReceiver
	TypeInvalidField

	// Binding
	BindingDuplicateBinding
	BindingDuplicateType
	BindingParamAssignment
)

var kindNames = map[Kind]string{
	LexInvalidChar:           "invalid-char",
	LexUnterminatedString:    "unterminated-string",
	ParseUnexpectedToken:     "unexpected-token",
	ParseUnexpectedEOF:       "unexpected-eof",
	NameUnknownName:          "unknown-name",
	NameUnknownType:          "unknown-type",
	NameUnknownCall:          "unknown-call",
	TypeUnification:          "unification",
	TypeInvalidIndexType:     "invalid-index-type",
	TypeInvalidPointeeType:   "invalid-pointee-type",
	TypeCallToNonFnType:      "call-to-non-fn-type",
	TypeInvalidCallReceiver:  "invalid-call-receiver",
	TypeInvalidFieldReceiver: "invalid-field-receiver",
	TypeInvalidField:         "invalid-field",
	BindingDuplicateBinding:  "duplicate-binding",
	BindingDuplicateType:     "duplicate-type",
	BindingParamAssignment:   "param-assignment",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error is one diagnostic: enough data (source offsets, two involved
// node IDs for binary errors like unification) for a single formatter
// to render every stage's errors (spec §6.4).
type Error struct {
	Kind    Kind
	Offset  int
	Length  int
	Message string

	// LHS/RHS optionally name the two entities a binary error (e.g.
	// TypeUnification) ties together, as opaque stage-defined IDs
	// rendered only for diagnostics.
	LHS, RHS uint32
	HasLHS   bool
	HasRHS   bool
}

func (e Error) Error() string {
	return fmt.Sprintf("%s at byte %d: %s", e.Kind, e.Offset, e.Message)
}

// Bag accumulates the errors for one stage's (result, Bag) return.
type Bag []Error

// Add appends a new diagnostic built from its fields.
func (b *Bag) Add(kind Kind, offset, length int, format string, args ...any) {
	*b = append(*b, Error{
		Kind:    kind,
		Offset:  offset,
		Length:  length,
		Message: fmt.Sprintf(format, args...),
	})
}

// AddPair appends a binary diagnostic tying two stage-defined IDs
// together (spec §6.4's "two involved node IDs"), e.g. a unification
// failure between two type sites.
func (b *Bag) AddPair(kind Kind, offset, length int, lhs, rhs uint32, format string, args ...any) {
	*b = append(*b, Error{
		Kind: kind, Offset: offset, Length: length,
		Message: fmt.Sprintf(format, args...),
		LHS:     lhs, RHS: rhs, HasLHS: true, HasRHS: true,
	})
}

// OK reports whether the bag is empty.
func (b Bag) OK() bool { return len(b) == 0 }
