// Package ast projects a typed view over a concrete syntax tree built
// by internal/syntax. Unlike the teacher's internal/parser/ast (which
// built its own heap-allocated tree with a Visitor interface), nodes
// here are thin, stateless wrappers over a *syntax.RedNode: Pos/End
// come from the underlying red node's offsets, and every accessor is a
// projection, not a stored field, so the AST and the CST can never
// drift out of sync (spec §4.3 and §3.1 — "the typed AST is a lens
// over the CST, not a parallel copy of it").
package ast

import (
	"github.com/hassan/tyc/internal/lexer"
	"github.com/hassan/tyc/internal/syntax"
)

// Node is satisfied by every typed wrapper in this package.
type Node interface {
	// Red returns the underlying concrete-syntax-tree node.
	Red() *syntax.RedNode
	Pos() uint32
	End() uint32
}

type base struct {
	red *syntax.RedNode
}

func (b base) Red() *syntax.RedNode { return b.red }
func (b base) Pos() uint32          { return b.red.Offset() }
func (b base) End() uint32          { return b.red.End() }

// Module is the root of a parsed source file: a flat sequence of items.
type Module struct{ base }

// NewModule wraps a syntax.RedNode of kind NodeModule. Panics if kind
// doesn't match, since callers only ever call this on a tree produced
// by syntax.ParseModule.
func NewModule(red *syntax.RedNode) *Module {
	mustKind(red, syntax.NodeModule)
	return &Module{base{red}}
}

// Name returns a nested `mod name { ... }`'s name, wrapped in a
// NodeName child by the grammar's shared parseName; the top-level
// translation unit has none, so this is "" for it.
func (m *Module) Name() string { return firstNameText(m.red) }

// Items returns every top-level declaration in source order.
func (m *Module) Items() []Item {
	var out []Item
	for _, c := range m.red.Children() {
		if c.IsToken() {
			continue
		}
		if it := asItem(c.Node); it != nil {
			out = append(out, it)
		}
	}
	return out
}

// Item is any of the module/block-level declaration forms.
type Item interface {
	Node
	itemNode()
}

func asItem(red *syntax.RedNode) Item {
	switch red.Kind() {
	case syntax.NodeImportItem:
		return &ImportItem{base{red}}
	case syntax.NodeTypeItem:
		return &TypeItem{base{red}}
	case syntax.NodeFnItem:
		return &FnItem{base{red}}
	case syntax.NodeLetItem:
		return &LetItem{base{red}}
	case syntax.NodeExprItem:
		return &ExprItem{base{red}}
	case syntax.NodeModule:
		return &Module{base{red}}
	default:
		return nil
	}
}

func (*ImportItem) itemNode() {}
func (*TypeItem) itemNode()   {}
func (*FnItem) itemNode()     {}
func (*LetItem) itemNode()    {}
func (*ExprItem) itemNode()   {}
func (*Module) itemNode()     {}

// ImportItem is `import name;`.
type ImportItem struct{ base }

// Name returns the imported module name.
func (i *ImportItem) Name() string {
	return firstNameText(i.red)
}

// TypeItem is `type Name { members }`.
type TypeItem struct{ base }

func (t *TypeItem) Name() string { return firstNameText(t.red) }

// Members returns the declared fields in order.
func (t *TypeItem) Members() []*Member {
	var out []*Member
	for _, n := range t.red.ChildrenOfKind(syntax.NodeMember) {
		out = append(out, &Member{base{n}})
	}
	return out
}

// Member is one `name: type` entry inside a TypeItem.
type Member struct{ base }

func (m *Member) Name() string       { return firstNameText(m.red) }
func (m *Member) TypeRef() *TypeRef  { return wrapTypeRef(firstTypeRef(m.red)) }

// FnItem is `fn name(params) -> ret { body }` or an extern declaration.
type FnItem struct{ base }

func (f *FnItem) Name() string { return firstNameText(f.red) }

// Params returns the declared parameters in order.
func (f *FnItem) Params() []*Param {
	list := f.red.FirstChildOfKind(syntax.NodeParamList)
	if list == nil {
		return nil
	}
	var out []*Param
	for _, n := range list.ChildrenOfKind(syntax.NodeParam) {
		out = append(out, &Param{base{n}})
	}
	return out
}

// ReturnType returns the declared return type, or nil if omitted
// (meaning void per spec §4.5).
func (f *FnItem) ReturnType() *TypeRef {
	// the first TypeRef child that is not inside the ParamList
	for _, c := range f.red.Children() {
		if c.IsToken() || c.Node.Kind() != syntax.NodeTypeRef && c.Node.Kind() != syntax.NodePointerTypeRef {
			continue
		}
		return wrapTypeRef(c.Node)
	}
	return nil
}

// IsExtern reports whether this function has no body (an `extern`
// declaration).
func (f *FnItem) IsExtern() bool {
	return f.red.FirstChildOfKind(syntax.NodeBlockExpr) == nil
}

// Body returns the function body block, or nil for an extern fn.
func (f *FnItem) Body() *BlockExpr {
	n := f.red.FirstChildOfKind(syntax.NodeBlockExpr)
	if n == nil {
		return nil
	}
	return &BlockExpr{base{n}}
}

// Param is one `name: type` parameter, or the variadic "..." marker
// (in which case Name is empty and TypeRef is nil).
type Param struct{ base }

func (p *Param) Name() string { return firstNameText(p.red) }
func (p *Param) TypeRef() *TypeRef {
	return wrapTypeRef(firstTypeRef(p.red))
}
func (p *Param) IsVariadic() bool {
	return p.red.FirstTokenOfType(lexer.TokenEllipsis) != nil
}

// LetItem is `let name: type = init;`.
type LetItem struct{ base }

func (l *LetItem) Name() string { return firstNameText(l.red) }
func (l *LetItem) TypeRef() *TypeRef {
	return wrapTypeRef(firstTypeRef(l.red))
}

// Init returns the initializer expression, or nil if the let has none.
func (l *LetItem) Init() Expr {
	children := l.red.Children()
	for i := len(children) - 1; i >= 0; i-- {
		c := children[i]
		if c.IsToken() {
			continue
		}
		if e := asExpr(c.Node); e != nil {
			return e
		}
	}
	return nil
}

// ExprItem wraps a bare expression used as a statement.
type ExprItem struct{ base }

func (e *ExprItem) Expr() Expr {
	for _, c := range e.red.Children() {
		if c.IsToken() {
			continue
		}
		if x := asExpr(c.Node); x != nil {
			return x
		}
	}
	return nil
}

// TypeRef is either a named type or a pointer to one.
type TypeRef struct {
	base
	pointer bool
}

func wrapTypeRef(red *syntax.RedNode) *TypeRef {
	if red == nil {
		return nil
	}
	return &TypeRef{base{red}, red.Kind() == syntax.NodePointerTypeRef}
}

// firstTypeRef returns red's first direct child that is a named or a
// pointer type reference, or nil.
func firstTypeRef(red *syntax.RedNode) *syntax.RedNode {
	for _, c := range red.Children() {
		if !c.IsToken() && (c.Node.Kind() == syntax.NodeTypeRef || c.Node.Kind() == syntax.NodePointerTypeRef) {
			return c.Node
		}
	}
	return nil
}

func (t *TypeRef) IsPointer() bool { return t.pointer }

// Pointee returns the referenced type for a pointer TypeRef; nil
// otherwise.
func (t *TypeRef) Pointee() *TypeRef {
	if !t.pointer {
		return nil
	}
	for _, c := range t.red.Children() {
		if !c.IsToken() && (c.Node.Kind() == syntax.NodeTypeRef || c.Node.Kind() == syntax.NodePointerTypeRef) {
			return wrapTypeRef(c.Node)
		}
	}
	return nil
}

// Name returns the referenced type's name for a non-pointer TypeRef.
func (t *TypeRef) Name() string {
	if t.pointer {
		return ""
	}
	return firstNameText(t.red)
}

func mustKind(red *syntax.RedNode, want syntax.NodeKind) {
	if red.Kind() != want {
		panic("ast: expected " + want.String() + ", got " + red.Kind().String())
	}
}

func firstNameText(red *syntax.RedNode) string {
	n := red.FirstChildOfKind(syntax.NodeName)
	if n == nil {
		return ""
	}
	return n.Text()
}
