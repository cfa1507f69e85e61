package ast

import (
	"github.com/hassan/tyc/internal/lexer"
	"github.com/hassan/tyc/internal/syntax"
)

// Expr is any expression-producing node.
type Expr interface {
	Node
	exprNode()
}

func asExpr(red *syntax.RedNode) Expr {
	switch red.Kind() {
	case syntax.NodeBlockExpr:
		return &BlockExpr{base{red}}
	case syntax.NodeNameRefExpr:
		return &NameRefExpr{base{red}}
	case syntax.NodeLiteralExpr:
		return &LiteralExpr{base{red}}
	case syntax.NodePrefixExpr:
		return &PrefixExpr{base{red}}
	case syntax.NodeBinExpr:
		return &BinExpr{base{red}}
	case syntax.NodeGroupExpr:
		return &GroupExpr{base{red}}
	case syntax.NodeReturnExpr:
		return &ReturnExpr{base{red}}
	case syntax.NodeBreakExpr:
		return &BreakExpr{base{red}}
	case syntax.NodeContinueExpr:
		return &ContinueExpr{base{red}}
	case syntax.NodeCastExpr:
		return &CastExpr{base{red}}
	case syntax.NodeCallExpr:
		return &CallExpr{base{red}}
	case syntax.NodeIndexExpr:
		return &IndexExpr{base{red}}
	case syntax.NodeIfExpr:
		return &IfExpr{base{red}}
	case syntax.NodeLoopExpr:
		return &LoopExpr{base{red}}
	case syntax.NodeWhileExpr:
		return &WhileExpr{base{red}}
	case syntax.NodeStructLiteralExpr:
		return &StructLiteralExpr{base{red}}
	case syntax.NodeAssignExpr:
		return &AssignExpr{base{red}}
	default:
		return nil
	}
}

func (*BlockExpr) exprNode()         {}
func (*NameRefExpr) exprNode()       {}
func (*LiteralExpr) exprNode()       {}
func (*PrefixExpr) exprNode()        {}
func (*BinExpr) exprNode()           {}
func (*GroupExpr) exprNode()         {}
func (*ReturnExpr) exprNode()        {}
func (*BreakExpr) exprNode()         {}
func (*ContinueExpr) exprNode()      {}
func (*CastExpr) exprNode()          {}
func (*CallExpr) exprNode()          {}
func (*IndexExpr) exprNode()         {}
func (*IfExpr) exprNode()            {}
func (*LoopExpr) exprNode()          {}
func (*WhileExpr) exprNode()         {}
func (*StructLiteralExpr) exprNode() {}
func (*AssignExpr) exprNode()        {}

// exprChildren returns every direct child that projects to an Expr, in
// order — the building block every n-ary expression wrapper below uses.
func exprChildren(red *syntax.RedNode) []Expr {
	var out []Expr
	for _, c := range red.Children() {
		if c.IsToken() {
			continue
		}
		if e := asExpr(c.Node); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// BlockExpr is `{ item* }`; Tail is the final expression with no
// trailing ';', or nil if the block ends in a semicolon-terminated
// statement (spec §4.2, §4.5: a block's type is void() or Tail's type).
type BlockExpr struct{ base }

func (b *BlockExpr) Items() []Item {
	var out []Item
	for _, c := range b.red.Children() {
		if c.IsToken() {
			continue
		}
		if it := asItem(c.Node); it != nil {
			out = append(out, it)
		}
	}
	return out
}

// Tail returns the block's trailing, non-semicolon-terminated
// expression, if the block's last syntactic child is an expression
// rather than a ';'-terminated item.
func (b *BlockExpr) Tail() Expr {
	children := b.red.Children()
	for i := len(children) - 1; i >= 0; i-- {
		c := children[i]
		if c.IsToken() {
			if c.Token.Type.IsTrivia() || c.Token.Type == lexer.TokenRBrace {
				continue
			}
			return nil // last significant token before '}' is punctuation (likely ';')
		}
		if it := asItem(c.Node); it != nil {
			_ = it
			return nil
		}
		return asExpr(c.Node)
	}
	return nil
}

// NameRefExpr is a bare identifier used as a value, a field name after
// '.'/'->', or a struct-literal's type name.
type NameRefExpr struct{ base }

func (n *NameRefExpr) Name() string { return n.red.Text() }

// LiteralExpr is a number or string literal.
type LiteralExpr struct{ base }

func (l *LiteralExpr) Text() string { return l.red.Text() }

// PrefixExpr is a unary `+`, `-`, or `*` applied to Operand.
type PrefixExpr struct{ base }

func (p *PrefixExpr) Operator() string {
	toks := p.red.Tokens()
	if len(toks) == 0 {
		return ""
	}
	return toks[0].Text
}
func (p *PrefixExpr) Operand() Expr {
	cs := exprChildren(p.red)
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}

// BinExpr is a general binary operator application, including field
// access (`.`/`->`, whose Right is a NameRefExpr naming the field).
type BinExpr struct{ base }

func (b *BinExpr) Left() Expr {
	cs := exprChildren(b.red)
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}
func (b *BinExpr) Right() Expr {
	cs := exprChildren(b.red)
	if len(cs) < 2 {
		return nil
	}
	return cs[1]
}
func (b *BinExpr) Operator() string {
	for _, t := range b.red.Tokens() {
		if !t.Type.IsTrivia() {
			return t.Text
		}
	}
	return ""
}

// IsFieldAccess reports whether this BinExpr is a '.' or '->' member
// access rather than an arithmetic/comparison/logical operator.
func (b *BinExpr) IsFieldAccess() bool {
	op := b.Operator()
	return op == "." || op == "->"
}

// GroupExpr is a parenthesized sub-expression.
type GroupExpr struct{ base }

func (g *GroupExpr) Inner() Expr {
	cs := exprChildren(g.red)
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}

// ReturnExpr is `return expr?`.
type ReturnExpr struct{ base }

func (r *ReturnExpr) Value() Expr {
	cs := exprChildren(r.red)
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}

// BreakExpr is `break`.
type BreakExpr struct{ base }

// ContinueExpr is `continue`.
type ContinueExpr struct{ base }

// CastExpr is `expr as Type`.
type CastExpr struct{ base }

func (c *CastExpr) Operand() Expr {
	cs := exprChildren(c.red)
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}
func (c *CastExpr) TargetType() *TypeRef {
	return wrapTypeRef(firstTypeRef(c.red))
}

// CallExpr is `callee(args)`.
type CallExpr struct{ base }

func (c *CallExpr) Callee() Expr {
	cs := exprChildren(c.red)
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}
func (c *CallExpr) Args() []Expr {
	list := c.red.FirstChildOfKind(syntax.NodeArgList)
	if list == nil {
		return nil
	}
	return exprChildren(list)
}

// IndexExpr is `base[index]`.
type IndexExpr struct{ base }

func (i *IndexExpr) Base() Expr {
	cs := exprChildren(i.red)
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}
func (i *IndexExpr) Index() Expr {
	cs := exprChildren(i.red)
	if len(cs) < 2 {
		return nil
	}
	return cs[1]
}

// IfExpr is `if cond { then } (else (if ... | { else }))?`.
type IfExpr struct{ base }

func (f *IfExpr) Cond() Expr {
	cs := exprChildren(f.red)
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}

// Then returns the taken branch's block.
func (f *IfExpr) Then() *BlockExpr {
	blocks := f.red.ChildrenOfKind(syntax.NodeBlockExpr)
	if len(blocks) == 0 {
		return nil
	}
	return &BlockExpr{base{blocks[0]}}
}

// Else returns the else-block, if the else branch is a plain block
// (nil if there is no else, or if the else branch is itself an
// "else if" — see ElseIf).
func (f *IfExpr) Else() *BlockExpr {
	blocks := f.red.ChildrenOfKind(syntax.NodeBlockExpr)
	if len(blocks) < 2 {
		return nil
	}
	return &BlockExpr{base{blocks[1]}}
}

// ElseIf returns the chained "else if" expression, or nil.
func (f *IfExpr) ElseIf() *IfExpr {
	ifs := f.red.ChildrenOfKind(syntax.NodeIfExpr)
	if len(ifs) == 0 {
		return nil
	}
	return &IfExpr{base{ifs[0]}}
}

// LoopExpr is `loop { body }`, an unconditional loop broken by `break`.
type LoopExpr struct{ base }

func (l *LoopExpr) Body() *BlockExpr {
	n := l.red.FirstChildOfKind(syntax.NodeBlockExpr)
	if n == nil {
		return nil
	}
	return &BlockExpr{base{n}}
}

// WhileExpr is `while cond { body }`.
type WhileExpr struct{ base }

func (w *WhileExpr) Cond() Expr {
	cs := exprChildren(w.red)
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}
func (w *WhileExpr) Body() *BlockExpr {
	n := w.red.FirstChildOfKind(syntax.NodeBlockExpr)
	if n == nil {
		return nil
	}
	return &BlockExpr{base{n}}
}

// StructLiteralExpr is `Name { field: expr, ... }`.
type StructLiteralExpr struct{ base }

func (s *StructLiteralExpr) TypeName() string {
	n := s.red.FirstChildOfKind(syntax.NodeNameRefExpr)
	if n == nil {
		return ""
	}
	return n.Text()
}

func (s *StructLiteralExpr) Fields() []*StructLiteralField {
	var out []*StructLiteralField
	for _, n := range s.red.ChildrenOfKind(syntax.NodeStructLiteralField) {
		out = append(out, &StructLiteralField{base{n}})
	}
	return out
}

// StructLiteralField is one `name: expr` entry.
type StructLiteralField struct{ base }

func (f *StructLiteralField) Name() string { return firstNameText(f.red) }
func (f *StructLiteralField) Value() Expr {
	cs := exprChildren(f.red)
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}

// AssignExpr is `target = value`.
type AssignExpr struct{ base }

func (a *AssignExpr) Target() Expr {
	cs := exprChildren(a.red)
	if len(cs) == 0 {
		return nil
	}
	return cs[0]
}
func (a *AssignExpr) Value() Expr {
	cs := exprChildren(a.red)
	if len(cs) < 2 {
		return nil
	}
	return cs[1]
}
