package bir

import (
	"strconv"
	"strings"

	"github.com/hassan/tyc/internal/ast"
	"github.com/hassan/tyc/internal/diag"
)

// Translator performs the bottom-up AST walk spec §4.4 describes: the
// enclosing module/function/block is passed down to each translate
// call as a parent ID, and the only traversal state kept is a stack of
// enclosing loop labels (for break/continue), generalizing the
// teacher's ir.Builder (internal/ir/builder.go, which tracked "current
// function" plus a block stack) to module nesting and loop labels.
//
// A Translator is single-use: callers construct one per translation
// unit via NewTranslator and call Translate once, matching spec §9's
// "global counters... must be reset when starting a new TU" rule — the
// label counter lives on the Translator instance, not as package state.
type Translator struct {
	mod *Module

	// loopLabelStack tracks, for each currently-open block, the label
	// of the nearest enclosing loop (or "" if none) so break/continue
	// can resolve to it without a separate scope data structure.
	loopLabelStack []string
	labelCounter   int

	Errors diag.Bag
}

// NewTranslator creates a Translator over a fresh arena.
func NewTranslator() *Translator {
	return &Translator{mod: NewModule()}
}

// Translate walks root and returns the populated arena. The returned
// Module's Root field is the top-level translation unit's ModuleRec.
func (t *Translator) Translate(root *ast.Module) *Module {
	t.mod.Root = t.translateModuleBody("", 0, root.Items())
	return t.mod
}

// translateModuleBody allocates one ModuleRec for a `mod` block (or
// the top-level unit when name == "" and parent == 0) and translates
// its items in order.
func (t *Translator) translateModuleBody(name string, parent ID, items []ast.Item) ID {
	id := t.mod.addModule(ModuleRec{Name: name, Parent: parent})
	var children []ID
	for _, it := range items {
		children = append(children, t.translateItem(id, it))
	}
	t.mod.ModuleRec(id).Items = children
	return id
}

func (t *Translator) translateItem(parent ID, item ast.Item) ID {
	switch n := item.(type) {
	case *ast.Module:
		// A nested `mod name { ... }` reaches here already unwrapped
		// by ast.asItem as a *Module; translate it as a child module.
		return t.translateModuleBody(moduleNameOf(n), parent, n.Items())
	case *ast.ImportItem:
		return t.mod.addImport(ImportRec{Name: n.Name(), Parent: parent})
	case *ast.TypeItem:
		return t.translateTypeItem(parent, n)
	case *ast.FnItem:
		return t.translateFnItem(parent, n)
	case *ast.LetItem:
		return t.translateLetItem(parent, n)
	case *ast.ExprItem:
		return t.mod.addExprItem(ExprItemRec{Parent: parent, Expr: t.translateExpr(n.Expr())})
	default:
		return 0
	}
}

// moduleNameOf recovers a nested `mod`'s name via ast.Module.Name(),
// which reads the grammar's NodeName child (internal/ast.go's
// firstNameText) rather than indexing raw tokens: Red().Tokens() only
// returns *direct* token children (trivia included), so `toks[1]` for
// `mod foo { ... }` lands on whitespace, not the identifier.
func moduleNameOf(m *ast.Module) string {
	return m.Name()
}

func (t *Translator) translateTypeItem(parent ID, n *ast.TypeItem) ID {
	id := t.mod.addTypeDef(TypeDefRec{Name: n.Name(), Parent: parent})
	var members []ID
	for _, m := range n.Members() {
		members = append(members, t.mod.addMember(MemberRec{
			Name:    m.Name(),
			Parent:  id,
			TypeRef: t.translateTypeRef(m.TypeRef()),
		}))
	}
	t.mod.TypeDefRec(id).Members = members
	return id
}

func (t *Translator) translateFnItem(parent ID, n *ast.FnItem) ID {
	id := t.mod.addFunc(FuncRec{Name: n.Name(), Parent: parent, Extern: n.IsExtern()})
	var params []ID
	for _, p := range n.Params() {
		params = append(params, t.mod.addParam(ParamRec{
			Name:     p.Name(),
			Parent:   id,
			TypeRef:  t.translateTypeRef(p.TypeRef()),
			Variadic: p.IsVariadic(),
		}))
	}
	rec := t.mod.FuncRec(id)
	rec.Params = params
	if rt := n.ReturnType(); rt != nil {
		rec.ReturnType = t.translateTypeRef(rt)
	}
	if body := n.Body(); body != nil {
		rec.Body = t.translateBlock(id, "", body)
	}
	return id
}

func (t *Translator) translateLetItem(parent ID, n *ast.LetItem) ID {
	rec := LetRec{Parent: parent, Name: n.Name()}
	if tr := n.TypeRef(); tr != nil {
		rec.TypeRef = t.translateTypeRef(tr)
	}
	if init := n.Init(); init != nil {
		rec.Init = t.translateExpr(init)
	}
	return t.mod.addLet(rec)
}

func (t *Translator) translateTypeRef(n *ast.TypeRef) ID {
	if n == nil {
		return 0
	}
	if n.IsPointer() {
		return t.mod.addTypeRef(TypeRefRec{Pointer: true, Pointee: t.translateTypeRef(n.Pointee())})
	}
	return t.mod.addTypeRef(TypeRefRec{Name: n.Name()})
}

// translateBlock allocates a BlockRec for blk, pushing loopLabel (the
// empty string for a non-loop block) onto the loop-label stack so
// nested break/continue expressions resolve to the right loop.
func (t *Translator) translateBlock(parent ID, loopLabel string, blk *ast.BlockExpr) ID {
	t.loopLabelStack = append(t.loopLabelStack, loopLabel)
	defer func() { t.loopLabelStack = t.loopLabelStack[:len(t.loopLabelStack)-1] }()

	id := t.mod.addBlock(BlockRec{Parent: parent})
	var items []ID
	for _, it := range blk.Items() {
		items = append(items, t.translateItem(id, it))
	}
	rec := t.mod.BlockRec(id)
	rec.Items = items
	if tail := blk.Tail(); tail != nil {
		rec.Tail = t.translateExpr(tail)
	}
	return id
}

// nextLoopLabel generates a unique loop label (".L0", ".L1", ...) per
// spec §4.4: "Labels for loop bodies are generated uniquely by
// appending a monotonic counter to a base label."
func (t *Translator) nextLoopLabel() string {
	label := ".L" + strconv.Itoa(t.labelCounter)
	t.labelCounter++
	return label
}

func (t *Translator) currentLoopLabel() string {
	for i := len(t.loopLabelStack) - 1; i >= 0; i-- {
		if t.loopLabelStack[i] != "" {
			return t.loopLabelStack[i]
		}
	}
	return ""
}

func (t *Translator) translateExpr(e ast.Expr) ID {
	if e == nil {
		return 0
	}
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return t.translateLiteral(n)
	case *ast.NameRefExpr:
		return t.mod.addExpr(ExprRec{Kind: ExprNameRef, Name: n.Name()})
	case *ast.PrefixExpr:
		return t.mod.addExpr(ExprRec{Kind: ExprPrefix, Op: n.Operator(), A: t.translateExpr(n.Operand())})
	case *ast.BinExpr:
		if n.IsFieldAccess() {
			// The right side of '.'/'->' is a bare field name, not a
			// value expression — record it via Name rather than
			// recursing into translateExpr (there is no BIR entity
			// for a standalone field-name reference outside a BinExpr).
			right, _ := n.Right().(*ast.NameRefExpr)
			fieldName := ""
			if right != nil {
				fieldName = right.Name()
			}
			return t.mod.addExpr(ExprRec{Kind: ExprBin, Op: n.Operator(), A: t.translateExpr(n.Left()), Name: fieldName})
		}
		return t.mod.addExpr(ExprRec{Kind: ExprBin, Op: n.Operator(), A: t.translateExpr(n.Left()), B: t.translateExpr(n.Right())})
	case *ast.AssignExpr:
		return t.mod.addExpr(ExprRec{Kind: ExprAssign, A: t.translateExpr(n.Target()), B: t.translateExpr(n.Value())})
	case *ast.GroupExpr:
		return t.mod.addExpr(ExprRec{Kind: ExprGroup, A: t.translateExpr(n.Inner())})
	case *ast.BlockExpr:
		blockID := t.translateBlock(0, "", n)
		return t.mod.addExpr(ExprRec{Kind: ExprBlock, Block: blockID})
	case *ast.ReturnExpr:
		return t.mod.addExpr(ExprRec{Kind: ExprReturn, A: t.translateExpr(n.Value())})
	case *ast.BreakExpr:
		return t.mod.addExpr(ExprRec{Kind: ExprBreak, LoopLabel: t.currentLoopLabel()})
	case *ast.ContinueExpr:
		return t.mod.addExpr(ExprRec{Kind: ExprContinue, LoopLabel: t.currentLoopLabel()})
	case *ast.CastExpr:
		return t.mod.addExpr(ExprRec{Kind: ExprCast, A: t.translateExpr(n.Operand()), TypeRef: t.translateTypeRef(n.TargetType())})
	case *ast.CallExpr:
		var args []ID
		for _, a := range n.Args() {
			args = append(args, t.translateExpr(a))
		}
		return t.mod.addExpr(ExprRec{Kind: ExprCall, A: t.translateExpr(n.Callee()), List: args})
	case *ast.IndexExpr:
		return t.mod.addExpr(ExprRec{Kind: ExprIndex, A: t.translateExpr(n.Base()), B: t.translateExpr(n.Index())})
	case *ast.IfExpr:
		return t.translateIf(n)
	case *ast.LoopExpr:
		label := t.nextLoopLabel()
		body := t.translateBlock(0, label, n.Body())
		return t.mod.addExpr(ExprRec{Kind: ExprLoop, Block: body, LoopLabel: label})
	case *ast.WhileExpr:
		label := t.nextLoopLabel()
		cond := t.translateExpr(n.Cond())
		body := t.translateBlock(0, label, n.Body())
		return t.mod.addExpr(ExprRec{Kind: ExprWhile, A: cond, Block: body, LoopLabel: label})
	case *ast.StructLiteralExpr:
		var fields []ID
		for _, f := range n.Fields() {
			fields = append(fields, t.mod.addExpr(ExprRec{Kind: ExprStructField, Name: f.Name(), A: t.translateExpr(f.Value())}))
		}
		return t.mod.addExpr(ExprRec{Kind: ExprStructLiteral, Name: n.TypeName(), List: fields})
	default:
		return 0
	}
}

func (t *Translator) translateIf(n *ast.IfExpr) ID {
	rec := ExprRec{Kind: ExprIf, A: t.translateExpr(n.Cond()), Block: t.translateBlock(0, "", n.Then())}
	if elseIf := n.ElseIf(); elseIf != nil {
		rec.Else = t.translateIf(elseIf)
		rec.ElseIsExpr = true
	} else if elseBlk := n.Else(); elseBlk != nil {
		rec.Else = t.translateBlock(0, "", elseBlk)
	}
	return t.mod.addExpr(rec)
}

func (t *Translator) translateLiteral(n *ast.LiteralExpr) ID {
	text := n.Text()
	if strings.HasPrefix(text, `"`) {
		return t.mod.addExpr(ExprRec{Kind: ExprLiteral, Lit: t.mod.internStrLit(unquote(text))})
	}
	v, _ := strconv.ParseInt(text, 10, 64)
	return t.mod.addExpr(ExprRec{Kind: ExprLiteral, Lit: t.mod.internNumLit(v)})
}

// unquote strips the surrounding quotes from a string-literal's raw
// source text. Escape handling matches the lexer's own acceptance of
// `\"`/`\\` pairs (internal/lexer.Lexer.scanString): both are left
// as-is here since the source language defines no escape semantics
// beyond "don't terminate the string early" (spec §4.1).
func unquote(text string) string {
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		return text[1 : len(text)-1]
	}
	return text
}
