// Package bir implements the Bridge IR described in spec §3.3: a flat
// arena keyed by a single dense integer ID, generalizing the teacher's
// ir.Value/kind-tag style (internal/ir) from "values in a function" to
// "every syntactic entity in a translation unit" — module, import,
// type definition and member, function, parameter, block, item, let,
// expression, name, typeref, and literal all become one ID apiece.
package bir

// ID is a dense arena index. The zero value never denotes a real
// entity — valid IDs start at 1 — so a zero-valued ID field reads as
// "absent" (e.g. FuncRec.Body for an extern function).
type ID uint32

// Kind tags what nodes[id] actually is, mirroring spec §3.3's parallel
// "nodes[id] → kind" table.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindModule
	KindImport
	KindTypeDef
	KindMember
	KindFunc
	KindParam
	KindBlock
	KindLet
	KindExprItem
	KindExpr
	KindName
	KindTypeRef
	KindNumLit
	KindStrLit
)

// ExprKind discriminates the Expr arena's single record shape — spec
// §3.2 lists the AST's expression variants; BIR keeps the same set but
// resolved to IDs instead of syntax-tree children.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprNameRef
	ExprPrefix
	ExprBin
	ExprAssign
	ExprGroup
	ExprBlock
	ExprReturn
	ExprBreak
	ExprContinue
	ExprCast
	ExprCall
	ExprIndex
	ExprIf
	ExprLoop
	ExprWhile
	ExprStructLiteral
	ExprStructField
)

// ModuleRec is a `mod name { ... }` or the top-level translation unit
// (Parent == 0, Name == "").
type ModuleRec struct {
	Name   string
	Parent ID
	Items  []ID
}

// ImportRec is `import name;`.
type ImportRec struct {
	Name   string
	Parent ID
}

// TypeDefRec is `type Name { members }`.
type TypeDefRec struct {
	Name    string
	Parent  ID
	Members []ID
}

// MemberRec is one `name: type` field of a TypeDefRec.
type MemberRec struct {
	Name    string
	Parent  ID
	TypeRef ID
}

// FuncRec is `fn name(params) -> ret { body }`, or an extern
// declaration when Body == 0.
type FuncRec struct {
	Name       string
	Parent     ID
	Params     []ID
	ReturnType ID // 0 means omitted (void, spec §4.5)
	Body       ID // block ID, or 0 for extern
	Extern     bool
}

// ParamRec is one `name: type` parameter, or the variadic `...`
// marker when Variadic is true (Name/TypeRef are then both zero).
type ParamRec struct {
	Name     string
	Parent   ID
	TypeRef  ID
	Variadic bool
}

// BlockRec is a lexical block: an ordered list of items (lets,
// expr-items, and nested item forms per spec §6.2's block grammar)
// plus an optional tail expression with no trailing `;`.
type BlockRec struct {
	Parent ID
	Items  []ID
	Tail   ID // 0 if the block ends in a `;`-terminated item
}

// LetRec is `let name: type = init;`.
type LetRec struct {
	Parent  ID
	Name    string
	TypeRef ID // 0 if the annotation was omitted
	Init    ID // 0 if there is no initializer
}

// ExprItemRec wraps a bare expression used as a statement.
type ExprItemRec struct {
	Parent ID
	Expr   ID
}

// ExprRec is the single tagged-union record for every expression kind.
// Not every field is meaningful for every Kind; the comment on each
// field below names the kinds that use it.
type ExprRec struct {
	Kind ExprKind

	// A/B are the primary operand slots (e.g. Bin.Left/Right,
	// Cast.Operand, If.Cond, Index.Base/Index).
	A, B ID

	// List holds variable-length operand sequences (Call args,
	// StructLiteral fields).
	List []ID

	// Op names the textual operator for Prefix/Bin (e.g. "+", "==",
	// ".", "->") and is empty otherwise.
	Op string

	// Name carries NameRef's identifier, or (for StructLiteral) the
	// literal's type name.
	Name string

	// Lit points at the deduplicated NumLit/StrLit entity for
	// ExprLiteral.
	Lit ID

	// TypeRef is Cast's target type.
	TypeRef ID

	// Block is used by ExprBlock/ExprLoop/ExprWhile/ExprIf's branches.
	Block ID

	// Else holds an If's else-block ID, or the chained "else if"'s
	// ExprRec ID (ElseIsExpr distinguishes which).
	Else       ID
	ElseIsExpr bool

	// LoopLabel is the unique per-loop label assigned at translation
	// time (spec §4.4); used by Break/Continue to record which loop
	// they target and by LIR lowering to name blocks.
	LoopLabel string
}

// NameRec is a resolved identifier occurrence.
type NameRec struct {
	Text string
}

// TypeRefRec is either a named type or (Pointer == true) a pointer to
// Pointee.
type TypeRefRec struct {
	Pointer bool
	Name    string
	Pointee ID
}

// NumLitRec/StrLitRec are deduplicated literal values (spec §3.3:
// "Literals are deduplicated by value").
type NumLitRec struct{ Value int64 }
type StrLitRec struct{ Value string }

// Module is the arena for one translation unit. Every entity kind
// gets its own slice, and id's record sits at position index[id-1] in
// it; nodes[id-1] records which slice to consult, matching spec §3.3's
// "parallel nodes[id] → kind" table exactly.
type Module struct {
	nodes []Kind
	// index[id-1] is id's position within its own kind's slice below,
	// recorded at allocation time so Kind()+index gives O(1) lookup
	// instead of rescanning nodes on every accessor call.
	index []int

	modules   []ModuleRec
	imports   []ImportRec
	typedefs  []TypeDefRec
	members   []MemberRec
	funcs     []FuncRec
	params    []ParamRec
	blocks    []BlockRec
	lets      []LetRec
	exprItems []ExprItemRec
	exprs     []ExprRec
	names     []NameRec
	typerefs  []TypeRefRec
	numLits   []NumLitRec
	strLits   []StrLitRec

	numLitDedup map[int64]ID
	strLitDedup map[string]ID

	// Root is the ID of the translation unit's top-level ModuleRec.
	Root ID
}

// NewModule creates an empty arena.
func NewModule() *Module {
	return &Module{
		numLitDedup: map[int64]ID{},
		strLitDedup: map[string]ID{},
	}
}

// Kind returns the entity kind stored at id.
func (m *Module) Kind(id ID) Kind {
	if id == 0 || int(id) > len(m.nodes) {
		return KindInvalid
	}
	return m.nodes[id-1]
}

// alloc records a new entity of kind k at slice position pos (its
// index within that kind's own table) and returns its dense ID.
func (m *Module) alloc(k Kind, pos int) ID {
	m.nodes = append(m.nodes, k)
	m.index = append(m.index, pos)
	return ID(len(m.nodes))
}

func (m *Module) addModule(r ModuleRec) ID {
	m.modules = append(m.modules, r)
	return m.alloc(KindModule, len(m.modules)-1)
}
func (m *Module) addImport(r ImportRec) ID {
	m.imports = append(m.imports, r)
	return m.alloc(KindImport, len(m.imports)-1)
}
func (m *Module) addTypeDef(r TypeDefRec) ID {
	m.typedefs = append(m.typedefs, r)
	return m.alloc(KindTypeDef, len(m.typedefs)-1)
}
func (m *Module) addMember(r MemberRec) ID {
	m.members = append(m.members, r)
	return m.alloc(KindMember, len(m.members)-1)
}
func (m *Module) addFunc(r FuncRec) ID {
	m.funcs = append(m.funcs, r)
	return m.alloc(KindFunc, len(m.funcs)-1)
}
func (m *Module) addParam(r ParamRec) ID {
	m.params = append(m.params, r)
	return m.alloc(KindParam, len(m.params)-1)
}
func (m *Module) addBlock(r BlockRec) ID {
	m.blocks = append(m.blocks, r)
	return m.alloc(KindBlock, len(m.blocks)-1)
}
func (m *Module) addLet(r LetRec) ID {
	m.lets = append(m.lets, r)
	return m.alloc(KindLet, len(m.lets)-1)
}
func (m *Module) addExprItem(r ExprItemRec) ID {
	m.exprItems = append(m.exprItems, r)
	return m.alloc(KindExprItem, len(m.exprItems)-1)
}
func (m *Module) addExpr(r ExprRec) ID {
	m.exprs = append(m.exprs, r)
	return m.alloc(KindExpr, len(m.exprs)-1)
}
func (m *Module) addName(r NameRec) ID {
	m.names = append(m.names, r)
	return m.alloc(KindName, len(m.names)-1)
}
func (m *Module) addTypeRef(r TypeRefRec) ID {
	m.typerefs = append(m.typerefs, r)
	return m.alloc(KindTypeRef, len(m.typerefs)-1)
}

// internNumLit returns the shared NumLit ID for value, allocating one
// on first use (spec §3.3/§4.4: "identical number ... literals share a
// single BIR ID").
func (m *Module) internNumLit(value int64) ID {
	if id, ok := m.numLitDedup[value]; ok {
		return id
	}
	m.numLits = append(m.numLits, NumLitRec{Value: value})
	id := m.alloc(KindNumLit, len(m.numLits)-1)
	m.numLitDedup[value] = id
	return id
}

// internStrLit returns the shared StrLit ID for value, allocating one
// on first use.
func (m *Module) internStrLit(value string) ID {
	if id, ok := m.strLitDedup[value]; ok {
		return id
	}
	m.strLits = append(m.strLits, StrLitRec{Value: value})
	id := m.alloc(KindStrLit, len(m.strLits)-1)
	m.strLitDedup[value] = id
	return id
}

// Module/Import/TypeDef/Member/Func/Param/Block/Let/ExprItem/Name/
// TypeRef accessors return the record by ID; callers only ever call
// these after checking Kind, mirroring the teacher's "kind-indexed map"
// idiom (internal/ir's ValueKind switch) generalized to many tables.

func (m *Module) ModuleRec(id ID) *ModuleRec     { return &m.modules[m.index[id-1]] }
func (m *Module) ImportRec(id ID) *ImportRec     { return &m.imports[m.index[id-1]] }
func (m *Module) TypeDefRec(id ID) *TypeDefRec   { return &m.typedefs[m.index[id-1]] }
func (m *Module) MemberRec(id ID) *MemberRec     { return &m.members[m.index[id-1]] }
func (m *Module) FuncRec(id ID) *FuncRec         { return &m.funcs[m.index[id-1]] }
func (m *Module) ParamRec(id ID) *ParamRec       { return &m.params[m.index[id-1]] }
func (m *Module) BlockRec(id ID) *BlockRec       { return &m.blocks[m.index[id-1]] }
func (m *Module) LetRec(id ID) *LetRec           { return &m.lets[m.index[id-1]] }
func (m *Module) ExprItemRec(id ID) *ExprItemRec { return &m.exprItems[m.index[id-1]] }
func (m *Module) ExprRec(id ID) *ExprRec         { return &m.exprs[m.index[id-1]] }
func (m *Module) NameRec(id ID) *NameRec         { return &m.names[m.index[id-1]] }
func (m *Module) TypeRefRec(id ID) *TypeRefRec   { return &m.typerefs[m.index[id-1]] }
func (m *Module) NumLitRec(id ID) *NumLitRec     { return &m.numLits[m.index[id-1]] }
func (m *Module) StrLitRec(id ID) *StrLitRec     { return &m.strLits[m.index[id-1]] }

// AllFuncIDs returns every function ID in the arena, in translation order —
// used by SEMA's prototype-function phase and by LIR lowering, both of
// which need to walk all functions regardless of which module nests
// them.
func (m *Module) AllFuncIDs() []ID {
	var out []ID
	for id := ID(1); int(id) <= len(m.nodes); id++ {
		if m.nodes[id-1] == KindFunc {
			out = append(out, id)
		}
	}
	return out
}

// AllTypeDefIDs returns every type-definition ID in the arena, in
// translation order.
func (m *Module) AllTypeDefIDs() []ID {
	var out []ID
	for id := ID(1); int(id) <= len(m.nodes); id++ {
		if m.nodes[id-1] == KindTypeDef {
			out = append(out, id)
		}
	}
	return out
}

// AllModuleIDs returns every ModuleRec ID in the arena (the top-level
// unit plus every nested `mod`), in translation order.
func (m *Module) AllModuleIDs() []ID {
	var out []ID
	for id := ID(1); int(id) <= len(m.nodes); id++ {
		if m.nodes[id-1] == KindModule {
			out = append(out, id)
		}
	}
	return out
}
