// Package sema implements the semantic checker of spec §3.4/§4.5: a
// namespace graph with unified name and type tables, built from BIR in
// five phases.
//
// This generalizes the teacher's internal/symtab (Scope/Symbol,
// internal/symtab/scope.go and symbol.go): the same "ordered member
// list + lexical parent chain" idea, retargeted from the teacher's
// Go-shaped ScopeKind set (Global/Function/Block/Loop/Switch/Struct)
// to the flatter SEMA-node Kind set this spec names (Module, Type,
// Function, Param, Var, Block, Constant, Error, Tombstone), and from
// one symbol-table tree per compilation to one graph keyed by a dense
// ID exactly like bir.ID, so a total back-map from BIR IDs to SEMA IDs
// (spec §3.4's invariant) is a single map rather than something
// recomputed per lookup.
package sema

import (
	"github.com/hassan/tyc/internal/bir"
	"github.com/hassan/tyc/internal/diag"
	"github.com/hassan/tyc/internal/sema/types"
)

// Kind is the closed set of node kinds spec §3.4 lists.
type Kind uint8

const (
	KindModule Kind = iota
	KindType
	KindFunction
	KindParam
	KindVar
	KindBlock
	KindConstant
	KindError
	KindTombstone
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindType:
		return "type"
	case KindFunction:
		return "function"
	case KindParam:
		return "param"
	case KindVar:
		return "var"
	case KindBlock:
		return "block"
	case KindConstant:
		return "constant"
	case KindError:
		return "error"
	case KindTombstone:
		return "tombstone"
	default:
		return "unknown"
	}
}

// ID indexes a Graph's node table. The zero value never denotes a
// real node.
type ID uint32

// Node is one SEMA graph entry. Only the fields relevant to Kind carry
// meaning, matching the "one tagged record" shape bir.ExprRec already
// established for this codebase.
type Node struct {
	Kind Kind
	Name string
	Type types.ID // 0 until assigned; mutated in place by Unify/finalize
	BIR  bir.ID   // originating BIR entity; 0 for synthetic nodes (builtins)

	// Function-specific.
	Params []ID // ordered Param node IDs
	Body   ID   // Block node owning the function body; 0 if extern
	Vararg bool
}

// Namespace is an ordered member list plus a lexical parent chain
// (spec §3.4: "Lookup walks owners upward unless explicitly
// restricted"). Owner is the node (Module/Function/Block/Type) this
// namespace belongs to.
type Namespace struct {
	Owner  ID
	Parent ID // owner ID of the enclosing namespace; 0 if none
	Order  []ID
	ByName map[string]ID
}

// Graph is the full namespace graph plus the unified type table built
// over one BIR module.
type Graph struct {
	Types *types.Table

	nodes      []Node
	namespaces map[ID]*Namespace

	// birToSema is the total back-map spec §3.4 requires. Expressions
	// (which own no namespace membership and are never looked up by
	// name) are not allocated full Nodes; their assigned type lives
	// directly in exprTypes keyed by their own BIR ID, which already
	// is the unique identifier spec's back-map would otherwise need a
	// redundant parallel SEMA ID for. Declarations (modules, types,
	// functions, params, vars) get real Nodes and appear in
	// birToSema too.
	birToSema map[bir.ID]ID
	exprTypes map[bir.ID]types.ID

	// nameTargets records, for every NameRef expression, which SEMA
	// node it resolved to — LIR lowering (a separate package) needs
	// this to turn a name reference into the right Var/Param slot or
	// Function global without re-walking the namespace graph itself.
	nameTargets map[bir.ID]ID

	// CallEdges records (caller, callee) Function-node ID pairs for
	// every resolved call site (spec §3.4 "caller → callee edges").
	CallEdges [][2]ID

	Errors diag.Bag
}

func newGraph() *Graph {
	return &Graph{
		Types:      types.NewTable(),
		namespaces: map[ID]*Namespace{},
		birToSema:   map[bir.ID]ID{},
		exprTypes:   map[bir.ID]types.ID{},
		nameTargets: map[bir.ID]ID{},
	}
}

func (g *Graph) newNode(n Node) ID {
	g.nodes = append(g.nodes, n)
	id := ID(len(g.nodes))
	if n.BIR != 0 {
		g.birToSema[n.BIR] = id
	}
	return id
}

// Node returns a pointer to id's record for in-place mutation (used
// by phase 5's Prototype→Aggregate upgrade and by Unify).
func (g *Graph) Node(id ID) *Node { return &g.nodes[id-1] }

// NodeCount reports how many SEMA nodes exist, for driver summaries
// (cmd/tyc's -a sema stage report).
func (g *Graph) NodeCount() int { return len(g.nodes) }

// SemaID looks up the SEMA node a BIR entity translated to, if any.
func (g *Graph) SemaID(b bir.ID) (ID, bool) {
	id, ok := g.birToSema[b]
	return id, ok
}

func (g *Graph) newNamespace(owner, parent ID) *Namespace {
	ns := &Namespace{Owner: owner, Parent: parent, ByName: map[string]ID{}}
	g.namespaces[owner] = ns
	return ns
}

// Namespace returns the namespace owned by owner, or nil if owner
// doesn't own one (e.g. a Param or Var node).
func (g *Graph) Namespace(owner ID) *Namespace { return g.namespaces[owner] }

// define inserts id into ns under its own Name, or, if the name already
// exists in ns, reports a duplicate diagnostic and leaves ns unchanged
// (no further node is allocated).
func (g *Graph) define(ns *Namespace, id ID, offset int, kind diag.Kind) bool {
	n := g.Node(id)
	if _, exists := ns.ByName[n.Name]; exists {
		g.Errors.Add(kind, offset, 0, "%q is already declared in this scope", n.Name)
		return false
	}
	ns.ByName[n.Name] = id
	ns.Order = append(ns.Order, id)
	return true
}

// Lookup resolves name starting at nsOwner's namespace and walking
// Parent links outward (spec §3.4 "walking owners upward").
func (g *Graph) Lookup(nsOwner ID, name string) (ID, bool) {
	for nsOwner != 0 {
		ns := g.namespaces[nsOwner]
		if ns == nil {
			return 0, false
		}
		if id, ok := ns.ByName[name]; ok {
			return id, true
		}
		nsOwner = ns.Parent
	}
	return 0, false
}

func (g *Graph) setExprType(id bir.ID, ty types.ID) { g.exprTypes[id] = ty }
func (g *Graph) exprType(id bir.ID) types.ID        { return g.exprTypes[id] }

// ExprType exposes an expression's checked type to later stages (LIR
// lowering); the unexported exprType above is the in-package spelling.
func (g *Graph) ExprType(id bir.ID) types.ID { return g.exprTypes[id] }

// NameTarget exposes which SEMA node a NameRef expression resolved to,
// for LIR lowering to turn into a Var/Param slot or Function global.
func (g *Graph) NameTarget(id bir.ID) (ID, bool) {
	t, ok := g.nameTargets[id]
	return t, ok
}

// Unify implements spec §4.5's five-step algorithm exactly. A zero
// TypeID plays the role of spec's "error" type (the value an
// unresolved name lookup or an earlier failure leaves behind), since
// the types.Table's own Kind set has no Error member — any BIR site
// that never got assigned a type reads as 0, "the other side wins"
// applies identically.
func (g *Graph) Unify(a, b types.ID) (types.ID, bool) {
	if a == 0 {
		return b, true
	}
	if b == 0 {
		return a, true
	}
	if g.Types.IsMarker(a) {
		g.resolveMarker(a, b)
		return b, true
	}
	if g.Types.IsMarker(b) {
		g.resolveMarker(b, a)
		return a, true
	}
	if g.Types.IsNever(a) {
		return b, true
	}
	if g.Types.IsNever(b) {
		return a, true
	}
	if g.Types.Equal(a, b) {
		return a, true
	}
	return 0, false
}

// resolveMarker replaces every occurrence of marker across both
// backing stores (declaration Nodes and expression type slots) with
// target, then tombstones the marker entry itself (spec §4.5 step 2:
// "mark the marker tombstoned" — the marker's Table entry becomes
// unreachable since nothing references its ID anymore, so no explicit
// rewrite of the Table entry is needed beyond no longer pointing at it).
func (g *Graph) resolveMarker(marker, target types.ID) {
	for i := range g.nodes {
		if g.nodes[i].Type == marker {
			g.nodes[i].Type = target
		}
	}
	for k, v := range g.exprTypes {
		if v == marker {
			g.exprTypes[k] = target
		}
	}
}

// recordCall appends a caller→callee edge if both ends resolved to
// Function nodes.
func (g *Graph) recordCall(caller, callee ID) {
	g.CallEdges = append(g.CallEdges, [2]ID{caller, callee})
}

// Check runs the full five-phase pipeline (spec §4.5) over mod and
// returns the resulting Graph together with every diagnostic raised.
func Check(mod *bir.Module) (*Graph, diag.Bag) {
	g := newGraph()
	c := &checker{g: g, mod: mod}
	c.phase1CreateModules()
	c.phase2InstallBuiltins()
	c.phase3PrototypeTypes()
	c.phase4PrototypeFunctions()
	c.phase5Finalize()
	return g, g.Errors
}

// checker holds the transient state the five phases share; Graph
// itself stays a clean, phase-agnostic data structure.
type checker struct {
	g   *Graph
	mod *bir.Module

	// rootModuleSema is the SEMA node for the BIR module with no
	// parent (mod.Root's enclosing unit), where builtins live.
	rootModuleSema ID
}

func (c *checker) phase1CreateModules() {
	for _, bid := range c.mod.AllModuleIDs() {
		rec := c.mod.ModuleRec(bid)
		var parentSema ID
		if rec.Parent != 0 {
			parentSema, _ = c.g.SemaID(rec.Parent)
		}
		id := c.g.newNode(Node{Kind: KindModule, Name: rec.Name, BIR: bid})
		c.g.newNamespace(id, parentSema)
		if rec.Parent == 0 {
			c.rootModuleSema = id
		}
	}
}

func (c *checker) phase2InstallBuiltins() {
	t := c.g.Types
	install := func(name string, ty types.ID) {
		id := c.g.newNode(Node{Kind: KindType, Name: name, Type: ty})
		ns := c.g.Namespace(c.rootModuleSema)
		c.g.define(ns, id, 0, diag.BindingDuplicateType)
	}
	install("void", t.VoidID)
	install("bool", t.BoolID)
	install("i8", t.I8ID)
	install("i16", t.I16ID)
	install("i32", t.I32ID)
	install("i64", t.I64ID)
	install("str", t.StrID)
	install("!", t.NeverID)
}

func (c *checker) phase3PrototypeTypes() {
	for _, bid := range c.mod.AllTypeDefIDs() {
		rec := c.mod.TypeDefRec(bid)
		moduleSema, _ := c.g.SemaID(rec.Parent)
		ty := c.g.Types.NewPrototype(rec.Name)
		id := c.g.newNode(Node{Kind: KindType, Name: rec.Name, BIR: bid, Type: ty})
		ns := c.g.Namespace(moduleSema)
		if ns != nil {
			c.g.define(ns, id, 0, diag.BindingDuplicateType)
		}
		// The type's own namespace holds its members and is isolated
		// (Parent == 0): spec §4.5 "field access... with parent lookups
		// disabled".
		c.g.newNamespace(id, 0)
	}
}

func (c *checker) phase4PrototypeFunctions() {
	for _, bid := range c.mod.AllFuncIDs() {
		rec := c.mod.FuncRec(bid)
		moduleSema, _ := c.g.SemaID(rec.Parent)

		paramTypes := make([]types.ID, 0, len(rec.Params))
		vararg := false
		for _, pid := range rec.Params {
			prec := c.mod.ParamRec(pid)
			if prec.Variadic {
				vararg = true
				continue
			}
			pt, ok := c.resolveTypeRef(moduleSema, prec.TypeRef)
			if !ok {
				pt = 0
			}
			paramTypes = append(paramTypes, pt)
		}
		retType := c.g.Types.VoidID
		if rec.ReturnType != 0 {
			if rt, ok := c.resolveTypeRef(moduleSema, rec.ReturnType); ok {
				retType = rt
			}
		}
		fnType := c.g.Types.NewFunction(retType, paramTypes, vararg)
		id := c.g.newNode(Node{Kind: KindFunction, Name: rec.Name, BIR: bid, Type: fnType, Vararg: vararg})
		ns := c.g.Namespace(moduleSema)
		if ns != nil {
			c.g.define(ns, id, 0, diag.BindingDuplicateBinding)
		}
		// Functions own a namespace (params live here) parented at the
		// enclosing module's, per spec §3.4's owner-chain lookup rule.
		c.g.newNamespace(id, moduleSema)
	}
}

func (c *checker) phase5Finalize() {
	// Types: prototype → aggregate, in place so existing Pointer/
	// Function types referencing the prototype ID transparently see
	// the finished aggregate.
	for _, bid := range c.mod.AllTypeDefIDs() {
		typeSema, _ := c.g.SemaID(bid)
		rec := c.mod.TypeDefRec(bid)
		protoID := c.g.Node(typeSema).Type
		memberNS := c.g.Namespace(typeSema)

		var members []types.Member
		for _, mid := range rec.Members {
			mrec := c.mod.MemberRec(mid)
			mt, ok := c.resolveTypeRef(c.moduleOf(typeSema), mrec.TypeRef)
			if !ok {
				mt = 0
			}
			members = append(members, types.Member{Name: mrec.Name, Type: mt})
			// Member declarations are syntactically valid entities too
			// (spec §3.4's back-map must be total over them); no
			// dedicated Kind exists for "aggregate field" so they reuse
			// Var, the closest existing "named, typed slot" kind.
			memberNode := c.g.newNode(Node{Kind: KindVar, Name: mrec.Name, BIR: mid, Type: mt})
			if memberNS != nil {
				c.g.define(memberNS, memberNode, 0, diag.BindingDuplicateBinding)
			}
		}
		c.g.Types.Set(protoID, types.Type{Kind: types.Aggregate, Name: rec.Name, Members: members})
	}

	// Functions: allocate params, then check the body if one exists.
	for _, bid := range c.mod.AllFuncIDs() {
		fnSema, _ := c.g.SemaID(bid)
		rec := c.mod.FuncRec(bid)
		fnNS := c.g.Namespace(fnSema)
		fnTy := c.g.Types.Get(c.g.Node(fnSema).Type)

		paramIdx := 0
		var params []ID
		for _, pid := range rec.Params {
			prec := c.mod.ParamRec(pid)
			if prec.Variadic {
				continue
			}
			pt := types.ID(0)
			if paramIdx < len(fnTy.Params) {
				pt = fnTy.Params[paramIdx]
			}
			paramIdx++
			pnode := c.g.newNode(Node{Kind: KindParam, Name: prec.Name, BIR: pid, Type: pt})
			if fnNS != nil {
				c.g.define(fnNS, pnode, 0, diag.BindingDuplicateBinding)
			}
			params = append(params, pnode)
		}
		c.g.Node(fnSema).Params = params

		if rec.Body == 0 {
			continue // extern
		}
		ec := &exprChecker{g: c.g, mod: c.mod, fn: fnSema, fnReturn: fnTy.Return}
		bodyTy, blockSema := ec.checkBlock(fnSema, rec.Body)
		c.g.Node(fnSema).Body = blockSema
		if _, ok := c.g.Unify(bodyTy, fnTy.Return); !ok {
			c.g.Errors.AddPair(diag.TypeUnification, 0, 0, uint32(bodyTy), uint32(fnTy.Return),
				"function body type %s does not unify with declared return type %s",
				c.g.Types.String(bodyTy), c.g.Types.String(fnTy.Return))
		}
	}
}

// moduleOf walks a Type/Function sema node back to its owning
// module's sema ID by re-deriving it from the BIR parent chain, since
// Node itself doesn't keep a direct "enclosing module" pointer for
// types (only the namespace graph does, indirectly).
func (c *checker) moduleOf(semaID ID) ID {
	n := c.g.Node(semaID)
	if n.BIR == 0 {
		return c.rootModuleSema
	}
	switch c.mod.Kind(n.BIR) {
	case bir.KindTypeDef:
		parent := c.mod.TypeDefRec(n.BIR).Parent
		moduleSema, _ := c.g.SemaID(parent)
		return moduleSema
	case bir.KindFunc:
		parent := c.mod.FuncRec(n.BIR).Parent
		moduleSema, _ := c.g.SemaID(parent)
		return moduleSema
	default:
		return c.rootModuleSema
	}
}

// resolveTypeRef resolves a bir.TypeRefRec to a concrete types.ID,
// looking up named types in moduleSema's namespace and interning
// pointers on demand (spec §4.5 "introducing ... pointer types on
// demand").
func (c *checker) resolveTypeRef(moduleSema ID, ref bir.ID) (types.ID, bool) {
	if ref == 0 {
		return c.g.Types.VoidID, true
	}
	rec := c.mod.TypeRefRec(ref)
	if rec.Pointer {
		pointee, ok := c.resolveTypeRef(moduleSema, rec.Pointee)
		if !ok {
			return 0, false
		}
		return c.g.Types.Intern(types.Type{Kind: types.Pointer, Pointee: pointee}), true
	}
	id, ok := c.g.Lookup(moduleSema, rec.Name)
	if !ok || c.g.Node(id).Kind != KindType {
		c.g.Errors.Add(diag.NameUnknownType, 0, 0, "unknown type %q", rec.Name)
		return 0, false
	}
	return c.g.Node(id).Type, true
}
