package lir

import (
	"github.com/hassan/tyc/internal/bir"
	"github.com/hassan/tyc/internal/sema"
	"github.com/hassan/tyc/internal/sema/types"
)

// Lower implements spec §4.6: it walks every function in mod, using g
// (the already-checked SEMA graph — callers must confirm g.Errors has
// no errors first, same precondition the teacher's internal/ir.Builder
// places on its caller) to resolve names and types, and produces an
// lir.Module. This generalizes the teacher's ir.Builder (internal/ir/
// builder.go), which walks a *ast.Program directly; here the walk
// consumes BIR (already flattened) plus SEMA (already type-resolved),
// so lowering itself only has to make control-flow and addressing
// decisions, not name or type resolution.
func Lower(mod *bir.Module, g *sema.Graph) *Module {
	lm := NewModule(g.Types)
	lw := &lowerer{mod: mod, g: g, lm: lm, funcBySema: map[sema.ID]*funcEntry{}}

	// Pass 1: create every function's shell (name, params, return type)
	// and register its global Function value before lowering any body,
	// so direct and mutually-recursive calls resolve regardless of
	// declaration order (spec §4.5 phase 4's "forward references
	// succeed since prototypes exist" carried through to LIR).
	for _, fid := range mod.AllFuncIDs() {
		lw.declareFunc(fid)
	}
	for _, fid := range mod.AllFuncIDs() {
		lw.lowerFuncBody(fid)
	}
	return lm
}

type funcEntry struct {
	bir        bir.ID
	fn         *Function
	global     ValueID
	paramSlots map[sema.ID]slotInfo
}

// slotInfo records how a Var/Param sema node is realized in LIR: a
// Param's slot IS its value; a Var's slot is the pointer a Var
// instruction produced, requiring Load/Store to read/write it (spec
// §4.6: "variables become Var instructions ... reads and writes go
// through Load and Store").
type slotInfo struct {
	id    ValueID
	isVar bool
}

type loopTarget struct {
	header, exit ValueID
}

type lowerer struct {
	mod *bir.Module
	g   *sema.Graph
	lm  *Module

	funcBySema map[sema.ID]*funcEntry

	// Per-function state, reset in lowerFuncBody.
	fn          *Function
	cur         *Block
	slots       map[sema.ID]slotInfo
	loopTargets map[string]loopTarget
}

func (lw *lowerer) declareFunc(fid bir.ID) {
	rec := lw.mod.FuncRec(fid)
	fnSemaID, _ := lw.g.SemaID(fid)
	fnTy := lw.g.Types.Get(lw.g.Node(fnSemaID).Type)

	fn := newFunction(rec.Name, fnTy.Return)
	paramSlots := map[sema.ID]slotInfo{}
	pidx := 0
	for _, pid := range rec.Params {
		prec := lw.mod.ParamRec(pid)
		if prec.Variadic {
			continue
		}
		paramSemaID, _ := lw.g.SemaID(pid)
		var pty types.ID
		if pidx < len(fnTy.Params) {
			pty = fnTy.Params[pidx]
		}
		pidx++
		vid := fn.addParam(prec.Name, pty)
		paramSlots[paramSemaID] = slotInfo{id: vid}
	}
	gid := lw.lm.AddFunction(fn)
	lw.funcBySema[fnSemaID] = &funcEntry{bir: fid, fn: fn, global: gid, paramSlots: paramSlots}
}

func (lw *lowerer) lowerFuncBody(fid bir.ID) {
	rec := lw.mod.FuncRec(fid)
	fnSemaID, _ := lw.g.SemaID(fid)
	fe := lw.funcBySema[fnSemaID]
	lw.fn = fe.fn
	lw.slots = map[sema.ID]slotInfo{}
	for k, v := range fe.paramSlots {
		lw.slots[k] = v
	}
	lw.loopTargets = map[string]loopTarget{}

	if rec.Extern || rec.Body == 0 {
		return
	}

	entry := lw.fn.NewBlock("entry")
	lw.fn.Entry = entry.ID
	lw.cur = entry
	tail := lw.lowerBlockInline(rec.Body)
	if !lw.cur.IsTerminated(lw.fn) {
		lw.emitReturn(tail)
	}
}

func (lw *lowerer) emitReturn(v ValueRef) {
	lw.fn.emit(lw.cur, InstReturn, false, 0, []ValueRef{v})
}

func (lw *lowerer) voidRef() ValueRef { return ValueRef{ID: lw.lm.VoidValue} }

func (lw *lowerer) ptrTo(pointee types.ID) types.ID {
	return lw.lm.Types.Intern(types.Type{Kind: types.Pointer, Pointee: pointee})
}

// lowerBlockInline lowers every item of a BIR block into the current
// LIR block (no new Block is created — BIR blocks only become LIR
// Blocks at control-flow joins, per spec §4.6) and returns its tail
// expression's value, or the module's void value if the block has
// none.
func (lw *lowerer) lowerBlockInline(blockID bir.ID) ValueRef {
	rec := lw.mod.BlockRec(blockID)
	for _, itemID := range rec.Items {
		lw.lowerItem(itemID)
	}
	if rec.Tail != 0 {
		return lw.lowerExpr(rec.Tail)
	}
	return lw.voidRef()
}

func (lw *lowerer) lowerItem(itemID bir.ID) {
	switch lw.mod.Kind(itemID) {
	case bir.KindLet:
		lw.lowerLet(itemID)
	case bir.KindExprItem:
		rec := lw.mod.ExprItemRec(itemID)
		lw.lowerExpr(rec.Expr)
	}
}

func (lw *lowerer) lowerLet(letID bir.ID) {
	rec := lw.mod.LetRec(letID)
	semaID, _ := lw.g.SemaID(letID)
	varTy := lw.g.Node(semaID).Type

	inst := lw.fn.emit(lw.cur, InstVar, true, lw.ptrTo(varTy), nil)
	inst.VarType = varTy
	lw.slots[semaID] = slotInfo{id: inst.ID, isVar: true}

	if rec.Init != 0 {
		val := lw.lowerExpr(rec.Init)
		lw.fn.emit(lw.cur, InstStore, false, 0, []ValueRef{{ID: inst.ID}, val})
	}
}

// lowerExpr lowers exprID as an r-value and returns the ValueRef
// holding its result.
func (lw *lowerer) lowerExpr(exprID bir.ID) ValueRef {
	if exprID == 0 {
		return lw.voidRef()
	}
	rec := lw.mod.ExprRec(exprID)
	switch rec.Kind {
	case bir.ExprLiteral:
		return lw.lowerLiteral(exprID, rec)
	case bir.ExprNameRef:
		return lw.lowerNameRef(exprID)
	case bir.ExprPrefix:
		return lw.lowerPrefix(exprID, rec)
	case bir.ExprBin:
		return lw.lowerBin(exprID, rec)
	case bir.ExprAssign:
		return lw.lowerAssign(rec)
	case bir.ExprGroup:
		return lw.lowerExpr(rec.A)
	case bir.ExprBlock:
		return lw.lowerBlockInline(rec.Block)
	case bir.ExprReturn:
		return lw.lowerReturn(rec)
	case bir.ExprBreak:
		lw.lowerJumpTo(rec.LoopLabel, true)
		return lw.voidRef()
	case bir.ExprContinue:
		lw.lowerJumpTo(rec.LoopLabel, false)
		return lw.voidRef()
	case bir.ExprCast:
		return lw.lowerCast(exprID, rec)
	case bir.ExprCall:
		return lw.lowerCall(exprID, rec)
	case bir.ExprIndex:
		addr := lw.lowerIndexAddress(rec)
		elemTy := lw.g.ExprType(exprID)
		ld := lw.fn.emit(lw.cur, InstLoad, true, elemTy, []ValueRef{addr})
		return ValueRef{ID: ld.ID}
	case bir.ExprIf:
		return lw.lowerIf(exprID, rec)
	case bir.ExprLoop:
		lw.lowerLoop(rec)
		return lw.voidRef()
	case bir.ExprWhile:
		lw.lowerWhile(rec)
		return lw.voidRef()
	case bir.ExprStructLiteral:
		return lw.lowerStructLiteral(exprID, rec)
	case bir.ExprStructField:
		return lw.lowerExpr(rec.A)
	default:
		return lw.voidRef()
	}
}

func (lw *lowerer) lowerLiteral(exprID bir.ID, rec *bir.ExprRec) ValueRef {
	if lw.mod.Kind(rec.Lit) == bir.KindStrLit {
		v := lw.mod.StrLitRec(rec.Lit).Value
		return ValueRef{ID: lw.lm.StrConstant(v)}
	}
	v := lw.mod.NumLitRec(rec.Lit).Value
	ty := lw.g.ExprType(exprID)
	return ValueRef{ID: lw.lm.IntConstant(v, ty)}
}

func (lw *lowerer) lowerNameRef(exprID bir.ID) ValueRef {
	target, ok := lw.g.NameTarget(exprID)
	if !ok {
		return lw.voidRef()
	}
	node := lw.g.Node(target)
	switch node.Kind {
	case sema.KindVar:
		slot := lw.slots[target]
		ld := lw.fn.emit(lw.cur, InstLoad, true, node.Type, []ValueRef{{ID: slot.id}})
		return ValueRef{ID: ld.ID}
	case sema.KindParam:
		slot := lw.slots[target]
		return ValueRef{ID: slot.id}
	case sema.KindFunction:
		if fe, ok := lw.funcBySema[target]; ok {
			return ValueRef{ID: fe.global}
		}
		return lw.voidRef()
	default:
		return lw.voidRef()
	}
}

// lowerAddress resolves exprID as an addressable l-value, returning
// the pointer ValueRef to store through (spec §4.6's "Var-allocated
// addresses are lvalues" extended to deref/field/index targets).
func (lw *lowerer) lowerAddress(exprID bir.ID) ValueRef {
	rec := lw.mod.ExprRec(exprID)
	switch rec.Kind {
	case bir.ExprNameRef:
		target, _ := lw.g.NameTarget(exprID)
		slot := lw.slots[target]
		return ValueRef{ID: slot.id}
	case bir.ExprPrefix: // "*" — the pointer value itself is the address
		return lw.lowerExpr(rec.A)
	case bir.ExprBin: // "." or "->"
		return lw.lowerFieldAddress(rec)
	case bir.ExprIndex:
		return lw.lowerIndexAddress(rec)
	case bir.ExprGroup:
		return lw.lowerAddress(rec.A)
	default:
		return lw.lowerExpr(exprID)
	}
}

func (lw *lowerer) lowerFieldAddress(rec *bir.ExprRec) ValueRef {
	baseTy := lw.g.ExprType(rec.A)
	var baseAddr ValueRef
	var aggTy types.ID
	if rec.Op == "->" {
		baseAddr = lw.lowerExpr(rec.A) // pointer rvalue is already the address
		aggTy = lw.lm.Types.Get(baseTy).Pointee
	} else {
		baseAddr = lw.lowerAddress(rec.A)
		aggTy = baseTy
	}
	idx, _ := lw.lm.Types.MemberIndex(aggTy, rec.Name)
	member, _ := lw.lm.Types.LookupMember(aggTy, rec.Name)
	inst := lw.fn.emit(lw.cur, InstGetField, true, lw.ptrTo(member.Type), []ValueRef{baseAddr})
	inst.FieldIndex = idx
	return ValueRef{ID: inst.ID}
}

func (lw *lowerer) lowerIndexAddress(rec *bir.ExprRec) ValueRef {
	base := lw.lowerExpr(rec.A)
	index := lw.lowerExpr(rec.B)
	baseTy := lw.g.ExprType(rec.A)
	inst := lw.fn.emit(lw.cur, InstOffset, true, baseTy, []ValueRef{base, index})
	return ValueRef{ID: inst.ID}
}

func (lw *lowerer) lowerPrefix(exprID bir.ID, rec *bir.ExprRec) ValueRef {
	switch rec.Op {
	case "*":
		addr := lw.lowerExpr(rec.A)
		elemTy := lw.g.ExprType(exprID)
		ld := lw.fn.emit(lw.cur, InstLoad, true, elemTy, []ValueRef{addr})
		return ValueRef{ID: ld.ID}
	case "-":
		operand := lw.lowerExpr(rec.A)
		ty := lw.g.ExprType(exprID)
		zero := ValueRef{ID: lw.lm.IntConstant(0, ty)}
		inst := lw.fn.emit(lw.cur, InstSub, true, ty, []ValueRef{zero, operand})
		return ValueRef{ID: inst.ID}
	default: // "+": no-op
		return lw.lowerExpr(rec.A)
	}
}

var cmpKindByOp = map[string]CmpKind{
	"==": CmpEq, "!=": CmpNe, "<": CmpLt, "<=": CmpLe, ">": CmpGt, ">=": CmpGe,
}

func (lw *lowerer) lowerBin(exprID bir.ID, rec *bir.ExprRec) ValueRef {
	if rec.Op == "." || rec.Op == "->" {
		addr := lw.lowerFieldAddress(rec)
		elemTy := lw.g.ExprType(exprID)
		ld := lw.fn.emit(lw.cur, InstLoad, true, elemTy, []ValueRef{addr})
		return ValueRef{ID: ld.ID}
	}
	if rec.Op == "&&" || rec.Op == "||" {
		return lw.lowerShortCircuit(exprID, rec)
	}
	left := lw.lowerExpr(rec.A)
	right := lw.lowerExpr(rec.B)
	resultTy := lw.g.ExprType(exprID)
	if kind, ok := cmpKindByOp[rec.Op]; ok {
		inst := lw.fn.emit(lw.cur, InstCmp, true, resultTy, []ValueRef{left, right})
		inst.CmpKind = kind
		return ValueRef{ID: inst.ID}
	}
	var kind InstKind
	switch rec.Op {
	case "+":
		kind = InstAdd
	case "-":
		kind = InstSub
	case "*":
		kind = InstMul
	case "/":
		kind = InstDiv
	default:
		// The grammar only emits the operators handled above; fall
		// back to Add rather than panicking on malformed input.
		kind = InstAdd
	}
	inst := lw.fn.emit(lw.cur, kind, true, resultTy, []ValueRef{left, right})
	return ValueRef{ID: inst.ID}
}

// lowerShortCircuit lowers && and || through basic blocks rather than
// a dedicated instruction — LIR's instruction set (spec §3.5) has no
// boolean-and/or opcode, so logical operators get the same
// temp-var-plus-branch treatment as if-expressions (spec §4.6).
func (lw *lowerer) lowerShortCircuit(exprID bir.ID, rec *bir.ExprRec) ValueRef {
	boolTy := lw.g.Types.BoolID
	tmp := lw.fn.emit(lw.cur, InstVar, true, lw.ptrTo(boolTy), nil)
	tmp.VarType = boolTy

	rhsBlock := lw.fn.NewBlock("logic.rhs")
	shortBlock := lw.fn.NewBlock("logic.short")
	joinBlock := lw.fn.NewBlock("logic.join")

	left := lw.lowerExpr(rec.A)
	br := lw.fn.emit(lw.cur, InstBranch, false, 0, []ValueRef{left})
	if rec.Op == "&&" {
		br.Targets = []ValueID{rhsBlock.ID, shortBlock.ID}
	} else {
		br.Targets = []ValueID{shortBlock.ID, rhsBlock.ID}
	}
	AddSuccessor(lw.cur, rhsBlock)
	AddSuccessor(lw.cur, shortBlock)

	lw.cur = rhsBlock
	right := lw.lowerExpr(rec.B)
	lw.fn.emit(lw.cur, InstStore, false, 0, []ValueRef{{ID: tmp.ID}, right})
	if !lw.cur.IsTerminated(lw.fn) {
		j := lw.fn.emit(lw.cur, InstJmp, false, 0, nil)
		j.Targets = []ValueID{joinBlock.ID}
		AddSuccessor(lw.cur, joinBlock)
	}

	lw.cur = shortBlock
	shortVal := lw.lm.IntConstant(boolToInt(rec.Op == "||"), boolTy)
	lw.fn.emit(lw.cur, InstStore, false, 0, []ValueRef{{ID: tmp.ID}, {ID: shortVal}})
	if !lw.cur.IsTerminated(lw.fn) {
		j := lw.fn.emit(lw.cur, InstJmp, false, 0, nil)
		j.Targets = []ValueID{joinBlock.ID}
		AddSuccessor(lw.cur, joinBlock)
	}

	lw.cur = joinBlock
	ld := lw.fn.emit(lw.cur, InstLoad, true, boolTy, []ValueRef{{ID: tmp.ID}})
	return ValueRef{ID: ld.ID}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (lw *lowerer) lowerAssign(rec *bir.ExprRec) ValueRef {
	addr := lw.lowerAddress(rec.A)
	val := lw.lowerExpr(rec.B)
	lw.fn.emit(lw.cur, InstStore, false, 0, []ValueRef{addr, val})
	return lw.voidRef()
}

func (lw *lowerer) lowerReturn(rec *bir.ExprRec) ValueRef {
	v := lw.voidRef()
	if rec.A != 0 {
		v = lw.lowerExpr(rec.A)
	}
	lw.emitReturn(v)
	return lw.voidRef()
}

func (lw *lowerer) lowerJumpTo(label string, toExit bool) {
	target, ok := lw.loopTargets[label]
	if !ok {
		return
	}
	dest := target.header
	if toExit {
		dest = target.exit
	}
	if lw.cur.IsTerminated(lw.fn) {
		return
	}
	j := lw.fn.emit(lw.cur, InstJmp, false, 0, nil)
	j.Targets = []ValueID{dest}
	if b := lw.fn.Block(dest); b != nil {
		AddSuccessor(lw.cur, b)
	}
}

func (lw *lowerer) lowerCast(exprID bir.ID, rec *bir.ExprRec) ValueRef {
	operand := lw.lowerExpr(rec.A)
	targetTy := lw.g.ExprType(exprID)
	inst := lw.fn.emit(lw.cur, InstCast, true, targetTy, []ValueRef{operand})
	return ValueRef{ID: inst.ID}
}

func (lw *lowerer) lowerCall(exprID bir.ID, rec *bir.ExprRec) ValueRef {
	callee := lw.lowerExpr(rec.A)
	rvals := make([]ValueRef, 0, len(rec.List)+1)
	rvals = append(rvals, callee)
	for _, a := range rec.List {
		rvals = append(rvals, lw.lowerExpr(a))
	}
	retTy := lw.g.ExprType(exprID)
	inst := lw.fn.emit(lw.cur, InstCall, retTy != lw.g.Types.VoidID, retTy, rvals)
	return ValueRef{ID: inst.ID}
}

// lowerIf implements spec §4.6's if/else → basic-block pattern. A
// non-void result is threaded through a temporary Var (LIR has no Phi
// instruction) written by each arm and read once at the join block.
func (lw *lowerer) lowerIf(exprID bir.ID, rec *bir.ExprRec) ValueRef {
	resultTy := lw.g.ExprType(exprID)
	wantsResult := resultTy != lw.g.Types.VoidID && resultTy != lw.g.Types.NeverID

	var tmp *Inst
	if wantsResult {
		tmp = lw.fn.emit(lw.cur, InstVar, true, lw.ptrTo(resultTy), nil)
		tmp.VarType = resultTy
	}

	thenBlock := lw.fn.NewBlock("if.then")
	joinBlock := lw.fn.NewBlock("if.join")
	elseBlock := joinBlock
	if rec.Else != 0 {
		elseBlock = lw.fn.NewBlock("if.else")
	}

	cond := lw.lowerExpr(rec.A)
	br := lw.fn.emit(lw.cur, InstBranch, false, 0, []ValueRef{cond})
	br.Targets = []ValueID{thenBlock.ID, elseBlock.ID}
	AddSuccessor(lw.cur, thenBlock)
	AddSuccessor(lw.cur, elseBlock)

	lw.cur = thenBlock
	thenVal := lw.lowerBlockInline(rec.Block)
	if wantsResult {
		lw.fn.emit(lw.cur, InstStore, false, 0, []ValueRef{{ID: tmp.ID}, thenVal})
	}
	if !lw.cur.IsTerminated(lw.fn) {
		j := lw.fn.emit(lw.cur, InstJmp, false, 0, nil)
		j.Targets = []ValueID{joinBlock.ID}
		AddSuccessor(lw.cur, joinBlock)
	}

	if rec.Else != 0 {
		lw.cur = elseBlock
		var elseVal ValueRef
		if rec.ElseIsExpr {
			elseRec := lw.mod.ExprRec(rec.Else)
			elseVal = lw.lowerIf(rec.Else, elseRec)
		} else {
			elseVal = lw.lowerBlockInline(rec.Else)
		}
		if wantsResult {
			lw.fn.emit(lw.cur, InstStore, false, 0, []ValueRef{{ID: tmp.ID}, elseVal})
		}
		if !lw.cur.IsTerminated(lw.fn) {
			j := lw.fn.emit(lw.cur, InstJmp, false, 0, nil)
			j.Targets = []ValueID{joinBlock.ID}
			AddSuccessor(lw.cur, joinBlock)
		}
	}

	lw.cur = joinBlock
	if wantsResult {
		ld := lw.fn.emit(lw.cur, InstLoad, true, resultTy, []ValueRef{{ID: tmp.ID}})
		return ValueRef{ID: ld.ID}
	}
	return lw.voidRef()
}

// lowerLoop implements spec §4.6's unconditional loop → (jmp header;
// header: body; jmp header) pattern; loop's type is always Never, so
// no result var is needed.
func (lw *lowerer) lowerLoop(rec *bir.ExprRec) {
	header := lw.fn.NewBlock("loop.header")
	exit := lw.fn.NewBlock("loop.exit")
	j := lw.fn.emit(lw.cur, InstJmp, false, 0, nil)
	j.Targets = []ValueID{header.ID}
	AddSuccessor(lw.cur, header)

	lw.cur = header
	lw.loopTargets[rec.LoopLabel] = loopTarget{header: header.ID, exit: exit.ID}
	lw.lowerBlockInline(rec.Block)
	if !lw.cur.IsTerminated(lw.fn) {
		back := lw.fn.emit(lw.cur, InstJmp, false, 0, nil)
		back.Targets = []ValueID{header.ID}
		AddSuccessor(lw.cur, header)
	}
	delete(lw.loopTargets, rec.LoopLabel)
	lw.cur = exit
}

// lowerWhile implements spec §4.6's (jmp cond; cond: br body/exit;
// body: ... jmp cond; exit:) pattern; while's type is always void.
func (lw *lowerer) lowerWhile(rec *bir.ExprRec) {
	condBlock := lw.fn.NewBlock("while.cond")
	bodyBlock := lw.fn.NewBlock("while.body")
	exitBlock := lw.fn.NewBlock("while.exit")

	j := lw.fn.emit(lw.cur, InstJmp, false, 0, nil)
	j.Targets = []ValueID{condBlock.ID}
	AddSuccessor(lw.cur, condBlock)

	lw.cur = condBlock
	cond := lw.lowerExpr(rec.A)
	br := lw.fn.emit(lw.cur, InstBranch, false, 0, []ValueRef{cond})
	br.Targets = []ValueID{bodyBlock.ID, exitBlock.ID}
	AddSuccessor(lw.cur, bodyBlock)
	AddSuccessor(lw.cur, exitBlock)

	lw.cur = bodyBlock
	lw.loopTargets[rec.LoopLabel] = loopTarget{header: condBlock.ID, exit: exitBlock.ID}
	lw.lowerBlockInline(rec.Block)
	if !lw.cur.IsTerminated(lw.fn) {
		back := lw.fn.emit(lw.cur, InstJmp, false, 0, nil)
		back.Targets = []ValueID{condBlock.ID}
		AddSuccessor(lw.cur, condBlock)
	}
	delete(lw.loopTargets, rec.LoopLabel)
	lw.cur = exitBlock
}

// lowerStructLiteral allocates an anonymous Var of the aggregate type,
// stores each field through GetField, and loads the whole value back —
// the same address-then-load shape as lowerIf, reused because LIR has
// no aggregate-constant instruction (spec §3.5's instruction set only
// names scalar Copy/Load/Store/arithmetic/Cmp/Cast/Call/control-flow/
// GetField/Subscript/Offset).
func (lw *lowerer) lowerStructLiteral(exprID bir.ID, rec *bir.ExprRec) ValueRef {
	aggTy := lw.g.ExprType(exprID)
	tmp := lw.fn.emit(lw.cur, InstVar, true, lw.ptrTo(aggTy), nil)
	tmp.VarType = aggTy

	for _, fieldID := range rec.List {
		frec := lw.mod.ExprRec(fieldID)
		idx, _ := lw.lm.Types.MemberIndex(aggTy, frec.Name)
		member, _ := lw.lm.Types.LookupMember(aggTy, frec.Name)
		val := lw.lowerExpr(frec.A)
		fieldAddr := lw.fn.emit(lw.cur, InstGetField, true, lw.ptrTo(member.Type), []ValueRef{{ID: tmp.ID}})
		fieldAddr.FieldIndex = idx
		lw.fn.emit(lw.cur, InstStore, false, 0, []ValueRef{{ID: fieldAddr.ID}, val})
	}
	ld := lw.fn.emit(lw.cur, InstLoad, true, aggTy, []ValueRef{{ID: tmp.ID}})
	return ValueRef{ID: ld.ID}
}
