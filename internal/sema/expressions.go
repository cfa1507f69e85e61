// Expression checking, named and structured after the teacher's
// internal/semantic/expressions.go (a per-node-kind switch dispatching
// to one check*Expr method apiece) but implementing the operator,
// control-flow, cast and call rules of spec §4.5 rather than the
// teacher's Go-shaped type rules.
package sema

import (
	"github.com/hassan/tyc/internal/bir"
	"github.com/hassan/tyc/internal/diag"
	"github.com/hassan/tyc/internal/sema/types"
)

// exprChecker holds the state one function body's check pass threads
// through: the enclosing Function sema node (for return-type
// unification and call-edge recording) and its declared return type.
type exprChecker struct {
	g        *Graph
	mod      *bir.Module
	fn       ID
	fnReturn types.ID
}

// checkBlock allocates a Block sema node (namespace parented at
// enclosing), type-checks every item in bir block blockID, and
// returns the block's own type (its tail expression's type; with no
// tail, Never if one of its expression items has type Never, as
// `return x;` does, else void — spec §3.2/§4.5) plus the new node's ID.
func (ec *exprChecker) checkBlock(enclosing ID, blockID bir.ID) (types.ID, ID) {
	rec := ec.mod.BlockRec(blockID)
	node := ec.g.newNode(Node{Kind: KindBlock, BIR: blockID})
	ns := ec.g.newNamespace(node, enclosing)

	diverges := false
	for _, itemID := range rec.Items {
		ec.checkItem(node, ns, itemID)
		if ec.mod.Kind(itemID) == bir.KindExprItem && ec.g.Types.IsNever(ec.g.exprType(ec.mod.ExprItemRec(itemID).Expr)) {
			diverges = true
		}
	}
	if rec.Tail != 0 {
		return ec.checkExpr(node, rec.Tail), node
	}
	if diverges {
		return ec.g.Types.NeverID, node
	}
	return ec.g.Types.VoidID, node
}

// checkItem dispatches on the BIR kind of a block item: lets
// introduce a Var into ns, bare expression-items are checked for
// their side effects and their (discarded) type. Nested items
// (types/functions declared inside a block, which the parser accepts)
// are not checked here.
func (ec *exprChecker) checkItem(blockNode ID, ns *Namespace, itemID bir.ID) {
	switch ec.mod.Kind(itemID) {
	case bir.KindLet:
		ec.checkLet(blockNode, ns, itemID)
	case bir.KindExprItem:
		rec := ec.mod.ExprItemRec(itemID)
		ec.checkExpr(blockNode, rec.Expr)
	}
}

func (ec *exprChecker) checkLet(blockNode ID, ns *Namespace, letID bir.ID) {
	rec := ec.mod.LetRec(letID)

	var declared types.ID
	if rec.TypeRef != 0 {
		declared, _ = (&checker{g: ec.g, mod: ec.mod}).resolveTypeRef(ec.moduleOfBlock(blockNode), rec.TypeRef)
	} else {
		declared = ec.g.Types.NewMarker()
	}

	varTy := declared
	if rec.Init != 0 {
		initTy := ec.checkExpr(blockNode, rec.Init)
		if unified, ok := ec.g.Unify(declared, initTy); ok {
			varTy = unified
		} else {
			ec.g.Errors.AddPair(diag.TypeUnification, 0, 0, uint32(declared), uint32(initTy),
				"cannot initialize %q of type %s with value of type %s",
				rec.Name, ec.g.Types.String(declared), ec.g.Types.String(initTy))
		}
	}

	id := ec.g.newNode(Node{Kind: KindVar, Name: rec.Name, BIR: letID, Type: varTy})
	ec.g.define(ns, id, 0, diag.BindingDuplicateBinding)
}

// moduleOfBlock walks outward from a block's namespace chain to find
// the enclosing module's sema ID, needed to resolve type names in a
// let's type annotation.
func (ec *exprChecker) moduleOfBlock(blockNode ID) ID {
	owner := blockNode
	for owner != 0 {
		n := ec.g.Node(owner)
		if n.Kind == KindModule {
			return owner
		}
		ns := ec.g.Namespace(owner)
		if ns == nil {
			return 0
		}
		owner = ns.Parent
	}
	return 0
}

// checkExpr type-checks one BIR expression, records its type in the
// graph's expression-type table, and returns that type.
func (ec *exprChecker) checkExpr(ns ID, exprID bir.ID) types.ID {
	if exprID == 0 {
		return ec.g.Types.VoidID
	}
	rec := ec.mod.ExprRec(exprID)
	ty := ec.checkExprRec(ns, exprID, rec)
	ec.g.setExprType(exprID, ty)
	return ty
}

func (ec *exprChecker) checkExprRec(ns ID, exprID bir.ID, rec *bir.ExprRec) types.ID {
	switch rec.Kind {
	case bir.ExprLiteral:
		return ec.checkLiteral(rec)
	case bir.ExprNameRef:
		return ec.checkNameRef(ns, exprID, rec)
	case bir.ExprPrefix:
		return ec.checkPrefix(ns, rec)
	case bir.ExprBin:
		return ec.checkBin(ns, rec)
	case bir.ExprAssign:
		return ec.checkAssign(ns, rec)
	case bir.ExprGroup:
		return ec.checkExpr(ns, rec.A)
	case bir.ExprBlock:
		ty, _ := ec.checkBlock(ns, rec.Block)
		return ty
	case bir.ExprReturn:
		return ec.checkReturn(ns, rec)
	case bir.ExprBreak, bir.ExprContinue:
		return ec.g.Types.NeverID
	case bir.ExprCast:
		return ec.checkCast(ns, rec)
	case bir.ExprCall:
		return ec.checkCall(ns, rec)
	case bir.ExprIndex:
		return ec.checkIndex(ns, rec)
	case bir.ExprIf:
		return ec.checkIf(ns, rec)
	case bir.ExprLoop:
		ec.checkBlock(ns, rec.Block)
		return ec.g.Types.NeverID
	case bir.ExprWhile:
		ec.checkExpr(ns, rec.A)
		ec.checkBlock(ns, rec.Block)
		return ec.g.Types.VoidID
	case bir.ExprStructLiteral:
		return ec.checkStructLiteral(ns, rec)
	case bir.ExprStructField:
		// Only reached if a StructField is visited standalone, which
		// never happens through checkStructLiteral's direct field loop;
		// present for completeness of the switch.
		return ec.checkExpr(ns, rec.A)
	default:
		return 0
	}
}

func (ec *exprChecker) checkLiteral(rec *bir.ExprRec) types.ID {
	switch ec.mod.Kind(rec.Lit) {
	case bir.KindStrLit:
		return ec.g.Types.StrID
	default: // KindNumLit
		return ec.g.Types.NewMarker()
	}
}

func (ec *exprChecker) checkNameRef(ns ID, exprID bir.ID, rec *bir.ExprRec) types.ID {
	id, ok := ec.g.Lookup(ns, rec.Name)
	if !ok {
		ec.g.Errors.Add(diag.NameUnknownName, 0, 0, "unknown name %q", rec.Name)
		return 0
	}
	ec.g.nameTargets[exprID] = id
	return ec.g.Node(id).Type
}

func (ec *exprChecker) checkPrefix(ns ID, rec *bir.ExprRec) types.ID {
	operandTy := ec.checkExpr(ns, rec.A)
	switch rec.Op {
	case "*":
		if !ec.g.Types.IsPointer(operandTy) {
			ec.g.Errors.Add(diag.TypeInvalidPointeeType, 0, 0, "cannot dereference non-pointer type %s", ec.g.Types.String(operandTy))
			return 0
		}
		return ec.g.Types.Get(operandTy).Pointee
	default: // "+" "-"
		return operandTy
	}
}

var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"&&": true, "||": true,
}

func (ec *exprChecker) checkBin(ns ID, rec *bir.ExprRec) types.ID {
	if rec.Op == "." || rec.Op == "->" {
		return ec.checkFieldAccess(ns, rec)
	}
	leftTy := ec.checkExpr(ns, rec.A)
	rightTy := ec.checkExpr(ns, rec.B)
	unified, ok := ec.g.Unify(leftTy, rightTy)
	if !ok {
		ec.g.Errors.AddPair(diag.TypeUnification, 0, 0, uint32(leftTy), uint32(rightTy),
			"operator %q operands have incompatible types %s and %s", rec.Op, ec.g.Types.String(leftTy), ec.g.Types.String(rightTy))
	}
	if comparisonOps[rec.Op] {
		return ec.g.Types.BoolID
	}
	return unified
}

// checkFieldAccess implements spec §4.5's "field access on x.y reuses
// expression checking inside the receiver's type namespace with
// parent lookups disabled": the receiver's namespace walk is replaced
// by a direct Aggregate-member lookup (the member table already has
// no enclosing scope, so "parent lookups disabled" holds trivially).
func (ec *exprChecker) checkFieldAccess(ns ID, rec *bir.ExprRec) types.ID {
	receiverTy := ec.checkExpr(ns, rec.A)
	aggTy := receiverTy
	if rec.Op == "->" {
		if !ec.g.Types.IsPointer(receiverTy) {
			ec.g.Errors.Add(diag.TypeInvalidFieldReceiver, 0, 0, "'->' requires a pointer receiver, got %s", ec.g.Types.String(receiverTy))
			return 0
		}
		aggTy = ec.g.Types.Get(receiverTy).Pointee
	}
	if !ec.g.Types.IsAggregate(aggTy) {
		ec.g.Errors.Add(diag.TypeInvalidFieldReceiver, 0, 0, "'.' requires a struct receiver, got %s", ec.g.Types.String(aggTy))
		return 0
	}
	member, ok := ec.g.Types.LookupMember(aggTy, rec.Name)
	if !ok {
		ec.g.Errors.Add(diag.TypeInvalidField, 0, 0, "type %s has no field %q", ec.g.Types.String(aggTy), rec.Name)
		return 0
	}
	return member.Type
}

// checkAssign implements "assignment yields void and rejects writes
// to parameters" (spec §4.5).
func (ec *exprChecker) checkAssign(ns ID, rec *bir.ExprRec) types.ID {
	targetTy := ec.checkExpr(ns, rec.A)
	valueTy := ec.checkExpr(ns, rec.B)
	if _, ok := ec.g.Unify(targetTy, valueTy); !ok {
		ec.g.Errors.AddPair(diag.TypeUnification, 0, 0, uint32(targetTy), uint32(valueTy),
			"cannot assign value of type %s to target of type %s", ec.g.Types.String(valueTy), ec.g.Types.String(targetTy))
	}
	if targetRec := ec.mod.ExprRec(rec.A); targetRec.Kind == bir.ExprNameRef {
		if id, ok := ec.g.Lookup(ns, targetRec.Name); ok && ec.g.Node(id).Kind == KindParam {
			ec.g.Errors.Add(diag.BindingParamAssignment, 0, 0, "cannot assign to parameter %q", targetRec.Name)
		}
	}
	return ec.g.Types.VoidID
}

// checkReturn unifies the returned value's type with the enclosing
// function's declared return type; spec §9's resolved Open Question:
// a void-typed `return e` is accepted only when the function's own
// return type is void, otherwise it's a Unification error pairing the
// two sites, matching exactly what plain Unify(void, declared) would
// report when declared != void (no special-case code needed).
func (ec *exprChecker) checkReturn(ns ID, rec *bir.ExprRec) types.ID {
	valueTy := ec.g.Types.VoidID
	if rec.A != 0 {
		valueTy = ec.checkExpr(ns, rec.A)
	}
	if _, ok := ec.g.Unify(valueTy, ec.fnReturn); !ok {
		ec.g.Errors.AddPair(diag.TypeUnification, 0, 0, uint32(valueTy), uint32(ec.fnReturn),
			"returned type %s does not match declared return type %s", ec.g.Types.String(valueTy), ec.g.Types.String(ec.fnReturn))
	}
	return ec.g.Types.NeverID
}

// checkCast forces a marker-typed operand to the target type via
// Unify; a concretely-typed operand is trusted as a bit-cast and the
// target type wins outright (spec §4.5).
func (ec *exprChecker) checkCast(ns ID, rec *bir.ExprRec) types.ID {
	operandTy := ec.checkExpr(ns, rec.A)
	targetTy, ok := (&checker{g: ec.g, mod: ec.mod}).resolveTypeRef(ec.moduleOfBlock(ns), rec.TypeRef)
	if !ok {
		return 0
	}
	if ec.g.Types.IsMarker(operandTy) {
		ec.g.Unify(operandTy, targetTy)
	}
	return targetTy
}

// checkCall verifies the callee is a function type, checks arity
// (accounting for variadics), unifies each argument against its
// parameter type, and records the call edge (spec §4.5).
func (ec *exprChecker) checkCall(ns ID, rec *bir.ExprRec) types.ID {
	calleeTy := ec.checkExpr(ns, rec.A)
	if !ec.g.Types.IsFunction(calleeTy) {
		ec.g.Errors.Add(diag.TypeCallToNonFnType, 0, 0, "cannot call non-function type %s", ec.g.Types.String(calleeTy))
		for _, a := range rec.List {
			ec.checkExpr(ns, a)
		}
		return 0
	}
	fnTy := ec.g.Types.Get(calleeTy)
	if len(rec.List) < len(fnTy.Params) || (!fnTy.Vararg && len(rec.List) > len(fnTy.Params)) {
		ec.g.Errors.Add(diag.NameUnknownCall, 0, 0, "call has %d arguments, expected %d", len(rec.List), len(fnTy.Params))
	}
	for i, a := range rec.List {
		argTy := ec.checkExpr(ns, a)
		if i < len(fnTy.Params) {
			if _, ok := ec.g.Unify(argTy, fnTy.Params[i]); !ok {
				ec.g.Errors.AddPair(diag.TypeUnification, 0, 0, uint32(argTy), uint32(fnTy.Params[i]),
					"argument %d has type %s, expected %s", i, ec.g.Types.String(argTy), ec.g.Types.String(fnTy.Params[i]))
			}
		}
		// Extra arguments beyond the declared params are permitted only
		// for variadic callees and are otherwise unchecked against any
		// declared type, matching spec's "accounting for variadics" rule.
	}
	calleeRec := ec.mod.ExprRec(rec.A)
	if calleeRec.Kind == bir.ExprNameRef {
		if id, ok := ec.g.Lookup(ns, calleeRec.Name); ok && ec.g.Node(id).Kind == KindFunction {
			ec.g.recordCall(ec.fn, id)
		}
	}
	return fnTy.Return
}

// checkIndex lowers later to an Offset+Load (spec §4.6); at the SEMA
// level indexing a pointer yields its pointee type.
func (ec *exprChecker) checkIndex(ns ID, rec *bir.ExprRec) types.ID {
	baseTy := ec.checkExpr(ns, rec.A)
	indexTy := ec.checkExpr(ns, rec.B)
	if !ec.g.Types.IsInteger(indexTy) && !ec.g.Types.IsMarker(indexTy) {
		ec.g.Errors.Add(diag.TypeInvalidIndexType, 0, 0, "index must be an integer, got %s", ec.g.Types.String(indexTy))
	}
	if !ec.g.Types.IsPointer(baseTy) {
		ec.g.Errors.Add(diag.TypeInvalidIndexType, 0, 0, "cannot index non-pointer type %s", ec.g.Types.String(baseTy))
		return 0
	}
	return ec.g.Types.Get(baseTy).Pointee
}

// checkIf requires a bool condition; an else branch (plain block or
// chained else-if) unifies with the then branch, otherwise the
// expression's type is void (spec §4.5 "if-else unifies both arms").
func (ec *exprChecker) checkIf(ns ID, rec *bir.ExprRec) types.ID {
	condTy := ec.checkExpr(ns, rec.A)
	if _, ok := ec.g.Unify(condTy, ec.g.Types.BoolID); !ok {
		ec.g.Errors.AddPair(diag.TypeUnification, 0, 0, uint32(condTy), uint32(ec.g.Types.BoolID),
			"if condition has type %s, expected bool", ec.g.Types.String(condTy))
	}
	thenTy, _ := ec.checkBlock(ns, rec.Block)
	if rec.Else == 0 {
		return ec.g.Types.VoidID
	}
	var elseTy types.ID
	if rec.ElseIsExpr {
		elseTy = ec.checkExprRec(ns, rec.Else, ec.mod.ExprRec(rec.Else))
		ec.g.setExprType(rec.Else, elseTy)
	} else {
		elseTy, _ = ec.checkBlock(ns, rec.Else)
	}
	unified, ok := ec.g.Unify(thenTy, elseTy)
	if !ok {
		ec.g.Errors.AddPair(diag.TypeUnification, 0, 0, uint32(thenTy), uint32(elseTy),
			"if branches have incompatible types %s and %s", ec.g.Types.String(thenTy), ec.g.Types.String(elseTy))
	}
	return unified
}

// checkStructLiteral requires a resolvable Aggregate type name and
// unifies each field's value against the corresponding member type.
func (ec *exprChecker) checkStructLiteral(ns ID, rec *bir.ExprRec) types.ID {
	typeID, ok := ec.g.Lookup(ns, rec.Name)
	if !ok || ec.g.Node(typeID).Kind != KindType {
		ec.g.Errors.Add(diag.NameUnknownType, 0, 0, "unknown type %q", rec.Name)
		for _, f := range rec.List {
			ec.checkExpr(ns, ec.mod.ExprRec(f).A)
		}
		return 0
	}
	aggTy := ec.g.Node(typeID).Type
	for _, fieldID := range rec.List {
		frec := ec.mod.ExprRec(fieldID)
		valTy := ec.checkExpr(ns, frec.A)
		ec.g.setExprType(fieldID, valTy)
		member, ok := ec.g.Types.LookupMember(aggTy, frec.Name)
		if !ok {
			ec.g.Errors.Add(diag.TypeInvalidField, 0, 0, "type %s has no field %q", ec.g.Types.String(aggTy), frec.Name)
			continue
		}
		if _, ok := ec.g.Unify(valTy, member.Type); !ok {
			ec.g.Errors.AddPair(diag.TypeUnification, 0, 0, uint32(valTy), uint32(member.Type),
				"field %q has type %s, expected %s", frec.Name, ec.g.Types.String(valTy), ec.g.Types.String(member.Type))
		}
	}
	return aggTy
}
