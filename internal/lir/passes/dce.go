package passes

import "github.com/hassan/tyc/internal/lir"

// DeadCodeElimination implements spec §4.7's DCE exactly: repeatedly
// find any non-Call instruction whose lvalue has zero users, and
// remove it from its block, from its operands' user lists, and from
// the instruction table. Var+Store pairs for an unused let-binding
// fall out of this rule: once every Load of a Var is gone, the Var
// itself reaches zero users (Store's address operand is deliberately
// excluded from the Users bookkeeping — see lir.Function's emit — so
// a Var that is only ever written to, never read, is collectible too)
// and removing it also removes the Store(s) that targeted it, since
// those writes no longer have anywhere to go.
//
// Grounded on the teacher's DeadCodeEliminationPass (internal/
// optimizer/deadcode.go), but inverted: the teacher recomputes
// liveness from scratch every round via markUsedValues/markValue (a
// forward walk from "critical" instructions); this pass instead reads
// the def-use Users table lir.Function already maintains
// incrementally, so one round is a linear scan rather than its own
// fixed-point mark pass.
type DeadCodeElimination struct{}

func (p *DeadCodeElimination) Name() string { return "dead-code-elimination" }

func (p *DeadCodeElimination) Run(fn *lir.Function) Result {
	changed := NoChange
	for _, b := range fn.Blocks() {
		var dead []lir.ValueID
		for _, id := range b.Insts {
			inst := fn.Inst(id)
			if inst == nil || !inst.HasLValue || inst.Kind == lir.InstCall {
				continue
			}
			if len(fn.Users[inst.ID]) == 0 {
				dead = append(dead, id)
			}
		}
		for _, id := range dead {
			if p.remove(fn, id) {
				changed = Changed
			}
		}
	}
	return changed
}

// remove deletes inst id, clears its user edges, and — if it was a
// Var — also removes every Store across the function whose address
// operand was that Var, since such a write no longer has a reader.
func (p *DeadCodeElimination) remove(fn *lir.Function, id lir.ValueID) bool {
	inst := fn.Inst(id)
	if inst == nil {
		return false
	}
	for _, rv := range inst.Rvals {
		fn.RemoveUser(rv.ID, id)
	}
	fn.DeleteInst(id)

	if inst.Kind == lir.InstVar {
		for _, b := range fn.Blocks() {
			var deadStores []lir.ValueID
			for _, otherID := range b.Insts {
				other := fn.Inst(otherID)
				if other != nil && other.Kind == lir.InstStore && len(other.Rvals) > 0 && other.Rvals[0].ID == id {
					deadStores = append(deadStores, otherID)
				}
			}
			for _, storeID := range deadStores {
				store := fn.Inst(storeID)
				for i, rv := range store.Rvals {
					if i == 0 {
						continue // address operand was never registered as a user
					}
					fn.RemoveUser(rv.ID, storeID)
				}
				fn.DeleteInst(storeID)
			}
		}
	}
	return true
}
