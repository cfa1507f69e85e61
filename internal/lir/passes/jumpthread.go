package passes

import "github.com/hassan/tyc/internal/lir"

// JumpThreading implements spec §4.7's jump-threading pass: a block
// that is nothing but a single unconditional Jmp, with exactly one
// predecessor and exactly one successor distinct from that
// predecessor, is folded away by pointing the predecessor straight at
// the successor. A removed-block map resolves transitive chains (A
// jumps to B jumps to C, B and C both foldable) so the final rewrite
// always lands on a block that survives.
//
// Grounded on the teacher's BasicBlock/Function CFG shape (internal/
// ir/basicblock.go's Successors/Predecessors + AddSuccessor), reused
// here via lir.AddSuccessor/RemoveSuccessor/RemovePredecessor; the
// teacher's optimizer package has no equivalent pass (its only passes
// are constant folding and DCE), so the traversal and folding
// algorithm itself comes directly from spec §4.7.
type JumpThreading struct{}

func (p *JumpThreading) Name() string { return "jump-threading" }

func (p *JumpThreading) Run(fn *lir.Function) Result {
	order := reversePostOrder(fn)
	removedTo := map[lir.ValueID]lir.ValueID{}
	var toRemove []lir.ValueID
	changed := NoChange

	for _, b := range order {
		if b.ID == fn.Entry {
			continue
		}
		if len(b.Insts) != 1 {
			continue
		}
		inst := fn.Inst(b.Insts[0])
		if inst == nil || inst.Kind != lir.InstJmp {
			continue
		}
		if len(b.Predecessors) != 1 || len(b.Successors) != 1 {
			continue
		}
		predID := b.Predecessors[0]
		succID := b.Successors[0]
		if predID == succID {
			continue
		}

		target := resolveRemoved(removedTo, succID)
		predBlock := fn.Block(predID)
		targetBlock := fn.Block(target)
		if predBlock == nil || targetBlock == nil {
			continue
		}
		term := predBlock.Terminator(fn)
		if term == nil {
			continue
		}
		for i, t := range term.Targets {
			if t == b.ID {
				term.Targets[i] = target
			}
		}
		lir.RemoveSuccessor(predBlock, b.ID)
		lir.RemovePredecessor(targetBlock, b.ID)
		lir.AddSuccessor(predBlock, targetBlock)

		removedTo[b.ID] = target
		toRemove = append(toRemove, b.ID)
		changed = Changed
	}

	for _, id := range toRemove {
		fn.DeleteBlock(id)
	}
	return changed
}

func resolveRemoved(m map[lir.ValueID]lir.ValueID, id lir.ValueID) lir.ValueID {
	for {
		t, ok := m[id]
		if !ok {
			return id
		}
		id = t
	}
}

// reversePostOrder DFS's fn's CFG from its entry block over Successors
// edges, matching the teacher's removeUnreachableBlocks DFS
// (internal/optimizer/deadcode.go) but returning reverse postorder
// instead of a reachable set.
func reversePostOrder(fn *lir.Function) []*lir.Block {
	visited := map[lir.ValueID]bool{}
	var post []*lir.Block
	var visit func(id lir.ValueID)
	visit = func(id lir.ValueID) {
		if visited[id] {
			return
		}
		visited[id] = true
		b := fn.Block(id)
		if b == nil {
			return
		}
		for _, s := range b.Successors {
			visit(s)
		}
		post = append(post, b)
	}
	visit(fn.Entry)
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}
