package passes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/tyc/internal/ast"
	"github.com/hassan/tyc/internal/bir"
	"github.com/hassan/tyc/internal/lir"
	"github.com/hassan/tyc/internal/lir/passes"
	"github.com/hassan/tyc/internal/sema"
	"github.com/hassan/tyc/internal/syntax"
)

func lowerSource(t *testing.T, src string) *lir.Module {
	t.Helper()
	tree := syntax.ParseModule(src)
	require.Empty(t, tree.Errors, "source: %s", src)

	mod := ast.NewModule(syntax.NewRoot(tree.Root))

	translator := bir.NewTranslator()
	birMod := translator.Translate(mod)
	require.True(t, translator.Errors.OK(), "bir errors: %v", translator.Errors)

	g, semaErrs := sema.Check(birMod)
	require.True(t, semaErrs.OK(), "sema errors: %v", semaErrs)

	return lir.Lower(birMod, g)
}

func findFunc(t *testing.T, m *lir.Module, name string) *lir.Function {
	t.Helper()
	for _, fn := range m.Functions {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("no function named %q", name)
	return nil
}

func countInstKind(fn *lir.Function, kind lir.InstKind) int {
	n := 0
	for _, b := range fn.Blocks() {
		for _, id := range b.Insts {
			if fn.Inst(id).Kind == kind {
				n++
			}
		}
	}
	return n
}

// TestJumpThreadingFoldsEmptyThenBranch exercises the canonical case
// spec §4.7 describes: a block that is nothing but a single Jmp, with
// exactly one predecessor and one successor, gets folded into its
// predecessor.
func TestJumpThreadingFoldsEmptyThenBranch(t *testing.T) {
	m := lowerSource(t, `
		fn f(cond: bool) {
			if cond { }
			return;
		}
	`)
	fn := findFunc(t, m, "f")
	before := len(fn.Blocks())

	jt := &passes.JumpThreading{}
	result := jt.Run(fn)

	assert.Equal(t, passes.Changed, result)
	assert.Less(t, len(fn.Blocks()), before, "the empty if.then block should have been folded away")
}

func TestJumpThreadingNoOpOnAlreadyMinimalCFG(t *testing.T) {
	m := lowerSource(t, `fn add(a: i32, b: i32) -> i32 { return a + b; }`)
	fn := findFunc(t, m, "add")

	jt := &passes.JumpThreading{}
	assert.Equal(t, passes.NoChange, jt.Run(fn))
}

func TestDeadCodeEliminationRemovesUnusedVarAndItsStore(t *testing.T) {
	m := lowerSource(t, `
		fn f() -> i32 {
			let unused = 1;
			return 2;
		}
	`)
	fn := findFunc(t, m, "f")
	require.Equal(t, 1, countInstKind(fn, lir.InstVar))

	dce := &passes.DeadCodeElimination{}
	result := dce.Run(fn)

	assert.Equal(t, passes.Changed, result)
	assert.Equal(t, 0, countInstKind(fn, lir.InstVar))
	assert.Equal(t, 0, countInstKind(fn, lir.InstStore))
}

func TestDeadCodeEliminationKeepsCallsEvenWithoutUsers(t *testing.T) {
	m := lowerSource(t, `
		fn helper() -> i32 { return 1; }
		fn f() -> i32 {
			helper();
			return 0;
		}
	`)
	fn := findFunc(t, m, "f")
	require.Equal(t, 1, countInstKind(fn, lir.InstCall))

	passes.NewPipeline().RunFunction(fn)

	assert.Equal(t, 1, countInstKind(fn, lir.InstCall), "a Call must survive DCE even with zero users (side effects)")
}

func TestPipelineReachesFixedPointWithinDefaultIterations(t *testing.T) {
	m := lowerSource(t, `
		fn f(cond: bool) -> i32 {
			let unused = 1;
			if cond { }
			return 2;
		}
	`)
	fn := findFunc(t, m, "f")

	p := passes.NewPipeline()
	p.RunFunction(fn)

	assert.Equal(t, 0, countInstKind(fn, lir.InstVar))
	// Running the passes again directly should report no further change.
	assert.Equal(t, passes.NoChange, (&passes.DeadCodeElimination{}).Run(fn))
	assert.Equal(t, passes.NoChange, (&passes.JumpThreading{}).Run(fn))
}
