package bir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/tyc/internal/ast"
	"github.com/hassan/tyc/internal/bir"
	"github.com/hassan/tyc/internal/syntax"
)

func translateSource(t *testing.T, src string) *bir.Module {
	t.Helper()
	tree := syntax.ParseModule(src)
	require.Empty(t, tree.Errors, "source: %s", src)

	mod := ast.NewModule(syntax.NewRoot(tree.Root))
	translator := bir.NewTranslator()
	birMod := translator.Translate(mod)
	require.True(t, translator.Errors.OK(), "bir errors: %v", translator.Errors)
	return birMod
}

// TestNestedModuleGetsItsDeclaredName guards against indexing raw
// direct-child tokens (which include whitespace/punctuation trivia)
// instead of reading the grammar's NodeName child: a nested `mod foo`
// must translate to a ModuleRec actually named "foo".
func TestNestedModuleGetsItsDeclaredName(t *testing.T) {
	m := translateSource(t, "mod foo { fn f() {} }")

	var names []string
	for _, id := range m.AllModuleIDs() {
		names = append(names, m.ModuleRec(id).Name)
	}
	assert.Contains(t, names, "foo")
}

// TestBodylessFnSemicolonTranslatesAsExtern covers spec §8.2 scenario
// 2 end to end through BIR translation: "fn foo();" must reach this
// stage as a parse-error-free, body-less (extern) function.
func TestBodylessFnSemicolonTranslatesAsExtern(t *testing.T) {
	m := translateSource(t, "fn foo();")

	ids := m.AllFuncIDs()
	require.Len(t, ids, 1)
	rec := m.FuncRec(ids[0])
	assert.Equal(t, "foo", rec.Name)
	assert.True(t, rec.Extern)
	assert.Equal(t, bir.ID(0), rec.Body)
}
