package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/tyc/internal/syntax"
)

func parseModule(t *testing.T, src string) *Module {
	t.Helper()
	tree := syntax.ParseModule(src)
	require.Empty(t, tree.Errors, "source: %s", src)
	return NewModule(syntax.NewRoot(tree.Root))
}

func TestFnItemShape(t *testing.T) {
	m := parseModule(t, "fn add(a: i32, b: i32) -> i32 { return a + b; }")
	items := m.Items()
	require.Len(t, items, 1)
	fn, ok := items[0].(*FnItem)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name())
	assert.False(t, fn.IsExtern())
	require.Len(t, fn.Params(), 2)
	assert.Equal(t, "a", fn.Params()[0].Name())
	require.NotNil(t, fn.ReturnType())
	assert.Equal(t, "i32", fn.ReturnType().Name())
}

func TestExternFnHasNoBody(t *testing.T) {
	m := parseModule(t, "fn puts(s: *i8) extern;")
	fn := m.Items()[0].(*FnItem)
	assert.True(t, fn.IsExtern())
	assert.Nil(t, fn.Body())
	require.Len(t, fn.Params(), 1)
	assert.True(t, fn.Params()[0].TypeRef().IsPointer())
}

// TestBareSemicolonFnHasNoBody covers spec §8.2 scenario 2: "fn
// foo();" must parse with no errors as a bodyless function, the same
// as an explicit "extern;" form.
func TestBareSemicolonFnHasNoBody(t *testing.T) {
	m := parseModule(t, "fn foo();")
	fn := m.Items()[0].(*FnItem)
	assert.True(t, fn.IsExtern())
	assert.Nil(t, fn.Body())
	assert.Equal(t, "foo", fn.Name())
}

func TestNestedModHasName(t *testing.T) {
	m := parseModule(t, "mod foo { fn f() {} }")
	mod, ok := m.Items()[0].(*Module)
	require.True(t, ok)
	assert.Equal(t, "foo", mod.Name())
	require.Len(t, mod.Items(), 1)
}

func TestBlockTailVsStatement(t *testing.T) {
	m := parseModule(t, "fn f() { let x = 1; x }")
	fn := m.Items()[0].(*FnItem)
	body := fn.Body()
	require.NotNil(t, body)
	assert.Len(t, body.Items(), 1)
	require.NotNil(t, body.Tail())
	ref, ok := body.Tail().(*NameRefExpr)
	require.True(t, ok)
	assert.Equal(t, "x", ref.Name())
}

func TestFieldAccessIsBinExprWithNameRefRHS(t *testing.T) {
	m := parseModule(t, "fn f() { p.x }")
	fn := m.Items()[0].(*FnItem)
	tail := fn.Body().Tail()
	bin, ok := tail.(*BinExpr)
	require.True(t, ok)
	assert.True(t, bin.IsFieldAccess())
	rhs, ok := bin.Right().(*NameRefExpr)
	require.True(t, ok)
	assert.Equal(t, "x", rhs.Name())
}

func TestCastExprTargetType(t *testing.T) {
	m := parseModule(t, "fn f() { x as i64 }")
	fn := m.Items()[0].(*FnItem)
	cast, ok := fn.Body().Tail().(*CastExpr)
	require.True(t, ok)
	require.NotNil(t, cast.TargetType())
	assert.Equal(t, "i64", cast.TargetType().Name())
}

func TestStructLiteralFields(t *testing.T) {
	m := parseModule(t, "fn f() { Point { x: 1, y: 2 } }")
	fn := m.Items()[0].(*FnItem)
	lit, ok := fn.Body().Tail().(*StructLiteralExpr)
	require.True(t, ok)
	assert.Equal(t, "Point", lit.TypeName())
	require.Len(t, lit.Fields(), 2)
	assert.Equal(t, "x", lit.Fields()[0].Name())
}
