package clog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hassan/tyc/internal/diag"
)

func newForTest(quiet bool) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errw bytes.Buffer
	l := New(quiet)
	l.out = &out
	l.errw = &errw
	return l, &out, &errw
}

func TestStageReportsSuccessLine(t *testing.T) {
	l, out, _ := newForTest(false)
	l.Stage("Parsing")
	assert.Contains(t, out.String(), "Parsing successful")
}

func TestStageSuppressedWhenQuiet(t *testing.T) {
	l, out, _ := newForTest(true)
	l.Stage("Parsing")
	assert.Empty(t, out.String())
}

func TestDiagnosticsOKBagPrintsNothing(t *testing.T) {
	l, _, errw := newForTest(false)
	l.Diagnostics("Semantic analysis", nil)
	assert.Empty(t, errw.String())
}

func TestDiagnosticsRendersEveryError(t *testing.T) {
	l, _, errw := newForTest(false)
	var bag diag.Bag
	bag.Add(diag.NameUnknownName, 3, 1, "unknown name %q", "foo")
	l.Diagnostics("Semantic analysis", bag)

	out := errw.String()
	assert.Contains(t, out, "Semantic analysis errors")
	assert.Contains(t, out, "unknown-name")
	assert.Contains(t, out, "foo")
}

func TestFatalfAlwaysPrintsEvenWhenQuiet(t *testing.T) {
	l, _, errw := newForTest(true)
	l.Fatalf("reading %s: boom", "x.ty")
	assert.Contains(t, errw.String(), "reading x.ty: boom")
}
