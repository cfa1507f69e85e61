// Package lir implements the Low IR of spec §3.5: a three-level arena
// (Module/Function/Block) addressed by a 32-bit tagged ValueID,
// generalizing the teacher's internal/ir package (Value/Instruction/
// BasicBlock/Function/Module, Three-Address-Code style with an
// interface-per-instruction-kind design) into spec's data-oriented
// shape — one Inst record with a Kind tag instead of one Go type per
// instruction, and ValueID replacing the teacher's *Value pointers so
// a def-use "users" table can be maintained incrementally rather than
// recomputed by walking every block on each DCE run (internal/
// optimizer/deadcode.go's markUsedValues does exactly that recompute,
// which this package's Users table exists to avoid).
package lir

import "github.com/hassan/tyc/internal/sema/types"

// ValueID is a 32-bit tagged integer: the high bit distinguishes a
// global value (owned by the Module) from a local one (owned by a
// Function). The zero value never denotes a real value.
type ValueID uint32

const globalBit ValueID = 1 << 31

// LocalID/GlobalID tag a dense per-function / per-module counter into
// the shared ValueID space.
func LocalID(i uint32) ValueID  { return ValueID(i) }
func GlobalID(i uint32) ValueID { return ValueID(i) | globalBit }

// IsGlobal reports whether id was minted via GlobalID.
func (id ValueID) IsGlobal() bool { return id&globalBit != 0 }

// ValueKind discriminates what a ValueID's Value record actually is.
type ValueKind uint8

const (
	ValueInvalid ValueKind = iota
	ValueParam
	ValueInst
	ValueConstantInt
	ValueConstantStr
	ValueBlock
	ValueFunction
	ValueVoid
)

// Value is one entry in a Module's or Function's value table.
type Value struct {
	VKind ValueKind
	Type  types.ID
	Name  string // optional identifier (param name, block label, function name)
	Int   int64  // ValueConstantInt payload
	Str   string // ValueConstantStr payload
}

// ValueRef is a ValueID plus the immediately enclosing producer that
// introduced it as an operand — a block for instructions themselves,
// an instruction for its own rvals (spec §3.5).
type ValueRef struct {
	ID     ValueID
	Parent ValueID // 0 if none
}

// InstKind is the closed instruction set of spec §3.5.
type InstKind uint8

const (
	InstNop InstKind = iota
	InstCopy
	InstLoad
	InstStore
	InstVar
	InstAdd
	InstSub
	InstMul
	InstDiv
	InstCmp
	InstCast
	InstCall
	InstReturn
	InstJmp
	InstBranch
	InstGetField
	InstSubscript
	InstOffset
)

// CmpKind is Cmp's sub-kind (spec §3.5 "Cmp{kind}").
type CmpKind uint8

const (
	CmpEq CmpKind = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// Inst is the single tagged record for every instruction kind. Fields
// not relevant to Kind are zero, following the shape already
// established by bir.ExprRec and sema.Node in this codebase.
type Inst struct {
	Kind InstKind

	// ID is this instruction's own produced value (the "optional
	// lvalue" of spec §3.5); HasLValue distinguishes "produces void
	// deliberately" (Store, Jmp, Branch) from "ID is meaningful".
	ID        ValueID
	HasLValue bool
	Type      types.ID // the lvalue's type, meaningful only if HasLValue

	// Rvals is the ordered operand list (spec §3.5's "ordered rval
	// list"): Copy/Load's source, Store's [address, value],
	// Add/Sub/Mul/Div/Cmp's [left, right], Cast's operand, Call's
	// [callee, args...], GetField/Subscript/Offset's [base] or
	// [base, index].
	Rvals []ValueRef

	// CmpKind is meaningful only for InstCmp.
	CmpKind CmpKind

	// FieldIndex is GetField's member index.
	FieldIndex int

	// VarType is InstVar's allocated (pointee) type; its ID's own Type
	// is the pointer-to-VarType type, matching "Var-allocated
	// addresses are used as lvalues" (spec §3.5 invariant).
	VarType types.ID

	// Targets holds block ValueIDs for Jmp ([target]) and Branch
	// ([trueBlock, falseBlock]).
	Targets []ValueID
}

// Block is a terminated straight-line instruction list plus its CFG
// edges, generalizing the teacher's BasicBlock (internal/ir/
// basicblock.go) — Predecessors/Successors and the auto-bidirectional
// AddSuccessor idiom are kept directly; Instructions becomes a list of
// ValueIDs indexed into the owning Function's instruction map instead
// of a slice of interface values.
type Block struct {
	ID    ValueID
	Label string
	Insts []ValueID

	Predecessors []ValueID
	Successors   []ValueID
}

// Terminator returns the block's last instruction if it is one of
// Jmp/Branch/Return, or nil otherwise (spec §3.5 "every block ends
// with exactly one terminator").
func (b *Block) Terminator(fn *Function) *Inst {
	if len(b.Insts) == 0 {
		return nil
	}
	last := fn.Inst(b.Insts[len(b.Insts)-1])
	switch last.Kind {
	case InstJmp, InstBranch, InstReturn:
		return last
	default:
		return nil
	}
}

// IsTerminated reports whether b ends with a terminator.
func (b *Block) IsTerminated(fn *Function) bool { return b.Terminator(fn) != nil }

// Function owns a parameter list, a local value table, an instruction
// map (ValueID → Inst), the block CFG, and the maps spec §3.5 names
// ("value-ID to block" and "label to block").
type Function struct {
	Name       string
	Params     []ValueID
	ReturnType types.ID

	values map[ValueID]Value
	insts  map[ValueID]*Inst

	blocks      []*Block
	blockByID   map[ValueID]*Block
	blockByName map[string]ValueID
	valueBlock  map[ValueID]ValueID // value ID -> owning block ID

	// Users is the per-function def-use table spec §4.6 requires:
	// every rval of every instruction registers that instruction's own
	// ID as a user of the operand (spec §3.5 "each rval ... registers
	// the instruction as a user of that value"), except a Store's
	// address operand, so a Var that is only written has no users.
	Users map[ValueID][]ValueID

	Entry ValueID

	nextLocal uint32
}

func newFunction(name string, ret types.ID) *Function {
	return &Function{
		Name:        name,
		ReturnType:  ret,
		values:      map[ValueID]Value{},
		insts:       map[ValueID]*Inst{},
		blockByID:   map[ValueID]*Block{},
		blockByName: map[string]ValueID{},
		valueBlock:  map[ValueID]ValueID{},
		Users:       map[ValueID][]ValueID{},
	}
}

func (f *Function) allocValue(v Value) ValueID {
	f.nextLocal++
	id := LocalID(f.nextLocal)
	f.values[id] = v
	return id
}

// Value returns id's record.
func (f *Function) Value(id ValueID) Value { return f.values[id] }

func (f *Function) addParam(name string, ty types.ID) ValueID {
	id := f.allocValue(Value{VKind: ValueParam, Type: ty, Name: name})
	f.Params = append(f.Params, id)
	return id
}

// NewBlock creates and registers a block owned by f.
func (f *Function) NewBlock(label string) *Block {
	id := f.allocValue(Value{VKind: ValueBlock, Name: label})
	b := &Block{ID: id, Label: label}
	f.blocks = append(f.blocks, b)
	f.blockByID[id] = b
	f.blockByName[label] = id
	return b
}

// Blocks returns every block owned by f, in creation order (the first
// is always the entry block, matching the teacher's Function.Blocks
// convention).
func (f *Function) Blocks() []*Block { return f.blocks }

func (f *Function) Block(id ValueID) *Block { return f.blockByID[id] }

// emit appends inst to block b, assigning it a fresh ValueID when it
// produces one, and registers every rval's user edge.
func (f *Function) emit(b *Block, kind InstKind, hasLValue bool, ty types.ID, rvals []ValueRef) *Inst {
	var id ValueID
	if hasLValue {
		id = f.allocValue(Value{VKind: ValueInst, Type: ty})
	} else {
		f.nextLocal++
		id = LocalID(f.nextLocal) // still unique so the instruction map key is stable
	}
	inst := &Inst{Kind: kind, ID: id, HasLValue: hasLValue, Type: ty, Rvals: rvals}
	f.insts[id] = inst
	b.Insts = append(b.Insts, id)
	f.valueBlock[id] = b.ID
	for i, rv := range rvals {
		// Store's address operand (Rvals[0]) is a write, not a read —
		// it must not count as a "user" of the address, or a Var whose
		// only remaining activity is being written to would never reach
		// zero users and could never be collected by DCE (spec §4.7
		// expects unused Var+Store pairs to be removable).
		if kind == InstStore && i == 0 {
			continue
		}
		f.Users[rv.ID] = append(f.Users[rv.ID], id)
	}
	return inst
}

func (f *Function) Inst(id ValueID) *Inst { return f.insts[id] }

// RemoveUser removes user from operand's user list — called by the
// DCE pass when it deletes an instruction that was a user of operand.
func (f *Function) RemoveUser(operand, user ValueID) {
	list := f.Users[operand]
	for i, u := range list {
		if u == user {
			f.Users[operand] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// DeleteInst removes inst's own entry from the instruction map and
// its owning block's instruction list. Callers are responsible for
// clearing its user edges on its operands first (see lir/passes).
func (f *Function) DeleteInst(id ValueID) {
	blockID := f.valueBlock[id]
	b := f.blockByID[blockID]
	if b != nil {
		for i, iid := range b.Insts {
			if iid == id {
				b.Insts = append(b.Insts[:i], b.Insts[i+1:]...)
				break
			}
		}
	}
	delete(f.insts, id)
	delete(f.valueBlock, id)
	delete(f.Users, id)
}

// DeleteBlock removes b from the function entirely — used by the
// jump-threading pass once a block has been folded into its
// predecessor.
func (f *Function) DeleteBlock(id ValueID) {
	for i, b := range f.blocks {
		if b.ID == id {
			f.blocks = append(f.blocks[:i], f.blocks[i+1:]...)
			break
		}
	}
	if b := f.blockByID[id]; b != nil {
		delete(f.blockByName, b.Label)
	}
	delete(f.blockByID, id)
}

// AddSuccessor links from → to and back, deduplicating exactly like
// the teacher's BasicBlock.AddSuccessor (internal/ir/basicblock.go).
func AddSuccessor(from, to *Block) {
	for _, s := range from.Successors {
		if s == to.ID {
			return
		}
	}
	from.Successors = append(from.Successors, to.ID)
	to.Predecessors = append(to.Predecessors, from.ID)
}

// RemovePredecessor/RemoveSuccessor undo one edge — used by jump
// threading when rewiring around a folded block.
func RemovePredecessor(b *Block, pred ValueID) {
	for i, p := range b.Predecessors {
		if p == pred {
			b.Predecessors = append(b.Predecessors[:i], b.Predecessors[i+1:]...)
			return
		}
	}
}
func RemoveSuccessor(b *Block, succ ValueID) {
	for i, s := range b.Successors {
		if s == succ {
			b.Successors = append(b.Successors[:i], b.Successors[i+1:]...)
			return
		}
	}
}

// Module is the top-level LIR container: functions plus the shared
// type context, a global value table, and the two constant pools
// (spec §3.5). Types is the same *types.Table SEMA produced — LIR
// consumes SEMA's already-resolved types.ID space directly rather
// than re-interning a second, parallel type table.
type Module struct {
	Types *types.Table

	Functions []*Function

	globals    []Value
	nextGlobal uint32

	// intPool keys on (value, type) since the same numeric literal can
	// be unified to different integer widths at different use sites
	// (spec §3.4's Marker resolution); strPool needs no type key since
	// every string literal has the single type str.
	intPool   map[intKey]ValueID
	strPool   map[string]ValueID
	VoidValue ValueID
}

type intKey struct {
	v  int64
	ty types.ID
}

// NewModule creates an empty LIR module sharing t as its type context.
func NewModule(t *types.Table) *Module {
	m := &Module{
		Types:   t,
		intPool: map[intKey]ValueID{},
		strPool: map[string]ValueID{},
	}
	m.VoidValue = m.allocGlobal(Value{VKind: ValueVoid, Type: t.VoidID})
	return m
}

func (m *Module) allocGlobal(v Value) ValueID {
	m.nextGlobal++
	id := GlobalID(m.nextGlobal)
	m.globals = append(m.globals, v)
	return id
}

func (m *Module) Global(id ValueID) *Value { return &m.globals[id&^globalBit-1] }

// IntConstant/StrConstant intern a constant pool entry (spec §3.5
// "constant pools (int and string)").
func (m *Module) IntConstant(v int64, ty types.ID) ValueID {
	k := intKey{v: v, ty: ty}
	if id, ok := m.intPool[k]; ok {
		return id
	}
	id := m.allocGlobal(Value{VKind: ValueConstantInt, Type: ty, Int: v})
	m.intPool[k] = id
	return id
}
func (m *Module) StrConstant(v string) ValueID {
	if id, ok := m.strPool[v]; ok {
		return id
	}
	id := m.allocGlobal(Value{VKind: ValueConstantStr, Type: m.Types.StrID, Str: v})
	m.strPool[v] = id
	return id
}

// AddFunction registers fn in the module's global value table (so a
// call site naming a function by its global ID can look it up) and
// function list.
func (m *Module) AddFunction(fn *Function) ValueID {
	id := m.allocGlobal(Value{VKind: ValueFunction, Name: fn.Name})
	m.Functions = append(m.Functions, fn)
	return id
}
