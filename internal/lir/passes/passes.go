// Package passes implements LIR transformation passes (spec §4.7),
// generalizing the teacher's internal/optimizer: the same Pass
// interface and a driver loop, retargeted from ir.Function (the
// teacher's pointer/interface-instruction IR) to lir.Function (the
// ValueID-tagged record IR this module uses). Unlike the teacher's
// own OptimizeFunction — which despite its doc-comment runs every
// pass exactly once ("a SIMPLIFIED APPROACH" per its own comment in
// internal/optimizer/optimizer.go) — Pipeline actually iterates every
// pass to a fixed point, which spec §4.7 requires ("a driver loop may
// iterate to fixed point").
package passes

import "github.com/hassan/tyc/internal/lir"

// Changed/NoChange report whether a pass altered its function, the
// signal Pipeline uses to decide whether another round is needed.
type Result uint8

const (
	NoChange Result = iota
	Changed
)

// Pass is one LIR transformation, mirroring the teacher's
// optimizer.Pass interface (Name() + Run(*ir.Function) error) but
// returning a Result instead of an error — spec's passes (DCE, jump
// threading) can't themselves fail on a well-formed LIR function, only
// report whether they did anything.
type Pass interface {
	Name() string
	Run(fn *lir.Function) Result
}

// Pipeline runs a sequence of passes over every function in a module,
// repeating until none of them report a change or maxIterations is
// reached — generalizing optimizer.Optimizer's maxIterations=10
// default and AddPass/SetMaxIterations setters.
type Pipeline struct {
	passes        []Pass
	maxIterations int
	verbose       bool
}

// NewPipeline creates a Pipeline with the two passes spec §4.7 names,
// in the order it lists them: Dead Code Elimination, then Jump
// Threading (matching the teacher's own default pass order in
// optimizer.NewOptimizer: ConstantFoldingPass then
// DeadCodeEliminationPass).
func NewPipeline() *Pipeline {
	return &Pipeline{
		passes:        []Pass{&DeadCodeElimination{}, &JumpThreading{}},
		maxIterations: 10,
	}
}

func (p *Pipeline) AddPass(pass Pass)      { p.passes = append(p.passes, pass) }
func (p *Pipeline) SetVerbose(v bool)      { p.verbose = v }
func (p *Pipeline) SetMaxIterations(n int) { p.maxIterations = n }

// RunModule runs the pipeline over every function in m.
func (p *Pipeline) RunModule(m *lir.Module) {
	for _, fn := range m.Functions {
		p.RunFunction(fn)
	}
}

// RunFunction iterates every pass over fn to a fixed point: a round
// with no pass reporting Changed stops the loop.
func (p *Pipeline) RunFunction(fn *lir.Function) {
	for i := 0; i < p.maxIterations; i++ {
		anyChanged := false
		for _, pass := range p.passes {
			if pass.Run(fn) == Changed {
				anyChanged = true
			}
		}
		if !anyChanged {
			return
		}
	}
}
