// Package config holds cmd/tyc's command-line surface (spec §6.1): the
// compiled set of flags one invocation carries through the pipeline,
// plus the ExternalCodegen seam for the stages this module never
// claims to own (llvm-ir, asm, obj, the linker).
//
// Grounded on termfx-morfx/demo/cmd/main.go's cobra rootCmd/subcommand
// shape (github.com/spf13/cobra) and its fatih/color SprintFunc status
// helpers; the teacher's own cmd/compiler/main.go takes its single
// argument via bare os.Args, so the flag set itself (-o, -a, -O, -q)
// is new surface built directly from spec §6.1, not adapted from
// teacher code.
package config

import "fmt"

// Stage is one of the named stop-after points in spec §6.1's -a flag.
type Stage string

const (
	StageTokens Stage = "tokens"
	StageCST    Stage = "cst"
	StageAST    Stage = "ast"
	StageBIR    Stage = "bir"
	StageSema   Stage = "sema"
	StageLIR    Stage = "lir"
	StageLLVMIR Stage = "llvm-ir"
	StageAsm    Stage = "asm"
	StageObj    Stage = "obj"
	StageNone   Stage = "" // no -a: compile all the way through
)

var validStages = map[Stage]bool{
	StageTokens: true, StageCST: true, StageAST: true, StageBIR: true,
	StageSema: true, StageLIR: true, StageLLVMIR: true, StageAsm: true,
	StageObj: true,
}

// ParseStage validates a -a flag value against the closed stage set.
func ParseStage(s string) (Stage, error) {
	if s == "" {
		return StageNone, nil
	}
	st := Stage(s)
	if !validStages[st] {
		return "", fmt.Errorf("unknown stage %q (want one of tokens|cst|ast|bir|sema|lir|llvm-ir|asm|obj)", s)
	}
	return st, nil
}

// Options is the parsed form of one tyc invocation's flags.
type Options struct {
	Input        string
	Output       string // -o; defaults to "a.out"
	StopAt       Stage  // -a
	Optimize     bool   // -O
	Quiet        bool   // -q
}

// ExternalCodegen is the seam cmd/tyc shells out through for the three
// stages this module doesn't implement (spec §1 Out of scope: LLVM IR
// emission, assembly, object/link output). A default "not configured"
// implementation keeps the documented CLI surface (-a llvm-ir|asm|obj,
// and the no-flag "compile to a.out via linker" path) complete without
// pretending to own code generation.
type ExternalCodegen interface {
	// EmitLLVMIR lowers a finished LIR module to LLVM textual IR.
	EmitLLVMIR(moduleName string) (string, error)
	// EmitAsm assembles LLVM IR down to target assembly.
	EmitAsm(llvmIR string) (string, error)
	// EmitObj assembles to a relocatable object file at path.
	EmitObj(asm string, path string) error
	// Link invokes the system linker to produce the final binary.
	Link(objPath, outPath string) error
}

// Unconfigured is the default ExternalCodegen: every call fails with a
// diagnostic explaining the backend isn't wired, rather than panicking
// or silently producing nothing.
type Unconfigured struct{}

func (Unconfigured) EmitLLVMIR(string) (string, error) {
	return "", fmt.Errorf("external backend not wired: no LLVM IR emitter configured")
}

func (Unconfigured) EmitAsm(string) (string, error) {
	return "", fmt.Errorf("external backend not wired: no assembler configured")
}

func (Unconfigured) EmitObj(string, string) error {
	return fmt.Errorf("external backend not wired: no object emitter configured")
}

func (Unconfigured) Link(string, string) error {
	return fmt.Errorf("external backend not wired: no linker configured")
}
