// Command tyc is the compiler driver (spec §6.1), replacing the
// teacher's cmd/compiler/main.go with a cobra-based CLI carrying the
// full six-stage pipeline this module now implements (tokens, cst,
// ast, bir, sema, lir) plus the three external-codegen stages
// (llvm-ir, asm, obj) stubbed through internal/config.ExternalCodegen.
//
// The staged "run a phase, report success, bail on errors" shape is
// the teacher's own main() generalized from three stages to six, with
// fmt.Printf("✓ ... successful") replaced by clog.Logger.Stage and the
// teacher's `fmt.Fprintf(os.Stderr, "  %v\n", err)` dumps replaced by
// clog.Logger.Diagnostics.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hassan/tyc/internal/ast"
	"github.com/hassan/tyc/internal/bir"
	"github.com/hassan/tyc/internal/clog"
	"github.com/hassan/tyc/internal/config"
	"github.com/hassan/tyc/internal/lexer"
	"github.com/hassan/tyc/internal/lir"
	"github.com/hassan/tyc/internal/lir/passes"
	"github.com/hassan/tyc/internal/sema"
	"github.com/hassan/tyc/internal/syntax"
)

func main() {
	var opts config.Options
	var stopAtFlag string

	root := &cobra.Command{
		Use:   "tyc <input>",
		Short: "Compile a tyc source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			stage, err := config.ParseStage(stopAtFlag)
			if err != nil {
				return err
			}
			opts.StopAt = stage
			return run(opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().StringVarP(&opts.Output, "output", "o", "a.out", "output path")
	root.Flags().StringVarP(&stopAtFlag, "stage", "a", "", "stop after stage: tokens|cst|ast|bir|sema|lir|llvm-ir|asm|obj")
	root.Flags().BoolVarP(&opts.Optimize, "optimize", "O", false, "enable optimization in the external codegen")
	root.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress non-fatal output")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts config.Options) error {
	log := clog.New(opts.Quiet)

	source, err := os.ReadFile(opts.Input)
	if err != nil {
		log.Fatalf("reading %s: %v", opts.Input, err)
		os.Exit(1)
	}

	// --- tokens ---
	toks, lexErr := lexAll(string(source))
	if lexErr != nil {
		log.Fatalf("%v", lexErr)
		os.Exit(1)
	}
	log.Stage("Lexing")
	if opts.StopAt == config.StageTokens {
		for _, t := range toks {
			fmt.Printf("%-16s %q\n", t.Type, t.Text)
		}
		return nil
	}

	// --- cst ---
	tree := syntax.ParseModule(string(source))
	if len(tree.Errors) > 0 {
		printStrings(log, "Parsing", tree.Errors)
		os.Exit(1)
	}
	log.Stage("Parsing")
	if opts.StopAt == config.StageCST {
		syntax.Dump(os.Stdout, syntax.NewRoot(tree.Root))
		return nil
	}

	// --- ast ---
	red := syntax.NewRoot(tree.Root)
	module := ast.NewModule(red)
	log.Stage("AST construction")
	if opts.StopAt == config.StageAST {
		fmt.Printf("module with %d top-level item(s)\n", len(module.Items()))
		return nil
	}

	// --- bir ---
	translator := bir.NewTranslator()
	birMod := translator.Translate(module)
	if !translator.Errors.OK() {
		log.Diagnostics("BIR translation", translator.Errors)
		os.Exit(1)
	}
	log.Stage("BIR translation")
	if opts.StopAt == config.StageBIR {
		fmt.Printf("bir module: %d function(s), %d type(s)\n", len(birMod.AllFuncIDs()), len(birMod.AllTypeDefIDs()))
		return nil
	}

	// --- sema ---
	graph, semaErrs := sema.Check(birMod)
	if !semaErrs.OK() {
		log.Diagnostics("Semantic analysis", semaErrs)
		os.Exit(1)
	}
	log.Stage("Semantic analysis")
	if opts.StopAt == config.StageSema {
		fmt.Printf("sema graph: %d node(s)\n", graph.NodeCount())
		return nil
	}

	// --- lir ---
	lirMod := lir.Lower(birMod, graph)
	if opts.Optimize {
		passes.NewPipeline().RunModule(lirMod)
		log.Stage("Optimization")
	}
	log.Stage("LIR lowering")
	if opts.StopAt == config.StageLIR {
		for _, fn := range lirMod.Functions {
			fmt.Printf("fn %s: %d block(s)\n", fn.Name, len(fn.Blocks()))
		}
		return nil
	}

	// --- external codegen stages: stubbed (spec §1 Out of scope) ---
	backend := config.Unconfigured{}
	llvmIR, err := backend.EmitLLVMIR(opts.Input)
	if err != nil {
		log.Fatalf("%v", err)
		os.Exit(1)
	}
	if opts.StopAt == config.StageLLVMIR {
		fmt.Println(llvmIR)
		return nil
	}

	asm, err := backend.EmitAsm(llvmIR)
	if err != nil {
		log.Fatalf("%v", err)
		os.Exit(1)
	}
	if opts.StopAt == config.StageAsm {
		fmt.Println(asm)
		return nil
	}

	if err := backend.EmitObj(asm, opts.Output); err != nil {
		log.Fatalf("%v", err)
		os.Exit(1)
	}
	if opts.StopAt == config.StageObj {
		return nil
	}

	if err := backend.Link(opts.Output, opts.Output); err != nil {
		log.Fatalf("%v", err)
		os.Exit(1)
	}
	log.Summary("compiled %s -> %s\n", opts.Input, opts.Output)
	return nil
}

func lexAll(src string) ([]lexer.Token, error) {
	lx := lexer.New(src)
	var toks []lexer.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == lexer.TokenEOF {
			break
		}
	}
	return toks, nil
}

func printStrings(log *clog.Logger, stage string, msgs []string) {
	fmt.Fprintf(os.Stderr, "\n%s errors:\n", stage)
	for _, m := range msgs {
		fmt.Fprintf(os.Stderr, "  %s\n", m)
	}
}
