package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/tyc/internal/config"
)

func TestParseStageAcceptsEveryNamedStage(t *testing.T) {
	for _, s := range []string{"tokens", "cst", "ast", "bir", "sema", "lir", "llvm-ir", "asm", "obj"} {
		stage, err := config.ParseStage(s)
		require.NoError(t, err)
		assert.Equal(t, config.Stage(s), stage)
	}
}

func TestParseStageEmptyMeansStageNone(t *testing.T) {
	stage, err := config.ParseStage("")
	require.NoError(t, err)
	assert.Equal(t, config.StageNone, stage)
}

func TestParseStageRejectsUnknown(t *testing.T) {
	_, err := config.ParseStage("bogus")
	assert.Error(t, err)
}

func TestUnconfiguredCodegenReportsNotWired(t *testing.T) {
	var backend config.ExternalCodegen = config.Unconfigured{}

	_, err := backend.EmitLLVMIR("m")
	assert.ErrorContains(t, err, "not wired")

	_, err = backend.EmitAsm("ir")
	assert.ErrorContains(t, err, "not wired")

	assert.ErrorContains(t, backend.EmitObj("asm", "out.o"), "not wired")
	assert.ErrorContains(t, backend.Link("out.o", "a.out"), "not wired")
}
