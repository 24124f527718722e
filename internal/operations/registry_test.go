package operations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"downtimecli/internal/operations"
	"downtimecli/internal/operations/testutil"
)

func TestRegistry(t *testing.T) {
	registry := operations.NewRegistry()

	assert.Equal(t, 0, registry.Count())
	assert.NotNil(t, registry.List(), "List() should return empty slice, not nil")
}

func TestRegistryRegister(t *testing.T) {
	registry := operations.NewRegistry()

	stage1 := testutil.CreateSuccessfulStage("stage1", "Step 1")
	stage2 := testutil.CreateSuccessfulStage("stage2", "Step 2")
	stage3 := testutil.CreateSuccessfulStage("stage3", "Step 3")

	require.NoError(t, registry.Register(stage1))
	require.NoError(t, registry.Register(stage2))
	require.NoError(t, registry.Register(stage3))

	assert.Equal(t, 3, registry.Count())
	assert.True(t, registry.Has("stage2"))

	got, err := registry.Get("stage1")
	require.NoError(t, err)
	assert.Same(t, stage1, got)

	assert.Equal(t, []string{"stage1", "stage2", "stage3"}, registry.ListIDs())
	steps := registry.List()
	require.Len(t, steps, 3)
	assert.Equal(t, "stage3", steps[2].ID())
}

func TestRegistryRegisterErrors(t *testing.T) {
	registry := operations.NewRegistry()

	assert.Error(t, registry.Register(nil))
	assert.Error(t, registry.Register(testutil.CreateSuccessfulStage("", "Empty")))

	require.NoError(t, registry.Register(testutil.CreateSuccessfulStage("dup", "First")))
	assert.Error(t, registry.Register(testutil.CreateSuccessfulStage("dup", "Second")))

	_, err := registry.Get("missing")
	assert.Equal(t, operations.ErrorTypeNotFound, operations.GetErrorType(err))

	assert.Panics(t, func() {
		operations.NewRegistry().MustRegister(
			testutil.CreateSuccessfulStage("a", "A"),
			testutil.CreateSuccessfulStage("a", "A again"),
		)
	})
}
