package id

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

func TestUUID5Generator_Deterministic(t *testing.T) {
	generator := NewUUID5Generator(testNamespace)
	ctx := context.Background()

	id1, err := generator.Generate(ctx, "ukpga/1998/42/section/1")
	require.NoError(t, err)
	id2, err := generator.Generate(ctx, "ukpga/1998/42/section/1")
	require.NoError(t, err)

	require.Equal(t, id1, id2)
	_, parseErr := uuid.Parse(id1)
	require.NoError(t, parseErr)
}

func TestUUID5Generator_DifferentNamesDiffer(t *testing.T) {
	generator := NewUUID5Generator(testNamespace)
	ctx := context.Background()

	id1, err := generator.Generate(ctx, "ukpga/1998/42/section/1")
	require.NoError(t, err)
	id2, err := generator.Generate(ctx, "ukpga/1998/42/section/2")
	require.NoError(t, err)

	require.NotEqual(t, id1, id2)
}

func TestUUID5Generator_DifferentNamespacesDiffer(t *testing.T) {
	ctx := context.Background()
	other := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")

	id1, err := NewUUID5Generator(testNamespace).Generate(ctx, "same-name")
	require.NoError(t, err)
	id2, err := NewUUID5Generator(other).Generate(ctx, "same-name")
	require.NoError(t, err)

	require.NotEqual(t, id1, id2)
}

func TestUUID5Generator_NonStringObjectIsFormatted(t *testing.T) {
	generator := NewUUID5Generator(testNamespace)
	ctx := context.Background()

	id1, err := generator.Generate(ctx, 42)
	require.NoError(t, err)
	id2, err := generator.Generate(ctx, "42")
	require.NoError(t, err)

	require.Equal(t, id1, id2)
}

func TestUUID5Generator_NoObjectsIsAnError(t *testing.T) {
	generator := NewUUID5Generator(testNamespace)

	_, err := generator.Generate(context.Background())
	require.Error(t, err)
}

func TestUUID5Generator_InterfaceCompliance(t *testing.T) {
	var _ Generator = NewUUID5Generator(testNamespace)
}
