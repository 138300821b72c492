package embedding_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/i-dot-ai/lex/ai/model/embedding"
	"github.com/i-dot-ai/lex/ai/tokenizer"
)

func newTestService(t *testing.T) *embedding.Service {
	t.Helper()
	svc, err := embedding.NewService(newFakeModel(t), embedding.NewSparseEncoder(tokenizer.NewTiktokenWithCL100KBase()))
	require.NoError(t, err)
	return svc
}

func TestService_EmbedOne_EmptyTextSkipsRemoteCall(t *testing.T) {
	svc := newTestService(t)

	vec, err := svc.EmbedOne(context.Background(), "")
	require.NoError(t, err)
	require.True(t, vec.IsZero())
}

func TestService_EmbedOne_ReturnsDenseAndSparse(t *testing.T) {
	svc := newTestService(t)

	vec, err := svc.EmbedOne(context.Background(), "the tenant shall pay rent")
	require.NoError(t, err)
	require.NotEmpty(t, vec.Dense)
	require.NotZero(t, vec.Sparse.Len())
}

func TestService_EmbedBatch_PreservesOrderAndSkipsEmpty(t *testing.T) {
	svc := newTestService(t)

	texts := []string{"first section", "", "second section is longer"}
	vectors, err := svc.EmbedBatch(context.Background(), texts, 4)
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	require.NotEmpty(t, vectors[0].Dense)
	require.True(t, vectors[1].IsZero())
	require.NotEmpty(t, vectors[2].Dense)
	require.Equal(t, []float32{float32(len(texts[0]))}, vectors[0].Dense)
	require.Equal(t, []float32{float32(len(texts[2]))}, vectors[2].Dense)
}

func TestService_EmbedBatch_DefaultsMaxWorkersToOne(t *testing.T) {
	svc := newTestService(t)

	vectors, err := svc.EmbedBatch(context.Background(), []string{"only text"}, 0)
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	require.NotEmpty(t, vectors[0].Dense)
}
