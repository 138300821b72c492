package embedding

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Service pairs a remote dense Model with a local SparseEncoder to produce
// dense+sparse Vector pairs, via the two entry points EmbedOne and
// EmbedBatch.
type Service struct {
	client *Client
	sparse *SparseEncoder
}

// NewService builds a Service. model supplies dense vectors; sparse supplies
// the local BM25-style computation run alongside every dense call.
func NewService(model Model, sparse *SparseEncoder) (*Service, error) {
	client, err := NewClientWithModel(model)
	if err != nil {
		return nil, err
	}
	return &Service{client: client, sparse: sparse}, nil
}

// DenseDimensions reports the dense vector width the underlying model
// produces, used to size the vector store collection before the first
// upsert.
func (s *Service) DenseDimensions(ctx context.Context) int64 {
	return GetDimensions(ctx, s.client.defaultRequest.model)
}

// EmbedOne computes the dense+sparse Vector for a single text. Empty text
// yields a zero Vector without calling the remote model — the caller is
// expected to skip upserting it
func (s *Service) EmbedOne(ctx context.Context, text string) (Vector, error) {
	if text == "" {
		return Vector{}, nil
	}

	sparseVec, err := s.sparse.Encode(ctx, text)
	if err != nil {
		return Vector{}, err
	}

	dense, _, err := s.client.EmbedWithText(text).Call().Embedding(ctx)
	if err != nil {
		return Vector{}, err
	}

	return Vector{Dense: dense.Dense, Sparse: sparseVec}, nil
}

// EmbedBatch computes a Vector per text, dispatching dense remote calls
// across a fan-out bounded by maxWorkers (the provider's RPM budget) while
// sparse vectors are computed locally and require no coordination. Results
// preserve input order; a zero maxWorkers defaults to 1 (no concurrency).
func (s *Service) EmbedBatch(ctx context.Context, texts []string, maxWorkers int) ([]Vector, error) {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	vectors := make([]Vector, len(texts))
	sem := semaphore.NewWeighted(int64(maxWorkers))
	group, gctx := errgroup.WithContext(ctx)

	for i, text := range texts {
		if text == "" {
			continue
		}

		i, text := i, text
		group.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			vec, err := s.EmbedOne(gctx, text)
			if err != nil {
				return err
			}
			vectors[i] = vec
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
