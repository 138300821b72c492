package qdrant

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/i-dot-ai/lex/ai/model/embedding"
	"github.com/i-dot-ai/lex/ai/vectorstore/filter"
	"github.com/i-dot-ai/lex/pkg/ptr"
)

const (
	Provider = "Qdrant"

	// denseVectorName and sparseVectorName are the two named vector slots
	// every collection is created with: a cosine-distance dense embedding
	// and a BM25-style sparse one, queried independently and fused by
	// HybridQuery.
	denseVectorName  = "dense"
	sparseVectorName = "sparse"

	// defaultUpsertChunkSize bounds how many points travel in a single
	// upsert RPC. Smaller than this for collections carrying full case
	// text in the payload, where a single point can be large.
	defaultUpsertChunkSize = 100

	maxUpsertRetries  = 5
	retryInitialDelay = 200 * time.Millisecond
	retryMaxDelay     = 5 * time.Second

	// minDenseCandidates/denseCandidateFactor and minSparseCandidates/
	// sparseCandidateFactor size the two prefetch lists HybridQuery fuses.
	minDenseCandidates    = 30
	denseCandidateFactor  = 3
	minSparseCandidates   = 8
	sparseCandidateFactor = 0.8
)

// Store is the named-collection adapter over a Qdrant deployment. Every
// collection it manages carries two named vectors (dense, sparse) plus an
// arbitrary JSON payload; embedding is the caller's responsibility (the
// embedding service), this package only persists and queries the result.
type Store struct {
	client *qdrant.Client
}

func NewStore(client *qdrant.Client) (*Store, error) {
	if client == nil {
		return nil, errors.New("qdrant: client is required")
	}
	return &Store{client: client}, nil
}

// Point is a single record to upsert: a deterministic id (see
// ai/media/document/id.UUID5Generator), the dense+sparse vector pair, and
// the payload to store alongside it.
type Point struct {
	ID      string
	Vector  embedding.Vector
	Payload map[string]any
}

// EnsureCollection creates name if it does not already exist, with a
// dense vector of denseDimensions (cosine distance) and a sparse vector
// slot. Idempotent: a second call against an existing collection is a
// no-op.
func (s *Store) EnsureCollection(ctx context.Context, name string, denseDimensions uint64) error {
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("qdrant: failed to check collection %s: %w", name, err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			denseVectorName: {
				Size:     denseDimensions,
				Distance: qdrant.Distance_Cosine,
			},
		}),
		SparseVectorsConfig: qdrant.NewSparseVectorsConfig(map[string]*qdrant.SparseVectorParams{
			sparseVectorName: {},
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: failed to create collection %s: %w", name, err)
	}

	return nil
}

// Upsert writes points in chunks of defaultUpsertChunkSize, retrying each
// chunk with exponential backoff on transient failures. Only the final
// chunk waits for the write to become visible, so earlier chunks don't
// pay read-after-write latency they don't need.
func (s *Store) Upsert(ctx context.Context, name string, points []Point) error {
	for start := 0; start < len(points); start += defaultUpsertChunkSize {
		end := start + defaultUpsertChunkSize
		if end > len(points) {
			end = len(points)
		}

		structs := make([]*qdrant.PointStruct, 0, end-start)
		for _, p := range points[start:end] {
			ps, err := toPointStruct(p)
			if err != nil {
				return fmt.Errorf("qdrant: point %s: %w", p.ID, err)
			}
			structs = append(structs, ps)
		}

		isFinalChunk := end == len(points)
		if err := s.upsertChunk(ctx, name, structs, isFinalChunk); err != nil {
			return fmt.Errorf("qdrant: upsert chunk [%d:%d] of %d to collection %s: %w",
				start, end, len(points), name, err)
		}
	}

	return nil
}

func (s *Store) upsertChunk(ctx context.Context, name string, points []*qdrant.PointStruct, wait bool) error {
	var lastErr error
	for attempt := 0; attempt < maxUpsertRetries; attempt++ {
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: name,
			Points:         points,
			Wait:           ptr.Pointer(wait),
		})
		if err == nil {
			return nil
		}
		lastErr = err

		delay := backoffDelay(attempt, retryInitialDelay, retryMaxDelay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

func backoffDelay(attempt int, initial, max time.Duration) time.Duration {
	d := time.Duration(float64(initial) * math.Pow(2, float64(attempt)))
	if d > max {
		d = max
	}
	jitter := time.Duration(rand.Int63n(int64(d)/4 + 1))
	return d + jitter
}

func toPointStruct(p Point) (*qdrant.PointStruct, error) {
	if p.ID == "" {
		return nil, errors.New("point id is required")
	}
	if len(p.Vector.Dense) == 0 {
		return nil, errors.New("dense vector is required")
	}

	payload, err := qdrant.TryValueMap(p.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to convert payload: %w", err)
	}

	vectors := map[string]*qdrant.Vector{
		denseVectorName: qdrant.NewVector(p.Vector.Dense...),
	}
	if p.Vector.Sparse.Len() > 0 {
		vectors[sparseVectorName] = qdrant.NewVectorSparse(p.Vector.Sparse.Indices, p.Vector.Sparse.Values)
	}

	return &qdrant.PointStruct{
		Id:      qdrant.NewID(p.ID),
		Vectors: qdrant.NewVectorsMap(vectors),
		Payload: payload,
	}, nil
}

// ScrollPoint is one record returned by Scroll.
type ScrollPoint struct {
	ID      string
	Payload map[string]any
}

// Scroll enumerates points matching expr (nil for all points) a page at a
// time. Pass the NextOffset from the previous call back in as offsetID to
// continue; an empty NextOffset means the scroll is exhausted.
func (s *Store) Scroll(ctx context.Context, name string, expr filter.Expression, limit uint32, withPayload bool, offsetID string) (points []ScrollPoint, nextOffset string, err error) {
	req := &qdrant.ScrollPoints{
		CollectionName: name,
		Limit:          ptr.Pointer(limit),
		WithPayload:    qdrant.NewWithPayload(withPayload),
	}

	if expr != nil {
		f, err := ToFilter(expr)
		if err != nil {
			return nil, "", fmt.Errorf("qdrant: failed to convert filter: %w", err)
		}
		req.Filter = f
	}
	if offsetID != "" {
		req.Offset = qdrant.NewID(offsetID)
	}

	retrieved, err := s.client.Scroll(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("qdrant: failed to scroll collection %s: %w", name, err)
	}

	points = make([]ScrollPoint, 0, len(retrieved))
	for _, rp := range retrieved {
		points = append(points, ScrollPoint{
			ID:      pointIDString(rp.GetId()),
			Payload: convertPayloadToMetadata(rp.GetPayload()),
		})
	}

	if uint32(len(points)) == limit && len(points) > 0 {
		nextOffset = points[len(points)-1].ID
	}

	return points, nextOffset, nil
}

// Count returns the number of points matching expr (nil counts the whole
// collection).
func (s *Store) Count(ctx context.Context, name string, expr filter.Expression) (uint64, error) {
	req := &qdrant.CountPoints{CollectionName: name}

	if expr != nil {
		f, err := ToFilter(expr)
		if err != nil {
			return 0, fmt.Errorf("qdrant: failed to convert filter: %w", err)
		}
		req.Filter = f
	}

	count, err := s.client.Count(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("qdrant: failed to count collection %s: %w", name, err)
	}

	return count, nil
}

// HybridResult is one ranked point returned by HybridQuery.
type HybridResult struct {
	ID      string
	Score   float32
	Payload map[string]any
}

// HybridQuery runs a dense ANN search and a sparse BM25 search in parallel
// candidate pools, then fuses them by Distribution-Based Score Fusion:
// each list is normalized against its own mean±3σ range, the normalized
// scores are summed per point id, and the union is sorted descending
// before the [offset, offset+size) page is sliced out.
func (s *Store) HybridQuery(ctx context.Context, name string, denseQ []float32, sparseQ embedding.SparseVector, expr filter.Expression, size, offset int, includeFields []string) ([]HybridResult, error) {
	if size <= 0 {
		return nil, errors.New("qdrant: size must be positive")
	}
	if offset < 0 {
		return nil, errors.New("qdrant: offset must not be negative")
	}

	denseLimit := candidateLimit(minDenseCandidates, denseCandidateFactor, size+offset)
	sparseLimit := candidateLimit(minSparseCandidates, sparseCandidateFactor, size+offset)

	withPayload := qdrant.NewWithPayload(true)
	if len(includeFields) > 0 {
		withPayload = qdrant.NewWithPayloadInclude(includeFields)
	}

	dense, err := s.vectorSearch(ctx, name, expr, denseVectorName, qdrant.NewQuery(denseQ...), denseLimit, withPayload)
	if err != nil {
		return nil, fmt.Errorf("qdrant: dense search on %s: %w", name, err)
	}

	sparse, err := s.vectorSearch(ctx, name, expr, sparseVectorName, qdrant.NewQuerySparse(sparseQ.Indices, sparseQ.Values), sparseLimit, withPayload)
	if err != nil {
		return nil, fmt.Errorf("qdrant: sparse search on %s: %w", name, err)
	}

	fused := fuseDBSF(dense, sparse)

	if offset >= len(fused) {
		return nil, nil
	}
	end := offset + size
	if end > len(fused) {
		end = len(fused)
	}

	page := fused[offset:end]
	results := make([]HybridResult, len(page))
	for i, r := range page {
		results[i] = HybridResult{ID: r.id, Score: r.score, Payload: r.payload}
	}

	return results, nil
}

func candidateLimit(min int, factor float64, n int) uint64 {
	scaled := int(math.Ceil(factor * float64(n)))
	if scaled < min {
		scaled = min
	}
	return uint64(scaled)
}

func (s *Store) vectorSearch(ctx context.Context, name string, expr filter.Expression, using string, query *qdrant.Query, limit uint64, withPayload *qdrant.WithPayloadSelector) ([]queryResult, error) {
	req := &qdrant.QueryPoints{
		CollectionName: name,
		Using:          ptr.Pointer(using),
		Query:          query,
		Limit:          ptr.Pointer(limit),
		WithPayload:    withPayload,
	}

	if expr != nil {
		f, err := ToFilter(expr)
		if err != nil {
			return nil, fmt.Errorf("failed to convert filter: %w", err)
		}
		req.Filter = f
	}

	scored, err := s.client.Query(ctx, req)
	if err != nil {
		return nil, err
	}

	results := make([]queryResult, len(scored))
	for i, sp := range scored {
		results[i] = queryResult{
			id:      pointIDString(sp.GetId()),
			score:   sp.GetScore(),
			payload: convertPayloadToMetadata(sp.GetPayload()),
		}
	}
	return results, nil
}

type queryResult struct {
	id      string
	score   float32
	payload map[string]any
}

// fuseDBSF unions any number of candidate lists by Distribution-Based Score
// Fusion: each list's scores are normalized to [0,1] against its own
// mean±3σ range before being summed per id, so a list with a tight score
// spread doesn't get drowned out by one with a wide spread.
func fuseDBSF(lists ...[]queryResult) []queryResult {
	totals := make(map[string]float32)
	payloads := make(map[string]map[string]any)
	order := make([]string, 0)

	for _, list := range lists {
		normalized := normalizeMeanStdDev(list)
		for _, r := range list {
			if _, seen := totals[r.id]; !seen {
				order = append(order, r.id)
			}
			if payloads[r.id] == nil {
				payloads[r.id] = r.payload
			}
			totals[r.id] += normalized[r.id]
		}
	}

	fused := make([]queryResult, len(order))
	for i, id := range order {
		fused[i] = queryResult{id: id, score: totals[id], payload: payloads[id]}
	}

	sort.Slice(fused, func(i, j int) bool { return fused[i].score > fused[j].score })
	return fused
}

func normalizeMeanStdDev(list []queryResult) map[string]float32 {
	normalized := make(map[string]float32, len(list))
	if len(list) == 0 {
		return normalized
	}

	var sum float64
	for _, r := range list {
		sum += float64(r.score)
	}
	mean := sum / float64(len(list))

	var variance float64
	for _, r := range list {
		d := float64(r.score) - mean
		variance += d * d
	}
	stdDev := math.Sqrt(variance / float64(len(list)))

	if stdDev == 0 {
		for _, r := range list {
			normalized[r.id] = 0.5
		}
		return normalized
	}

	lower := mean - 3*stdDev
	span := 6 * stdDev
	for _, r := range list {
		normalized[r.id] = float32((float64(r.score) - lower) / span)
	}

	return normalized
}

func convertQdrantValue(value *qdrant.Value) any {
	if value == nil {
		return nil
	}

	switch kind := value.Kind.(type) {
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_NullValue:
		return nil
	case *qdrant.Value_StructValue:
		return convertQdrantStruct(kind.StructValue)
	case *qdrant.Value_ListValue:
		return convertQdrantList(kind.ListValue)
	default:
		return nil
	}
}

func convertQdrantStruct(s *qdrant.Struct) map[string]any {
	if s == nil || s.Fields == nil {
		return nil
	}
	result := make(map[string]any, len(s.Fields))
	for key, val := range s.Fields {
		result[key] = convertQdrantValue(val)
	}
	return result
}

func convertQdrantList(l *qdrant.ListValue) []any {
	if l == nil || len(l.Values) == 0 {
		return nil
	}
	result := make([]any, len(l.Values))
	for i, val := range l.Values {
		result[i] = convertQdrantValue(val)
	}
	return result
}

func convertPayloadToMetadata(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	metadata := make(map[string]any, len(payload))
	for key, value := range payload {
		if value == nil {
			continue
		}
		metadata[key] = convertQdrantValue(value)
	}
	return metadata
}

func pointIDString(id *qdrant.PointId) string {
	if id == nil {
		return ""
	}
	if uuid := id.GetUuid(); uuid != "" {
		return uuid
	}
	return fmt.Sprintf("%d", id.GetNum())
}

func (s *Store) Info() StoreInfo {
	return StoreInfo{NativeClient: s.client, Provider: Provider}
}

func (s *Store) Close() error {
	return s.client.Close()
}

// StoreInfo surfaces the underlying client for operations this adapter
// doesn't expose directly.
type StoreInfo struct {
	NativeClient any
	Provider     string
}
