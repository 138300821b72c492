// Package azure provides an embedding.Model backed by an Azure OpenAI
// embeddings deployment, reached through the resilient httpclient.Client
// rather than a vendored SDK.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/i-dot-ai/lex/ai/model/embedding"
	"github.com/i-dot-ai/lex/httpclient"
	"github.com/i-dot-ai/lex/pkg/mime"
)

// Provider identifies this embedding.Model implementation in ModelInfo.
const Provider = "azure-openai"

var _ embedding.Model = (*EmbeddingModel)(nil)

// EmbeddingModel calls a single Azure OpenAI embeddings deployment.
type EmbeddingModel struct {
	http           *httpclient.Client
	endpoint       string
	apiKey         string
	apiVersion     string
	deployment     string
	dimensions     int64
	defaultOptions *embedding.Options
}

// Config configures a deployment-bound EmbeddingModel.
type Config struct {
	// Endpoint is the resource base URL, e.g. "https://my-resource.openai.azure.com".
	Endpoint string
	APIKey   string
	// APIVersion is the Azure OpenAI REST API version query parameter.
	APIVersion string
	// Deployment is the embeddings deployment name to call.
	Deployment string
	// Dimensions is the model's output dimensionality (1024 by default).
	Dimensions int64
}

// NewEmbeddingModel builds an EmbeddingModel. http is the resilient C1
// client; a nil http is invalid since every remote call must go through the
// retry/rate-limit/circuit-breaker chain.
func NewEmbeddingModel(http *httpclient.Client, cfg Config) (*EmbeddingModel, error) {
	if http == nil {
		return nil, errors.New("azure: http client is required")
	}
	if cfg.Endpoint == "" || cfg.APIKey == "" || cfg.Deployment == "" {
		return nil, errors.New("azure: endpoint, api key, and deployment are all required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-06-01"
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 1024
	}

	opts, err := embedding.NewOptions(cfg.Deployment)
	if err != nil {
		return nil, err
	}
	opts.Dimensions = &cfg.Dimensions

	return &EmbeddingModel{
		http:           http,
		endpoint:       cfg.Endpoint,
		apiKey:         cfg.APIKey,
		apiVersion:     cfg.APIVersion,
		deployment:     cfg.Deployment,
		dimensions:     cfg.Dimensions,
		defaultOptions: opts,
	}, nil
}

type apiRequest struct {
	Input []string `json:"input"`
}

type apiResponse struct {
	Model string `json:"model"`
	Data  []struct {
		Index     int64     `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		PromptTokens int64 `json:"prompt_tokens"`
		TotalTokens  int64 `json:"total_tokens"`
	} `json:"usage"`
}

// Call issues req.Inputs to the deployment in one batched REST call, so a
// single Vector per input is returned in request order. The result only
// carries a dense vector here; the sparse half is filled in by the caller
// (a local, model-independent computation).
func (e *EmbeddingModel) Call(ctx context.Context, req *embedding.Request) (*embedding.Response, error) {
	body, err := json.Marshal(apiRequest{Input: req.Inputs})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/embeddings?api-version=%s", e.endpoint, e.deployment, e.apiVersion)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", e.apiKey)

	resp, err := e.http.Do(ctx, httpReq)
	if err != nil {
		return nil, fmt.Errorf("azure: embeddings call: %w", err)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("azure: decoding embeddings response: %w", err)
	}

	results := make([]*embedding.Result, 0, len(apiResp.Data))
	for _, d := range apiResp.Data {
		metadata := &embedding.ResultMetadata{
			ModalityType: embedding.Text,
			MimeType:     mime.MustNew("text", "plain"),
		}
		result, err := embedding.NewResult(d.Index, embedding.Vector{Dense: denseFloat32(d.Embedding)}, metadata)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	respMetadata := &embedding.ResponseMetadata{
		Model: apiResp.Model,
		Usage: &embedding.Usage{
			PromptTokens: apiResp.Usage.PromptTokens,
			TotalTokens:  apiResp.Usage.TotalTokens,
		},
		Created: time.Now().Unix(),
	}

	return embedding.NewResponse(results, respMetadata)
}

func (e *EmbeddingModel) Dimensions(_ context.Context) int64 {
	return e.dimensions
}

func (e *EmbeddingModel) DefaultOptions() *embedding.Options {
	return e.defaultOptions
}

func (e *EmbeddingModel) Info() embedding.ModelInfo {
	return embedding.ModelInfo{Provider: Provider}
}

func denseFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
