package embedding

import (
	"errors"

	"github.com/i-dot-ai/lex/pkg/mime"
)

type ModalityType string

const (
	Text  ModalityType = "text"
	Image ModalityType = "image"
	Audio ModalityType = "audio"
	Video ModalityType = "video"
)

func (m ModalityType) String() string {
	return string(m)
}

func (m ModalityType) IsText() bool {
	return m == Text
}

func (m ModalityType) IsImage() bool {
	return m == Image
}

func (m ModalityType) IsAudio() bool {
	return m == Audio
}

func (m ModalityType) IsVideo() bool {
	return m == Video
}

type ResultMetadata struct {
	ModalityType ModalityType
	MimeType     *mime.MIME
	DocumentID   string
	Extra        map[string]any
}

func (r *ResultMetadata) ensureExtra() {
	if r.Extra == nil {
		r.Extra = make(map[string]any)
	}
}

func (r *ResultMetadata) Get(key string) (any, bool) {
	r.ensureExtra()
	v, ok := r.Extra[key]
	return v, ok
}

func (r *ResultMetadata) Set(key string, value any) {
	r.ensureExtra()
	r.Extra[key] = value
}

type Result struct {
	index    int64
	vector   Vector
	metadata *ResultMetadata
}

// NewResult builds a Result from a dense+sparse Vector. A zero Vector
// (neither half carries weight) is rejected here; callers that need to
// represent "nothing to embed" skip the upsert entirely rather than storing
// an empty Result
func NewResult(index int64, vector Vector, metadata *ResultMetadata) (*Result, error) {
	if vector.IsZero() {
		return nil, errors.New("embedding vector is empty")
	}
	if metadata == nil {
		return nil, errors.New("metadata is required")
	}
	return &Result{
		index:    index,
		vector:   vector,
		metadata: metadata,
	}, nil
}

func (r Result) Output() Vector {
	return r.vector
}

func (r Result) Metadata() *ResultMetadata {
	return r.metadata
}
