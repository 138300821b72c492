package trigger

import (
	"context"
	"github.com/i-dot-ai/lex/core/worker"
)

type Trigger interface {
	AddWorkers(ctx context.Context, workers ...worker.Worker) (int, error)
}
