package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/i-dot-ai/lex/obslog"
)

type recordingSink struct {
	stages []string
}

func (r *recordingSink) DocumentsProcessed(string, int) {}
func (r *recordingSink) DocumentsUpserted(string, int)  {}
func (r *recordingSink) DocumentsFailed(string, int)    {}
func (r *recordingSink) AmendmentsRescraped(int)        {}
func (r *recordingSink) StageDuration(stage string, _ float64) {
	r.stages = append(r.stages, stage)
}

func TestMonitor_ReturnsResultAndRecordsDuration(t *testing.T) {
	sink := &recordingSink{}
	SetMetrics(sink)
	t.Cleanup(func() { SetMetrics(obslog.NopSink{}) })

	result, err := Monitor(context.Background(), "test stage", func(context.Context) (int, error) {
		return 42, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, []string{"test stage"}, sink.stages)
}

func TestMonitor_PropagatesError(t *testing.T) {
	sink := &recordingSink{}
	SetMetrics(sink)
	t.Cleanup(func() { SetMetrics(obslog.NopSink{}) })

	wantErr := errors.New("boom")
	_, err := Monitor(context.Background(), "failing stage", func(context.Context) (int, error) {
		return 0, wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, []string{"failing stage"}, sink.stages)
}
