package worker

import (
	"context"
	"fmt"
	"sync"
)

type MockEmptyWorker struct{}

func (m *MockEmptyWorker) Work() {}

type MockWorker struct {
	MockEmptyWorker
}

func (m *MockWorker) Work() {
	fmt.Println("MockWorker Work")
}

type MockEmptyBatchWorker struct {
	ctx  context.Context
	once sync.Once
}

func (m *MockEmptyBatchWorker) Context(ctx context.Context) {
	m.ctx = ctx
}

func (m *MockEmptyBatchWorker) Done() <-chan struct{} {
	return m.ctx.Done()
}

func (m *MockEmptyBatchWorker) Work() {}

type MockBatchWorker struct {
	MockEmptyBatchWorker
}

func (m *MockBatchWorker) Work() {
	fmt.Println("MockBatchWorker Work")
}
