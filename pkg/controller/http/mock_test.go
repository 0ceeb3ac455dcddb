package http_test

import (
	"context"
	"sync"

	"github.com/secmon-lab/modcase/pkg/domain/model"
	"github.com/secmon-lab/modcase/pkg/usecase"
)

// call records one use case invocation
type call struct {
	method string
	inv    usecase.Invocation
	input  any
}

// mockCaseUseCase records calls and returns err from every operation
type mockCaseUseCase struct {
	mu       sync.Mutex
	calls    []call
	reported []error
	err      error
	done     chan struct{}
}

func newMockCaseUseCase() *mockCaseUseCase {
	return &mockCaseUseCase{done: make(chan struct{}, 16)}
}

func (m *mockCaseUseCase) record(method string, inv usecase.Invocation, input any) error {
	m.mu.Lock()
	m.calls = append(m.calls, call{method: method, inv: inv, input: input})
	m.mu.Unlock()
	if m.err == nil {
		m.done <- struct{}{}
	}
	return m.err
}

func (m *mockCaseUseCase) CreateCase(_ context.Context, inv usecase.Invocation, input usecase.CreateCaseInput) (*model.Case, error) {
	return nil, m.record("CreateCase", inv, input)
}

func (m *mockCaseUseCase) UpdateCase(_ context.Context, inv usecase.Invocation, input usecase.UpdateCaseInput) (*model.Case, error) {
	return nil, m.record("UpdateCase", inv, input)
}

func (m *mockCaseUseCase) ShowCase(_ context.Context, inv usecase.Invocation, number int64) error {
	return m.record("ShowCase", inv, number)
}

func (m *mockCaseUseCase) SetCaseHidden(_ context.Context, inv usecase.Invocation, number int64, hidden bool) error {
	return m.record("SetCaseHidden", inv, []any{number, hidden})
}

func (m *mockCaseUseCase) ShowUserCases(_ context.Context, inv usecase.Invocation, input usecase.UserCasesInput) error {
	return m.record("ShowUserCases", inv, input)
}

func (m *mockCaseUseCase) ReportError(_ context.Context, _ usecase.Invocation, err error) {
	m.mu.Lock()
	m.reported = append(m.reported, err)
	m.mu.Unlock()
	m.done <- struct{}{}
}

func (m *mockCaseUseCase) lastCall() call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}
