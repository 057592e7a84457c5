package agent

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAgent for testing composite agents
type MockAgent struct {
	mock.Mock
	name string
}

func NewMockAgent(name string) *MockAgent {
	return &MockAgent{name: name}
}

func (m *MockAgent) Name() string { return m.name }

func (m *MockAgent) Process(ctx context.Context, input string) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockAgent) ProcessStream(ctx context.Context, input string) (<-chan string, <-chan error) {
	args := m.Called(ctx, input)
	return args.Get(0).(<-chan string), args.Get(1).(<-chan error)
}

// testAgent is a lightweight concrete agent used for testing composite
// agents. It transforms its input through processFn and streams through
// streamFn when set; otherwise streaming delivers the Process result as a
// single chunk.
type testAgent struct {
	name      string
	processFn func(ctx context.Context, input string) (string, error)
	streamFn  func(ctx context.Context, input string, chunks chan<- string, errs chan<- error)
}

func newTestAgent(name string, processFn func(ctx context.Context, input string) (string, error)) *testAgent {
	if processFn == nil {
		processFn = func(_ context.Context, input string) (string, error) { return input, nil }
	}
	return &testAgent{name: name, processFn: processFn}
}

func (t *testAgent) Name() string { return t.name }

func (t *testAgent) Process(ctx context.Context, input string) (string, error) {
	return t.processFn(ctx, input)
}

func (t *testAgent) ProcessStream(ctx context.Context, input string) (<-chan string, <-chan error) {
	chunks := make(chan string, 32)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)

		if t.streamFn != nil {
			t.streamFn(ctx, input, chunks, errs)
			return
		}

		output, err := t.processFn(ctx, input)
		if err != nil {
			errs <- err
			return
		}
		chunks <- output
	}()

	return chunks, errs
}

// collect drains a chunk/error channel pair into the concatenated text and
// the first error observed.
func collect(chunks <-chan string, errs <-chan error) ([]string, error) {
	var (
		out      []string
		firstErr error
	)
	for chunks != nil || errs != nil {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				chunks = nil
				continue
			}
			out = append(out, chunk)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return out, firstErr
}
