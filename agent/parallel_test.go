package agent

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentchain/core"
)

func TestNewParallelGroup(t *testing.T) {
	agg := newTestAgent("Aggregator", nil)
	w1 := newTestAgent("Worker1", nil)
	w2 := newTestAgent("Worker2", nil)

	group, err := NewParallelGroup("Research", agg, []core.Agent{w1, w2})
	require.NoError(t, err)

	assert.Equal(t, "Research", group.Name())
	assert.Same(t, core.Agent(agg), group.Aggregator())
	workers := group.Workers()
	require.Len(t, workers, 2)
	assert.Same(t, core.Agent(w1), workers[0])
	assert.Same(t, core.Agent(w2), workers[1])
}

func TestNewParallelGroup_ConfigFaults(t *testing.T) {
	agg := newTestAgent("Aggregator", nil)
	worker := newTestAgent("Worker", nil)

	t.Run("nil aggregator", func(t *testing.T) {
		_, err := NewParallelGroup("Research", nil, []core.Agent{worker})
		require.Error(t, err)

		var cfgErr *core.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "parallel", cfgErr.Component)
		assert.Equal(t, "Research", cfgErr.Name)
	})

	t.Run("no workers", func(t *testing.T) {
		_, err := NewParallelGroup("Research", agg, nil)
		require.Error(t, err)

		var cfgErr *core.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, err.Error(), "worker")
	})
}

func TestParallelGroup_Run_OrderedAggregation(t *testing.T) {
	// Workers finish after random jitter; aggregation order must still
	// follow worker order, not completion order.
	mkWorker := func(name, result string) *testAgent {
		return newTestAgent(name, func(_ context.Context, _ string) (string, error) {
			time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
			return result, nil
		})
	}

	var aggInput string
	agg := newTestAgent("Aggregator", func(_ context.Context, input string) (string, error) {
		aggInput = input
		return "combined", nil
	})

	group, err := NewParallelGroup("Research", agg, []core.Agent{
		mkWorker("Worker1", "r1"),
		mkWorker("Worker2", "r2"),
		mkWorker("Worker3", "r3"),
	})
	require.NoError(t, err)

	output, err := group.Run(context.Background(), []string{"p1", "p2", "p3"})
	require.NoError(t, err)
	assert.Equal(t, "combined", output)

	expected := aggregationHeader +
		"\n\nResult 1:\nr1" +
		"\n\nResult 2:\nr2" +
		"\n\nResult 3:\nr3"
	assert.Equal(t, expected, aggInput)
}

func TestParallelGroup_Run_PromptMismatch(t *testing.T) {
	w1 := NewMockAgent("Worker1")
	w2 := NewMockAgent("Worker2")
	w3 := NewMockAgent("Worker3")
	agg := NewMockAgent("Aggregator")

	group, err := NewParallelGroup("Research", agg, []core.Agent{w1, w2, w3})
	require.NoError(t, err)

	_, err = group.Run(context.Background(), []string{"p1", "p2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 2 prompts for 3 workers")

	// The precondition fails before any work starts.
	for _, w := range []*MockAgent{w1, w2, w3} {
		w.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
	}
	agg.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}

func TestParallelGroup_Run_WorkerFailure(t *testing.T) {
	sentinel := errors.New("boom")

	w1 := NewMockAgent("Worker1")
	w1.On("Process", mock.Anything, "p1").Return("r1", nil)
	w2 := NewMockAgent("Worker2")
	w2.On("Process", mock.Anything, "p2").Return("", sentinel)

	agg := NewMockAgent("Aggregator")

	group, err := NewParallelGroup("Research", agg, []core.Agent{w1, w2})
	require.NoError(t, err)

	_, err = group.Run(context.Background(), []string{"p1", "p2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "worker Worker2")

	// All-or-nothing join: no aggregation on worker failure.
	agg.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
}

func TestParallelGroup_Run_AggregatorFailure(t *testing.T) {
	sentinel := errors.New("synthesis failed")

	worker := newTestAgent("Worker", nil)
	agg := newTestAgent("Aggregator", func(_ context.Context, _ string) (string, error) {
		return "", sentinel
	})

	group, err := NewParallelGroup("Research", agg, []core.Agent{worker})
	require.NoError(t, err)

	_, err = group.Run(context.Background(), []string{"p1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "aggregator Aggregator")
}

func TestParallelGroup_Run_ConcurrentExecution(t *testing.T) {
	// With a barrier sized to the worker count, the run only completes if
	// all workers execute concurrently.
	const n = 3
	barrier := make(chan struct{}, n)

	mkWorker := func(i int) *testAgent {
		return newTestAgent(fmt.Sprintf("Worker%d", i), func(ctx context.Context, _ string) (string, error) {
			barrier <- struct{}{}
			for len(barrier) < n {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(time.Millisecond):
				}
			}
			return "done", nil
		})
	}

	agg := newTestAgent("Aggregator", nil)
	group, err := NewParallelGroup("Research", agg, []core.Agent{
		mkWorker(1), mkWorker(2), mkWorker(3),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = group.Run(ctx, []string{"p1", "p2", "p3"})
	require.NoError(t, err)
}
