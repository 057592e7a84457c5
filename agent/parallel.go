package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/agentchain/core"
	"github.com/hupe1980/agentchain/logging"
)

// aggregationHeader prefixes the synthesized prompt handed to the
// aggregator agent.
const aggregationHeader = "Combine the following results into a single, coherent response:"

// ParallelGroupOptions configures a ParallelGroup.
type ParallelGroupOptions struct {
	// Logger receives fan-out progress events. Defaults to a no-op logger.
	Logger logging.Logger
}

// ParallelGroup fans a set of prompts out to worker agents concurrently and
// hands the collected results to an aggregator agent for synthesis. The
// join is all-or-nothing: any worker failure fails the whole run and the
// aggregator is never invoked.
type ParallelGroup struct {
	name       string
	aggregator core.Agent
	workers    []core.Agent
	logger     logging.Logger
}

// NewParallelGroup creates a group with the given aggregator and workers.
// A nil aggregator or an empty worker set is a configuration fault.
func NewParallelGroup(name string, aggregator core.Agent, workers []core.Agent, optFns ...func(o *ParallelGroupOptions)) (*ParallelGroup, error) {
	opts := ParallelGroupOptions{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if aggregator == nil {
		return nil, core.NewConfigError("parallel", name, "an aggregator agent is required")
	}
	if len(workers) == 0 {
		return nil, core.NewConfigError("parallel", name, "at least one worker agent is required")
	}

	return &ParallelGroup{
		name:       name,
		aggregator: aggregator,
		workers:    workers,
		logger:     opts.Logger,
	}, nil
}

// Name returns the group's name.
func (g *ParallelGroup) Name() string { return g.name }

// Workers returns the worker agents in their configured order.
func (g *ParallelGroup) Workers() []core.Agent {
	out := make([]core.Agent, len(g.workers))
	copy(out, g.workers)
	return out
}

// Aggregator returns the agent that synthesizes the worker results.
func (g *ParallelGroup) Aggregator() core.Agent { return g.aggregator }

// Run dispatches prompts[i] to workers[i] concurrently, collects the results
// in worker order and returns the aggregator's synthesis. The prompt count
// must match the worker count; a mismatch fails before any worker runs.
func (g *ParallelGroup) Run(ctx context.Context, prompts []string) (string, error) {
	if len(prompts) != len(g.workers) {
		return "", fmt.Errorf("parallel group %s: got %d prompts for %d workers", g.name, len(prompts), len(g.workers))
	}

	g.logger.Debug("parallel.run.start", "group", g.name, "workers", len(g.workers))

	start := time.Now()
	results := make([]string, len(g.workers))

	eg, gctx := errgroup.WithContext(ctx)
	for i, w := range g.workers {
		i, w := i, w
		eg.Go(func() error {
			output, err := w.Process(gctx, prompts[i])
			if err != nil {
				g.logger.Error("parallel.worker.failed", "group", g.name, "worker", w.Name(), "error", err)
				return fmt.Errorf("parallel group %s: worker %s: %w", g.name, w.Name(), err)
			}
			results[i] = output
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		logging.LogChainRun(g.logger, g.name, len(g.workers), time.Since(start), false, err)
		return "", err
	}

	g.logger.Debug("parallel.aggregate.start", "group", g.name, "aggregator", g.aggregator.Name())

	output, err := g.aggregator.Process(ctx, buildAggregationPrompt(results))
	if err != nil {
		wrapped := fmt.Errorf("parallel group %s: aggregator %s: %w", g.name, g.aggregator.Name(), err)
		logging.LogChainRun(g.logger, g.name, len(g.workers), time.Since(start), false, wrapped)
		return "", wrapped
	}

	logging.LogChainRun(g.logger, g.name, len(g.workers), time.Since(start), true, nil)

	return output, nil
}

// buildAggregationPrompt lays the worker results out as numbered blocks in
// worker order, preceded by the aggregation header.
func buildAggregationPrompt(results []string) string {
	var sb strings.Builder
	sb.WriteString(aggregationHeader)
	for i, result := range results {
		sb.WriteString(fmt.Sprintf("\n\nResult %d:\n%s", i+1, result))
	}
	return sb.String()
}
