package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/agentchain/core"
	"github.com/hupe1980/agentchain/logging"
)

// SequentialChainOptions configures a SequentialChain.
type SequentialChainOptions struct {
	// Logger receives per-stage progress events. Defaults to a no-op logger.
	Logger logging.Logger
}

// SequentialChain runs a fixed pipeline of agents. Each agent's output
// becomes the next agent's input; the final agent's output is the chain's
// result. A SequentialChain is itself a core.Agent, so chains nest inside
// other chains and parallel groups.
type SequentialChain struct {
	name   string
	agents []core.Agent
	logger logging.Logger
}

// NewSequentialChain creates a chain over the given agents, in order. A
// chain with no agents is a configuration fault.
func NewSequentialChain(name string, agents []core.Agent, optFns ...func(o *SequentialChainOptions)) (*SequentialChain, error) {
	opts := SequentialChainOptions{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if len(agents) == 0 {
		return nil, core.NewConfigError("chain", name, "at least one agent is required")
	}

	return &SequentialChain{
		name:   name,
		agents: agents,
		logger: opts.Logger,
	}, nil
}

// Name implements core.Agent.
func (c *SequentialChain) Name() string { return c.name }

// Agents returns the pipeline stages in execution order.
func (c *SequentialChain) Agents() []core.Agent {
	out := make([]core.Agent, len(c.agents))
	copy(out, c.agents)
	return out
}

// Run executes the pipeline to completion. The first failing agent aborts
// the chain; its error is returned wrapped with the chain and agent names
// and no later agent is invoked.
func (c *SequentialChain) Run(ctx context.Context, input string) (string, error) {
	c.logger.Debug("chain.run.start", "chain", c.name, "agents", len(c.agents))

	start := time.Now()
	current := input
	for i, ag := range c.agents {
		c.logger.Debug("chain.stage.start", "chain", c.name, "stage", i, "agent", ag.Name())

		output, err := ag.Process(ctx, current)
		if err != nil {
			wrapped := fmt.Errorf("chain %s: agent %s: %w", c.name, ag.Name(), err)
			logging.LogChainRun(c.logger, c.name, len(c.agents), time.Since(start), false, wrapped)
			return "", wrapped
		}
		current = output
	}

	logging.LogChainRun(c.logger, c.name, len(c.agents), time.Since(start), true, nil)

	return current, nil
}

// RunStream executes the pipeline and streams the final agent's output. All
// preceding agents run to completion first; a failure in any of them
// surfaces on the error channel before any chunk is delivered. Chunks from
// the final agent are forwarded unchanged.
func (c *SequentialChain) RunStream(ctx context.Context, input string) (<-chan string, <-chan error) {
	chunks := make(chan string, 32)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)

		current := input
		last := len(c.agents) - 1
		for i, ag := range c.agents[:last] {
			output, err := ag.Process(ctx, current)
			if err != nil {
				c.logger.Error("chain.stage.failed", "chain", c.name, "stage", i, "agent", ag.Name(), "error", err)
				errs <- fmt.Errorf("chain %s: agent %s: %w", c.name, ag.Name(), err)
				return
			}
			current = output
		}

		final := c.agents[last]
		innerChunks, innerErrs := final.ProcessStream(ctx, current)
		for innerChunks != nil || innerErrs != nil {
			select {
			case chunk, ok := <-innerChunks:
				if !ok {
					innerChunks = nil
					continue
				}
				select {
				case chunks <- chunk:
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				}
			case err, ok := <-innerErrs:
				if !ok {
					innerErrs = nil
					continue
				}
				if err != nil {
					c.logger.Error("chain.stage.failed", "chain", c.name, "stage", last, "agent", final.Name(), "error", err)
					errs <- fmt.Errorf("chain %s: agent %s: %w", c.name, final.Name(), err)
					return
				}
			}
		}
	}()

	return chunks, errs
}

// Process implements core.Agent by delegating to Run.
func (c *SequentialChain) Process(ctx context.Context, input string) (string, error) {
	return c.Run(ctx, input)
}

// ProcessStream implements core.Agent by delegating to RunStream.
func (c *SequentialChain) ProcessStream(ctx context.Context, input string) (<-chan string, <-chan error) {
	return c.RunStream(ctx, input)
}
