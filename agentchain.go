// Package agentchain provides a high-level façade over the agent, model and
// history packages for building LLM agent pipelines. Most applications
// interact with this package by:
//  1. Creating an AgentChain via New() (optionally overriding the default
//     in-memory history store and logger)
//  2. Constructing agents, sequential chains and parallel groups through the
//     façade helpers
//  3. Running them directly, or draining streaming output with Collect
//
// The façade keeps setup ergonomics concise while delegating all
// orchestration to the agent package. All defaults are safe for local
// development and testing; production deployments typically supply a durable
// history store and a structured logger.
package agentchain

import (
	"context"

	"github.com/hupe1980/agentchain/agent"
	"github.com/hupe1980/agentchain/core"
	"github.com/hupe1980/agentchain/history"
	"github.com/hupe1980/agentchain/logging"
	"github.com/hupe1980/agentchain/model"
)

// Options configures the AgentChain instance.
type Options struct {
	// HistoryStore persists conversation turns for agents created through
	// the façade (defaults to an in-memory implementation if not provided).
	HistoryStore core.HistoryStore

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AgentChain is the high-level façade aggregating the shared history store
// and logger handed to agents created through it.
type AgentChain struct {
	opts Options
}

// New creates a new AgentChain instance with optional overrides. Any unset
// service is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *AgentChain {
	opts := Options{
		HistoryStore: history.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.HistoryStore == nil {
		opts.HistoryStore = history.NewInMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &AgentChain{opts: opts}
}

// HistoryStore returns the shared history store.
func (c *AgentChain) HistoryStore() core.HistoryStore { return c.opts.HistoryStore }

// Logger returns the shared logger.
func (c *AgentChain) Logger() logging.Logger { return c.opts.Logger }

// NewModelAgent constructs a model-backed agent wired to the façade's logger.
// When a session id is set through the options, history persistence uses the
// façade's shared store unless the options supply their own.
func (c *AgentChain) NewModelAgent(name string, llm model.Model, optFns ...func(o *agent.BaseAgentOptions)) (*agent.ModelAgent, error) {
	return agent.NewModelAgent(name, llm, func(o *agent.BaseAgentOptions) {
		o.Logger = c.opts.Logger
		for _, fn := range optFns {
			fn(o)
		}
		if o.SaveHistory && o.History == nil {
			o.History = c.opts.HistoryStore
		}
	})
}

// NewSequentialChain constructs a chain over the given agents wired to the
// façade's logger.
func (c *AgentChain) NewSequentialChain(name string, agents ...core.Agent) (*agent.SequentialChain, error) {
	return agent.NewSequentialChain(name, agents, func(o *agent.SequentialChainOptions) {
		o.Logger = c.opts.Logger
	})
}

// NewParallelGroup constructs a parallel group wired to the façade's logger.
func (c *AgentChain) NewParallelGroup(name string, aggregator core.Agent, workers ...core.Agent) (*agent.ParallelGroup, error) {
	return agent.NewParallelGroup(name, aggregator, workers, func(o *agent.ParallelGroupOptions) {
		o.Logger = c.opts.Logger
	})
}

// Collect is a synchronous helper that drains a streaming chunk/error channel
// pair, concatenates the chunks and returns the first error observed. Chunks
// delivered before an error are included in the returned text.
func Collect(ctx context.Context, chunks <-chan string, errs <-chan error) (string, error) {
	var (
		out      []byte
		firstErr error
	)
	for chunks != nil || errs != nil {
		select {
		case <-ctx.Done():
			return string(out), ctx.Err()

		case chunk, ok := <-chunks:
			if !ok {
				chunks = nil
				continue
			}
			out = append(out, chunk...)

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
	return string(out), firstErr
}
