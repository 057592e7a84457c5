package agent

import (
	"context"

	"github.com/hupe1980/agentchain/core"
	"github.com/hupe1980/agentchain/logging"
	"github.com/hupe1980/agentchain/tool"
)

// BaseAgentOptions configures a BaseAgent instance. Use functional options
// with the concrete agent constructors to override defaults.
type BaseAgentOptions struct {
	// Instruction is the base system prompt supplied to the model.
	Instruction string
	// Tools the agent may invoke (at most one call per turn).
	Tools []tool.Tool
	// EnableStreaming controls whether the agent asks providers to stream.
	EnableStreaming bool
	// SaveHistory persists each turn to the history store. Requires History
	// and SessionID to be set.
	SaveHistory bool
	// History is the optional store for prior conversation turns.
	History core.HistoryStore
	// SessionID partitions the history store per conversation.
	SessionID string
	// Logger defaults to logging.NoOpLogger.
	Logger logging.Logger
}

// BaseAgent bundles identity, immutable configuration and best-effort history
// access shared by concrete agent implementations. Embed it and supply
// Process/ProcessStream to satisfy core.Agent.
//
// All configuration is fixed at construction; a BaseAgent is safe for
// concurrent use.
type BaseAgent struct {
	name            string
	instruction     string
	tools           []tool.Tool
	enableStreaming bool
	saveHistory     bool
	history         core.HistoryStore
	sessionID       string
	logger          logging.Logger
}

// NewBaseAgent constructs a BaseAgent, validating the history invariant:
// enabling SaveHistory without a store and session id is a configuration
// fault naming the agent and the missing dependency.
func NewBaseAgent(name string, optFns ...func(o *BaseAgentOptions)) (BaseAgent, error) {
	opts := BaseAgentOptions{
		EnableStreaming: true,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.SaveHistory {
		if opts.History == nil {
			return BaseAgent{}, core.NewConfigError("agent", name, "save-history enabled but no history store provided")
		}
		if opts.SessionID == "" {
			return BaseAgent{}, core.NewConfigError("agent", name, "save-history enabled but no session id provided")
		}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	tools := make([]tool.Tool, len(opts.Tools))
	copy(tools, opts.Tools)

	return BaseAgent{
		name:            name,
		instruction:     opts.Instruction,
		tools:           tools,
		enableStreaming: opts.EnableStreaming,
		saveHistory:     opts.SaveHistory,
		history:         opts.History,
		sessionID:       opts.SessionID,
		logger:          opts.Logger,
	}, nil
}

// Name returns the human-readable name for this agent.
func (b *BaseAgent) Name() string { return b.name }

// Instruction returns the base system prompt.
func (b *BaseAgent) Instruction() string { return b.instruction }

// StreamingEnabled reports whether the agent asks providers to stream.
func (b *BaseAgent) StreamingEnabled() bool { return b.enableStreaming }

// HistoryEnabled reports whether turns are persisted to the history store.
func (b *BaseAgent) HistoryEnabled() bool { return b.saveHistory && b.history != nil }

// SessionID returns the session identifier used for history partitioning.
func (b *BaseAgent) SessionID() string { return b.sessionID }

// Logger returns the agent's logger.
func (b *BaseAgent) Logger() logging.Logger { return b.logger }

// Tools returns a copy of the agent's tool list for safe iteration.
func (b *BaseAgent) Tools() []tool.Tool {
	tools := make([]tool.Tool, len(b.tools))
	copy(tools, b.tools)
	return tools
}

// ToolByName performs a linear lookup by exact name match over the agent's
// tool list. The second return value reports whether the tool was found.
func (b *BaseAgent) ToolByName(name string) (tool.Tool, bool) {
	for _, t := range b.tools {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// SaveChatHistory appends the given messages to the agent's session. History
// is best-effort: when disabled this is a no-op, and store faults are logged
// and swallowed rather than failing the turn.
func (b *BaseAgent) SaveChatHistory(ctx context.Context, msgs ...core.Message) {
	if !b.HistoryEnabled() {
		return
	}
	for _, msg := range msgs {
		if err := b.history.SaveMessage(ctx, b.sessionID, msg); err != nil {
			b.logger.Error("agent.history.save_failed", "agent", b.name, "session", b.sessionID, "error", err)
			return
		}
	}
}

// FetchChatHistory returns the session's prior turns. When history is
// disabled it returns nil; store faults are logged and degrade to an empty
// history rather than failing the turn.
func (b *BaseAgent) FetchChatHistory(ctx context.Context) []core.Message {
	if !b.HistoryEnabled() {
		return nil
	}
	msgs, err := b.history.Messages(ctx, b.sessionID)
	if err != nil {
		b.logger.Error("agent.history.fetch_failed", "agent", b.name, "session", b.sessionID, "error", err)
		return []core.Message{}
	}
	return msgs
}
