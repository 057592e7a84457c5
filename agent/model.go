package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/agentchain/core"
	"github.com/hupe1980/agentchain/logging"
	"github.com/hupe1980/agentchain/model"
	"github.com/hupe1980/agentchain/tool"
)

// ModelAgent is the provider-backed agent implementation. It assembles a
// model request from its instruction, the session history and the input,
// drives model.Model.Generate and executes at most one requested tool call
// per turn. Turns are persisted best-effort when history is enabled.
//
// ModelAgent embeds BaseAgent to inherit identity, configuration and history
// helpers.
type ModelAgent struct {
	BaseAgent
	llm model.Model
}

// NewModelAgent creates a new model-backed agent. The BaseAgent invariants
// apply: enabling SaveHistory without a store and session id fails with a
// configuration error naming the agent.
func NewModelAgent(name string, llm model.Model, optFns ...func(o *BaseAgentOptions)) (*ModelAgent, error) {
	base, err := NewBaseAgent(name, optFns...)
	if err != nil {
		return nil, err
	}
	return &ModelAgent{BaseAgent: base, llm: llm}, nil
}

// LLM returns the underlying language model.
func (a *ModelAgent) LLM() model.Model { return a.llm }

// Process implements core.Agent. It resolves a full response for the input,
// executing a requested tool call before returning. Provider and tool
// failures are logged and propagated; history failures degrade silently.
func (a *ModelAgent) Process(ctx context.Context, input string) (string, error) {
	a.Logger().Debug("agent.process.start", "agent", a.Name())

	userMsg := core.NewUserMessage(input)
	req := model.Request{
		Instructions: a.Instruction(),
		Messages:     append(a.FetchChatHistory(ctx), userMsg),
		Tools:        a.toolDefinitions(),
	}

	start := time.Now()
	final, err := a.generate(ctx, req)
	if err != nil {
		logging.LogModelCall(a.Logger(), a.llm.Info().Name, 0, time.Since(start), false, err)
		return "", fmt.Errorf("agent %s: %w", a.Name(), err)
	}
	logging.LogModelCall(a.Logger(), a.llm.Info().Name, usageTokens(final), time.Since(start), true, nil)

	text := final.Text

	var record *core.ToolCallRecord
	if final.ToolCall != nil {
		result, err := a.executeToolCall(ctx, final.ToolCall)
		if err != nil {
			return "", fmt.Errorf("agent %s: %w", a.Name(), err)
		}
		if text != "" {
			text += "\n"
		}
		text += result
		record = &core.ToolCallRecord{
			Name:      final.ToolCall.Name,
			Arguments: final.ToolCall.Arguments,
			Result:    result,
		}
	}

	assistantMsg := core.NewAssistantMessage(text)
	assistantMsg.ToolCall = record
	a.SaveChatHistory(ctx, userMsg, assistantMsg)

	a.Logger().Debug("agent.process.complete", "agent", a.Name())

	return text, nil
}

// ProcessStream implements core.Agent. Text increments are forwarded as they
// arrive; a tool call deferred to stream end is executed and delivered as a
// trailing chunk. Errors terminate the sequence abnormally after any chunks
// already delivered.
func (a *ModelAgent) ProcessStream(ctx context.Context, input string) (<-chan string, <-chan error) {
	chunks := make(chan string, 32)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer close(errs)

		a.Logger().Debug("agent.stream.start", "agent", a.Name())

		userMsg := core.NewUserMessage(input)
		req := model.Request{
			Instructions: a.Instruction(),
			Messages:     append(a.FetchChatHistory(ctx), userMsg),
			Tools:        a.toolDefinitions(),
			Stream:       a.StreamingEnabled(),
		}

		start := time.Now()
		respCh, errCh := a.llm.Generate(ctx, req)

		var (
			final    *model.Response
			streamed bool
		)
		for respCh != nil || errCh != nil {
			select {
			case resp, ok := <-respCh:
				if !ok {
					respCh = nil
					continue
				}
				if resp.Partial {
					if resp.Text == "" {
						continue
					}
					streamed = true
					select {
					case chunks <- resp.Text:
					case <-ctx.Done():
						errs <- ctx.Err()
						return
					}
					continue
				}
				r := resp
				final = &r
			case err, ok := <-errCh:
				if !ok {
					errCh = nil
					continue
				}
				if err != nil {
					logging.LogModelCall(a.Logger(), a.llm.Info().Name, 0, time.Since(start), false, err)
					errs <- fmt.Errorf("agent %s: model call failed: %w", a.Name(), err)
					return
				}
			}
		}

		if final == nil {
			errs <- fmt.Errorf("agent %s: model returned no response", a.Name())
			return
		}
		logging.LogModelCall(a.Logger(), a.llm.Info().Name, usageTokens(final), time.Since(start), true, nil)

		text := final.Text
		if !streamed && text != "" {
			// The provider resolved without streaming; deliver the full text
			// as a single chunk.
			select {
			case chunks <- text:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}

		var record *core.ToolCallRecord
		if final.ToolCall != nil {
			result, err := a.executeToolCall(ctx, final.ToolCall)
			if err != nil {
				errs <- fmt.Errorf("agent %s: %w", a.Name(), err)
				return
			}
			chunk := result
			if text != "" {
				chunk = "\n" + result
				text += "\n"
			}
			text += result
			record = &core.ToolCallRecord{
				Name:      final.ToolCall.Name,
				Arguments: final.ToolCall.Arguments,
				Result:    result,
			}
			select {
			case chunks <- chunk:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}

		assistantMsg := core.NewAssistantMessage(text)
		assistantMsg.ToolCall = record
		a.SaveChatHistory(ctx, userMsg, assistantMsg)

		a.Logger().Debug("agent.stream.complete", "agent", a.Name())
	}()

	return chunks, errs
}

// generate drives a single model call and returns the final (non-partial)
// response, draining any partials.
func (a *ModelAgent) generate(ctx context.Context, req model.Request) (*model.Response, error) {
	respCh, errCh := a.llm.Generate(ctx, req)

	var final *model.Response
	for respCh != nil || errCh != nil {
		select {
		case resp, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			if !resp.Partial {
				r := resp
				final = &r
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("model call failed: %w", err)
			}
		}
	}

	if final == nil {
		return nil, fmt.Errorf("model returned no response")
	}
	return final, nil
}

// executeToolCall resolves and runs the requested tool. An unregistered name
// and a failing execution surface as distinct tool error codes.
func (a *ModelAgent) executeToolCall(ctx context.Context, call *model.ToolCall) (string, error) {
	t, ok := a.ToolByName(call.Name)
	if !ok {
		err := tool.NewToolError(call.Name, "tool not found", tool.CodeNotFound)
		a.Logger().Error("agent.tool.not_found", "agent", a.Name(), "tool", call.Name)
		return "", err
	}

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", tool.NewToolError(call.Name, fmt.Sprintf("failed to unmarshal arguments: %v", err), tool.CodeValidation)
		}
	}

	start := time.Now()
	result, err := t.Call(ctx, args)
	logging.LogToolCall(a.Logger(), call.Name, time.Since(start), err == nil, err)
	if err != nil {
		return "", err
	}

	return stringifyToolResult(call.Name, result)
}

// usageTokens extracts the total token count from a final response, if the
// provider reported one.
func usageTokens(r *model.Response) int {
	if r.Usage == nil {
		return 0
	}
	return r.Usage.TotalTokens
}

// stringifyToolResult converts a tool's return value to text: strings pass
// through, everything else is JSON encoded.
func stringifyToolResult(name string, result any) (string, error) {
	switch v := result.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", tool.NewToolError(name, fmt.Sprintf("failed to serialize result: %v", err), tool.CodeExecution)
		}
		return string(raw), nil
	}
}

// toolDefinitions exposes the agent's tool list to the model.
func (a *ModelAgent) toolDefinitions() []model.ToolDefinition {
	tools := a.Tools()
	if len(tools) == 0 {
		return nil
	}
	defs := make([]model.ToolDefinition, len(tools))
	for i, t := range tools {
		defs[i] = model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		}
	}
	return defs
}
