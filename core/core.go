package core

import "context"

// Agent is the unit of work composed by the orchestration strategies. An
// agent transforms an input text into an output text, either as a single
// resolved result (Process) or as an incremental sequence of chunks
// (ProcessStream).
//
// Implementations must:
//   - Be safe for use from the goroutines spawned by parallel composition
//   - Propagate provider/tool errors to the caller after logging them
//   - Treat history persistence as best-effort, never fatal to a turn
type Agent interface {
	// Name returns the human-readable identifier used in errors and logs.
	Name() string

	// Process transforms input into a fully resolved response.
	Process(ctx context.Context, input string) (string, error)

	// ProcessStream delivers the response incrementally. The chunk channel is
	// finite, forward-only and not restartable; it is closed when the
	// underlying stream ends. An abnormal termination is signalled on the
	// error channel after any successfully produced chunks.
	ProcessStream(ctx context.Context, input string) (<-chan string, <-chan error)
}
