package ai

import "context"

// Provider selects a language-model backend. The set is closed: every
// variant carries its own connection parameters and is constructed once at
// the call site, never through process-global client state.
type Provider string

const (
	ProviderGemini     Provider = "gemini"
	ProviderOpenAI     Provider = "openai"
	ProviderOpenRouter Provider = "openrouter"
)

// Request is one structured prompt: a system turn plus a user turn.
type Request struct {
	System string
	User   string
}

// BatchResult pairs the raw model output for one request with its error.
// Results are positional: result i always belongs to request i.
type BatchResult struct {
	Text string
	Err  error
}

// Client is the language-model collaborator consumed by the agent stages.
type Client interface {
	// Complete sends one request and returns the raw textual response.
	Complete(ctx context.Context, req Request) (string, error)

	// CompleteBatch dispatches every request concurrently and waits for
	// the whole batch, returning one result per request in input order.
	// Individual request failures are reported per item, not as a batch
	// error.
	CompleteBatch(ctx context.Context, reqs []Request) ([]BatchResult, error)
}
