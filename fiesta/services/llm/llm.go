package llm

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options carries the generation controls the assistant modes tune.
type Options struct {
	Search   bool `json:"search,omitempty"`
	MaxSteps int  `json:"max_steps,omitempty"`
}

type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Options  *Options  `json:"options,omitempty"`
}

// Client is the text-generation collaborator. Implementations are
// non-deterministic, rate-limited and fallible; callers degrade gracefully.
type Client interface {
	Run(ctx context.Context, req ChatRequest) (string, error)
	RunStream(ctx context.Context, req ChatRequest) (<-chan string, error)
}
