package domain

import (
	"context"
	"iter"
)

// CompletionRequest is everything a provider needs for one completion.
type CompletionRequest struct {
	Credential  string
	Model       string
	Temperature float64
	Messages    Conversation
}

// CompletionProvider defines how the core application obtains assistant replies.
//
// Complete returns a finite, non-restartable sequence of text fragments whose
// concatenation is the full reply. Failures are yielded as the error half of
// the sequence; iteration stops after the first error.
type CompletionProvider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) iter.Seq2[string, error]
}
