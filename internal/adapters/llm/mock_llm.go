package llm

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/PabloGalante/tripmate/internal/domain"
)

// MockLLM streams a canned reply word by word. Useful for local dev.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Name() string {
	return "mock"
}

func (m *MockLLM) Complete(ctx context.Context, req domain.CompletionRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		last, _ := req.Messages.Last()
		reply := fmt.Sprintf("Here is an idea for %q: Jeju Island is a great pick. Tell me more about what you enjoy and I will refine the plan.", last.Content)

		words := strings.SplitAfter(reply, " ")
		for _, w := range words {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(w, nil) {
				return
			}
		}
	}
}
