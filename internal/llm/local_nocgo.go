//go:build !cgo

package llm

import (
	"context"
	"errors"

	"github.com/yaswanthpuritipati/inboXpert/internal/core"
)

// Without cgo the llama.cpp bindings are not compiled in; the provider
// still constructs (so configuration validation behaves identically) but
// every generation attempt fails with the remediation hint.
func (p *localProvider) Chat(ctx context.Context, conv core.Conversation, opts Options) (Response, error) {
	return Response{}, &LocalModelError{
		Op:   "load",
		Hint: localModelHint,
		Err:  errors.New("llama.cpp backend not compiled in (cgo disabled)"),
	}
}
