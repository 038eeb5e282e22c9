//go:build cgo

package llm

import (
	"context"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"

	"github.com/yaswanthpuritipati/inboXpert/internal/core"
	"github.com/yaswanthpuritipati/inboXpert/internal/logger"
)

// The in-process model is expensive to load, so it lives in a
// process-wide singleton: the first call pays the load cost, racing first
// callers are serialized by the once guard, and every later call reuses
// the same instance.
var (
	localOnce  sync.Once
	localModel *llama.LLama
	localErr   error
)

func (p *localProvider) load() (*llama.LLama, error) {
	localOnce.Do(func() {
		logger.Info("loading local model", "path", p.modelPath, "type", p.modelType)
		localModel, localErr = llama.New(p.modelPath, llama.SetContext(p.contextSz))
	})
	if localErr != nil {
		return nil, &LocalModelError{Op: "load", Hint: localModelHint, Err: localErr}
	}
	return localModel, nil
}

func (p *localProvider) Chat(ctx context.Context, conv core.Conversation, opts Options) (Response, error) {
	model, err := p.load()
	if err != nil {
		return Response{}, err
	}

	prompt, stops := renderLocalPrompt(p.modelType, conv)

	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	text, err := model.Predict(prompt,
		llama.SetTokens(opts.MaxTokens),
		llama.SetTemperature(float32(opts.Temperature)),
		llama.SetThreads(p.threads),
		llama.SetStopWords(stops...),
	)
	if err != nil {
		return Response{}, &LocalModelError{Op: "generate", Hint: localModelHint, Err: err}
	}

	return Response{Text: strings.TrimSpace(text)}, nil
}
