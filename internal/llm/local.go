package llm

import (
	"strings"

	"github.com/yaswanthpuritipati/inboXpert/internal/config"
)

const localModelHint = "download a quantized GGUF model, set llm.local.model_path, and build with CGO_ENABLED=1 so the llama.cpp backend is compiled in"

// localProvider runs a quantized model in-process via the llama.cpp
// bindings. The conversation is rendered into a model-specific instruction
// template, and generation uses explicit stop sequences to prevent run-on
// output.
type localProvider struct {
	modelPath string
	modelType string
	threads   int
	contextSz int
}

func newLocalProvider(cfg config.LocalConfig) (*localProvider, error) {
	if cfg.ModelPath == "" {
		return nil, &ConfigError{Reason: "llm.local.model_path not set"}
	}
	return &localProvider{
		modelPath: cfg.ModelPath,
		modelType: strings.ToLower(cfg.ModelType),
		threads:   cfg.Threads,
		contextSz: cfg.Context,
	}, nil
}

func (p *localProvider) Name() string { return "local" }
