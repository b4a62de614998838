package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/sudslabs/suds/internal/config"
	"github.com/sudslabs/suds/internal/metrics"
)

// LangChain narrates through a langchaingo chat model.
type LangChain struct {
	llm       llms.Model
	modelName string
	metrics   *metrics.Collector
	logger    *slog.Logger
}

// NewLangChain creates a narrative generator for the configured
// provider.
func NewLangChain(cfg config.Config, collector *metrics.Collector, logger *slog.Logger) (*LangChain, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var model llms.Model
	var err error

	modelName := cfg.NarrativeModel
	switch cfg.NarrativeProvider {
	case config.ProviderOllama:
		if modelName == "" {
			modelName = "llama3.2"
		}
		model, err = ollama.New(
			ollama.WithModel(modelName),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		if modelName == "" {
			modelName = "gpt-4o-mini"
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(modelName),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		if modelName == "" {
			modelName = "claude-3-5-haiku-latest"
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(modelName),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported narrative provider: %s", cfg.NarrativeProvider)
	}

	return &LangChain{
		llm:       model,
		modelName: modelName,
		metrics:   collector,
		logger:    logger,
	}, nil
}

// Rephrase rewrites one step. Temperature stays low so the model
// rewords rather than invents.
func (g *LangChain) Rephrase(ctx context.Context, in StepInput) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt(in)),
	}

	start := time.Now()
	response, err := g.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(0.1),
		llms.WithMaxTokens(256),
	)
	if g.metrics != nil {
		g.metrics.RecordTiming(metrics.OpNarrate, time.Since(start))
	}
	if err != nil {
		return "", fmt.Errorf("narrative generation: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("narrative generation: no response choices")
	}

	return cleanResponse(response.Choices[0].Content), nil
}

// Model returns the underlying model name.
func (g *LangChain) Model() string {
	return g.modelName
}
