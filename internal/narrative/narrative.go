// Package narrative rephrases corpus step text into reader-friendly
// instructions via an LLM. Callers must validate the output: the
// generator may fail, time out, or drift from the source step.
package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sudslabs/suds/internal/config"
	"github.com/sudslabs/suds/internal/metrics"
)

// StepInput is one step to rephrase plus the scenario it belongs to.
type StepInput struct {
	Text    string
	Surface string
	Dirt    string
	Method  string
}

// Generator rewrites a single step. Implementations must honor the
// context deadline and return the rewritten text without any framing.
type Generator interface {
	Rephrase(ctx context.Context, in StepInput) (string, error)
}

// New builds a generator from configuration. An empty provider
// disables narration and returns nil without error.
func New(ctx context.Context, cfg config.Config, collector *metrics.Collector, logger *slog.Logger) (Generator, error) {
	switch cfg.NarrativeProvider {
	case "":
		return nil, nil
	case config.ProviderOllama, config.ProviderOpenAI, config.ProviderAnthropic:
		return NewLangChain(cfg, collector, logger)
	case config.ProviderBedrock:
		return NewBedrock(ctx, cfg, collector, logger)
	default:
		return nil, fmt.Errorf("unsupported narrative provider: %s", cfg.NarrativeProvider)
	}
}

const systemPrompt = `You are an editor for cleaning instructions. Rewrite the given step so it reads clearly and encouragingly. Keep every action, tool, substance, quantity and duration exactly as stated; never add or drop an action. Reply with the rewritten step only.`

func userPrompt(in StepInput) string {
	method := strings.ReplaceAll(in.Method, "_", " ")
	surface := strings.ReplaceAll(in.Surface, "_", " ")
	dirt := strings.ReplaceAll(in.Dirt, "_", " ")
	return fmt.Sprintf("Scenario: removing %s from %s by %s.\nStep: %s\nRewritten step:", dirt, surface, method, in.Text)
}

// cleanResponse strips the quoting and labels models like to add.
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Rewritten step:")
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	return strings.TrimSpace(s)
}
