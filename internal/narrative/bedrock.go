package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/sudslabs/suds/internal/config"
	"github.com/sudslabs/suds/internal/metrics"
)

const defaultBedrockModel = "anthropic.claude-3-haiku-20240307-v1:0"

// Bedrock narrates through the AWS Bedrock Converse API. Region and
// credentials come from the standard AWS environment.
type Bedrock struct {
	client  *bedrockruntime.Client
	modelID string
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewBedrock creates a Bedrock-backed narrative generator.
func NewBedrock(ctx context.Context, cfg config.Config, collector *metrics.Collector, logger *slog.Logger) (*Bedrock, error) {
	if logger == nil {
		logger = slog.Default()
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	modelID := cfg.NarrativeModel
	if modelID == "" {
		modelID = defaultBedrockModel
	}

	return &Bedrock{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: modelID,
		metrics: collector,
		logger:  logger,
	}, nil
}

// Rephrase rewrites one step through Converse.
func (g *Bedrock) Rephrase(ctx context.Context, in StepInput) (string, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(g.modelID),
		System: []brtypes.SystemContentBlock{
			&brtypes.SystemContentBlockMemberText{Value: systemPrompt},
		},
		Messages: []brtypes.Message{
			{
				Role: brtypes.ConversationRoleUser,
				Content: []brtypes.ContentBlock{
					&brtypes.ContentBlockMemberText{Value: userPrompt(in)},
				},
			},
		},
		InferenceConfig: &brtypes.InferenceConfiguration{
			MaxTokens:   aws.Int32(256),
			Temperature: aws.Float32(0.1),
		},
	}

	start := time.Now()
	out, err := g.client.Converse(ctx, input)
	elapsed := time.Since(start)
	if err != nil {
		if g.metrics != nil {
			g.metrics.RecordTiming(metrics.OpNarrate, elapsed)
		}
		return "", fmt.Errorf("bedrock converse: %w", err)
	}

	if g.metrics != nil {
		var inTokens, outTokens int64
		if out.Usage != nil {
			if out.Usage.InputTokens != nil {
				inTokens = int64(*out.Usage.InputTokens)
			}
			if out.Usage.OutputTokens != nil {
				outTokens = int64(*out.Usage.OutputTokens)
			}
		}
		g.metrics.RecordGenerationUsage(metrics.OpNarrate, elapsed, inTokens, outTokens)
	}

	msg, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok || len(msg.Value.Content) == 0 {
		return "", fmt.Errorf("bedrock converse: empty response")
	}
	text, ok := msg.Value.Content[0].(*brtypes.ContentBlockMemberText)
	if !ok {
		return "", fmt.Errorf("bedrock converse: unexpected content block type")
	}

	return cleanResponse(text.Value), nil
}

// Model returns the Bedrock model id.
func (g *Bedrock) Model() string {
	return g.modelID
}
