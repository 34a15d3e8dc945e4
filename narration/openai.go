package narration

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"

	"slidecast/config"
	"slidecast/errors"
)

// OpenAIGenerator calls OpenAI's Responses API to produce narrations.
type OpenAIGenerator struct {
	client openai.Client
	cfg    config.NarrationConfig
}

func NewOpenAIGenerator(cfg config.NarrationConfig) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		cfg:    cfg,
	}
}

// Generate produces narration for one slide. Each call carries its own
// timeout so a slow upstream response cannot hang the request forever.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	const op = "OpenAIGenerator.Generate"

	if g.cfg.APIKey == "" {
		return "", errors.Internal(op, nil, "Narration API key is not configured")
	}
	if strings.TrimSpace(req.SlideText) == "" {
		return "", errors.Internal(op, nil, "Slide text is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.GenerateTimeout)
	defer cancel()

	system, user := BuildPrompt(req)

	resp, err := g.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           g.cfg.Model,
		Temperature:     openai.Float(g.cfg.Temperature),
		MaxOutputTokens: openai.Int(g.cfg.MaxOutputTokens),
		Instructions:    openai.String(system),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	narration := strings.TrimSpace(resp.OutputText())
	if narration == "" {
		return "", fmt.Errorf("output text is missing (status = %s)", resp.Status)
	}

	return narration, nil
}
