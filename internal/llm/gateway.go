package llm

import (
	"context"
	"fmt"

	"studybuddy/internal/contextutil"
)

// CompletionClient is the single capability the gateway needs from a
// provider client. Defined here consumer-first so strategies other than
// ordered fallback can wrap the same client later.
type CompletionClient interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// Gateway submits a composed prompt to an ordered list of model
// identifiers, trying each in turn until one returns success. The order is
// static for the process lifetime; no model is skipped based on prior
// failures.
type Gateway struct {
	client CompletionClient
	models []string
}

// NewGateway creates a gateway over client with the given model order.
func NewGateway(client CompletionClient, models []string) (*Gateway, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("model list must not be empty")
	}
	return &Gateway{client: client, models: models}, nil
}

// Generate returns the first successful completion's text and the model
// that produced it. When every model fails, the returned error aggregates
// the last observed failure detail.
func (g *Gateway) Generate(ctx context.Context, prompt string) (text, modelUsed string, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	var lastErr error
	var lastModel string
	for _, model := range g.models {
		text, err := g.client.Complete(ctx, model, prompt)
		if err != nil {
			logger.WarnContext(ctx, "model failed, trying next", "model", model, "error", err)
			lastErr = err
			lastModel = model
			continue
		}
		logger.InfoContext(ctx, "completion generated", "model", model, "answer_length", len(text))
		return text, model, nil
	}

	return "", "", fmt.Errorf("all %d models failed, last failure from %s: %w", len(g.models), lastModel, lastErr)
}

// Models returns the configured model order.
func (g *Gateway) Models() []string {
	return g.models
}
