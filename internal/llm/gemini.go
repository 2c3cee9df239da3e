// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiBackend calls the Gemini API through the genai SDK.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend creates a Gemini client for model.
func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiBackend{client: client, model: model}, nil
}

// Generate sends prompt as a single user turn and returns the reply text.
func (g *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	return result.Text(), nil
}
