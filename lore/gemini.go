//go:build !js
// +build !js

package lore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// GeminiGenerator asks a Gemini model for schema-constrained JSON.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator for apiKey. Returns ErrNoCredential
// for an empty key.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil {
				b.WriteString(part.Text)
			}
		}
		break
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

func responseSchema() *genai.Schema {
	enum := make([]string, len(Statuses))
	for i, s := range Statuses {
		enum[i] = string(s)
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"description": {Type: genai.TypeString},
			"secret":      {Type: genai.TypeString},
			"status":      {Type: genai.TypeString, Enum: enum},
		},
		Required: []string{"description", "secret", "status"},
	}
}

// APIKey reads the credential from API_KEY, then GEMINI_API_KEY.
func APIKey() string {
	if key := os.Getenv("API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GEMINI_API_KEY")
}

// NewServiceFromEnv builds a Service with a Gemini generator when a key is
// set, and a credential-less Service otherwise.
func NewServiceFromEnv(ctx context.Context, model string, opts ...ServiceOption) *Service {
	svc := NewService(nil, opts...)

	gen, err := NewGeminiGenerator(ctx, APIKey(), model)
	if err != nil {
		if errors.Is(err, ErrNoCredential) {
			svc.log.Warn("no API_KEY set, lore will use cached data")
		} else {
			svc.log.Error("gemini unavailable, lore will use cached data", "error", err)
			svc.gen = GeneratorFunc(func(context.Context, string) (string, error) { return "", err })
		}
		return svc
	}

	svc.gen = gen
	svc.log.Info("lore generator ready", slog.String("model", gen.model))
	return svc
}
