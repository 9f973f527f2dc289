// Package llm is the text-generation provider. The pipeline treats it as
// an opaque call: prompt string in, generated text plus model name out.
package llm

import (
	"context"
	"errors"
	"fmt"

	genai "google.golang.org/genai"
)

// ErrEmptyResponse reports that the model returned no usable candidate.
var ErrEmptyResponse = errors.New("llm: empty response from model")

// Generator produces text for a prompt and names the model that did.
type Generator interface {
	Generate(ctx context.Context, prompt string) (text string, model string, err error)
}

// Gemini is a thin wrapper around the official genai client.
type Gemini struct {
	cli   *genai.Client
	model string
}

// NewGemini creates a Gemini generator. The API key comes from the
// environment (GEMINI_API_KEY / GOOGLE_API_KEY), as the genai client
// resolves it.
func NewGemini(ctx context.Context, model string) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{cli: cli, model: model}, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string { return g.model }

// Generate sends the prompt and returns the first candidate's text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", g.model, fmt.Errorf("generation request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", g.model, ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, g.model, nil
}
