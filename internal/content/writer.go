// Package content generates the journaling prompt and platform captions via
// the Anthropic API.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/atra-labs/atra/internal/mood"
)

// Writer handles Anthropic API requests for prompt and caption generation.
type Writer struct {
	apiKey string
	model  anthropic.Model
}

// NewWriter creates a new content writer.
func NewWriter(apiKey string) *Writer {
	return &Writer{
		apiKey: apiKey,
		model:  anthropic.ModelClaudeSonnet4_5_20250929,
	}
}

// GeneratePrompt creates one journaling prompt themed by the current mood.
func (w *Writer) GeneratePrompt(ctx context.Context, m mood.Mood) (string, error) {
	user := fmt.Sprintf(
		"Today's mode is %q: %s.\nGenerate one journaling prompt in that voice.",
		m, moodVoices[string(m)],
	)

	text, err := w.generate(ctx, PromptSystemPrompt, user, 300)
	if err != nil {
		return "", fmt.Errorf("failed to generate journaling prompt: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// InstagramCaption creates a punchy one-liner from the journaling prompt.
func (w *Writer) InstagramCaption(ctx context.Context, prompt string, m mood.Mood) (string, error) {
	user := fmt.Sprintf("Base journaling prompt:\n%s\n\nMode: %s (%s)", prompt, m, moodVoices[string(m)])

	text, err := w.generate(ctx, InstagramSystemPrompt, user, 120)
	if err != nil {
		return "", fmt.Errorf("failed to generate Instagram caption: %w", err)
	}
	return singleLine(text), nil
}

// FacebookCaption creates a snarky mini-narrative from the journaling prompt.
func (w *Writer) FacebookCaption(ctx context.Context, prompt string, m mood.Mood) (string, error) {
	user := fmt.Sprintf("Base journaling prompt:\n%s\n\nMode: %s (%s)", prompt, m, moodVoices[string(m)])

	text, err := w.generate(ctx, FacebookSystemPrompt, user, 160)
	if err != nil {
		return "", fmt.Errorf("failed to generate Facebook caption: %w", err)
	}
	return singleLine(text), nil
}

func (w *Writer) generate(ctx context.Context, system, user string, maxTokens int64) (string, error) {
	if w.apiKey == "" {
		return "", errors.New("API key required: set ANTHROPIC_API_KEY")
	}

	client := anthropic.NewClient(option.WithAPIKey(w.apiKey))

	params := anthropic.MessageNewParams{
		Model:     w.model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", errors.New("empty response from Anthropic API")
	}

	textBlock, ok := resp.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", errors.New("unexpected response type from Anthropic API")
	}

	return textBlock.Text, nil
}

// singleLine flattens model output into one caption line.
func singleLine(s string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
