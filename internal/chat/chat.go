// Package chat forwards assistant conversations to a hosted text-generation model.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

// ErrNoMessages is returned when a conversation has nothing to send.
var ErrNoMessages = errors.New("no messages to send")

// Message is one turn of a conversation as the dashboard sends it.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer streams a model reply. emit is called once per text chunk, in order;
// an emit error aborts the stream and is returned.
type Completer interface {
	Stream(ctx context.Context, system string, messages []Message, emit func(chunk string) error) error
}

// GeminiCompleter streams completions from Google's Gemini API.
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGeminiCompleter creates a completer. model defaults to DefaultModel.
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiCompleter{client: client, model: model}, nil
}

// Model returns the model name requests are sent to.
func (g *GeminiCompleter) Model() string {
	return g.model
}

// Stream sends the conversation and forwards each text chunk to emit.
func (g *GeminiCompleter) Stream(ctx context.Context, system string, messages []Message, emit func(string) error) error {
	contents := ToContents(messages)
	if len(contents) == 0 {
		return ErrNoMessages
	}

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, config) {
		if err != nil {
			return fmt.Errorf("GenAI stream failed: %w", err)
		}
		text := resp.Text()
		if text == "" {
			continue
		}
		if err := emit(text); err != nil {
			return err
		}
	}
	return nil
}

// ToContents converts dashboard messages to GenAI contents. Assistant turns become model
// turns; empty messages and other roles (e.g. "system") are dropped.
func ToContents(messages []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		switch strings.ToLower(m.Role) {
		case "user":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		case "assistant", "model":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		}
	}
	return contents
}
