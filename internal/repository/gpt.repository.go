package repository

import (
	"context"
	"fmt"

	"newsalpha/internal/domain"

	"github.com/ayush6624/go-chatgpt"
)

// GptRepository is the opaque judgment function: given a prompt, return
// raw text that should contain a JSON judgment somewhere inside it.
// Everything about parsing and failure policy lives with the caller.
type GptRepository interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type gptRepositoryHandler struct {
	GptClient *chatgpt.Client
}

func NewGptRepository(apiKey string) (GptRepository, error) {
	client, err := chatgpt.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to construct gpt client: %w", err)
	}

	return gptRepositoryHandler{
		GptClient: client,
	}, nil
}

func (h gptRepositoryHandler) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := h.GptClient.Send(ctx, &chatgpt.ChatCompletionRequest{
		Model: chatgpt.GPT35Turbo,
		Messages: []chatgpt.ChatMessage{
			{
				Role:    chatgpt.ChatGPTModelRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("%w: judgment generation failed: %s", domain.ErrTransientProvider, err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("%w: judgment generation returned no choices", domain.ErrTransientProvider)
	}

	return res.Choices[0].Message.Content, nil
}
