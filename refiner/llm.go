package refiner

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const punctuationPrompt = "You add punctuation to speech-to-text output.\n" +
	"Rules:\n" +
	"- Add punctuation and sentence breaks only\n" +
	"- Do not change, add or remove any words\n" +
	"- Keep the same language as the input\n" +
	"- Output ONLY the punctuated text, nothing else\n"

const optimizePrompt = "You clean up speech-to-text transcriptions.\n" +
	"Tasks:\n" +
	"- Remove stutters and repeated words\n" +
	"- Remove filler words\n" +
	"- Fix obvious recognition errors\n" +
	"Rules:\n" +
	"- Preserve the original meaning and intent\n" +
	"- Keep the same language as the input\n" +
	"- Do not add any new information\n" +
	"- Output ONLY the cleaned text, nothing else\n"

// LLM is one chat completion round trip.
type LLM interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type GroqLLM struct {
	client *openai.Client
	model  string
}

func NewGroqLLM(apiKey, model string) *GroqLLM {
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	cc := openai.DefaultConfig(apiKey)
	cc.BaseURL = "https://api.groq.com/openai/v1"
	return &GroqLLM{client: openai.NewClientWithConfig(cc), model: model}
}

func (g *GroqLLM) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq chat completion: no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
