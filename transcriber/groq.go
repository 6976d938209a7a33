package transcriber

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"vtype/audio"
	"vtype/log"

	"github.com/sashabaranov/go-openai"
)

const (
	groqBaseURL    = "https://api.groq.com/openai/v1"
	defaultGroqASR = "whisper-large-v3"
)

// Groq sends audio to Groq's OpenAI-compatible Whisper endpoints.
// Translation mode uses the native translations endpoint, so the model
// does the English translation itself.
type Groq struct {
	client *openai.Client
	model  string
	format Format
}

func NewGroq(apiKey, model string, format Format) *Groq {
	if model == "" {
		model = defaultGroqASR
	}
	cc := openai.DefaultConfig(apiKey)
	cc.BaseURL = groqBaseURL
	return &Groq{
		client: openai.NewClientWithConfig(cc),
		model:  model,
		format: format,
	}
}

func (g *Groq) Name() string { return "groq" }

func (g *Groq) Process(ctx context.Context, buf audio.Buffer, mode Mode) (string, error) {
	payload, filename, err := Encode(buf, g.format)
	if err != nil {
		return "", err
	}

	req := openai.AudioRequest{
		Model:    g.model,
		Reader:   bytes.NewReader(payload),
		FilePath: filename,
	}

	start := time.Now()
	var resp openai.AudioResponse
	if mode == ModeTranslate {
		resp, err = g.client.CreateTranslation(ctx, req)
	} else {
		resp, err = g.client.CreateTranscription(ctx, req)
	}
	if err != nil {
		return "", mapOpenAIError("groq", ctx, err)
	}
	log.Transcription(g.Name(), string(mode), buf.Duration().Seconds(), time.Since(start))

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrEmptyResult
	}
	return text, nil
}

func mapOpenAIError(provider string, ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &RemoteError{Provider: provider, Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	return err
}
