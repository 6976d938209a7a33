package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"vtype/audio"
	"vtype/log"

	"github.com/sashabaranov/go-openai"
)

const (
	siliconFlowBaseURL    = "https://api.siliconflow.cn/v1"
	defaultSiliconFlowASR = "FunAudioLLM/SenseVoiceSmall"
	translateModel        = "Qwen/Qwen2.5-7B-Instruct"
)

const translateSystemPrompt = "You are a translator. Translate the user's text " +
	"into English. Output only the translation, nothing else."

// SiliconFlow uploads WAV audio to the SenseVoice transcription endpoint.
// The endpoint has no translations mode, so translation is a second
// chat-completion call over the transcript.
type SiliconFlow struct {
	apiKey  string
	model   string
	baseURL string
	httpc   *http.Client
	chat    *openai.Client
}

func NewSiliconFlow(apiKey, model string) *SiliconFlow {
	return newSiliconFlow(apiKey, model, siliconFlowBaseURL)
}

func newSiliconFlow(apiKey, model, baseURL string) *SiliconFlow {
	if model == "" {
		model = defaultSiliconFlowASR
	}
	cc := openai.DefaultConfig(apiKey)
	cc.BaseURL = baseURL
	return &SiliconFlow{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		httpc:   &http.Client{},
		chat:    openai.NewClientWithConfig(cc),
	}
}

func (s *SiliconFlow) Name() string { return "siliconflow" }

func (s *SiliconFlow) Process(ctx context.Context, buf audio.Buffer, mode Mode) (string, error) {
	start := time.Now()
	text, err := s.transcribe(ctx, buf)
	if err != nil {
		return "", err
	}
	log.Transcription(s.Name(), string(mode), buf.Duration().Seconds(), time.Since(start))

	if mode == ModeTranslate {
		return s.translate(ctx, text)
	}
	return text, nil
}

func (s *SiliconFlow) transcribe(ctx context.Context, buf audio.Buffer) (string, error) {
	payload, filename, err := Encode(buf, FormatWAV)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(payload); err != nil {
		return "", err
	}
	writer.WriteField("model", s.model)
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("siliconflow request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("siliconflow response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &RemoteError{Provider: s.Name(), Status: resp.StatusCode, Body: string(respBody)}
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("siliconflow response parse: %w", err)
	}

	text := strings.TrimSpace(parsed.Text)
	if text == "" {
		return "", ErrEmptyResult
	}
	return text, nil
}

func (s *SiliconFlow) translate(ctx context.Context, text string) (string, error) {
	resp, err := s.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: translateModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: translateSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", mapOpenAIError(s.Name(), ctx, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResult
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyResult
	}
	return out, nil
}
