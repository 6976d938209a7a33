package transcriber

import (
	"context"
	"errors"
	"fmt"

	"vtype/audio"
)

// Mode selects the remote operation. Translation targets English.
type Mode string

const (
	ModeTranscribe Mode = "transcriptions"
	ModeTranslate  Mode = "translations"
)

var (
	ErrTimeout     = errors.New("transcriber: request timed out")
	ErrEmptyResult = errors.New("transcriber: service returned no text")
)

// RemoteError is a non-2xx reply from a backend.
type RemoteError struct {
	Provider string
	Status   int
	Body     string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Provider, e.Status, e.Body)
}

// Processor turns a finished recording into text. Implementations must
// honor ctx cancellation and map failures to ErrTimeout, *RemoteError
// or ErrEmptyResult so the caller can tell them apart.
type Processor interface {
	Name() string
	Process(ctx context.Context, buf audio.Buffer, mode Mode) (string, error)
}

type Config struct {
	Platform          string // groq | siliconflow | hybrid
	GroqAPIKey        string
	SiliconFlowAPIKey string
	GroqModel         string
	SiliconFlowModel  string
	Format            Format
	EnableFallback    bool
}

func New(cfg Config) (Processor, error) {
	switch cfg.Platform {
	case "groq":
		if cfg.GroqAPIKey == "" {
			return nil, errors.New("GROQ_API_KEY not set")
		}
		return NewGroq(cfg.GroqAPIKey, cfg.GroqModel, cfg.Format), nil
	case "siliconflow":
		if cfg.SiliconFlowAPIKey == "" {
			return nil, errors.New("SILICONFLOW_API_KEY not set")
		}
		return NewSiliconFlow(cfg.SiliconFlowAPIKey, cfg.SiliconFlowModel), nil
	case "hybrid":
		var primary, secondary Processor
		if cfg.SiliconFlowAPIKey != "" {
			primary = NewSiliconFlow(cfg.SiliconFlowAPIKey, cfg.SiliconFlowModel)
		}
		if cfg.GroqAPIKey != "" {
			secondary = NewGroq(cfg.GroqAPIKey, cfg.GroqModel, cfg.Format)
		}
		if primary == nil && secondary == nil {
			return nil, errors.New("hybrid platform needs SILICONFLOW_API_KEY or GROQ_API_KEY")
		}
		return NewHybrid(primary, secondary, cfg.EnableFallback), nil
	default:
		return nil, fmt.Errorf("unknown service platform %q", cfg.Platform)
	}
}
