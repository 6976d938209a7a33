// Package config reads settings from the environment, with .env file
// support for running outside a managed session.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultTimeout = 20 * time.Second
	MinTimeout     = 10 * time.Second
)

type Config struct {
	Platform            string // groq | siliconflow | hybrid
	GroqAPIKey          string
	SiliconFlowAPIKey   string
	GroqASRModel        string
	SiliconFlowASRModel string
	ServiceTimeout      time.Duration
	UploadFormat        string // wav | flac
	EnableFallback      bool

	ConvertToSimplified   bool
	AddSymbol             bool
	OptimizeResult        bool
	KeepOriginalClipboard bool

	SystemPlatform   string // win | mac | linux, auto-detected
	TranscribeButton string
	TranslateButton  string
}

// Load reads the environment, after merging in a .env file when one is
// present in the working directory.
func Load() (Config, error) {
	godotenv.Load()

	cfg := Config{
		Platform:            envStr("SERVICE_PLATFORM", "groq"),
		GroqAPIKey:          os.Getenv("GROQ_API_KEY"),
		SiliconFlowAPIKey:   os.Getenv("SILICONFLOW_API_KEY"),
		GroqASRModel:        os.Getenv("GROQ_ASR_MODEL"),
		SiliconFlowASRModel: os.Getenv("SILICONFLOW_ASR_MODEL"),
		ServiceTimeout:      envSeconds("SERVICE_TIMEOUT", DefaultTimeout),
		UploadFormat:        envStr("UPLOAD_FORMAT", "wav"),
		EnableFallback:      envBool("ENABLE_FALLBACK", true),

		ConvertToSimplified:   envBool("CONVERT_TO_SIMPLIFIED", false),
		AddSymbol:             envBool("ADD_SYMBOL", false),
		OptimizeResult:        envBool("OPTIMIZE_RESULT", false),
		KeepOriginalClipboard: envBool("KEEP_ORIGINAL_CLIPBOARD", true),

		SystemPlatform:   envStr("SYSTEM_PLATFORM", detectPlatform()),
		TranscribeButton: envStr("TRANSCRIPTIONS_BUTTON", "f8"),
		TranslateButton:  envStr("TRANSLATIONS_BUTTON", "f7"),
	}

	if cfg.ServiceTimeout < MinTimeout {
		cfg.ServiceTimeout = MinTimeout
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Platform {
	case "groq":
		if c.GroqAPIKey == "" {
			return fmt.Errorf("SERVICE_PLATFORM=groq requires GROQ_API_KEY")
		}
	case "siliconflow":
		if c.SiliconFlowAPIKey == "" {
			return fmt.Errorf("SERVICE_PLATFORM=siliconflow requires SILICONFLOW_API_KEY")
		}
	case "hybrid":
		if c.GroqAPIKey == "" && c.SiliconFlowAPIKey == "" {
			return fmt.Errorf("SERVICE_PLATFORM=hybrid requires GROQ_API_KEY or SILICONFLOW_API_KEY")
		}
	default:
		return fmt.Errorf("unknown SERVICE_PLATFORM %q (want groq, siliconflow or hybrid)", c.Platform)
	}

	switch c.UploadFormat {
	case "wav", "flac":
	default:
		return fmt.Errorf("unknown UPLOAD_FORMAT %q (want wav or flac)", c.UploadFormat)
	}

	return nil
}

func detectPlatform() string {
	switch runtime.GOOS {
	case "darwin":
		return "mac"
	case "windows":
		return "win"
	default:
		return runtime.GOOS
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envSeconds(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return time.Duration(secs * float64(time.Second))
}
