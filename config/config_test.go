package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Platform != "groq" {
		t.Errorf("Platform = %q, want groq", cfg.Platform)
	}
	if cfg.ServiceTimeout != DefaultTimeout {
		t.Errorf("ServiceTimeout = %v, want %v", cfg.ServiceTimeout, DefaultTimeout)
	}
	if !cfg.KeepOriginalClipboard {
		t.Error("KeepOriginalClipboard should default to true")
	}
	if !cfg.EnableFallback {
		t.Error("EnableFallback should default to true")
	}
	if cfg.TranscribeButton != "f8" || cfg.TranslateButton != "f7" {
		t.Errorf("buttons = %q/%q, want f8/f7", cfg.TranscribeButton, cfg.TranslateButton)
	}
	if cfg.UploadFormat != "wav" {
		t.Errorf("UploadFormat = %q, want wav", cfg.UploadFormat)
	}
	if cfg.ConvertToSimplified || cfg.AddSymbol || cfg.OptimizeResult {
		t.Error("refinement toggles should default to off")
	}
}

func TestLoadTimeoutClamped(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("SERVICE_TIMEOUT", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServiceTimeout != MinTimeout {
		t.Errorf("ServiceTimeout = %v, want clamped to %v", cfg.ServiceTimeout, MinTimeout)
	}
}

func TestLoadCustomTimeout(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("SERVICE_TIMEOUT", "45")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServiceTimeout != 45*time.Second {
		t.Errorf("ServiceTimeout = %v, want 45s", cfg.ServiceTimeout)
	}
}

func TestLoadMissingKey(t *testing.T) {
	t.Setenv("SERVICE_PLATFORM", "siliconflow")
	t.Setenv("SILICONFLOW_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("siliconflow without key should fail")
	}
}

func TestLoadHybridOneKeySuffices(t *testing.T) {
	t.Setenv("SERVICE_PLATFORM", "hybrid")
	t.Setenv("SILICONFLOW_API_KEY", "sk_test")
	t.Setenv("GROQ_API_KEY", "")

	if _, err := Load(); err != nil {
		t.Errorf("Load: %v", err)
	}
}

func TestLoadUnknownPlatform(t *testing.T) {
	t.Setenv("SERVICE_PLATFORM", "xunfei")
	if _, err := Load(); err == nil {
		t.Error("unknown platform should fail")
	}
}

func TestLoadBadUploadFormat(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("UPLOAD_FORMAT", "mp3")
	if _, err := Load(); err == nil {
		t.Error("unknown upload format should fail")
	}
}

func TestLoadToggles(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("CONVERT_TO_SIMPLIFIED", "true")
	t.Setenv("OPTIMIZE_RESULT", "1")
	t.Setenv("KEEP_ORIGINAL_CLIPBOARD", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.ConvertToSimplified || !cfg.OptimizeResult {
		t.Error("toggles not applied")
	}
	if cfg.KeepOriginalClipboard {
		t.Error("KEEP_ORIGINAL_CLIPBOARD=false not applied")
	}
}
