package transcriber

import (
	"context"
	"errors"
	"testing"
	"time"

	"vtype/audio"
)

func testBuffer() audio.Buffer {
	return audio.Buffer{PCM: audio.Tone(16000, 1.2), SampleRate: 16000}
}

func TestHybridPrefersPrimary(t *testing.T) {
	primary := &FakeProcessor{Text: "primary"}
	secondary := &FakeProcessor{Text: "secondary"}
	h := NewHybrid(primary, secondary, true)

	text, err := h.Process(context.Background(), testBuffer(), ModeTranscribe)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if text != "primary" {
		t.Errorf("text = %q, want primary", text)
	}
	if len(secondary.Calls()) != 0 {
		t.Error("secondary called although primary succeeded")
	}
}

func TestHybridFailover(t *testing.T) {
	primary := &FakeProcessor{Err: errors.New("down")}
	secondary := &FakeProcessor{Text: "backup"}
	h := NewHybrid(primary, secondary, true)

	text, err := h.Process(context.Background(), testBuffer(), ModeTranscribe)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if text != "backup" {
		t.Errorf("text = %q, want backup", text)
	}
}

func TestHybridFallbackDisabled(t *testing.T) {
	primary := &FakeProcessor{Err: errors.New("down")}
	secondary := &FakeProcessor{Text: "backup"}
	h := NewHybrid(primary, secondary, false)

	if _, err := h.Process(context.Background(), testBuffer(), ModeTranscribe); err == nil {
		t.Fatal("expected primary error with fallback disabled")
	}
	if len(secondary.Calls()) != 0 {
		t.Error("secondary called although fallback is disabled")
	}
}

func TestHybridCooldownSkipsPrimary(t *testing.T) {
	primary := &FakeProcessor{Err: errors.New("down")}
	secondary := &FakeProcessor{Text: "backup"}
	h := NewHybrid(primary, secondary, true)

	now := time.Now()
	h.now = func() time.Time { return now }

	if _, err := h.Process(context.Background(), testBuffer(), ModeTranscribe); err != nil {
		t.Fatalf("first Process: %v", err)
	}
	primaryCalls := len(primary.Calls())

	// Within the cooldown window the primary is skipped entirely.
	now = now.Add(time.Minute)
	if _, err := h.Process(context.Background(), testBuffer(), ModeTranscribe); err != nil {
		t.Fatalf("second Process: %v", err)
	}
	if got := len(primary.Calls()); got != primaryCalls {
		t.Errorf("primary calls = %d, want %d (cooldown active)", got, primaryCalls)
	}

	// After the cooldown the primary gets another chance and recovers.
	primary.Set("recovered", nil)
	now = now.Add(fallbackCooldown)
	text, err := h.Process(context.Background(), testBuffer(), ModeTranscribe)
	if err != nil {
		t.Fatalf("third Process: %v", err)
	}
	if text != "recovered" {
		t.Errorf("text = %q, want recovered", text)
	}

	// Recovery clears the failover flag; primary serves again immediately.
	if _, err := h.Process(context.Background(), testBuffer(), ModeTranscribe); err != nil {
		t.Fatalf("fourth Process: %v", err)
	}
	if len(secondary.Calls()) != 2 {
		t.Errorf("secondary calls = %d, want 2", len(secondary.Calls()))
	}
}

func TestHybridAllBackendsFail(t *testing.T) {
	primary := &FakeProcessor{Err: errors.New("down")}
	secondary := &FakeProcessor{Err: errors.New("also down")}
	h := NewHybrid(primary, secondary, true)

	if _, err := h.Process(context.Background(), testBuffer(), ModeTranscribe); err == nil {
		t.Fatal("expected error when both backends fail")
	}
}

func TestHybridPrimaryOnly(t *testing.T) {
	primary := &FakeProcessor{Text: "solo"}
	h := NewHybrid(primary, nil, true)

	text, err := h.Process(context.Background(), testBuffer(), ModeTranscribe)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if text != "solo" {
		t.Errorf("text = %q, want solo", text)
	}
}

func TestHybridSecondaryOnly(t *testing.T) {
	secondary := &FakeProcessor{Text: "backup"}
	h := NewHybrid(nil, secondary, true)

	text, err := h.Process(context.Background(), testBuffer(), ModeTranscribe)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if text != "backup" {
		t.Errorf("text = %q, want backup", text)
	}
}
