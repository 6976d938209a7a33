package output

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClipboard struct {
	mu      sync.Mutex
	content string
	history []string
	readErr error
}

func (f *fakeClipboard) Read() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.content, nil
}

func (f *fakeClipboard) Write(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.content = text
	f.history = append(f.history, text)
	return nil
}

func newTestTyper(clip *fakeClipboard, paste func() error, keep bool) *Typer {
	return &Typer{
		clipboard:    clip,
		paste:        paste,
		keepOriginal: keep,
		delay:        time.Millisecond,
	}
}

func TestEmitPastesAndRestores(t *testing.T) {
	clip := &fakeClipboard{content: "user stuff"}
	pasted := false
	typer := newTestTyper(clip, func() error { pasted = true; return nil }, true)

	if err := typer.Emit(context.Background(), "hello"); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !pasted {
		t.Error("paste not triggered")
	}
	if clip.content != "user stuff" {
		t.Errorf("clipboard = %q, want original restored", clip.content)
	}
	want := []string{"hello", "user stuff"}
	for i, w := range want {
		if clip.history[i] != w {
			t.Errorf("history[%d] = %q, want %q", i, clip.history[i], w)
		}
	}
}

func TestEmitRestoresEvenWhenPasteFails(t *testing.T) {
	clip := &fakeClipboard{content: "precious"}
	typer := newTestTyper(clip, func() error { return errors.New("no display") }, true)

	if err := typer.Emit(context.Background(), "hello"); err == nil {
		t.Fatal("Emit should report paste failure")
	}
	if clip.content != "precious" {
		t.Errorf("clipboard = %q, want original restored despite paste failure", clip.content)
	}
}

func TestEmitKeepOriginalDisabled(t *testing.T) {
	clip := &fakeClipboard{content: "old"}
	typer := newTestTyper(clip, func() error { return nil }, false)

	if err := typer.Emit(context.Background(), "new text"); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if clip.content != "new text" {
		t.Errorf("clipboard = %q, want new text left in place", clip.content)
	}
}

func TestEmitClipboardReadFailure(t *testing.T) {
	clip := &fakeClipboard{readErr: errors.New("xclip missing")}
	typer := newTestTyper(clip, func() error { return nil }, true)

	// Read failure only disables restore, the dictation still goes out.
	if err := typer.Emit(context.Background(), "hello"); err != nil {
		t.Fatalf("Emit: %v", err)
	}
}

func TestEmitEmptyText(t *testing.T) {
	clip := &fakeClipboard{content: "untouched"}
	typer := newTestTyper(clip, func() error { t.Error("paste on empty text"); return nil }, true)

	if err := typer.Emit(context.Background(), ""); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(clip.history) != 0 {
		t.Error("clipboard touched for empty text")
	}
}
