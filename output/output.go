// Package output injects recognized text at the cursor. The injection
// path is clipboard-based: copy, synthesize a paste chord, then restore
// whatever the clipboard held before.
package output

import (
	"context"
	"fmt"
	"time"

	"vtype/log"

	cb "github.com/atotto/clipboard"
)

// Sink receives the final text of a dictation.
type Sink interface {
	Emit(ctx context.Context, text string) error
}

type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

type systemClipboard struct{}

func (systemClipboard) Read() (string, error)   { return cb.ReadAll() }
func (systemClipboard) Write(text string) error { return cb.WriteAll(text) }

// restoreDelay gives the focused application time to service the paste
// before the clipboard changes under it.
const restoreDelay = 600 * time.Millisecond

type Typer struct {
	clipboard    Clipboard
	paste        func() error
	keepOriginal bool
	delay        time.Duration
}

func NewTyper(keepOriginal bool) *Typer {
	return &Typer{
		clipboard:    systemClipboard{},
		paste:        sendPaste,
		keepOriginal: keepOriginal,
		delay:        restoreDelay,
	}
}

// Emit copies text and triggers a paste. When the original clipboard is
// kept, it is restored even if the paste chord fails; the text is still
// on the clipboard manager's history at that point, and leaving the
// user's content clobbered would be worse.
func (t *Typer) Emit(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	var original string
	restore := false
	if t.keepOriginal {
		prev, err := t.clipboard.Read()
		if err != nil {
			log.Warnf("cannot read clipboard, skipping restore: %v", err)
		} else {
			original = prev
			restore = true
		}
	}

	if err := t.clipboard.Write(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}

	pasteErr := t.paste()

	if restore {
		select {
		case <-time.After(t.delay):
		case <-ctx.Done():
		}
		if err := t.clipboard.Write(original); err != nil {
			log.Warnf("clipboard restore failed: %v", err)
		}
	}

	if pasteErr != nil {
		return fmt.Errorf("paste keystroke: %w", pasteErr)
	}
	return nil
}
