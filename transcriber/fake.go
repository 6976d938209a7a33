package transcriber

import (
	"context"
	"sync"
	"time"

	"vtype/audio"
)

// FakeProcessor returns canned results, optionally after a delay so
// tests can exercise timeout and staleness paths.
type FakeProcessor struct {
	Text  string
	Err   error
	Delay time.Duration

	mu    sync.Mutex
	calls []Mode
}

func (f *FakeProcessor) Name() string { return "fake" }

func (f *FakeProcessor) Process(ctx context.Context, _ audio.Buffer, mode Mode) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, mode)
	text, err, delay := f.Text, f.Err, f.Delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ErrTimeout
		}
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func (f *FakeProcessor) Calls() []Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Mode(nil), f.calls...)
}

func (f *FakeProcessor) Set(text string, err error) {
	f.mu.Lock()
	f.Text, f.Err = text, err
	f.mu.Unlock()
}

func (f *FakeProcessor) SetDelay(d time.Duration) {
	f.mu.Lock()
	f.Delay = d
	f.mu.Unlock()
}
