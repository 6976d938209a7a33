//go:build !linux

package hotkey

import (
	"fmt"
	"strings"
	"sync"
	"time"

	xhotkey "golang.design/x/hotkey"
)

var xKeys = map[string]xhotkey.Key{
	"f1": xhotkey.KeyF1, "f2": xhotkey.KeyF2, "f3": xhotkey.KeyF3,
	"f4": xhotkey.KeyF4, "f5": xhotkey.KeyF5, "f6": xhotkey.KeyF6,
	"f7": xhotkey.KeyF7, "f8": xhotkey.KeyF8, "f9": xhotkey.KeyF9,
	"f10": xhotkey.KeyF10, "f11": xhotkey.KeyF11, "f12": xhotkey.KeyF12,
}

type xListener struct {
	transcribe *xhotkey.Hotkey
	translate  *xhotkey.Hotkey
	events     chan Event
	stop       chan struct{}
	once       sync.Once
}

func New(b Binding) (Listener, error) {
	tc, ok := xKeys[strings.ToLower(b.Transcribe)]
	if !ok {
		return nil, fmt.Errorf("unknown key %q", b.Transcribe)
	}
	tl, ok := xKeys[strings.ToLower(b.Translate)]
	if !ok {
		return nil, fmt.Errorf("unknown key %q", b.Translate)
	}
	if tc == tl {
		return nil, fmt.Errorf("transcribe and translate keys are both %q", b.Transcribe)
	}
	return &xListener{
		transcribe: xhotkey.New(nil, tc),
		translate:  xhotkey.New(nil, tl),
		events:     make(chan Event, 16),
	}, nil
}

func (l *xListener) Register() error {
	if err := l.transcribe.Register(); err != nil {
		return fmt.Errorf("register transcribe key: %w", err)
	}
	if err := l.translate.Register(); err != nil {
		l.transcribe.Unregister()
		return fmt.Errorf("register translate key: %w", err)
	}

	l.stop = make(chan struct{})
	go l.forward(l.transcribe, ButtonTranscribe)
	go l.forward(l.translate, ButtonTranslate)
	return nil
}

func (l *xListener) forward(hk *xhotkey.Hotkey, button Button) {
	for {
		select {
		case <-l.stop:
			return
		case <-hk.Keydown():
			l.emit(Event{Button: button, Pressed: true, Time: time.Now()})
		case <-hk.Keyup():
			l.emit(Event{Button: button, Pressed: false, Time: time.Now()})
		}
	}
}

func (l *xListener) emit(ev Event) {
	select {
	case l.events <- ev:
	default:
	}
}

func (l *xListener) Unregister() {
	l.once.Do(func() {
		if l.stop != nil {
			close(l.stop)
		}
		l.transcribe.Unregister()
		l.translate.Unregister()
	})
}

func (l *xListener) Events() <-chan Event {
	return l.events
}

func Diagnose() (string, error) {
	return "global hotkey support available", nil
}
