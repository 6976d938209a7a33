//go:build linux

package hotkey

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	evKey      = 1
	keyPress   = 1
	keyRelease = 0
	keyRepeat  = 2
)

const inputEventSize = 24

// evdev key codes for the names we accept in config.
var linuxKeys = map[string]uint16{
	"f1": 59, "f2": 60, "f3": 61, "f4": 62, "f5": 63, "f6": 64,
	"f7": 65, "f8": 66, "f9": 67, "f10": 68, "f11": 87, "f12": 88,
	"leftctrl": 29, "rightctrl": 97,
	"leftalt": 56, "rightalt": 100,
	"leftshift": 42, "rightshift": 54,
	"capslock": 58, "scrolllock": 70, "pause": 119,
}

type linuxListener struct {
	transcribe uint16
	translate  uint16
	events     chan Event
	files      []*os.File
	stop       chan struct{}
	once       sync.Once
}

func New(b Binding) (Listener, error) {
	tc, ok := linuxKeys[strings.ToLower(b.Transcribe)]
	if !ok {
		return nil, fmt.Errorf("unknown key %q", b.Transcribe)
	}
	tl, ok := linuxKeys[strings.ToLower(b.Translate)]
	if !ok {
		return nil, fmt.Errorf("unknown key %q", b.Translate)
	}
	if tc == tl {
		return nil, fmt.Errorf("transcribe and translate keys are both %q", b.Transcribe)
	}
	return &linuxListener{
		transcribe: tc,
		translate:  tl,
		events:     make(chan Event, 16),
	}, nil
}

func (l *linuxListener) Register() error {
	keyboards, err := findKeyboards()
	if err != nil {
		return fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	l.stop = make(chan struct{})

	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		l.files = append(l.files, f)
		go l.readEvents(f)
	}

	if len(l.files) == 0 {
		return fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}

	return nil
}

func (l *linuxListener) readEvents(f *os.File) {
	buf := make([]byte, inputEventSize*16)

	for {
		select {
		case <-l.stop:
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

			if evType != evKey || evValue == keyRepeat {
				continue
			}

			var button Button
			switch evCode {
			case l.transcribe:
				button = ButtonTranscribe
			case l.translate:
				button = ButtonTranslate
			default:
				continue
			}

			ev := Event{Button: button, Pressed: evValue == keyPress, Time: time.Now()}
			select {
			case l.events <- ev:
			default:
			}
		}
	}
}

func (l *linuxListener) Unregister() {
	l.once.Do(func() {
		if l.stop != nil {
			close(l.stop)
		}
		for _, f := range l.files {
			f.Close()
		}
	})
}

func (l *linuxListener) Events() <-chan Event {
	return l.events
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		path := filepath.Join("/dev/input", e.Name())
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, path)
		}
	}
	return keyboards, nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

func Diagnose() (string, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	var opened string
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
	}

	return fmt.Sprintf("%d keyboard(s) found, opened %s", len(keyboards), opened), nil
}
