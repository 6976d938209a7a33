package hotkey

import "time"

// Button identifies which of the two push-to-talk keys an event belongs to.
type Button int

const (
	ButtonTranscribe Button = iota
	ButtonTranslate
)

func (b Button) String() string {
	if b == ButtonTranslate {
		return "translate"
	}
	return "transcribe"
}

type Event struct {
	Button  Button
	Pressed bool
	Time    time.Time
}

// Listener watches the two configured keys globally and emits raw
// down/up events. It never interprets them; debouncing and state live
// in the machine.
type Listener interface {
	Register() error
	Unregister()
	Events() <-chan Event
}

// Binding maps the two buttons to key names ("f8", "f7", ...).
type Binding struct {
	Transcribe string
	Translate  string
}

func DefaultBinding() Binding {
	return Binding{Transcribe: "f8", Translate: "f7"}
}
