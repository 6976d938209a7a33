package hotkey

import "time"

type FakeListener struct {
	events chan Event
}

func NewFake() *FakeListener {
	return &FakeListener{events: make(chan Event, 16)}
}

func (f *FakeListener) Register() error      { return nil }
func (f *FakeListener) Unregister()          {}
func (f *FakeListener) Events() <-chan Event { return f.events }

func (f *FakeListener) Press(b Button)   { f.events <- Event{Button: b, Pressed: true, Time: time.Now()} }
func (f *FakeListener) Release(b Button) { f.events <- Event{Button: b, Pressed: false, Time: time.Now()} }
