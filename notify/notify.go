// Package notify turns state transitions into audible cues. Sounds are
// the only user-facing status channel; there is no window to look at.
package notify

import (
	"vtype/machine"
)

// Beeper plays a short tick when recording starts and stops, and a low
// buzz on warnings and errors. Playback is fire-and-forget.
type Beeper struct{}

func NewBeeper() *Beeper { return &Beeper{} }

func (b *Beeper) StateChanged(from, to machine.Status) {
	switch to {
	case machine.StatusRecording, machine.StatusRecordingTranslate:
		playStartSound()
	case machine.StatusProcessing, machine.StatusTranslating:
		playEndSound()
	}
}

func (b *Beeper) Warning(msg string) {
	playAlertSound()
}

func (b *Beeper) Error(msg string) {
	playAlertSound()
}

// Nop signals nothing. Used in tests and with -quiet.
type Nop struct{}

func (Nop) StateChanged(from, to machine.Status) {}
func (Nop) Warning(msg string)                   {}
func (Nop) Error(msg string)                     {}
