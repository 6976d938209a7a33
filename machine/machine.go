// Package machine owns the push-to-talk state. All transitions happen
// on one goroutine inside Run; everything else feeds it messages.
package machine

import (
	"context"
	"sync"
	"time"

	"vtype/audio"
	"vtype/hotkey"
	"vtype/log"
	"vtype/transcriber"
)

type Status string

const (
	StatusIdle               Status = "IDLE"
	StatusRecording          Status = "RECORDING"
	StatusRecordingTranslate Status = "RECORDING_TRANSLATE"
	StatusProcessing         Status = "PROCESSING"
	StatusTranslating        Status = "TRANSLATING"
	StatusError              Status = "ERROR"
	StatusWarning            Status = "WARNING"
)

type Config struct {
	Debounce       time.Duration // press must be held this long to start recording
	MinRecording   time.Duration // shorter captures are discarded locally
	ProcessTimeout time.Duration // bound on the remote call
	ResetDelay     time.Duration // ERROR/WARNING display time before auto-reset
}

func DefaultConfig() Config {
	return Config{
		Debounce:       500 * time.Millisecond,
		MinRecording:   time.Second,
		ProcessTimeout: 20 * time.Second,
		ResetDelay:     2 * time.Second,
	}
}

type Recorder interface {
	Start() error
	Stop() (audio.Buffer, error)
	Abort()
}

type Refiner interface {
	Refine(ctx context.Context, text string) string
}

type Sink interface {
	Emit(ctx context.Context, text string) error
}

type Notifier interface {
	StateChanged(from, to Status)
	Warning(msg string)
	Error(msg string)
}

type Deps struct {
	Recorder  Recorder
	Processor transcriber.Processor
	Refiner   Refiner
	Sink      Sink
	Notifier  Notifier
}

type result struct {
	gen  uint64
	text string
	err  error
}

type Machine struct {
	cfg  Config
	deps Deps

	keys    chan hotkey.Event
	results chan result

	// gen is only touched by the Run goroutine.
	gen uint64

	mu     sync.Mutex
	status Status
}

func New(cfg Config, deps Deps) *Machine {
	return &Machine{
		cfg:     cfg,
		deps:    deps,
		keys:    make(chan hotkey.Event, 16),
		results: make(chan result, 1),
		status:  StatusIdle,
	}
}

// Keys is the input side of the event loop. The hotkey listener writes
// here; nothing else should.
func (m *Machine) Keys() chan<- hotkey.Event { return m.keys }

func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Machine) setStatus(to Status) {
	m.mu.Lock()
	from := m.status
	m.status = to
	m.mu.Unlock()
	if from == to {
		return
	}
	log.StateChange(string(from), string(to))
	if m.deps.Notifier != nil {
		m.deps.Notifier.StateChanged(from, to)
	}
}

// Run drives the state machine until ctx is canceled. It is the single
// writer of the status and the generation counter.
func (m *Machine) Run(ctx context.Context) {
	var (
		primaryHeld   bool
		translateHeld bool
		debounce      *time.Timer
		debounceCh    <-chan time.Time
		reset         *time.Timer
		resetCh       <-chan time.Time
	)

	stopDebounce := func() {
		if debounce != nil {
			debounce.Stop()
			debounce, debounceCh = nil, nil
		}
	}
	scheduleReset := func() {
		if reset != nil {
			reset.Stop()
		}
		reset = time.NewTimer(m.cfg.ResetDelay)
		resetCh = reset.C
	}
	fail := func(msg string) {
		log.Error(msg)
		m.setStatus(StatusError)
		if m.deps.Notifier != nil {
			m.deps.Notifier.Error(msg)
		}
		scheduleReset()
	}

	for {
		select {
		case <-ctx.Done():
			stopDebounce()
			if reset != nil {
				reset.Stop()
			}
			st := m.Status()
			if st == StatusRecording || st == StatusRecordingTranslate {
				m.deps.Recorder.Abort()
			}
			m.setStatus(StatusIdle)
			return

		case ev := <-m.keys:
			switch ev.Button {
			case hotkey.ButtonTranslate:
				translateHeld = ev.Pressed

			case hotkey.ButtonTranscribe:
				if ev.Pressed == primaryHeld {
					continue
				}
				primaryHeld = ev.Pressed

				if ev.Pressed {
					// Presses outside IDLE (including the ERROR and
					// WARNING display window) are ignored.
					if m.Status() == StatusIdle {
						debounce = time.NewTimer(m.cfg.Debounce)
						debounceCh = debounce.C
					}
					continue
				}

				// Release before the debounce fired: accidental tap.
				stopDebounce()

				st := m.Status()
				if st != StatusRecording && st != StatusRecordingTranslate {
					continue
				}

				buf, err := m.deps.Recorder.Stop()
				if err != nil {
					fail("stopping capture: " + err.Error())
					continue
				}
				if buf.Duration() < m.cfg.MinRecording {
					log.Warnf("recording too short (%.2fs), discarded", buf.Duration().Seconds())
					m.setStatus(StatusWarning)
					if m.deps.Notifier != nil {
						m.deps.Notifier.Warning("recording too short")
					}
					scheduleReset()
					continue
				}

				mode, next := transcriber.ModeTranscribe, StatusProcessing
				if st == StatusRecordingTranslate {
					mode, next = transcriber.ModeTranslate, StatusTranslating
				}
				m.setStatus(next)
				go m.process(ctx, m.gen, buf, mode)
			}

		case <-debounceCh:
			stopDebounce()
			if !primaryHeld || m.Status() != StatusIdle {
				continue
			}
			if err := m.deps.Recorder.Start(); err != nil {
				fail("microphone unavailable: " + err.Error())
				continue
			}
			m.gen++
			// Mode latches here; releasing the translate modifier
			// mid-recording does not change it.
			if translateHeld {
				m.setStatus(StatusRecordingTranslate)
			} else {
				m.setStatus(StatusRecording)
			}

		case <-resetCh:
			reset, resetCh = nil, nil
			if st := m.Status(); st == StatusError || st == StatusWarning {
				m.setStatus(StatusIdle)
			}

		case res := <-m.results:
			if res.gen != m.gen {
				log.Debugf("discarding stale result (gen %d, current %d)", res.gen, m.gen)
				continue
			}
			if st := m.Status(); st != StatusProcessing && st != StatusTranslating {
				continue
			}
			if res.err != nil {
				fail("processing failed: " + res.err.Error())
				continue
			}
			m.setStatus(StatusIdle)
			go m.emit(ctx, res.text)
		}
	}
}

// process runs off-loop. The timeout is enforced here with a select so
// the machine reaches ERROR on schedule even if the transport hangs;
// whatever the abandoned call eventually returns is dropped by the
// generation check.
func (m *Machine) process(ctx context.Context, gen uint64, buf audio.Buffer, mode transcriber.Mode) {
	tctx, cancel := context.WithTimeout(ctx, m.cfg.ProcessTimeout)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	ch := make(chan reply, 1)
	go func() {
		text, err := m.deps.Processor.Process(tctx, buf, mode)
		ch <- reply{text, err}
	}()

	res := result{gen: gen}
	select {
	case r := <-ch:
		res.text, res.err = r.text, r.err
	case <-tctx.Done():
		res.err = transcriber.ErrTimeout
	}

	if res.err == nil && m.deps.Refiner != nil {
		// Refinement gets its own budget; a slow LLM must not hold the
		// already transcribed text hostage past a second timeout.
		rctx, rcancel := context.WithTimeout(ctx, m.cfg.ProcessTimeout)
		res.text = m.deps.Refiner.Refine(rctx, res.text)
		rcancel()
	}

	select {
	case m.results <- res:
	case <-ctx.Done():
	}
}

func (m *Machine) emit(ctx context.Context, text string) {
	log.TranscriptionText(text)
	if err := m.deps.Sink.Emit(ctx, text); err != nil {
		log.Warnf("text injection failed: %v", err)
	}
}
