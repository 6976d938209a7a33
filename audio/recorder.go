package audio

import (
	"errors"
	"sync"
)

var ErrAlreadyRecording = errors.New("audio: capture already in progress")

// Recorder accumulates PCM from a capture device between Start and
// Stop/Abort. The device is opened once and owned by the recorder; each
// session installs the callback on Start and removes it on release, so
// the device is never left streaming into a dead session.
type Recorder struct {
	device CaptureDevice
	rate   uint32

	mu        sync.Mutex
	recording bool
	buf       []byte
}

func NewRecorder(device CaptureDevice, rate uint32) *Recorder {
	return &Recorder{device: device, rate: rate}
}

func (r *Recorder) Start() error {
	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		return ErrAlreadyRecording
	}
	r.recording = true
	r.buf = r.buf[:0]
	r.mu.Unlock()

	r.device.SetCallback(func(data []byte, _ uint32) {
		r.mu.Lock()
		if r.recording {
			r.buf = append(r.buf, data...)
		}
		r.mu.Unlock()
	})

	if err := r.device.Start(); err != nil {
		r.release()
		return err
	}
	return nil
}

// Stop ends the session and returns everything captured since Start.
// The device is released even when nothing was captured.
func (r *Recorder) Stop() (Buffer, error) {
	pcm := r.release()
	if pcm == nil {
		return Buffer{}, errors.New("audio: not recording")
	}
	return Buffer{PCM: pcm, SampleRate: r.rate}, nil
}

// Abort ends the session and discards the audio.
func (r *Recorder) Abort() {
	r.release()
}

func (r *Recorder) release() []byte {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil
	}
	r.recording = false
	r.mu.Unlock()

	r.device.Stop()
	r.device.ClearCallback()

	r.mu.Lock()
	pcm := make([]byte, len(r.buf))
	copy(pcm, r.buf)
	r.mu.Unlock()
	return pcm
}

func (r *Recorder) DeviceName() string {
	return r.device.DeviceName()
}
