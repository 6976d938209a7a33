package audio

import (
	"sync"
	"time"
)

const (
	fakeFrameSize     = 1024
	fakeBytesPerFrame = 2 // 16-bit mono
)

// FakeContext feeds canned PCM through the capture interface for tests.
type FakeContext struct {
	pcm []byte

	mu       sync.Mutex
	captures []*FakeCapture
}

func NewFakeContext(pcm []byte) *FakeContext {
	return &FakeContext{pcm: pcm}
}

// Tone returns len seconds of a crude square wave, s16le mono.
func Tone(rate uint32, seconds float64) []byte {
	frames := int(float64(rate) * seconds)
	pcm := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		var s int16 = 8000
		if (i/40)%2 == 0 {
			s = -8000
		}
		pcm[i*2] = byte(uint16(s))
		pcm[i*2+1] = byte(uint16(s) >> 8)
	}
	return pcm
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "fake0", Name: "fake mic"}}, nil
}

func (f *FakeContext) Close() {}

func (f *FakeContext) NewCapture(_ *DeviceInfo, config CaptureConfig) (CaptureDevice, error) {
	c := &FakeCapture{pcm: f.pcm, rate: config.SampleRate}
	f.mu.Lock()
	f.captures = append(f.captures, c)
	f.mu.Unlock()
	return c, nil
}

// Captures returns every capture handed out so far.
func (f *FakeContext) Captures() []*FakeCapture {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakeCapture(nil), f.captures...)
}

// FakeCapture delivers the canned PCM in one burst on Start, then keeps
// feeding silence until Stop. Start/Stop counts are observable for
// release-contract assertions.
type FakeCapture struct {
	pcm  []byte
	rate uint32

	mu       sync.Mutex
	cb       DataCallback
	stopCh   chan struct{}
	feedDone chan struct{}

	StartCalls int
	StopCalls  int
	StartErr   error
}

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

func (f *FakeCapture) DeviceName() string { return "fake mic" }

func (f *FakeCapture) loadCallback() DataCallback {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cb
}

func (f *FakeCapture) Start() error {
	f.mu.Lock()
	f.StartCalls++
	err := f.StartErr
	f.mu.Unlock()
	if err != nil {
		return err
	}

	f.stopCh = make(chan struct{})
	f.feedDone = make(chan struct{})
	chunkBytes := fakeFrameSize * fakeBytesPerFrame

	if cb := f.loadCallback(); cb != nil {
		for pos := 0; pos < len(f.pcm); {
			end := min(pos+chunkBytes, len(f.pcm))
			chunk := make([]byte, end-pos)
			copy(chunk, f.pcm[pos:end])
			cb(chunk, uint32(len(chunk)/fakeBytesPerFrame))
			pos = end
		}
	}

	go func() {
		defer close(f.feedDone)
		silence := make([]byte, chunkBytes)
		for {
			select {
			case <-f.stopCh:
				return
			case <-time.After(time.Millisecond):
			}
			if cb := f.loadCallback(); cb != nil {
				cb(silence, fakeFrameSize)
			}
		}
	}()

	return nil
}

func (f *FakeCapture) Stop() {
	f.mu.Lock()
	f.StopCalls++
	f.mu.Unlock()
	if f.stopCh == nil {
		return
	}
	select {
	case <-f.stopCh:
	default:
		close(f.stopCh)
	}
	<-f.feedDone
}

func (f *FakeCapture) Close() {}
