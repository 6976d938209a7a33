package audio

import (
	"strings"
	"time"
)

// DefaultSampleRate is the fallback rate when the requested rate cannot be
// negotiated with the device.
const DefaultSampleRate = 16000

const Channels = 1

var btKeywords = []string{
	"airpods", "beats", "bose", "wh-1000", "wf-1000",
	"sony wh-", "sony wf-",
	"jabra", "galaxy buds", "pixel buds", "powerbeats",
	"jbl ", "sennheiser momentum", "plantronics",
	"tozo", "anker soundcore", "skullcandy",
	"bluetooth", " bt ", " bt)", " bt]",
}

func IsBluetooth(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range btKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

type DataCallback func(data []byte, frameCount uint32)

func amplify(s int16, gain int32) int16 {
	v := int32(s) * gain
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

type CaptureConfig struct {
	SampleRate uint32
	Channels   uint32
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

type Context interface {
	Devices() ([]DeviceInfo, error)
	NewCapture(device *DeviceInfo, config CaptureConfig) (CaptureDevice, error)
	Close()
}

type CaptureDevice interface {
	Start() error
	Stop()
	Close()
	SetCallback(cb DataCallback)
	ClearCallback()
	DeviceName() string
}

// Buffer holds one recording session's captured audio: s16le mono PCM.
type Buffer struct {
	PCM        []byte
	SampleRate uint32
}

func (b Buffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	frames := len(b.PCM) / 2
	return time.Duration(float64(frames) / float64(b.SampleRate) * float64(time.Second))
}

func (b Buffer) Empty() bool {
	return len(b.PCM) == 0
}

// NewNegotiatedCapture opens a capture device at the requested sample rate,
// falling back to DefaultSampleRate if the device refuses it. Negotiation
// failure is never fatal as long as the fallback rate works.
func NewNegotiatedCapture(ctx Context, device *DeviceInfo, rate uint32) (CaptureDevice, uint32, error) {
	if rate == 0 {
		rate = DefaultSampleRate
	}
	dev, err := ctx.NewCapture(device, CaptureConfig{SampleRate: rate, Channels: Channels})
	if err == nil {
		return dev, rate, nil
	}
	if rate == DefaultSampleRate {
		return nil, 0, err
	}
	dev, fbErr := ctx.NewCapture(device, CaptureConfig{SampleRate: DefaultSampleRate, Channels: Channels})
	if fbErr != nil {
		return nil, 0, err
	}
	return dev, DefaultSampleRate, nil
}
