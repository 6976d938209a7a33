package transcriber

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"vtype/audio"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// Format is the upload container for the captured PCM.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatFLAC Format = "flac"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatWAV:
		return FormatWAV, nil
	case FormatFLAC:
		return FormatFLAC, nil
	default:
		return "", fmt.Errorf("unknown upload format %q", s)
	}
}

// Encode wraps the buffer in the requested container and returns the
// payload plus a filename carrying the right extension.
func Encode(buf audio.Buffer, format Format) ([]byte, string, error) {
	switch format {
	case FormatFLAC:
		data, err := encodeFLAC(buf)
		return data, "audio.flac", err
	default:
		return encodeWAV(buf), "audio.wav", nil
	}
}

const (
	bitsPerSample = 16
	wavHeaderSize = 44
)

func encodeWAV(buf audio.Buffer) []byte {
	var out bytes.Buffer
	out.Grow(wavHeaderSize + len(buf.PCM))

	byteRate := buf.SampleRate * audio.Channels * bitsPerSample / 8
	blockAlign := uint16(audio.Channels * bitsPerSample / 8)
	dataSize := len(buf.PCM)

	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(36+dataSize))
	out.WriteString("WAVE")

	out.WriteString("fmt ")
	binary.Write(&out, binary.LittleEndian, uint32(16))
	binary.Write(&out, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&out, binary.LittleEndian, uint16(audio.Channels))
	binary.Write(&out, binary.LittleEndian, buf.SampleRate)
	binary.Write(&out, binary.LittleEndian, byteRate)
	binary.Write(&out, binary.LittleEndian, blockAlign)
	binary.Write(&out, binary.LittleEndian, uint16(bitsPerSample))

	out.WriteString("data")
	binary.Write(&out, binary.LittleEndian, uint32(dataSize))
	out.Write(buf.PCM)

	return out.Bytes()
}

const flacBlockSize = 4096

func encodeFLAC(buf audio.Buffer) ([]byte, error) {
	var out bytes.Buffer
	info := &meta.StreamInfo{
		BlockSizeMin:  flacBlockSize,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    buf.SampleRate,
		NChannels:     audio.Channels,
		BitsPerSample: bitsPerSample,
	}
	enc, err := flac.NewEncoder(&out, info)
	if err != nil {
		return nil, fmt.Errorf("creating flac encoder: %w", err)
	}

	samples := len(buf.PCM) / 2
	for pos := 0; pos < samples; pos += flacBlockSize {
		end := pos + flacBlockSize
		if end > samples {
			end = samples
		}
		block := make([]int32, end-pos)
		for i := range block {
			off := (pos + i) * 2
			block[i] = int32(int16(binary.LittleEndian.Uint16(buf.PCM[off:])))
		}

		subframe := &frame.Subframe{
			SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
			Samples:   block,
			NSamples:  len(block),
		}
		f := &frame.Frame{
			Header: frame.Header{
				BlockSize:     uint16(len(block)),
				SampleRate:    buf.SampleRate,
				Channels:      frame.ChannelsMono,
				BitsPerSample: bitsPerSample,
			},
			Subframes: []*frame.Subframe{subframe},
		}
		if err := enc.WriteFrame(f); err != nil {
			return nil, fmt.Errorf("writing flac frame: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing flac encoder: %w", err)
	}
	return out.Bytes(), nil
}
