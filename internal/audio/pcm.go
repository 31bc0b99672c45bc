// Package audio converts the raw speech returned by the AI providers into
// something a browser can play.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"
)

// Buffer is decoded audio with one slice of normalized samples per
// channel. Samples lie in [-1, 1).
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

// Frames returns the number of samples per channel.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the playback length.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// DecodeBase64 decodes a standard base64 string, the form inline audio
// takes in JSON payloads.
func DecodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("audio base64: %w", err)
	}
	return b, nil
}

// DecodePCM16 interprets data as interleaved little-endian signed 16-bit
// samples and normalizes each by 32768. A trailing odd byte and any
// incomplete final frame are dropped.
func DecodePCM16(data []byte, sampleRate, channels int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, errors.New("audio: sample rate must be positive")
	}
	if channels <= 0 {
		return nil, errors.New("audio: channel count must be positive")
	}

	samples := len(data) / 2
	frames := samples / channels

	buf := &Buffer{SampleRate: sampleRate, Channels: make([][]float32, channels)}
	for ch := range buf.Channels {
		buf.Channels[ch] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * 2
			s := int16(binary.LittleEndian.Uint16(data[off:]))
			buf.Channels[ch][i] = float32(s) / 32768.0
		}
	}
	return buf, nil
}

const (
	wavFormatFloat = 3
	bitsPerSample  = 32
)

// WriteWAV encodes the buffer as a 32-bit IEEE float WAV file.
func (b *Buffer) WriteWAV(w io.Writer) error {
	channels := len(b.Channels)
	if channels == 0 {
		return errors.New("audio: no channels")
	}
	frames := b.Frames()
	blockAlign := channels * bitsPerSample / 8
	dataSize := frames * blockAlign

	header := make([]byte, 0, 44)
	header = append(header, "RIFF"...)
	header = binary.LittleEndian.AppendUint32(header, uint32(36+dataSize))
	header = append(header, "WAVE"...)
	header = append(header, "fmt "...)
	header = binary.LittleEndian.AppendUint32(header, 16)
	header = binary.LittleEndian.AppendUint16(header, wavFormatFloat)
	header = binary.LittleEndian.AppendUint16(header, uint16(channels))
	header = binary.LittleEndian.AppendUint32(header, uint32(b.SampleRate))
	header = binary.LittleEndian.AppendUint32(header, uint32(b.SampleRate*blockAlign))
	header = binary.LittleEndian.AppendUint16(header, uint16(blockAlign))
	header = binary.LittleEndian.AppendUint16(header, bitsPerSample)
	header = append(header, "data"...)
	header = binary.LittleEndian.AppendUint32(header, uint32(dataSize))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("audio write header: %w", err)
	}

	body := make([]byte, 0, dataSize)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			body = binary.LittleEndian.AppendUint32(body, math.Float32bits(b.Channels[ch][i]))
		}
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("audio write samples: %w", err)
	}
	return nil
}
