// Package audio decodes synthesized speech into audible previews with
// single-flight play/stop control.
package audio

import (
	"encoding/binary"
	"time"
)

// SampleRate is the fixed rate of synthesized speech: mono 24 kHz.
const SampleRate = 24000

// pcmScale is the full-scale divisor for signed 16-bit samples. The encoder
// assumes 32768.0, not 32767; changing it shifts preview volume and clips.
const pcmScale = 32768.0

// DecodePCM16 interprets raw bytes as little-endian signed 16-bit mono
// samples and normalizes them to float32 in [-1, 1). A trailing odd byte is
// ignored.
func DecodePCM16(pcm []byte) []float32 {
	frames := len(pcm) / 2
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		v := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		samples[i] = float32(v) / pcmScale
	}
	return samples
}

// Buffer is a decoded sample buffer ready for playback.
type Buffer struct {
	Samples    []float32
	SampleRate int
}

// NewBuffer decodes a synthesized PCM byte stream into a playable buffer.
func NewBuffer(pcm []byte) *Buffer {
	return &Buffer{Samples: DecodePCM16(pcm), SampleRate: SampleRate}
}

// Duration returns the playback length of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	return time.Duration(len(b.Samples)) * time.Second / time.Duration(b.SampleRate)
}
