package audio

import (
	"math"
	"testing"
	"time"
)

func TestDecodePCM16Scale(t *testing.T) {
	// 16384 -> 0.5, -32768 -> -1.0, 0 -> 0. Divisor is fixed at 32768.0.
	pcm := []byte{
		0x00, 0x40, // 16384
		0x00, 0x80, // -32768
		0x00, 0x00, // 0
		0xFF, 0x7F, // 32767
	}
	samples := DecodePCM16(pcm)
	if len(samples) != 4 {
		t.Fatalf("samples = %d, want 4", len(samples))
	}
	if samples[0] != 0.5 {
		t.Errorf("16384 -> %v, want 0.5", samples[0])
	}
	if samples[1] != -1.0 {
		t.Errorf("-32768 -> %v, want -1.0", samples[1])
	}
	if samples[2] != 0 {
		t.Errorf("0 -> %v, want 0", samples[2])
	}
	want := float32(32767) / 32768.0
	if math.Abs(float64(samples[3]-want)) > 1e-9 {
		t.Errorf("32767 -> %v, want %v", samples[3], want)
	}
}

func TestDecodePCM16OddTrailingByte(t *testing.T) {
	samples := DecodePCM16([]byte{0x00, 0x40, 0x12})
	if len(samples) != 1 {
		t.Fatalf("samples = %d, want 1 (trailing byte ignored)", len(samples))
	}
}

func TestDecodePCM16Empty(t *testing.T) {
	if got := DecodePCM16(nil); len(got) != 0 {
		t.Errorf("samples = %d, want 0", len(got))
	}
}

func TestBufferDuration(t *testing.T) {
	// 24000 frames at 24 kHz is exactly one second.
	pcm := make([]byte, 24000*2)
	b := NewBuffer(pcm)
	if b.SampleRate != SampleRate {
		t.Errorf("rate = %d, want %d", b.SampleRate, SampleRate)
	}
	if b.Duration() != time.Second {
		t.Errorf("duration = %v, want 1s", b.Duration())
	}
}
