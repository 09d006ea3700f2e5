package capture

import (
	"context"
	"sync"
	"time"

	"github.com/shuleihust/ai-commercial-ip-director/internal/topic"
)

// Session owns one device stream and the recording-in-progress. Fragments
// accumulate, in arrival order, only while a recording is active; starting a
// new take discards the previous one entirely.
//
// The stream is exclusively owned by the session and must be released on
// every exit path so the camera/microphone indicators go dark.
type Session struct {
	device Device

	mu        sync.Mutex
	stream    Stream
	recording bool
	chunks    [][]byte
	mimeType  string
	startedAt time.Time
	done      chan struct{}
}

// NewSession wraps a capture device. No stream is opened yet.
func NewSession(device Device) *Session {
	return &Session{device: device}
}

// Acquire requests the device stream at the given aspect ratio. Any
// previously active stream is fully released first: switching aspect ratio
// is a full re-acquire, never a reconfigure. On failure the session is left
// with no stream and the caller must retry explicitly.
func (s *Session) Acquire(ctx context.Context, aspect AspectRatio) error {
	s.Release()

	stream, err := s.device.Open(ctx, aspect)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.stream = stream
	s.mimeType = stream.MIMEType()
	s.recording = false
	s.chunks = nil
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go s.drain(stream, done)
	return nil
}

// drain consumes stream fragments for the life of the stream, buffering
// them only while a recording is active. Fragments that arrive while idle
// are dropped, which keeps the encoder from stalling between takes.
func (s *Session) drain(stream Stream, done chan struct{}) {
	defer close(done)
	for chunk := range stream.Chunks() {
		s.mu.Lock()
		if s.recording {
			s.chunks = append(s.chunks, chunk)
		}
		s.mu.Unlock()
	}
}

// HasStream reports whether a live stream is currently held.
func (s *Session) HasStream() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stream != nil
}

// Recording reports whether a take is in progress.
func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// StartRecording begins a new take, dropping any fragments buffered by an
// earlier one. No-op when no stream is held or a take is already running.
func (s *Session) StartRecording() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil || s.recording {
		return
	}
	s.chunks = nil
	s.recording = true
	s.startedAt = time.Now()
}

// StopRecording finalizes fragment emission and returns to idle. Buffered
// fragments remain available for Assemble. No-op when not recording.
func (s *Session) StopRecording() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recording = false
}

// DiscardAndRestart drops the stopped take and begins a fresh one.
func (s *Session) DiscardAndRestart() {
	s.StartRecording()
}

// HasFootage reports whether the last take produced any fragments.
func (s *Session) HasFootage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks) > 0
}

// Elapsed returns how long the current take has been running, zero if idle.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording {
		return 0
	}
	return time.Since(s.startedAt)
}

// Assemble concatenates all buffered fragments, in arrival order, into one
// immutable artifact tagged with the stream's media type. Returns nil when
// nothing was captured; callers must guard on that before dispatching.
func (s *Session) Assemble() *topic.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.chunks) == 0 {
		return nil
	}
	size := 0
	for _, c := range s.chunks {
		size += len(c)
	}
	data := make([]byte, 0, size)
	for _, c := range s.chunks {
		data = append(data, c...)
	}
	return &topic.Artifact{Data: data, MIMEType: s.mimeType}
}

// Release stops all device tracks and forgets the stream. Safe to call on
// every exit path, including when nothing was ever acquired.
func (s *Session) Release() {
	s.mu.Lock()
	stream := s.stream
	done := s.done
	s.stream = nil
	s.recording = false
	s.done = nil
	s.mu.Unlock()

	if stream != nil {
		stream.Close()
	}
	if done != nil {
		<-done
	}
}
