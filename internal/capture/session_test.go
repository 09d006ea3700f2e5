package capture

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

// fakeStream feeds scripted chunks through the Stream interface.
type fakeStream struct {
	chunks chan []byte
	closed bool
}

func newFakeStream() *fakeStream {
	return &fakeStream{chunks: make(chan []byte, 32)}
}

func (f *fakeStream) Chunks() <-chan []byte { return f.chunks }
func (f *fakeStream) MIMEType() string      { return "video/webm" }

func (f *fakeStream) Close() error {
	if !f.closed {
		f.closed = true
		close(f.chunks)
	}
	return nil
}

// emit pushes a chunk and waits for the session drain loop to observe it.
func emit(t *testing.T, s *Session, f *fakeStream, data []byte) {
	t.Helper()
	f.chunks <- data
	deadline := time.Now().Add(time.Second)
	for len(f.chunks) > 0 {
		if time.Now().After(deadline) {
			t.Fatal("drain loop never consumed chunk")
		}
		time.Sleep(time.Millisecond)
	}
	// One more scheduling point so the append under lock completes.
	time.Sleep(5 * time.Millisecond)
}

type fakeDevice struct {
	stream *fakeStream
	err    error
	opens  int
}

func (d *fakeDevice) Open(ctx context.Context, aspect AspectRatio) (Stream, error) {
	d.opens++
	if d.err != nil {
		return nil, d.err
	}
	d.stream = newFakeStream()
	return d.stream, nil
}

func TestAcquireFailure(t *testing.T) {
	dev := &fakeDevice{err: &DeviceAccessError{Err: errors.New("permission denied")}}
	s := NewSession(dev)

	err := s.Acquire(context.Background(), AspectPortrait)
	if err == nil {
		t.Fatal("expected acquire error")
	}
	var accessErr *DeviceAccessError
	if !errors.As(err, &accessErr) {
		t.Errorf("error = %v, want DeviceAccessError", err)
	}
	if s.HasStream() {
		t.Error("failed acquire should leave no stream")
	}
}

func TestReacquireReleasesPriorStream(t *testing.T) {
	dev := &fakeDevice{}
	s := NewSession(dev)

	if err := s.Acquire(context.Background(), AspectPortrait); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	first := dev.stream

	if err := s.Acquire(context.Background(), AspectLandscape); err != nil {
		t.Fatalf("re-acquire: %v", err)
	}
	if !first.closed {
		t.Error("switching aspect ratio must close the prior stream")
	}
	if dev.opens != 2 {
		t.Errorf("opens = %d, want 2 (full re-acquire, not reconfigure)", dev.opens)
	}
	s.Release()
}

func TestChunksBufferedOnlyWhileRecording(t *testing.T) {
	dev := &fakeDevice{}
	s := NewSession(dev)
	if err := s.Acquire(context.Background(), AspectPortrait); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer s.Release()

	// Idle fragments are dropped.
	emit(t, s, dev.stream, []byte("idle"))
	if s.HasFootage() {
		t.Fatal("idle fragments must not be buffered")
	}

	s.StartRecording()
	emit(t, s, dev.stream, []byte("one"))
	emit(t, s, dev.stream, []byte("two"))
	s.StopRecording()

	// Post-stop fragments are dropped too.
	emit(t, s, dev.stream, []byte("late"))

	art := s.Assemble()
	if art == nil {
		t.Fatal("expected an artifact")
	}
	if !bytes.Equal(art.Data, []byte("onetwo")) {
		t.Errorf("artifact = %q, want fragments in arrival order", art.Data)
	}
	if art.MIMEType != "video/webm" {
		t.Errorf("mime = %q", art.MIMEType)
	}
}

func TestDiscardAndRestartDropsEarlierTake(t *testing.T) {
	dev := &fakeDevice{}
	s := NewSession(dev)
	if err := s.Acquire(context.Background(), AspectPortrait); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer s.Release()

	s.StartRecording()
	emit(t, s, dev.stream, []byte("abandoned"))
	s.StopRecording()

	s.DiscardAndRestart()
	emit(t, s, dev.stream, []byte("keeper"))
	s.StopRecording()

	art := s.Assemble()
	if art == nil {
		t.Fatal("expected an artifact")
	}
	if !bytes.Equal(art.Data, []byte("keeper")) {
		t.Errorf("artifact = %q, earlier take must never leak into it", art.Data)
	}
}

func TestAssembleWithoutFootage(t *testing.T) {
	dev := &fakeDevice{}
	s := NewSession(dev)
	if err := s.Acquire(context.Background(), AspectPortrait); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer s.Release()

	if art := s.Assemble(); art != nil {
		t.Errorf("artifact = %v, want nil with no fragments", art)
	}
}

func TestStartRecordingWithoutStreamIsNoop(t *testing.T) {
	s := NewSession(&fakeDevice{})
	s.StartRecording()
	if s.Recording() {
		t.Error("recording must not start without a stream")
	}
}

func TestReleaseStopsTracks(t *testing.T) {
	dev := &fakeDevice{}
	s := NewSession(dev)
	if err := s.Acquire(context.Background(), AspectPortrait); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	s.StartRecording()
	s.Release()

	if !dev.stream.closed {
		t.Error("release must stop all device tracks")
	}
	if s.HasStream() || s.Recording() {
		t.Error("release must return the session to idle")
	}
	// Double release is harmless.
	s.Release()
}

func TestAspectDimensions(t *testing.T) {
	if w, h := AspectPortrait.Dimensions(); w != 720 || h != 1280 {
		t.Errorf("portrait = %dx%d, want 720x1280", w, h)
	}
	if w, h := AspectLandscape.Dimensions(); w != 1280 || h != 720 {
		t.Errorf("landscape = %dx%d, want 1280x720", w, h)
	}
}
