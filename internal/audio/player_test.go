package audio

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakePlayback finishes when told to, or when stopped.
type fakePlayback struct {
	done    chan struct{}
	once    sync.Once
	stopped bool
}

func newFakePlayback() *fakePlayback {
	return &fakePlayback{done: make(chan struct{})}
}

func (f *fakePlayback) Done() <-chan struct{} { return f.done }

func (f *fakePlayback) Stop() {
	f.stopped = true
	f.finish()
}

func (f *fakePlayback) finish() {
	f.once.Do(func() { close(f.done) })
}

type fakeOutput struct {
	playbacks []*fakePlayback
	startErr  error
	closed    bool
}

func (f *fakeOutput) Start(buf *Buffer) (Playback, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	pb := newFakePlayback()
	f.playbacks = append(f.playbacks, pb)
	return pb, nil
}

func (f *fakeOutput) Close() error {
	f.closed = true
	return nil
}

func testContext(out *fakeOutput) (*Context, *int) {
	opens := 0
	ctx := NewContext(func() (Output, error) {
		opens++
		return out, nil
	})
	return ctx, &opens
}

func waitCleared(t *testing.T, p *Player) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for p.Playing() {
		if time.Now().After(deadline) {
			t.Fatal("playing state never cleared")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPlayTogglesActivePreview(t *testing.T) {
	out := &fakeOutput{}
	ctx, _ := testContext(out)
	p := NewPlayer(ctx)

	_, started, err := p.Play([]byte{0, 0})
	if err != nil || !started {
		t.Fatalf("first play: started=%v err=%v", started, err)
	}
	if !p.Playing() {
		t.Fatal("should be playing")
	}

	// Second play with no intervening stop halts the first: zero overlap.
	_, started, err = p.Play([]byte{0, 0})
	if err != nil {
		t.Fatalf("second play: %v", err)
	}
	if started {
		t.Error("second play must act as a stop, not start another preview")
	}
	if len(out.playbacks) != 1 {
		t.Fatalf("playbacks = %d, want 1", len(out.playbacks))
	}
	if !out.playbacks[0].stopped {
		t.Error("first preview should have been stopped")
	}
	waitCleared(t, p)
}

func TestNaturalEndClearsState(t *testing.T) {
	out := &fakeOutput{}
	ctx, _ := testContext(out)
	p := NewPlayer(ctx)

	done, started, err := p.Play([]byte{0, 0})
	if err != nil || !started {
		t.Fatalf("play: started=%v err=%v", started, err)
	}

	out.playbacks[0].finish()
	<-done
	waitCleared(t, p)

	// Stop after natural end is a harmless no-op.
	p.Stop()

	// And a fresh play starts again rather than toggling off.
	_, started, err = p.Play([]byte{0, 0})
	if err != nil || !started {
		t.Fatalf("replay: started=%v err=%v", started, err)
	}
}

func TestStopWithoutPlaybackIsNoop(t *testing.T) {
	out := &fakeOutput{}
	ctx, _ := testContext(out)
	p := NewPlayer(ctx)
	p.Stop()
	p.Stop()
}

func TestContextOpenedLazilyOnce(t *testing.T) {
	out := &fakeOutput{}
	ctx, opens := testContext(out)
	p := NewPlayer(ctx)

	if *opens != 0 {
		t.Fatal("context must not open before first use")
	}

	_, _, err := p.Play([]byte{0, 0})
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	out.playbacks[0].finish()
	waitCleared(t, p)

	_, _, err = p.Play([]byte{0, 0})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	if *opens != 1 {
		t.Errorf("opens = %d, want 1 (shared context reused)", *opens)
	}
}

func TestContextCloseAndReopen(t *testing.T) {
	out := &fakeOutput{}
	ctx, opens := testContext(out)
	p := NewPlayer(ctx)

	if _, _, err := p.Play([]byte{0, 0}); err != nil {
		t.Fatalf("play: %v", err)
	}
	p.Stop()
	waitCleared(t, p)

	if err := ctx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !out.closed {
		t.Error("teardown must close the output")
	}

	// Used again after teardown the context resumes with a fresh output.
	if _, _, err := p.Play([]byte{0, 0}); err != nil {
		t.Fatalf("play after close: %v", err)
	}
	if *opens != 2 {
		t.Errorf("opens = %d, want 2", *opens)
	}
}

func TestPlayPropagatesOutputError(t *testing.T) {
	out := &fakeOutput{startErr: errors.New("no device")}
	ctx, _ := testContext(out)
	p := NewPlayer(ctx)

	_, started, err := p.Play([]byte{0, 0})
	if err == nil || started {
		t.Fatalf("play: started=%v err=%v, want error", started, err)
	}
	if p.Playing() {
		t.Error("failed play must not leave playing state set")
	}
}
