package audio

import (
	"sync"
)

// Playback is one in-flight buffer playback.
type Playback interface {
	// Done is closed when playback finishes, naturally or by Stop.
	Done() <-chan struct{}
	// Stop halts playback. Idempotent, and must tolerate being called
	// after the buffer already finished naturally.
	Stop()
}

// Output turns sample buffers into audible playback.
type Output interface {
	Start(buf *Buffer) (Playback, error)
	Close() error
}

// Context is the process-wide audio output handle. Opening an output is
// expensive and platforms cap how many can exist, so one is lazily created
// on first use and reused across previews, then released on session
// teardown. A context used again after teardown reopens transparently, the
// way a suspended browser context resumes.
type Context struct {
	mu     sync.Mutex
	open   func() (Output, error)
	output Output
}

// NewContext wraps an output factory. Nothing is opened yet.
func NewContext(open func() (Output, error)) *Context {
	return &Context{open: open}
}

// acquire returns the shared output, opening it on first use.
func (c *Context) acquire() (Output, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.output == nil {
		out, err := c.open()
		if err != nil {
			return nil, err
		}
		c.output = out
	}
	return c.output, nil
}

// Close releases the shared output. Part of session teardown alongside the
// device stream; harmless when nothing was ever opened.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.output == nil {
		return nil
	}
	err := c.output.Close()
	c.output = nil
	return err
}

// Player plays speech previews with single-flight semantics: at most one
// preview is audible at a time.
type Player struct {
	ctx *Context

	mu      sync.Mutex
	current Playback
}

// NewPlayer creates a player backed by the shared output context.
func NewPlayer(ctx *Context) *Player {
	return &Player{ctx: ctx}
}

// Playing reports whether a preview is currently audible.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}

// Play decodes the PCM byte stream and starts playback. If a preview is
// already playing, the call stops it instead — toggle semantics, never two
// overlapping previews. The returned channel is closed when playback ends;
// started is false when the call acted as a stop. The player clears its own
// playing state when the buffer finishes naturally, so no explicit Stop is
// needed for state to stay correct.
func (p *Player) Play(pcm []byte) (done <-chan struct{}, started bool, err error) {
	p.mu.Lock()
	if p.current != nil {
		cur := p.current
		p.current = nil
		p.mu.Unlock()
		cur.Stop()
		return nil, false, nil
	}
	p.mu.Unlock()

	out, err := p.ctx.acquire()
	if err != nil {
		return nil, false, err
	}

	pb, err := out.Start(NewBuffer(pcm))
	if err != nil {
		return nil, false, err
	}

	p.mu.Lock()
	p.current = pb
	p.mu.Unlock()

	go func() {
		<-pb.Done()
		p.mu.Lock()
		if p.current == pb {
			p.current = nil
		}
		p.mu.Unlock()
	}()

	return pb.Done(), true, nil
}

// Stop halts the active preview if any. Stopping with nothing playing, or
// after the source already finished, is a harmless no-op.
func (p *Player) Stop() {
	p.mu.Lock()
	cur := p.current
	p.current = nil
	p.mu.Unlock()
	if cur != nil {
		cur.Stop()
	}
}
