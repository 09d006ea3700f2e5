package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os/exec"
	"sync"
)

// FFplayOutput plays sample buffers through an ffplay child process fed
// 32-bit float PCM on stdin.
type FFplayOutput struct {
	// Binary overrides the ffplay executable path. Empty means "ffplay".
	Binary string
}

// OpenFFplay is a Context factory for the default ffplay output.
func OpenFFplay() (Output, error) {
	bin, err := exec.LookPath("ffplay")
	if err != nil {
		return nil, fmt.Errorf("audio output unavailable: %w", err)
	}
	return &FFplayOutput{Binary: bin}, nil
}

// Start spawns one playback process for the buffer.
func (o *FFplayOutput) Start(buf *Buffer) (Playback, error) {
	bin := o.Binary
	if bin == "" {
		bin = "ffplay"
	}
	cmd := exec.Command(bin,
		"-f", "f32le",
		"-ar", fmt.Sprintf("%d", buf.SampleRate),
		"-ch_layout", "mono",
		"-nodisp", "-autoexit",
		"-loglevel", "quiet",
		"-i", "pipe:0",
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	pb := &processPlayback{cmd: cmd, done: make(chan struct{})}
	go pb.feed(stdin, buf.Samples)
	go pb.wait()
	return pb, nil
}

// Close releases the output. Playback processes run to completion on their
// own; nothing persistent is held between previews.
func (o *FFplayOutput) Close() error { return nil }

type processPlayback struct {
	cmd  *exec.Cmd
	done chan struct{}
	stop sync.Once
}

func (p *processPlayback) feed(w io.WriteCloser, samples []float32) {
	defer w.Close()
	raw := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(s))
	}
	// A stopped playback closes the pipe under us; the write error is the
	// expected way out.
	w.Write(raw)
}

func (p *processPlayback) wait() {
	p.cmd.Wait()
	close(p.done)
}

func (p *processPlayback) Done() <-chan struct{} { return p.done }

// Stop kills the playback process. Safe after natural completion: the
// process is already reaped and the kill is ignored.
func (p *processPlayback) Stop() {
	p.stop.Do(func() {
		if p.cmd.Process != nil {
			p.cmd.Process.Kill()
		}
	})
}
