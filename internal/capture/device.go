// Package capture owns the device camera/microphone stream and the active
// recording-in-progress, producing a finished video artifact on demand.
package capture

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// AspectRatio selects the capture orientation. Both use the front camera.
type AspectRatio string

const (
	AspectPortrait  AspectRatio = "portrait"  // 720x1280, 9:16
	AspectLandscape AspectRatio = "landscape" // 1280x720, 16:9
)

// Dimensions returns the requested frame size for the ratio.
func (a AspectRatio) Dimensions() (width, height int) {
	if a == AspectLandscape {
		return 1280, 720
	}
	return 720, 1280
}

// DeviceAccessError reports a camera/microphone permission or hardware
// failure. It is surfaced to the user and never retried automatically.
type DeviceAccessError struct {
	Err error
}

func (e *DeviceAccessError) Error() string {
	return fmt.Sprintf("device access: %v", e.Err)
}

func (e *DeviceAccessError) Unwrap() error { return e.Err }

// Stream is a live audio+video stream delivering encoded data fragments in
// arrival order. The channel is closed when the stream ends or is closed.
type Stream interface {
	Chunks() <-chan []byte
	MIMEType() string
	Close() error
}

// Device opens live capture streams.
type Device interface {
	Open(ctx context.Context, aspect AspectRatio) (Stream, error)
}

// chunkSize is the read granularity for encoded output fragments.
const chunkSize = 32 * 1024

// FFmpegDevice captures the default camera and microphone through an ffmpeg
// child process encoding to WebM on stdout.
type FFmpegDevice struct {
	// Binary overrides the ffmpeg executable path. Empty means "ffmpeg".
	Binary string
}

// Open starts an ffmpeg capture at the requested aspect ratio. Any failure
// to spawn the encoder is reported as a DeviceAccessError.
func (d *FFmpegDevice) Open(ctx context.Context, aspect AspectRatio) (Stream, error) {
	bin := d.Binary
	if bin == "" {
		bin = "ffmpeg"
	}

	w, h := aspect.Dimensions()
	args := inputArgs()
	args = append(args,
		"-video_size", fmt.Sprintf("%dx%d", w, h),
		"-c:v", "libvpx", "-c:a", "libopus",
		"-f", "webm",
		"-loglevel", "error",
		"pipe:1",
	)

	cmd := exec.CommandContext(ctx, bin, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &DeviceAccessError{Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &DeviceAccessError{Err: err}
	}

	s := &ffmpegStream{
		cmd:    cmd,
		chunks: make(chan []byte, 16),
	}
	go s.pump(stdout)
	return s, nil
}

// inputArgs selects the platform capture input for the front camera and
// default microphone.
func inputArgs() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"-f", "avfoundation", "-framerate", "30", "-i", "0:0"}
	case "windows":
		return []string{"-f", "dshow", "-i", "video=default:audio=default"}
	default:
		return []string{
			"-f", "v4l2", "-framerate", "30", "-i", "/dev/video0",
			"-f", "alsa", "-i", "default",
		}
	}
}

type ffmpegStream struct {
	cmd    *exec.Cmd
	chunks chan []byte
}

func (s *ffmpegStream) Chunks() <-chan []byte { return s.chunks }

func (s *ffmpegStream) MIMEType() string { return "video/webm" }

func (s *ffmpegStream) pump(r io.Reader) {
	defer close(s.chunks)
	for {
		buf := make([]byte, chunkSize)
		n, err := r.Read(buf)
		if n > 0 {
			s.chunks <- buf[:n]
		}
		if err != nil {
			return
		}
	}
}

// Close stops the encoder process, releasing the camera and microphone.
func (s *ffmpegStream) Close() error {
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	return s.cmd.Wait()
}
