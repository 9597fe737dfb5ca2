package encoder

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	options "github.com/richinsley/glscenes/options"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// numBuffers bounds how many frames may wait for ffmpeg.
const numBuffers = 3

// ErrClosed is returned when frames are written after Close.
var ErrClosed = errors.New("encoder closed")

// Frame represents a single rendered frame's data, ready for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// Settings describes the output video.
type Settings struct {
	Width      int
	Height     int
	FPS        int
	Codec      string // h264 or hevc
	OutputFile string
	FFMPEGPath string
}

func SettingsFromOptions(o *options.SceneOptions) Settings {
	return Settings{
		Width:      *o.Width,
		Height:     *o.Height,
		FPS:        *o.FPS,
		Codec:      *o.Codec,
		OutputFile: *o.OutputFile,
		FFMPEGPath: *o.FFMPEGPath,
	}
}

// Args builds the ffmpeg arguments for raw RGBA frames on stdin. Frames
// arrive bottom row first, so the output is flipped.
func Args(s Settings) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", s.Width, s.Height),
		"framerate": s.FPS,
	}

	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
		"b:v":     "25M",
	}
	if s.Codec == "hevc" {
		outputArgs["c:v"] = "libx265"
		if strings.HasSuffix(s.OutputFile, ".mp4") {
			outputArgs["tag:v"] = "hvc1"
		}
	} else {
		outputArgs["c:v"] = "libx264"
	}
	return
}

// FFmpegSink pipes frames to an ffmpeg process. WriteFrame is the producer
// side; a goroutine consumes frames and writes them to ffmpeg's stdin.
type FFmpegSink struct {
	frameSize int
	frames    chan *Frame
	failed    chan struct{}
	done      chan error

	mu     sync.Mutex
	err    error
	closed bool
}

// NewFFmpegSink starts ffmpeg writing to s.OutputFile.
func NewFFmpegSink(s Settings) (*FFmpegSink, error) {
	if s.Width <= 0 || s.Height <= 0 || s.FPS <= 0 {
		return nil, fmt.Errorf("invalid encoder settings %dx%d@%d", s.Width, s.Height, s.FPS)
	}
	inputArgs, outputArgs := Args(s)
	log.Printf("Encoding %dx%d@%d with %v to %s", s.Width, s.Height, s.FPS, outputArgs["c:v"], s.OutputFile)

	return newSink(s, func(r io.Reader) error {
		cmd := ffmpeg.Input("pipe:", inputArgs).
			Output(s.OutputFile, outputArgs).
			OverWriteOutput().WithInput(r).ErrorToStdOut()
		if s.FFMPEGPath != "" {
			cmd = cmd.SetFfmpegPath(s.FFMPEGPath)
		}
		return cmd.Run()
	}), nil
}

func newSink(s Settings, run func(io.Reader) error) *FFmpegSink {
	e := &FFmpegSink{
		frameSize: s.Width * s.Height * 4,
		frames:    make(chan *Frame, numBuffers),
		failed:    make(chan struct{}),
		done:      make(chan error, 1),
	}

	pipeReader, pipeWriter := io.Pipe()
	errc := make(chan error, 1)
	go func() {
		err := run(pipeReader)
		// Unblock the writer if ffmpeg exits before reading everything.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()
	go e.runEncoder(pipeWriter, errc)
	return e
}

// runEncoder is the consumer.
func (e *FFmpegSink) runEncoder(pipeWriter *io.PipeWriter, errc <-chan error) {
	var writeErr error
	for frame := range e.frames {
		if writeErr != nil {
			continue
		}
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			writeErr = fmt.Errorf("failed to write frame %d to ffmpeg: %w", frame.PTS, err)
			e.fail(writeErr)
		}
	}
	pipeWriter.Close()

	runErr := <-errc
	if runErr != nil {
		runErr = fmt.Errorf("ffmpeg failed: %w", runErr)
		e.fail(runErr)
		e.done <- runErr
		return
	}
	e.done <- writeErr
}

func (e *FFmpegSink) fail(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		e.err = err
		close(e.failed)
	}
}

// WriteFrame queues one RGBA frame. It blocks while the queue is full and
// returns the consumer's error once encoding has failed. WriteFrame and
// Close belong to a single producer goroutine.
func (e *FFmpegSink) WriteFrame(pixels []byte, pts int64) error {
	if len(pixels) != e.frameSize {
		return fmt.Errorf("frame %d has %d bytes, want %d", pts, len(pixels), e.frameSize)
	}
	e.mu.Lock()
	closed, err := e.closed, e.err
	e.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if err != nil {
		return err
	}

	select {
	case e.frames <- &Frame{Pixels: pixels, PTS: pts}:
		return nil
	case <-e.failed:
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.err
	}
}

// Close flushes queued frames and waits for ffmpeg to exit.
func (e *FFmpegSink) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.closed = true
	e.mu.Unlock()

	close(e.frames)
	return <-e.done
}
