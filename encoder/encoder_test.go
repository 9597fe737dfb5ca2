package encoder

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"testing"

	options "github.com/richinsley/glscenes/options"
)

func TestArgs(t *testing.T) {
	tests := []struct {
		name   string
		s      Settings
		codec  string
		hvc1   bool
		size   string
		frames int
	}{
		{"h264", Settings{Width: 1280, Height: 720, FPS: 60, Codec: "h264", OutputFile: "out.mp4"}, "libx264", false, "1280x720", 60},
		{"hevc mp4", Settings{Width: 640, Height: 480, FPS: 30, Codec: "hevc", OutputFile: "out.mp4"}, "libx265", true, "640x480", 30},
		{"hevc mkv", Settings{Width: 640, Height: 480, FPS: 30, Codec: "hevc", OutputFile: "out.mkv"}, "libx265", false, "640x480", 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out := Args(tt.s)
			if in["f"] != "rawvideo" || in["pix_fmt"] != "rgba" {
				t.Errorf("input format %v/%v", in["f"], in["pix_fmt"])
			}
			if in["s"] != tt.size || in["framerate"] != tt.frames {
				t.Errorf("input geometry %v@%v", in["s"], in["framerate"])
			}
			if out["c:v"] != tt.codec {
				t.Errorf("codec = %v, want %s", out["c:v"], tt.codec)
			}
			if out["vf"] != "vflip" || out["pix_fmt"] != "yuv420p" {
				t.Errorf("output filter %v format %v", out["vf"], out["pix_fmt"])
			}
			if _, ok := out["tag:v"]; ok != tt.hvc1 {
				t.Errorf("tag:v present = %v, want %v", ok, tt.hvc1)
			}
		})
	}
}

func TestSettingsFromOptions(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o := options.New(fs)
	if err := fs.Parse([]string{"-width", "320", "-height", "200", "-fps", "24", "-codec", "hevc", "-output", "a.mkv", "-ffmpeg", "/opt/ffmpeg"}); err != nil {
		t.Fatal(err)
	}
	want := Settings{Width: 320, Height: 200, FPS: 24, Codec: "hevc", OutputFile: "a.mkv", FFMPEGPath: "/opt/ffmpeg"}
	if got := SettingsFromOptions(o); got != want {
		t.Errorf("SettingsFromOptions = %+v, want %+v", got, want)
	}
}

func TestSinkPipesFrames(t *testing.T) {
	s := Settings{Width: 2, Height: 2, FPS: 30}
	var got bytes.Buffer
	sink := newSink(s, func(r io.Reader) error {
		_, err := io.Copy(&got, r)
		return err
	})

	var want []byte
	for i := 0; i < 10; i++ {
		frame := bytes.Repeat([]byte{byte(i)}, 16)
		want = append(want, frame...)
		if err := sink.WriteFrame(frame, int64(i)); err != nil {
			t.Fatalf("WriteFrame %d: %v", i, err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !bytes.Equal(got.Bytes(), want) {
		t.Errorf("ffmpeg received %d bytes, want %d in order", got.Len(), len(want))
	}
	if err := sink.WriteFrame(make([]byte, 16), 10); !errors.Is(err, ErrClosed) {
		t.Errorf("WriteFrame after Close = %v, want ErrClosed", err)
	}
	if err := sink.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close = %v, want ErrClosed", err)
	}
}

func TestSinkRejectsWrongFrameSize(t *testing.T) {
	sink := newSink(Settings{Width: 2, Height: 2, FPS: 30}, func(r io.Reader) error {
		_, err := io.Copy(io.Discard, r)
		return err
	})
	defer sink.Close()
	if err := sink.WriteFrame(make([]byte, 15), 0); err == nil {
		t.Error("short frame accepted")
	}
}

func TestSinkReportsFFmpegFailure(t *testing.T) {
	boom := errors.New("exit status 1")
	sink := newSink(Settings{Width: 2, Height: 2, FPS: 30}, func(r io.Reader) error {
		return boom
	})

	var writeErr error
	for i := 0; i < 100 && writeErr == nil; i++ {
		writeErr = sink.WriteFrame(make([]byte, 16), int64(i))
	}
	if writeErr == nil {
		t.Fatal("writes kept succeeding after ffmpeg exited")
	}
	if err := sink.Close(); !errors.Is(err, boom) {
		t.Errorf("Close = %v, want wrapping %v", err, boom)
	}
}

func TestNewFFmpegSinkValidates(t *testing.T) {
	if _, err := NewFFmpegSink(Settings{Width: 0, Height: 10, FPS: 30}); err == nil {
		t.Error("zero width accepted")
	}
}
