package options

import (
	"flag"
	"fmt"
	"os"
	"runtime"
)

const (
	ModeWindow = "window"
	ModeRecord = "record"

	// AssetsEnv names the asset directory when -assets is not given.
	AssetsEnv     = "GLSCENES_ASSETS"
	defaultAssets = "assets"
)

type SceneOptions struct {
	Scene       *string
	AssetDir    *string
	CubeMapName *string
	Help        *bool
	Mode        *string
	Duration    *float64
	FPS         *int
	Width       *int
	Height      *int
	OutputFile  *string
	FFMPEGPath  *string
	Codec       *string
	Headless    *bool // Render record mode on an EGL pbuffer instead of a hidden window (Linux only)
}

// New registers every option on fs. Call fs.Parse before reading them.
func New(fs *flag.FlagSet) *SceneOptions {
	return &SceneOptions{
		Scene:       fs.String("scene", "cubemap", "Scene to run"),
		AssetDir:    fs.String("assets", "", "Asset directory (from "+AssetsEnv+" env var if not set, else \""+defaultAssets+"\")"),
		CubeMapName: fs.String("cubemap", "BedroomCubeMap", "Cube map face set: <name>_RT.tga ... <name>_BK.tga"),
		Help:        fs.Bool("help", false, "Show help message"),
		Mode:        fs.String("mode", ModeWindow, "Run mode: window or record"),
		Duration:    fs.Float64("duration", 10.0, "Duration to record in seconds"),
		FPS:         fs.Int("fps", 60, "Frames per second for recording"),
		Width:       fs.Int("width", 1280, "Width of the output"),
		Height:      fs.Int("height", 720, "Height of the output"),
		OutputFile:  fs.String("output", "output.mp4", "Output file name for recording"),
		FFMPEGPath:  fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:       fs.String("codec", "h264", "Video codec for recording: h264 or hevc"),
		Headless:    fs.Bool("headless", false, "Record on an EGL pbuffer without a window system (Linux only)"),
	}
}

// Assets resolves the asset directory: the -assets flag, then the
// environment, then the default.
func (o *SceneOptions) Assets() string {
	if *o.AssetDir != "" {
		return *o.AssetDir
	}
	if dir := os.Getenv(AssetsEnv); dir != "" {
		return dir
	}
	return defaultAssets
}

// Record reports whether frames go to a file instead of a window.
func (o *SceneOptions) Record() bool {
	return *o.Mode == ModeRecord
}

// Validate rejects option combinations that cannot run.
func (o *SceneOptions) Validate() error {
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", *o.Width, *o.Height)
	}
	switch *o.Mode {
	case ModeWindow, ModeRecord:
	default:
		return fmt.Errorf("unknown mode %q (want %s or %s)", *o.Mode, ModeWindow, ModeRecord)
	}
	if *o.Scene == "" {
		return fmt.Errorf("no scene given")
	}
	if !o.Record() {
		if *o.Headless {
			return fmt.Errorf("-headless requires -mode %s", ModeRecord)
		}
		return nil
	}
	if *o.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", *o.FPS)
	}
	if *o.Duration <= 0 {
		return fmt.Errorf("invalid duration %v", *o.Duration)
	}
	if int(*o.Duration*float64(*o.FPS)) < 1 {
		return fmt.Errorf("%vs at %d fps records no frames", *o.Duration, *o.FPS)
	}
	if *o.OutputFile == "" {
		return fmt.Errorf("no output file given")
	}
	switch *o.Codec {
	case "h264", "hevc":
	default:
		return fmt.Errorf("unknown codec %q (want h264 or hevc)", *o.Codec)
	}
	if *o.Headless && runtime.GOOS != "linux" {
		return fmt.Errorf("-headless is only supported on linux")
	}
	return nil
}
