package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"github.com/richinsley/glscenes/assets"
	"github.com/richinsley/glscenes/encoder"
	"github.com/richinsley/glscenes/gldevice"
	"github.com/richinsley/glscenes/glfwcontext"
	"github.com/richinsley/glscenes/graphics"
	"github.com/richinsley/glscenes/harness"
	"github.com/richinsley/glscenes/headless"
	options "github.com/richinsley/glscenes/options"
	"github.com/richinsley/glscenes/scene"
	"github.com/richinsley/glscenes/translator"
)

func init() {
	runtime.LockOSThread()
}

// newContext opens the GL context for the run mode. The returned bool
// reports a GLES context, whose shaders stay in ESSL.
func newContext(opts *options.SceneOptions) (graphics.Context, bool, func(), error) {
	if *opts.Headless {
		ctx, err := headless.NewHeadless(*opts.Width, *opts.Height)
		if err != nil {
			return nil, false, nil, fmt.Errorf("failed to create headless context: %w", err)
		}
		return ctx, true, func() {}, nil
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		return nil, false, nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	ctx, err := glfwcontext.New(opts, !opts.Record())
	if err != nil {
		glfwcontext.TerminateGraphics()
		return nil, false, nil, fmt.Errorf("failed to create window: %w", err)
	}
	return ctx, false, glfwcontext.TerminateGraphics, nil
}

func run(opts *options.SceneOptions) error {
	ctx, gles, terminate, err := newContext(opts)
	if err != nil {
		return err
	}
	defer terminate()
	defer ctx.Shutdown()

	ctx.MakeCurrent()
	dev, err := gldevice.New()
	if err != nil {
		return err
	}
	log.Printf("OpenGL version: %s", dev.Version())

	cfg := scene.Config{
		Assets:      assets.DirLoader(opts.Assets()),
		CubeMapName: *opts.CubeMapName,
		Translator:  translator.New(gles),
	}
	log.Printf("Loading scene %q from %s", *opts.Scene, opts.Assets())
	sc, err := scene.New(*opts.Scene, dev, cfg)
	if err != nil {
		return fmt.Errorf("failed to construct scene: %w", err)
	}
	defer sc.Destroy()

	if !opts.Record() {
		return harness.Run(ctx, dev, sc)
	}

	sink, err := encoder.NewFFmpegSink(encoder.SettingsFromOptions(opts))
	if err != nil {
		return err
	}
	settings := harness.RecordSettings{
		Width:    *opts.Width,
		Height:   *opts.Height,
		FPS:      *opts.FPS,
		Duration: *opts.Duration,
	}
	if err := harness.Record(dev, sc, settings, sink); err != nil {
		return fmt.Errorf("offscreen rendering failed: %w", err)
	}
	log.Printf("Successfully rendered to %s", *opts.OutputFile)
	return nil
}

func main() {
	opts := options.New(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("glscenes: GL test scene viewer/recorder")
		fmt.Printf("Scenes: %v\n", scene.Names())
		flag.PrintDefaults()
		return
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	if err := run(opts); err != nil {
		log.Fatalf("%v", err)
	}
}
