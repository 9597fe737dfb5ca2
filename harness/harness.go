// Package harness hosts a scene: an interactive loop on a window context and
// a fixed-timestep offscreen recorder.
package harness

import (
	"errors"
	"fmt"
	"log"

	"github.com/richinsley/glscenes/graphics"
	"github.com/richinsley/glscenes/scene"
)

// FrameSink receives recorded frames as RGBA bytes, bottom row first.
type FrameSink interface {
	WriteFrame(pixels []byte, pts int64) error
	Close() error
}

// Run drives sc until the context asks to close. The time step of each
// frame is the context clock delta since the previous frame. A render error
// ends the loop and is returned.
func Run(ctx graphics.Context, dev graphics.Device, sc scene.Scene) error {
	log.Println("Starting interactive render loop...")
	lastTime := ctx.Time()
	var frameCount int64

	for !ctx.ShouldClose() {
		now := ctx.Time()
		deltaTime := float32(now - lastTime)
		lastTime = now

		width, height := ctx.GetFramebufferSize()
		rc := graphics.RenderContext{Width: width, Height: height}

		sc.Update(rc, deltaTime)
		if err := sc.Render(dev, rc); err != nil {
			return fmt.Errorf("frame %d: %w", frameCount, err)
		}

		ctx.EndFrame()
		frameCount++
	}
	log.Printf("Rendered %d frames", frameCount)
	return nil
}

// RecordSettings fixes the offscreen surface and clock.
type RecordSettings struct {
	Width    int
	Height   int
	FPS      int
	Duration float64 // seconds
}

// Frames is the number of frames Duration covers at FPS.
func (s RecordSettings) Frames() int {
	return int(s.Duration * float64(s.FPS))
}

// Record renders Frames() frames into an offscreen target with a fixed time
// step of 1/FPS and hands each one to sink. Frame i is rendered at time
// i/FPS. The sink is closed before Record returns.
func Record(dev graphics.Device, sc scene.Scene, s RecordSettings, sink FrameSink) (err error) {
	if s.Width <= 0 || s.Height <= 0 || s.FPS <= 0 {
		sink.Close()
		return fmt.Errorf("invalid record settings %dx%d@%d", s.Width, s.Height, s.FPS)
	}
	if s.Frames() < 1 {
		sink.Close()
		return fmt.Errorf("%vs at %d fps records no frames", s.Duration, s.FPS)
	}
	log.Println("Starting in record mode...")

	target, err := dev.NewRenderTarget(s.Width, s.Height)
	if err != nil {
		sink.Close()
		return fmt.Errorf("failed to create offscreen target: %w", err)
	}
	defer target.Destroy()
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to finish recording: %w", cerr))
		}
	}()

	rc := graphics.RenderContext{Width: s.Width, Height: s.Height}
	timeStep := float32(1.0 / float64(s.FPS))
	totalFrames := s.Frames()

	for i := 0; i < totalFrames; i++ {
		deltaTime := timeStep
		if i == 0 {
			deltaTime = 0
		}

		target.Bind()
		sc.Update(rc, deltaTime)
		renderErr := sc.Render(dev, rc)
		target.Unbind()
		if renderErr != nil {
			return fmt.Errorf("frame %d: %w", i, renderErr)
		}

		pixels, err := target.ReadPixels()
		if err != nil {
			return fmt.Errorf("error reading pixels on frame %d: %w", i, err)
		}
		if err := sink.WriteFrame(pixels, int64(i)); err != nil {
			return fmt.Errorf("error encoding frame %d: %w", i, err)
		}
		if (i+1)%s.FPS == 0 {
			log.Printf("Recorded %d/%d frames", i+1, totalFrames)
		}
	}
	return nil
}
