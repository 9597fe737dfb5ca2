// Package shader compiles GPU programs from asset sources.
package shader

import (
	"fmt"

	"github.com/richinsley/glscenes/assets"
	"github.com/richinsley/glscenes/graphics"
)

// Translator rewrites a source into the dialect of the current context. names
// maps each declared identifier to the identifier used in code.
type Translator interface {
	Translate(source string, stage graphics.Stage) (code string, names map[string]string, err error)
}

// Shader is a linked program plus its uniform location cache. Shaders are
// shared between materials and are reference counted.
type Shader struct {
	dev       graphics.Device
	program   graphics.Program
	names     map[string]string
	locations map[string]int32
	refs      int
}

// New loads the vertex and fragment sources from loader, translates them when
// tr is non-nil, and links them with each attribute bound to its slot.
func New(dev graphics.Device, loader *assets.Loader, vsPath, fsPath string, attributes []graphics.Attribute, tr Translator) (*Shader, error) {
	vsSource, err := loader.ReadText(vsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read vertex shader: %w", err)
	}
	fsSource, err := loader.ReadText(fsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read fragment shader: %w", err)
	}
	return Compile(dev, vsSource, fsSource, attributes, tr)
}

// Compile is New for sources already in memory.
func Compile(dev graphics.Device, vsSource, fsSource string, attributes []graphics.Attribute, tr Translator) (*Shader, error) {
	names := make(map[string]string)
	if tr != nil {
		var vsNames, fsNames map[string]string
		var err error
		vsSource, vsNames, err = tr.Translate(vsSource, graphics.VertexStage)
		if err != nil {
			return nil, err
		}
		fsSource, fsNames, err = tr.Translate(fsSource, graphics.FragmentStage)
		if err != nil {
			return nil, err
		}
		for k, v := range vsNames {
			names[k] = v
		}
		for k, v := range fsNames {
			names[k] = v
		}
	}

	s := &Shader{
		dev:       dev,
		names:     names,
		locations: make(map[string]int32),
	}

	bound := make([]graphics.Attribute, len(attributes))
	for i, a := range attributes {
		bound[i] = graphics.Attribute{Name: s.mapped(a.Name), Slot: a.Slot}
	}

	program, err := dev.CreateProgram(vsSource, fsSource, bound)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	s.program = program
	s.refs = 1
	return s, nil
}

func (s *Shader) mapped(name string) string {
	if m, ok := s.names[name]; ok && m != "" {
		return m
	}
	return name
}

func (s *Shader) Program() graphics.Program { return s.program }

// Use makes the program current.
func (s *Shader) Use() { s.dev.UseProgram(s.program) }

// Uniform returns the location of the uniform declared as name, or -1 when
// the linked program does not use it. Both results are cached, so an inactive
// uniform costs one query per program.
func (s *Shader) Uniform(name string) int32 {
	if loc, ok := s.locations[name]; ok {
		return loc
	}
	loc := s.dev.UniformLocation(s.program, s.mapped(name))
	s.locations[name] = loc
	return loc
}

func (s *Shader) Retain() *Shader {
	s.refs++
	return s
}

// Release drops a reference and deletes the program with the last one.
func (s *Shader) Release() {
	if s == nil || s.refs <= 0 {
		return
	}
	s.refs--
	if s.refs == 0 {
		s.dev.DeleteProgram(s.program)
	}
}

// Destroy deletes the program now, regardless of outstanding references.
func (s *Shader) Destroy() {
	if s == nil || s.refs <= 0 {
		return
	}
	s.refs = 0
	s.dev.DeleteProgram(s.program)
}
