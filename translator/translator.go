// Package translator converts ESSL 3.00 shader sources to the dialect of the
// current context.
package translator

import (
	"context"
	"fmt"
	"sync"

	"github.com/richinsley/glscenes/graphics"
	gst "github.com/richinsley/goshadertranslator"
)

var (
	translatorOnce sync.Once
	translator     *gst.ShaderTranslator
	translatorErr  error
)

// getTranslator builds the shared translator on first use.
func getTranslator() (*gst.ShaderTranslator, error) {
	translatorOnce.Do(func() {
		translator, translatorErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, translatorErr
}

// Translator translates WebGL2-flavoured sources. On a GLES context the output
// stays ESSL; otherwise it is GLSL 4.10 core.
type Translator struct {
	gles bool
}

func New(gles bool) *Translator {
	return &Translator{gles: gles}
}

// Translate returns the translated source and a map from each declared
// variable name to the name it carries in the output.
func (t *Translator) Translate(source string, stage graphics.Stage) (string, map[string]string, error) {
	tr, err := getTranslator()
	if err != nil {
		return "", nil, fmt.Errorf("failed to create shader translator: %w", err)
	}

	outputFormat := gst.OutputFormatGLSL410
	if t.gles {
		outputFormat = gst.OutputFormatESSL
	}
	out, err := tr.TranslateShader(source, stage.String(), gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return "", nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}

	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		names[name] = v.MappedName
	}
	return out.Code, names, nil
}
