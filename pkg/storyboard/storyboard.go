// Package storyboard frames resolved prompts as storyboard panels for a
// downstream image generator.
package storyboard

import (
	"fmt"
	"strings"

	"storyboard/pkg/schema"
)

const (
	DefaultTemplate       = "Storyboard sketch of %s, black and white, cinematic, high quality"
	DefaultNegativePrompt = "ugly, deformed, disfigured, poor details, bad anatomy, abstract, bad physics"
	DefaultResolution     = "1:1"
	DefaultGuidanceScale  = 8.5
	DefaultSteps          = 30
)

// Dimensions maps an aspect ratio to a width and height in pixels.
var Dimensions = map[string][2]int{
	"16:9": {1024, 576},
	"1:1":  {1024, 1024},
	"9:16": {576, 1024},
}

// Framer turns prompts into frames. The zero value uses the defaults.
type Framer struct {
	Template       string
	NegativePrompt string
	GuidanceScale  float64
	Steps          int
}

func NewFramer() *Framer {
	return &Framer{
		Template:       DefaultTemplate,
		NegativePrompt: DefaultNegativePrompt,
		GuidanceScale:  DefaultGuidanceScale,
		Steps:          DefaultSteps,
	}
}

// Size returns the dimensions for resolution and the resolution actually
// used. Unknown resolutions fall back to 1:1.
func Size(resolution string) (width, height int, used string) {
	resolution = strings.TrimSpace(resolution)
	if d, ok := Dimensions[resolution]; ok {
		return d[0], d[1], resolution
	}
	d := Dimensions[DefaultResolution]
	return d[0], d[1], DefaultResolution
}

// Frames builds one frame per prompt, numbered from 1.
func (f *Framer) Frames(prompts []string, resolution string) ([]schema.Frame, string) {
	width, height, used := Size(resolution)
	tmpl := f.Template
	if !strings.Contains(tmpl, "%s") {
		tmpl = DefaultTemplate
	}
	negative := f.NegativePrompt
	if negative == "" {
		negative = DefaultNegativePrompt
	}
	guidance := f.GuidanceScale
	if guidance <= 0 {
		guidance = DefaultGuidanceScale
	}
	steps := f.Steps
	if steps <= 0 {
		steps = DefaultSteps
	}

	frames := make([]schema.Frame, 0, len(prompts))
	for i, p := range prompts {
		frames = append(frames, schema.Frame{
			Index:          i + 1,
			Caption:        p,
			Prompt:         fmt.Sprintf(tmpl, strings.TrimSuffix(p, ".")),
			NegativePrompt: negative,
			Width:          width,
			Height:         height,
			GuidanceScale:  guidance,
			Steps:          steps,
		})
	}
	return frames, used
}
