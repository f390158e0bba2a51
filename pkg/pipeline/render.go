package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/callsurface/pkg/render"
	"github.com/matzehuels/callsurface/pkg/render/frame"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, run *Run, opts Options) (map[string][]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	frames, err := opts.SelectFrames(run.Frames)
	if err != nil {
		return nil, err
	}

	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		switch format {
		case FormatJSON:
			name := ""
			if run.Scenario != nil {
				name = run.Scenario.Name
			}
			data, err = frame.RenderJSON(frames, frame.WithJSONScenario(name, run.Hash))
		case FormatSVG:
			data = renderSVG(frames, svgOpts)
		case FormatPNG:
			data, err = render.ToPNG(ctx, renderSVG(frames, svgOpts), opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, renderSVG(frames, svgOpts))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderFrame renders a single captured frame.
func RenderFrame(f frame.Frame, opts Options) (map[string][]byte, error) {
	opts.Frame = nil
	return Render(context.Background(), &Run{Frames: []frame.Frame{f}}, opts)
}

// renderSVG draws a lone frame on its own canvas and several frames as a
// strip.
func renderSVG(frames []frame.Frame, opts []frame.SVGOption) []byte {
	if len(frames) == 1 {
		return frame.RenderSVG(frames[0], opts...)
	}
	return frame.RenderStripSVG(frames, opts...)
}

func buildSVGOptions(opts Options) []frame.SVGOption {
	svgOpts := []frame.SVGOption{frame.WithTimestamps()}
	if opts.Labels {
		svgOpts = append(svgOpts, frame.WithLabels())
	}
	return svgOpts
}
