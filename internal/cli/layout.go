package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/callsurface/pkg/callstate"
	"github.com/matzehuels/callsurface/pkg/pipeline"
	"github.com/matzehuels/callsurface/pkg/surface/toast"
)

// layoutFlags holds the call state given on the command line.
type layoutFlags struct {
	state       string
	speaker     string
	audioMenu   bool
	video       callstate.VideoState
	muted       bool
	toasts      []string
	peer        string
	interaction bool
}

// request converts the flags into a layout request.
func (f *layoutFlags) request() (pipeline.LayoutRequest, error) {
	class, err := callstate.ParseClass(f.state)
	if err != nil {
		return pipeline.LayoutRequest{}, err
	}
	speaker, err := callstate.ParseSpeaker(f.speaker)
	if err != nil {
		return pipeline.LayoutRequest{}, err
	}
	kinds := make([]toast.Kind, 0, len(f.toasts))
	for _, name := range f.toasts {
		k, err := toast.ParseKind(name)
		if err != nil {
			return pipeline.LayoutRequest{}, err
		}
		kinds = append(kinds, k)
	}
	interaction := f.interaction
	return pipeline.LayoutRequest{
		Snapshot: callstate.Snapshot{
			Class:             class,
			Speaker:           speaker,
			HasAudioRouteMenu: f.audioMenu,
			Video:             f.video,
		},
		Muted:       f.muted,
		Toasts:      kinds,
		Peer:        f.peer,
		Interaction: &interaction,
	}, nil
}

// layoutCommand creates the layout command for one settled call state.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noColor    bool
		width      float64
		inset      float64
		labels     bool
	)
	flags := layoutFlags{state: "active", speaker: "builtin", interaction: true}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Lay out the control surface for one call state",
		Long: `Lay out the control surface for one call state.

The layout command composes the buttons and toasts for the given call state
with no animation and writes the resulting frame. JSON goes to stdout by
default; use -o to write a file.

Examples:
  callsurface layout --state incoming
  callsurface layout --state active --speaker airpods --muted --toast mute -f svg -o mute.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("width") {
				opts.Width = width
			}
			if cmd.Flags().Changed("inset") {
				opts.BottomInset = &inset
			}
			opts.Labels = labels
			opts.Formats = []string{pipeline.FormatJSON}
			if formatsStr != "" {
				opts.Formats = parseFormats(formatsStr)
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), flags, opts, output, !noColor && isTerminal(os.Stdout))
		},
	}

	// Output flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), svg, png, pdf (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", stdoutPath, "output file, base path for several formats, or - for stdout")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable JSON highlighting on stdout")
	cmd.Flags().BoolVar(&labels, "labels", false, "draw control labels (svg)")

	// Surface flags
	cmd.Flags().Float64Var(&width, "width", pipeline.DefaultWidth, "container width in points")
	cmd.Flags().Float64Var(&inset, "inset", pipeline.DefaultBottomInset, "bottom safe-area inset in points")

	// Call state flags
	cmd.Flags().StringVar(&flags.state, "state", flags.state, "call state: incoming, outgoing-ringing, active")
	cmd.Flags().StringVar(&flags.speaker, "speaker", flags.speaker, "audio route: none, builtin, speaker, headphones, bluetooth, airpods, airpods-pro, airpods-max")
	cmd.Flags().BoolVar(&flags.audioMenu, "audio-menu", false, "the audio route can be picked from a menu")
	cmd.Flags().BoolVar(&flags.video.IsAvailable, "video-available", false, "video is available")
	cmd.Flags().BoolVar(&flags.video.HasVideo, "has-video", false, "the call carries video")
	cmd.Flags().BoolVar(&flags.video.IsCameraActive, "camera", false, "the local camera is on")
	cmd.Flags().BoolVar(&flags.video.IsScreencastActive, "screencast", false, "the screen is being shared")
	cmd.Flags().BoolVar(&flags.video.CanChangeStatus, "can-change-video", false, "the video status can be changed")
	cmd.Flags().BoolVar(&flags.video.IsInitializingCamera, "initializing-camera", false, "the camera is starting")
	cmd.Flags().BoolVar(&flags.muted, "muted", false, "the microphone is muted")
	cmd.Flags().StringSliceVar(&flags.toasts, "toast", nil, "toast(s) to show: camera, microphone, mute, battery")
	cmd.Flags().StringVar(&flags.peer, "peer", "", "peer name used in toast text")
	cmd.Flags().BoolVar(&flags.interaction, "interaction", flags.interaction, "controls accept presses")

	registerCallStateCompletions(cmd)

	return cmd
}

// runLayout composes the frame and writes it.
func (c *CLI) runLayout(ctx context.Context, flags layoutFlags, opts pipeline.Options, output string, color bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	req, err := flags.request()
	if err != nil {
		return err
	}
	f, err := pipeline.Layout(req, opts)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	logger.Debug("composed frame", "controls", len(f.Controls), "toasts", len(f.Toasts), "height", f.Height())
	prog.done("Composed " + req.Snapshot.Class.String() + " surface")

	artifacts, err := pipeline.RenderFrame(f, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return writeArtifacts(os.Stdout, artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		base:      "layout-" + req.Snapshot.Class.String(),
		output:    output,
		frames:    1,
		color:     color,
	})
}
