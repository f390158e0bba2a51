package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/callsurface/pkg/pipeline"
	"github.com/matzehuels/callsurface/pkg/scenario"
)

// playFlags holds the command-line flags shared by play and watch.
type playFlags struct {
	immediate bool
	width     float64
	inset     float64
}

func (f *playFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.immediate, "immediate", false, "apply state changes without animation")
	cmd.Flags().Float64Var(&f.width, "width", pipeline.DefaultWidth, "container width in points (a scenario width wins)")
	cmd.Flags().Float64Var(&f.inset, "inset", pipeline.DefaultBottomInset, "bottom safe-area inset in points (a scenario inset wins)")
}

// apply copies the flags the user set into opts.
func (f *playFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	if cmd.Flags().Changed("immediate") {
		opts.Immediate = f.immediate
	}
	if cmd.Flags().Changed("width") {
		opts.Width = f.width
	}
	if cmd.Flags().Changed("inset") {
		inset := f.inset
		opts.BottomInset = &inset
	}
}

// playCommand creates the play command for rendering a scenario.
func (c *CLI) playCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		list       bool
		frame      int
		pf         playFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "play [scenario.toml | builtin]",
		Short: "Play a scenario and render its frames",
		Long: `Play a scenario and render its frames.

A scenario is a TOML script of timed call-state changes and button presses.
The play command drives the control surface through it on a virtual clock,
samples a frame at every scenario tick, and renders the frames as JSON or as an
SVG strip (PNG and PDF need rsvg-convert).

Builtin scenarios can be named instead of a file; list them with --list.

Results are cached for faster subsequent runs.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeScenario,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list || len(args) == 0 {
				return listBuiltins()
			}
			base, err := c.options()
			if err != nil {
				return err
			}
			base.Formats = parseFormats(formatsStr)
			base.Labels = opts.Labels
			base.Refresh = opts.Refresh
			if cmd.Flags().Changed("frame") {
				base.Frame = &frame
			}
			pf.apply(cmd, &base)
			if err := pipeline.ValidateFormats(base.Formats); err != nil {
				return err
			}
			return c.runPlay(cmd.Context(), args[0], base, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "replay even when cached")
	cmd.Flags().BoolVar(&list, "list", false, "list builtin scenarios")

	// Play flags
	pf.register(cmd)

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, png, pdf (comma-separated)")
	cmd.Flags().IntVar(&frame, "frame", 0, "render only this frame index")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "draw control labels (svg)")

	return cmd
}

// runPlay resolves the scenario, runs the pipeline and writes the artifacts.
func (c *CLI) runPlay(ctx context.Context, ref string, opts pipeline.Options, output string, noCache bool) error {
	sc, err := scenario.Resolve(ref)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Playing %s...", sc.Name))
	spinner.Start()

	result, err := runner.Execute(ctx, sc, opts)
	if err != nil {
		spinner.StopWithError("Play failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	frames := result.Stats.Frames
	if frames == 0 {
		frames = sc.Frames()
	}
	if err := writeArtifacts(os.Stdout, artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		base:      sc.Name,
		output:    output,
		cacheHit:  result.CacheInfo.RenderHit,
		frames:    frames,
		color:     isTerminal(os.Stdout),
	}); err != nil {
		return err
	}
	if output == stdoutPath {
		return nil
	}

	if result.Run != nil {
		printEvents(result.Run.Events)
	}
	printNewline()
	printNextStep("Watch", appName+" watch "+ref)
	return nil
}

// listBuiltins prints the builtin scenarios with their descriptions.
func listBuiltins() error {
	printLine(StyleTitle.Render("Builtin scenarios"))
	for _, name := range scenario.Builtins() {
		sc, err := scenario.Builtin(name)
		if err != nil {
			return err
		}
		printKeyValue(name, sc.Description)
	}
	return nil
}
