package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/callsurface/pkg/render/fsm"
)

// fsmCommand creates the fsm command for drawing the control state machines.
func (c *CLI) fsmCommand() *cobra.Command {
	var (
		format    string
		output    string
		clustered bool
		scale     float64
	)

	cmd := &cobra.Command{
		Use:   "fsm [press|morph]...",
		Short: "Draw the press and morph state machines of a control",
		Long: `Draw the press and morph state machines of a control.

Every toggleable control runs two small machines: the press bounce (scale in
on touch down, spring back on release) and the morph that reveals or hides
its "on" fill. This command writes them as Graphviz DOT, SVG or PNG.`,
		ValidArgs: []string{"press", "morph"},
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = []string{"press", "morph"}
			}
			return c.runFSM(cmd.Context(), names, format, output, fsm.Options{Clustered: clustered || len(names) > 1}, scale)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", stdoutPath, "output file or - for stdout")
	cmd.Flags().BoolVar(&clustered, "clustered", false, "box each machine even when drawing one")
	cmd.Flags().Float64Var(&scale, "scale", 2, "PNG scale factor")

	return cmd
}

// runFSM renders the named machines.
func (c *CLI) runFSM(ctx context.Context, names []string, format, output string, opts fsm.Options, scale float64) error {
	all := fsm.Machines()
	var machines []fsm.Machine
	for _, name := range slices.Compact(names) {
		machines = append(machines, all[name])
	}
	dot := fsm.ToDOT(machines, opts)
	prog := newProgress(loggerFromContext(ctx))

	var (
		data []byte
		err  error
	)
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = fsm.RenderSVG(ctx, dot)
	case "png":
		data, err = fsm.RenderPNG(ctx, dot, scale)
	default:
		return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', or 'png')", format)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	if format != "dot" {
		prog.done("Laid out " + format + " with graphviz")
	}

	if output == stdoutPath {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Rendered %d state machine(s)", len(machines))
	printFile(output)
	return nil
}
