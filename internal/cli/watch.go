package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/matzehuels/callsurface/pkg/pipeline"
	"github.com/matzehuels/callsurface/pkg/render/term"
	"github.com/matzehuels/callsurface/pkg/scenario"
)

// watchCommand creates the watch command for playing a scenario in the terminal.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		speed  float64
		loop   bool
		labels bool
		pf     playFlags
	)

	cmd := &cobra.Command{
		Use:   "watch [scenario.toml | builtin]",
		Short: "Play a scenario in the terminal",
		Long: `Play a scenario in the terminal.

The scenario is played first, then its frames are painted in real time (scaled
by --speed). Press q or Esc to quit.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeScenario,
		RunE: func(cmd *cobra.Command, args []string) error {
			if speed <= 0 {
				return fmt.Errorf("speed must be positive, got %g", speed)
			}
			opts, err := c.options()
			if err != nil {
				return err
			}
			pf.apply(cmd, &opts)
			return c.runWatch(cmd.Context(), args[0], opts, speed, loop, labels)
		},
	}

	pf.register(cmd)
	cmd.Flags().Float64Var(&speed, "speed", 1, "playback speed factor")
	cmd.Flags().BoolVar(&loop, "loop", false, "replay until interrupted")
	cmd.Flags().BoolVar(&labels, "labels", true, "draw control labels")

	return cmd
}

// runWatch plays the scenario and paints it until it ends or the user quits.
func (c *CLI) runWatch(ctx context.Context, ref string, opts pipeline.Options, speed float64, loop, labels bool) error {
	sc, err := scenario.Resolve(ref)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Playing %s...", sc.Name))
	spinner.Start()
	run, err := pipeline.NewRunner(nil, nil, c.Logger).Play(ctx, sc, opts)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					cancel()
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}()

	popts := []term.Option{term.WithStatus()}
	if labels {
		popts = append(popts, term.WithLabels())
	}
	painter := term.NewPainter(screen, popts...)

	for {
		err := painter.Play(ctx, run.Frames, speed)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil || !loop {
			return err
		}
	}
}
