package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/petrijr/sequencer"
	"github.com/petrijr/sequencer/internal/script"
	"github.com/petrijr/sequencer/pkg/api"
	"github.com/petrijr/sequencer/pkg/runloop"
)

var runCmd = &cobra.Command{
	Use:   "run <script.yaml>",
	Short: "Play a script on the console",
	Long: `Run plays a script in real time. Every action prints its name and the
time elapsed since the start.

The sequence is cancelled on SIGINT, SIGTERM or when --timeout expires,
which is the way to stop an autoloop script. Cancelling is not an error.

Examples:
  seqplay run intro.yaml
  seqplay run spinner.yaml --timeout 5s
  seqplay run intro.yaml --journal plays.db`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var (
	runJournal string
	runTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runJournal, "journal", "", "record the sequence history in this SQLite file")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "cancel the sequence after this long (0 means never)")
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := script.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	logger := newLogger(cmd.ErrOrStderr())

	events, closeJournal, err := openJournal(runJournal)
	if err != nil {
		return err
	}
	defer closeJournal()

	loopCfg := runloop.DefaultConfig()
	loopCfg.Logger = logger
	runner, err := sequencer.NewLocalRunnerWithConfig(loopCfg, sequencer.Config{
		Observer: api.NewLoggingObserver(logger),
		Events:   events,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runTimeout)
		defer cancel()
	}

	if err := runner.Start(context.Background()); err != nil {
		return err
	}
	defer runner.Stop()

	start := time.Now()
	bindings := consoleBindings(out, s.ActionNames(), start)

	var id string
	err = runner.Play(ctx, func(d *sequencer.Director) (*sequencer.Sequence, error) {
		seq, err := script.Build(d, s, bindings)
		if err != nil {
			return nil, err
		}
		id = seq.ID()
		return seq, nil
	})

	elapsed := time.Since(start).Round(time.Millisecond)
	switch {
	case err == nil:
		fmt.Fprintf(out, "finished %q in %s\n", s.Title, elapsed)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "cancelled %q after %s\n", s.Title, elapsed)
	default:
		return err
	}
	fmt.Fprintf(out, "sequence: %s\n", id)
	return nil
}
