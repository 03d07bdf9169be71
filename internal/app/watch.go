package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gradebook/internal/datafile"
	"github.com/blackwell-systems/gradebook/internal/logger"
	"github.com/blackwell-systems/gradebook/internal/output"
	"github.com/blackwell-systems/gradebook/internal/watcher"
)

var watchFlagDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the student table whenever the data file changes",
	Long: `Print the student table, then print it again every time the data file
changes, for example when another terminal runs 'gradebook grade add'.

Runs until interrupted with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchFlagDebounce, "debounce", watcher.DefaultDebounce, "Wait this long after the last change before redrawing")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	path := s.file.Path()
	render := func() {
		students, err := s.file.Load()
		if err != nil && !errors.Is(err, datafile.ErrNotFound) {
			fmt.Fprintf(s.errOut, "Warning: %v\n", err)
			return
		}
		fmt.Fprintf(s.out, "\n%s  %s\n", time.Now().Format("15:04:05"), path)
		fmt.Fprint(s.out, output.RenderStudentTable(students))
	}

	render()
	fmt.Fprintln(s.out, "\nWatching for changes. Press Ctrl-C to stop.")

	// Stop on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.L().Info("watch.start", "path", path)
	err = watcher.Watch(ctx, path, render,
		watcher.WithDebounce(watchFlagDebounce),
		watcher.WithErrorHandler(func(err error) {
			logger.L().Warn("watch.error", "error", err)
		}),
	)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	fmt.Fprintln(s.out, "\nStopped watching.")
	return nil
}
