package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/salmonumbrella/codetree/internal/render"
	"github.com/salmonumbrella/codetree/internal/snapshot"
	"github.com/salmonumbrella/codetree/internal/viewer"
)

var (
	watchDebounce time.Duration
	watchIcons    bool
	watchPlain    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Redraw the tree of a directory when it changes",
	Long: `Snapshot a directory, print its tree, and print it again after every
settled burst of changes until interrupted.

Structured output prints one tree per change; use -o ndjson for a stream.`,
	Example: `  codetree watch --dir ./src
  codetree watch -d . -o ndjson --query 'keys'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := resolveInput(cmd)
		if err != nil {
			return err
		}
		if src.Dir == "" {
			return fmt.Errorf("watch needs a directory input (--dir)")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		draw := func(ctx context.Context) error {
			files, err := loadFiles(ctx, src)
			if err != nil {
				return err
			}
			session, err := viewer.NewSession(files, sessionOptions())
			if err != nil {
				// a half-written rename can briefly collide; keep watching
				logger.Warn("building tree", zap.Error(err))
				return nil
			}
			restoreState(src, session)
			if !structuredOutputRequested() && isTerminalFunc(out) {
				fmt.Fprint(out, "\033[H\033[2J")
			}
			return printResult(ctx, treeResult{
				session: session,
				opts: render.TreeOptions{
					Root:  src.Label(),
					Plain: watchPlain || !isTerminalFunc(out),
					Icons: watchIcons,
					Theme: currentConfig().Theme,
				},
			})
		}

		if err := draw(ctx); err != nil {
			return err
		}

		w := &snapshot.Watcher{
			Root:     src.Dir,
			Ignore:   currentConfig().Ignore,
			Debounce: watchDebounce,
			Logger:   logger,
		}
		return w.Run(ctx, keepWatching(draw))
	},
}

// keepWatching logs input errors from a redraw instead of ending the watch.
// Files vanish between events and rescans while editors save.
func keepWatching(draw func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		err := draw(ctx)
		var inputErr *snapshot.InputError
		if err != nil && ctx.Err() == nil && errors.As(err, &inputErr) {
			logger.Warn("rescanning directory", zap.Error(err))
			return nil
		}
		return err
	}
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", snapshot.DefaultDebounce, "Wait this long for changes to settle")
	watchCmd.Flags().BoolVar(&watchIcons, "icons", false, "Show file icons")
	watchCmd.Flags().BoolVar(&watchPlain, "plain", false, "Disable colors")
	rootCmd.AddCommand(watchCmd)
}
