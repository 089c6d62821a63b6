package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/triage"
	"github.com/aretw0/triage/internal/presentation/tui"
	"github.com/aretw0/triage/pkg/runner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var runCmd = &cobra.Command{
	Use:   "run [query]",
	Short: "Answer one query, or start an interactive session",
	Long: `With a query argument, or with input piped on stdin, triage answers it once and exits.
When stdin is a terminal and no query is given, an interactive session starts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		eng, err := a.engine(cmd)
		if err != nil {
			return err
		}

		jsonMode, _ := cmd.Flags().GetBool("json")
		in, out := cmd.InOrStdin(), cmd.OutOrStdout()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		switch {
		case len(args) > 0:
			return once(ctx, eng, handlerFor(jsonMode, nil, out), strings.Join(args, " "))
		case jsonMode:
			// One request per line.
			r := runner.New(
				runner.WithLogger(a.logger),
				runner.WithSanitizer(a.sanitizer),
				runner.WithInputHandler(runner.NewJSONHandler(in, out)),
			)
			return r.Run(ctx, eng)
		case !isTerminal(in):
			data, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			return once(ctx, eng, handlerFor(false, nil, out), string(data))
		}

		tui.PrintBanner(out, triage.Version)
		r := runner.New(
			runner.WithLogger(a.logger),
			runner.WithSanitizer(a.sanitizer),
			runner.WithInputHandler(runner.NewTextHandler(in, out,
				runner.WithPrompt("> "),
				runner.WithTextHandlerRenderer(tui.NewRenderer()),
			)),
		)
		return r.Run(ctx, eng)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("json", false, "Print results as JSON (reads JSON Lines when no query is given)")

	rootCmd.RunE = runCmd.RunE
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}

func handlerFor(jsonMode bool, in io.Reader, out io.Writer) runner.IOHandler {
	if jsonMode {
		return runner.NewJSONHandler(in, out)
	}
	return runner.NewTextHandler(in, out, runner.WithTextHandlerRenderer(tui.NewRenderer()))
}

// once answers a single query and exits non-zero when it fails.
// The engine sanitizes the query with the configured limit.
func once(ctx context.Context, eng *triage.Engine, h runner.IOHandler, query string) error {
	res, err := eng.Triage(ctx, query)
	if err == nil {
		return h.Output(ctx, res)
	}
	if werr := h.Failure(ctx, err); werr != nil {
		return werr
	}
	return exitCode(1)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
