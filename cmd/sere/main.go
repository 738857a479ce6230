// Command sere is a thin CLI driver over the embedding API: parse a
// file to its AST shape, evaluate it to JSON, or reformat it, plus a
// `builtins` subcommand that renders internal/config's built-in table
// as documentation (so the table has exactly one source of truth).
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"golang.org/x/sync/errgroup"

	"github.com/serelang/sere/internal/config"
	"github.com/serelang/sere/internal/evaluator"
	"github.com/serelang/sere/internal/lexer"
	"github.com/serelang/sere/internal/loader"
	"github.com/serelang/sere/internal/parser"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "sere",
		Short: "Sere — a JSON-isomorphic configuration language",
	}
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "emit debug-level evaluation tracing")

	root.AddCommand(newEvalCmd(&verbose), newParseCmd(), newFmtCmd(), newBuiltinsCmd())
	return root
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func newEvalCmd(verbose *bool) *cobra.Command {
	var hermetic bool
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "eval <file>...",
		Short: "evaluate one or more files and print their results as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(*verbose)
			ctx := context.Background()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			results := make([][]byte, len(args))

			g, gctx := errgroup.WithContext(ctx)
			for i, file := range args {
				i, file := i, file
				g.Go(func() error {
					out, err := evalFile(gctx, file, hermetic, log)
					if err != nil {
						return fmt.Errorf("%s: %w", file, err)
					}
					results[i] = out
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			for i, file := range args {
				if len(args) > 1 {
					fmt.Printf("%s:\n", file)
				}
				os.Stdout.Write(pretty.Color(pretty.Pretty(results[i]), nil))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&hermetic, "hermetic", false, "disallow filesystem/env loaders (spec.md §5's hermetic mode)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "cooperative evaluation deadline, checked between statements (0 disables)")
	return cmd
}

func evalFile(ctx context.Context, file string, hermetic bool, log zerolog.Logger) ([]byte, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	resolver := loader.NewResolver(file, hermetic,
		loader.NewRetrying(loader.Filesystem{}),
		loader.NewRetrying(loader.Environment{}),
	)
	ev := evaluator.New(file, resolver, log)
	val, err := ev.EvalProgramContext(ctx, string(src))
	if err != nil {
		return nil, err
	}
	return evaluator.Serialize(val)
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "parse a file and report syntax errors, if any",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			ts := lexer.NewTokenStream(lexer.New(string(src)))
			p := parser.New(ts, args[0])
			p.ParseProgram()
			if !p.Errors().Empty() {
				for _, e := range p.Errors().All() {
					fmt.Fprintln(os.Stderr, e.Error())
				}
				return p.Errors().Combined()
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func newFmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt <file>",
		Short: "parse and re-evaluate a file, printing its canonical JSON form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := evalFile(context.Background(), args[0], false, zerolog.Nop())
			if err != nil {
				return err
			}
			os.Stdout.Write(pretty.Pretty(out))
			return nil
		},
	}
}

func newBuiltinsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "builtins",
		Short: "list the fixed built-in pattern table",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sb strings.Builder
			sb.WriteString("| Name | Arity | Description |\n")
			sb.WriteString("|------|-------|-------------|\n")
			for _, b := range config.Builtins {
				fmt.Fprintf(&sb, "| `%s` | %d | %s |\n", b.Name, b.Arity, b.Doc)
			}
			fmt.Print(sb.String())
			return nil
		},
	}
}
