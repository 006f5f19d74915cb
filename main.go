// tinytable is a single-file, single-table storage engine with a line
// REPL: rows are persisted in a B+Tree of fixed-size pages and queried
// with `insert` and `select` statements.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"tinytable/btree"
	"tinytable/pager"
	"tinytable/row"
	"tinytable/statement"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cachePages int
	var verbose bool
	cmd := &cobra.Command{
		Use:          "tinytable <file.db>",
		Short:        "single-table B+Tree storage engine with a line REPL",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return runREPL(args[0], cachePages)
		},
	}
	cmd.Flags().IntVar(&cachePages, "cache-pages", pager.DefaultCachePages, "clean pages kept in the read cache")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func runREPL(path string, cachePages int) error {
	table, err := btree.Open(path, cachePages)
	if err != nil {
		return err
	}
	defer table.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "db > ",
		HistoryFile:     path + ".history",
		InterruptPrompt: "^C",
	})
	if err != nil {
		return fmt.Errorf("start readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ".") {
			if exit := runMeta(os.Stdout, table, line); exit {
				break
			}
			continue
		}
		runStatement(os.Stdout, table, line)
	}
	return table.Close()
}

func runMeta(w io.Writer, table *btree.Table, line string) (exit bool) {
	switch line {
	case ".exit":
		return true
	case ".btree":
		if err := table.Dump(w); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	case ".constants":
		printConstants(w)
	default:
		fmt.Fprintf(w, "Unrecognized command '%s'.\n", line)
	}
	return false
}

func printConstants(w io.Writer) {
	fmt.Fprintf(w, "ROW_SIZE: %d\n", row.Size)
	fmt.Fprintf(w, "PAGE_SIZE: %d\n", pager.PageSize)
	fmt.Fprintf(w, "LEAF_NODE_MAX_CELLS: %d\n", btree.LeafMaxCells)
	fmt.Fprintf(w, "INTERNAL_NODE_MAX_CELLS: %d\n", btree.InternalMaxCells)
}

func runStatement(w io.Writer, table *btree.Table, line string) {
	st, err := statement.Prepare(line)
	if err != nil {
		fmt.Fprintln(w, prepareMessage(err, line))
		return
	}
	if err := statement.Execute(st, table, w); err != nil {
		fmt.Fprintln(w, executeMessage(err))
		return
	}
	fmt.Fprintln(w, "Executed.")
}

func prepareMessage(err error, line string) string {
	switch {
	case errors.Is(err, row.ErrStringTooLong):
		return "String is too long."
	case errors.Is(err, row.ErrInvalidID):
		return "ID is invalid."
	case errors.Is(err, statement.ErrUnrecognized):
		return fmt.Sprintf("Unrecognized keyword at start of '%s'.", line)
	default:
		return "Syntax error: Could not parse statement."
	}
}

func executeMessage(err error) string {
	switch {
	case errors.Is(err, btree.ErrDuplicateKey):
		return "Error: Duplicate key."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
