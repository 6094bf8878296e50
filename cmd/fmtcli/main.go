package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	fmtcli "github.com/goliatone/go-fmtcli"
	"github.com/goliatone/go-fmtcli/loader"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "fmtcli",
	})

	ctx, err := fmtcli.NewContext(args,
		fmtcli.WithWarningLogger(fmtcli.WarningLoggerFunc(func(w fmtcli.Warning) {
			logger.Warn(w.String())
		})),
		fmtcli.WithConfigResolver(loader.New()),
		fmtcli.WithEngine(newTextEngine()),
		fmtcli.WithFileEnumerator(newGlobEnumerator(ignorePathFrom(args))),
	)
	if err != nil {
		logger.Error(err.Error())
		return 1
	}

	parsed := ctx.Parsed()
	switch {
	case parsed.Explicit("help"):
		if patterns := ctx.Patterns(); len(patterns) > 0 {
			detail, err := ctx.DetailedUsage(patterns[0])
			if err != nil {
				logger.Error(err.Error())
				return 1
			}
			fmt.Fprint(stdout, detail)
			return 0
		}
		fmt.Fprint(stdout, ctx.Usage())
		return 0
	case parsed.Bool("version"):
		fmt.Fprintln(stdout, fmtcli.Version)
		return 0
	case parsed.Bool("support-info"):
		payload, err := ctx.SupportInfo().ToJSON()
		if err != nil {
			logger.Error(err.Error())
			return 1
		}
		fmt.Fprintln(stdout, string(payload))
		return 0
	}

	if len(ctx.Patterns()) == 0 {
		if err := ctx.FormatStdin(context.Background(), stdin, stdout); err != nil {
			logger.Error(err.Error())
			return 1
		}
		return 0
	}

	mode := ctx.Mode()
	summary, err := ctx.FormatFiles(context.Background())
	if err != nil {
		logger.Error(err.Error())
		return 1
	}

	for _, failure := range summary.Errors {
		logger.Error(failure.Error())
	}
	for _, trace := range summary.Traces {
		payload, err := trace.ToJSON()
		if err != nil {
			continue
		}
		fmt.Fprintln(stdout, string(payload))
	}
	report(stdout, mode, summary)
	return summary.ExitCode(mode)
}

func report(stdout io.Writer, mode fmtcli.RunMode, summary *fmtcli.RunSummary) {
	switch {
	case mode.ListDifferent:
		for _, path := range summary.Changed {
			fmt.Fprintln(stdout, path)
		}
	case mode.Check:
		if len(summary.Changed) == 0 {
			fmt.Fprintln(stdout, "All matched files use fmtcli code style!")
			return
		}
		fmt.Fprintln(stdout, "Code style issues found in the following files:")
		for _, path := range summary.Changed {
			fmt.Fprintf(stdout, "  %s\n", path)
		}
	case mode.Write:
		fmt.Fprintf(stdout, "Formatted %d of %d files.\n", len(summary.Written), summary.Checked)
	}
}

// ignorePathFrom pre-scans the raw arguments for --ignore-path so the
// enumerator can be built before the Context parses for real.
func ignorePathFrom(args []string) string {
	ignorePath := ".fmtcliignore"
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if value, ok := strings.CutPrefix(arg, "--ignore-path="); ok {
			ignorePath = value
			continue
		}
		if arg == "--ignore-path" && i+1 < len(args) {
			ignorePath = args[i+1]
		}
	}
	return ignorePath
}
