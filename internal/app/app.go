package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/tdh8316/gitlabenum/internal/cli"
	"github.com/tdh8316/gitlabenum/internal/httpx"
	"github.com/tdh8316/gitlabenum/internal/output"
	"github.com/tdh8316/gitlabenum/internal/probe"
	"github.com/tdh8316/gitlabenum/internal/scan"
	"github.com/tdh8316/gitlabenum/internal/wordlist"
)

// Exit codes. A completed run exits 0 whether or not anything was found.
const (
	ExitOK     = 0
	ExitIO     = 1
	ExitConfig = 2
)

func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := cli.Parse(args, stdout, stderr)
	if err != nil {
		if errors.Is(err, cli.ErrHelp) {
			return ExitOK
		}
		fmt.Fprintln(stderr, err.Error())
		return ExitConfig
	}

	color.NoColor = color.NoColor || opts.NoColor
	log := newLogger(stderr, opts.Verbose)

	candidates, err := wordlist.Load(opts.Wordlist)
	if err != nil {
		log.WithError(err).Error("failed to load wordlist")
		return ExitIO
	}
	log.WithFields(logrus.Fields{
		"wordlist":   opts.Wordlist,
		"candidates": len(candidates),
	}).Debug("wordlist loaded")

	httpClient, err := httpx.NewClient(httpx.ClientConfig{
		Timeout:         opts.Timeout,
		ProxyURL:        opts.Proxy,
		InsecureSkipTLS: opts.Insecure,
		MaxConns:        opts.Threads,
	})
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize HTTP client: %v\n", err)
		return ExitConfig
	}

	prober, err := probe.New(httpClient, probe.Config{
		BaseURL:    opts.URL,
		UserAgent:  opts.UserAgent,
		RegexCheck: opts.RegexCheck,
	}, log)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize prober: %v\n", err)
		return ExitConfig
	}

	noColor := color.NoColor
	console := output.ConsoleWriter(stdout, noColor)
	printer := output.NewPrinter(console, noColor)
	var observer scan.Observer = printer
	if opts.ProgressBar {
		observer = output.NewBarObserver(console, len(candidates), noColor)
	}

	dispatcher := scan.NewDispatcher(prober, scan.Config{
		Threads: opts.Threads,
		Rate:    opts.Rate,
	}, observer, log)

	summary := dispatcher.Run(ctx, candidates)

	log.WithFields(logrus.Fields{
		"total":     summary.Total,
		"found":     len(summary.Found),
		"not_found": summary.NotFound,
		"skipped":   summary.Skipped,
		"errors":    summary.Errors,
	}).Debug("run finished")

	printer.Summary(len(summary.Found), opts.Output)

	if err := output.WriteUsernames(opts.Output, summary.Found); err != nil {
		log.WithError(err).Error("failed to write results")
		return ExitIO
	}
	return ExitOK
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !verbose,
		FullTimestamp:    true,
	})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
