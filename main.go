// Package main implements the main entry point for the MOO test-vector to
// JSON converter
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/moo2json/internal/cli"
	"github.com/retroenv/moo2json/internal/config"
	"github.com/retroenv/moo2json/internal/fileprocessor"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	tasks, err := fileprocessor.GetFilesToProcess(opts)
	if err != nil {
		logger.Fatal(err.Error())
	}
	if len(tasks) == 0 {
		logger.Info("No files found to convert", log.String("source", opts.Source))
		return
	}

	processor := fileprocessor.New(logger, opts)
	if err := processor.Run(ctx, tasks); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Conversion failed", log.Err(err))
		os.Exit(1)
	}
}
