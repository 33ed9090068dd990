// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/retroenv/moo2json/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) != 2 {
		return opts, &UsageError{flags: flags}
	}

	opts.Source = args[0]
	opts.Output = args[1]

	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: moo2json [options] <.moo/.moo.gz file or directory> <output file or directory>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.IntVar(&opts.Workers, "j", 0, "number of files to convert concurrently (default: number of CPUs)")
	flags.BoolVar(&opts.Touch, "touch", false, "bump output file mtimes a second apart in test group order after a batch")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
