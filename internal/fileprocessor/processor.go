// Package fileprocessor handles file discovery and batch conversion.
package fileprocessor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/retroenv/moo2json/internal/jsonwriter"
	"github.com/retroenv/moo2json/internal/loader"
	"github.com/retroenv/moo2json/internal/moo"
	"github.com/retroenv/moo2json/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Task describes one file conversion.
type Task struct {
	Input  string
	Output string
}

// Processor converts a batch of MOO files. Each file is an independent
// decode and write with no shared state; failures are logged per file and
// do not abort the batch.
type Processor struct {
	logger *log.Logger
	opts   options.Program
}

// New creates a new file processor.
func New(logger *log.Logger, opts options.Program) *Processor {
	return &Processor{
		logger: logger,
		opts:   opts,
	}
}

// GetFilesToProcess returns the conversion tasks for the given options.
// A directory source is scanned for .moo/.moo.gz files (case-insensitive)
// in sorted name order, with output names derived per file; a file source
// produces a single task writing to the output path as given.
func GetFilesToProcess(opts options.Program) ([]Task, error) {
	info, err := os.Stat(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("reading source %s: %w", opts.Source, err)
	}

	if !info.IsDir() {
		if dir := filepath.Dir(opts.Output); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
			}
		}
		return []Task{{Input: opts.Source, Output: opts.Output}}, nil
	}

	entries, err := os.ReadDir(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", opts.Source, err)
	}
	if err := os.MkdirAll(opts.Output, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", opts.Output, err)
	}

	var tasks []Task
	for _, entry := range entries {
		if entry.IsDir() || !isMooFile(entry.Name()) {
			continue
		}
		tasks = append(tasks, Task{
			Input:  filepath.Join(opts.Source, entry.Name()),
			Output: filepath.Join(opts.Output, OutputBasename(entry.Name())+".json"),
		})
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Input < tasks[j].Input })
	return tasks, nil
}

// OutputBasename derives the output base name by stripping a trailing
// .moo or .moo.gz suffix, case-insensitively.
func OutputBasename(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".moo.gz"):
		return name[:len(name)-len(".moo.gz")]
	case strings.HasSuffix(lower, ".moo"):
		return name[:len(name)-len(".moo")]
	default:
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
}

func isMooFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".moo") || strings.HasSuffix(lower, ".moo.gz")
}

// Run converts all tasks using a fixed pool of workers. It returns the
// context error when cancelled; per-file failures are logged only.
func (p *Processor) Run(ctx context.Context, tasks []Task) error {
	queue := make(chan Task)
	var wg sync.WaitGroup

	for range p.opts.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range queue {
				p.processFile(task)
			}
		}()
	}

	err := ctx.Err()
feed:
	for _, task := range tasks {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case queue <- task:
		}
	}
	close(queue)
	wg.Wait()

	if err != nil {
		return err
	}
	if p.opts.Touch && len(tasks) > 0 {
		if touchErr := UpdateFileTimes(p.logger, filepath.Dir(tasks[0].Output)); touchErr != nil {
			p.logger.Error("Updating file times failed", log.Err(touchErr))
		}
	}
	return nil
}

// processFile converts a single file: load (and gunzip), decode, write.
func (p *Processor) processFile(task Task) {
	if err := p.convert(task); err != nil {
		p.logger.Error("Converting failed",
			log.String("file", task.Input), log.Err(err))
		return
	}
	p.logger.Info("Converted", log.String("file", task.Input),
		log.String("output", task.Output))
}

func (p *Processor) convert(task Task) error {
	data, err := loader.Load(task.Input)
	if err != nil {
		return fmt.Errorf("loading input: %w", err)
	}

	container, err := moo.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}

	p.logger.Debug("Decoded file",
		log.String("file", task.Input),
		log.Uint8("version", container.Version),
		log.String("cpu", container.CPUName),
		log.Int("tests", len(container.Tests)))
	if md := container.Metadata; md != nil {
		p.logger.Debug("File metadata",
			log.String("mnemonic", md.Mnemonic),
			log.Hex("opcode", md.Opcode))
	}

	file, err := os.Create(task.Output)
	if err != nil {
		return fmt.Errorf("creating output file %s: %w", task.Output, err)
	}

	if err := jsonwriter.Write(file, container); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing output: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing output file %s: %w", task.Output, err)
	}
	return nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		if len(commit) > 7 {
			commit = commit[:7]
		}
		versionString += fmt.Sprintf(" (%s)", commit)
	}

	logger.Info("moo2json", log.String("version", versionString))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
