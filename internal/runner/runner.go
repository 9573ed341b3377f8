package runner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"ippi/internal/config"
	"ippi/internal/logger"
	"ippi/internal/stats"
	"ippi/pkg/color"
	"ippi/pkg/fault"
	"ippi/pkg/interpreter"
	"ippi/pkg/source"
)

type Runner struct {
	Help        bool           // Show help message
	Verbose     bool           // Enable verbose output
	NoColor     bool           // Disable colored output
	Trace       bool           // Log every executed instruction
	SourceFile  string         // Path to the program, stdin when empty
	InputFile   string         // Path to the READ input, stdin when empty
	Format      string         // auto, xml or text
	StatsFile   string         // Path to the statistics file
	Metrics     []stats.Metric // Statistics to write, in order
	HistoryFile string         // Path to the SQLite run history
	MaxSteps    int            // Step budget, 0 for unlimited

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// ApplyConfig fills every option left unset on the command line from c
func (r *Runner) ApplyConfig(c *config.Config) error {
	if r.Format == "" {
		r.Format = c.Run.Format
	}
	if r.MaxSteps == 0 {
		r.MaxSteps = c.Run.MaxSteps
	}
	r.Trace = r.Trace || c.Run.Trace
	r.NoColor = r.NoColor || !c.Output.Color

	if r.StatsFile == "" && c.Stats.File != "" {
		r.StatsFile = c.Stats.File
		if len(r.Metrics) == 0 {
			metrics, err := c.Metrics()
			if err != nil {
				return fault.Wrap(fault.MissingParameter, err)
			}
			r.Metrics = metrics
		}
	}
	if r.HistoryFile == "" {
		r.HistoryFile = c.Stats.History
	}

	return nil
}

// Validate checks the parameter combinations before anything is opened
func (r *Runner) Validate() error {
	if r.SourceFile == "" && r.InputFile == "" {
		return fault.Errorf(fault.MissingParameter, "at least one of --source and --input is required")
	}
	if len(r.Metrics) > 0 && r.StatsFile == "" {
		return fault.Errorf(fault.MissingParameter, "--insts and --vars require --stats")
	}
	if r.MaxSteps < 0 {
		return fault.Errorf(fault.MissingParameter, "--max-steps must not be negative")
	}
	if _, err := source.ParseFormat(r.Format); err != nil {
		return fault.Wrap(fault.MissingParameter, err)
	}
	return nil
}

// Run loads the program, executes it and writes the statistics. It returns
// the process exit code together with the error that caused it, if any.
func (r *Runner) Run() (int, error) {
	r.defaults()

	if err := r.Validate(); err != nil {
		return fault.ExitCode(err), err
	}
	format, _ := source.ParseFormat(r.Format)

	if r.NoColor {
		color.EnableColor(false)
	}

	src, closeSrc, err := r.open(r.SourceFile)
	if err != nil {
		return fault.ExitCode(err), err
	}
	defer closeSrc()

	in, closeIn, err := r.open(r.InputFile)
	if err != nil {
		return fault.ExitCode(err), err
	}
	defer closeIn()

	var statsOut *os.File
	if r.StatsFile != "" {
		statsOut, err = os.Create(r.StatsFile)
		if err != nil {
			err = fault.Wrap(fault.OutputFile, err)
			return fault.ExitCode(err), err
		}
		defer statsOut.Close()
	}

	var history *stats.History
	if r.HistoryFile != "" {
		history, err = stats.OpenHistory(r.HistoryFile)
		if err != nil {
			err = fault.Wrap(fault.OutputFile, err)
			return fault.ExitCode(err), err
		}
		defer history.Close()
	}

	started := time.Now()
	log.Info("Loading program", "file", r.name(r.SourceFile), "format", format)

	pb, err := source.Load(src, format)
	if err != nil {
		return fault.ExitCode(err), err
	}
	log.Debug("Program loaded", "instructions", len(pb))

	out := bufio.NewWriter(r.Stdout)
	opts := []interpreter.Option{
		interpreter.WithReader(in),
		interpreter.WithWriter(out),
		interpreter.WithErrWriter(r.Stderr),
		interpreter.WithMaxSteps(r.MaxSteps),
		interpreter.WithVarTracking(slices.Contains(r.Metrics, stats.Vars)),
	}
	if r.Trace {
		opts = append(opts, interpreter.WithTracer(logger.Tracer()))
	}

	it, err := interpreter.NewInterpreter(pb, opts...)
	if err != nil {
		return fault.ExitCode(err), err
	}

	runErr := it.Run()
	if err := out.Flush(); err != nil && runErr == nil {
		runErr = fault.Wrap(fault.Runtime, err)
	}

	code := 0
	if runErr != nil {
		code = fault.ExitCode(runErr)
	} else if _, exitCode := it.Exited(); exitCode != 0 {
		code = exitCode
	}

	s := it.Stats()
	report := stats.Report{Instructions: s.Instructions, MaxVars: s.MaxVars}
	log.Info("Finished", "code", code, "instructions", report.Instructions, "elapsed", time.Since(started))

	if statsOut != nil {
		if err := stats.Write(statsOut, r.Metrics, report); err != nil && runErr == nil {
			runErr = fault.Wrap(fault.OutputFile, err)
			code = fault.ExitCode(runErr)
		}
	}

	if history != nil {
		id, err := history.Record(stats.Run{
			Source:    r.name(r.SourceFile),
			StartedAt: started,
			ExitCode:  code,
			Report:    report,
		})
		if err != nil {
			log.Warn("Failed to record run", "error", err)
		} else {
			log.Debug("Run recorded", "id", id)
		}
	}

	return code, runErr
}

// Diagnostic renders err for stderr
func Diagnostic(err error) string {
	var se *source.SyntaxError
	if errors.As(err, &se) {
		return se.Pretty()
	}
	return color.BrightRedText(err.Error())
}

func (r *Runner) defaults() {
	if r.Stdin == nil {
		r.Stdin = os.Stdin
	}
	if r.Stdout == nil {
		r.Stdout = os.Stdout
	}
	if r.Stderr == nil {
		r.Stderr = os.Stderr
	}
}

// open returns the named file, or stdin for an empty path
func (r *Runner) open(path string) (io.Reader, func(), error) {
	if path == "" {
		return r.Stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fault.Wrap(fault.InputFile, fmt.Errorf("cannot open %s: %w", path, err))
	}
	return f, func() { f.Close() }, nil
}

func (r *Runner) name(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return path
}
