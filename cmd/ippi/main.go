package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"ippi/internal/config"
	"ippi/internal/logger"
	"ippi/internal/runner"
	"ippi/internal/stats"
	"ippi/pkg/fault"
)

// Main entry point for the IPPcode19 interpreter.
func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	options := runner.Runner{}
	var configFile string

	fs := flag.NewFlagSet("ippi", flag.ContinueOnError)
	fs.BoolVar(&options.Help, "h", false, "Show help")
	fs.BoolVar(&options.Help, "help", false, "Show help")
	fs.BoolVar(&options.Verbose, "v", false, "Verbose mode")
	fs.BoolVar(&options.NoColor, "n", false, "No color")
	fs.BoolVar(&options.Trace, "trace", false, "Log every executed instruction")
	fs.StringVar(&options.SourceFile, "source", "", "Program file (XML or text), stdin when omitted")
	fs.StringVar(&options.InputFile, "input", "", "Input for READ, stdin when omitted")
	fs.StringVar(&options.Format, "format", "", "Source format: auto, xml or text")
	fs.StringVar(&options.StatsFile, "stats", "", "Statistics file")
	fs.StringVar(&options.HistoryFile, "history", "", "SQLite database recording every run")
	fs.StringVar(&configFile, "config", "", "Configuration file (default: nearest "+config.FileName+")")
	fs.IntVar(&options.MaxSteps, "max-steps", 0, "Stop after this many instructions, 0 for no limit")

	// metrics are written in the order they appear on the command line
	fs.BoolFunc("insts", "Write the number of executed instructions to the statistics file", func(string) error {
		options.Metrics = append(options.Metrics, stats.Insts)
		return nil
	})
	fs.BoolFunc("vars", "Write the peak number of initialized variables to the statistics file", func(string) error {
		options.Metrics = append(options.Metrics, stats.Vars)
		return nil
	})

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return fault.MissingParameter.ExitCode()
	}

	logger.Init(os.Stderr, options.Verbose, options.Trace, options.NoColor)

	if options.Help {
		if fs.NFlag() > 1 || fs.NArg() > 0 {
			log.Error("--help cannot be combined with other parameters")
			return fault.MissingParameter.ExitCode()
		}
		fmt.Printf("Usage: %s [options]\n", os.Args[0])
		fmt.Println("Interprets an IPPcode19 program. At least one of --source and --input is required.")
		fmt.Println("Options:")
		fs.SetOutput(os.Stdout)
		fs.PrintDefaults()
		return 0
	}

	if fs.NArg() > 0 {
		log.Error("Unexpected arguments", "args", fs.Args(), "help", fmt.Sprintf("%s -h", os.Args[0]))
		return fault.MissingParameter.ExitCode()
	}

	cfg, err := loadConfig(configFile)
	if err != nil {
		log.Error("Invalid configuration", "error", err)
		return fault.MissingParameter.ExitCode()
	}
	if err := options.ApplyConfig(cfg); err != nil {
		log.Error("Invalid configuration", "error", err)
		return fault.ExitCode(err)
	}
	// the config file may enable trace or disable color
	if options.Trace || options.NoColor {
		logger.Init(os.Stderr, options.Verbose, options.Trace, options.NoColor)
	}
	if cfg.Path != "" {
		log.Debug("Configuration loaded", "file", cfg.Path)
	}

	code, err := options.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, runner.Diagnostic(err))
	}
	return code
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FindAndLoad(".")
}
