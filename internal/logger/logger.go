package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"ippi/pkg/program"
)

// Init initializes the logger. Program output owns stdout, so logs go to w
// (stderr when nil). trace lowers the level far enough for Tracer output.
func Init(w io.Writer, verbose, trace, noColor bool) {
	if w == nil {
		w = os.Stderr
	}

	log.SetDefault(log.NewWithOptions(w,
		log.Options{
			ReportCaller:    verbose,
			ReportTimestamp: false,
			TimeFormat:      time.RFC3339,
			Prefix:          "IPPI",
		}))

	log.SetLevel(log.WarnLevel)
	if verbose || trace {
		log.SetLevel(log.DebugLevel)
	}

	log.SetColorProfile(termenv.ANSI256)
	if noColor {
		log.SetColorProfile(termenv.Ascii)
	}
}

// Tracer returns a hook that logs every instruction before it executes
func Tracer() func(program.Instruction) {
	return func(in program.Instruction) {
		args := make([]string, len(in.Args))
		for n, a := range in.Args {
			args[n] = a.String()
		}
		log.Debug("exec", "order", in.Order, "op", in.Op, "args", args)
	}
}
