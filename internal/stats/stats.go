// Package stats writes execution statistics and keeps a run history.
package stats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

type Metric string

const (
	Insts Metric = "insts" // instructions executed
	Vars  Metric = "vars"  // peak number of initialized variables
)

// ParseMetric accepts a metric name with or without the leading dashes of its flag.
func ParseMetric(s string) (Metric, error) {
	for len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}

	switch Metric(s) {
	case Insts, Vars:
		return Metric(s), nil
	default:
		return "", fmt.Errorf("unknown statistic %q", s)
	}
}

type Report struct {
	Instructions int
	MaxVars      int
}

// Value returns the number reported for m
func (r Report) Value(m Metric) int {
	if m == Vars {
		return r.MaxVars
	}
	return r.Instructions
}

// Write prints one number per line, in the order the metrics were requested.
func Write(w io.Writer, metrics []Metric, r Report) error {
	bw := bufio.NewWriter(w)
	for _, m := range metrics {
		if _, err := bw.WriteString(strconv.Itoa(r.Value(m)) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
