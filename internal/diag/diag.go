// Package diag collects the diagnostics of one generation run.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Severity of a diagnostic entry.
type Severity int

const (
	Debug Severity = iota
	Warning
	Skipped
)

func (severity Severity) String() string {
	switch severity {
	case Warning:
		return "warning"
	case Skipped:
		return "skipped"
	}
	return "debug"
}

// Entry is one recorded diagnostic.
type Entry struct {
	Severity Severity
	// Subject names the declaration the entry is about; empty for run-level
	// warnings.
	Subject string
	Message string
}

func (entry Entry) String() string {
	if entry.Subject == "" {
		return fmt.Sprintf("%s: %s", entry.Severity, entry.Message)
	}
	return fmt.Sprintf("%s: %s: %s", entry.Severity, entry.Subject, entry.Message)
}

// Log records diagnostics. In verbose mode every entry is printed as it is
// recorded; otherwise only Summary prints anything.
type Log struct {
	out      io.Writer
	verbose  bool
	colored  bool
	warnings int
	entries  []Entry
}

// New returns a log writing to out. Colors are used only when out is a
// terminal.
func New(out io.Writer, verbose bool) *Log {
	colored := false
	if file, ok := out.(*os.File); ok {
		colored = isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
	}
	return &Log{out: out, verbose: verbose, colored: colored}
}

// Discard returns a log that prints nothing.
func Discard() *Log {
	return New(io.Discard, false)
}

// Warnf records an advisory warning.
func (log *Log) Warnf(format string, args ...interface{}) {
	log.record(Entry{Severity: Warning, Message: fmt.Sprintf(format, args...)})
}

// Skip records that a single declaration was dropped and why.
func (log *Log) Skip(subject string, reason string) {
	log.record(Entry{Severity: Skipped, Subject: subject, Message: reason})
}

// Skipf is Skip with a formatted reason.
func (log *Log) Skipf(subject string, format string, args ...interface{}) {
	log.Skip(subject, fmt.Sprintf(format, args...))
}

// Debugf records an uncounted note, printed only in verbose mode.
func (log *Log) Debugf(format string, args ...interface{}) {
	log.record(Entry{Severity: Debug, Message: fmt.Sprintf(format, args...)})
}

func (log *Log) record(entry Entry) {
	if entry.Severity != Debug {
		log.warnings++
	}
	log.entries = append(log.entries, entry)
	if log.verbose {
		fmt.Fprintln(log.out, log.format(entry))
	}
}

func (log *Log) format(entry Entry) string {
	if !log.colored {
		return entry.String()
	}
	color := "\x1b[2m"
	switch entry.Severity {
	case Warning:
		color = "\x1b[33m"
	case Skipped:
		color = "\x1b[36m"
	}
	text := entry.String()
	prefix := entry.Severity.String()
	return color + prefix + "\x1b[0m" + text[len(prefix):]
}

// Warnings is the number of warnings and skips recorded so far.
func (log *Log) Warnings() int {
	return log.warnings
}

// Entries returns every recorded entry in order.
func (log *Log) Entries() []Entry {
	return log.entries
}

// Skips returns the subjects and reasons of skipped declarations.
func (log *Log) Skips() []Entry {
	var skips []Entry
	for _, entry := range log.entries {
		if entry.Severity == Skipped {
			skips = append(skips, entry)
		}
	}
	return skips
}

// Summary prints the final warning count.
func (log *Log) Summary() {
	fmt.Fprintf(log.out, "%d warning(s)\n", log.warnings)
}
