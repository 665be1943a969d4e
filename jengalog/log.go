// Package jengalog provides the structured logger shared by every engine
// package, grounded in the teacher's split between a human build log and
// machine-readable diagnostics (android/soong's ui/build status/log
// separation), implemented on top of logrus rather than a hand-rolled
// writer.
package jengalog

import (
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// New returns a logger, writing to stderr, configured for the given
// verbosity. When stderr is not a terminal (CI, piped output) it switches
// to JSON so build logs stay
// machine-parseable; interactive terminals get logrus's text formatter with
// color.
func New(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return l
}

// WithArgv attaches a tool invocation's argv as a log field, used when
// --verbose is set so every failure reaches the user with the failing
// project and tool argv (spec.md §7).
func WithArgv(l logrus.FieldLogger, project string, argv []string) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"project": project,
		"argv":    argv,
	})
}
