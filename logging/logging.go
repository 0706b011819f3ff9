// Package logging builds the process-wide *logrus.Logger handle. Callers
// pass it down explicitly; nothing in this module reaches for a package
// level global (spec §9 "Global singletons ... pass handles to subsystems
// that need them, avoid ambient access in library code").
package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds a *logrus.Logger writing to out at the given level name
// ("debug"/"info"/"warn"/"error"). An unrecognized level falls back to
// info rather than failing, since logging configuration should never be
// the reason a process can't start.
func New(out io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

// EventFields builds the structured error-event field set spec §7 requires
// relays to log: {source, sequence, error_kind, context}.
func EventFields(source, errorKind string, sequence uint64, context string) logrus.Fields {
	return logrus.Fields{
		"source":     source,
		"sequence":   sequence,
		"error_kind": errorKind,
		"context":    context,
	}
}
