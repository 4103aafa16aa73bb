package badger

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

type slogger struct {
	log *slog.Logger
}

// newLogger returns nil (badger logging disabled) when log is nil.
func newLogger(log *slog.Logger) badger.Logger {
	if log == nil {
		return nil
	}
	return slogger{log: log.With("module", "badger")}
}

func (l slogger) format(format string, args ...interface{}) string {
	s := fmt.Sprintf(format, args...)
	return strings.TrimRight(s, "\n")
}

func (l slogger) Errorf(format string, args ...interface{}) {
	l.log.Error(l.format(format, args...))
}

func (l slogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(l.format(format, args...))
}

func (l slogger) Infof(format string, args ...interface{}) {
	l.log.Info(l.format(format, args...))
}

func (l slogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(l.format(format, args...))
}
