// Package logging builds the CLI's debug logger.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w. Debug output is discarded unless debug
// is set.
func New(w io.Writer, debug bool) *log.Logger {
	logger := log.New(w)
	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}
