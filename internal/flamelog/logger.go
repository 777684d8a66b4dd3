// Package flamelog wires a package-level seelog logger used across every
// pipeline stage. It is disabled by default so embedding the pipeline in a
// larger program never produces unsolicited output.
package flamelog

import (
	"errors"
	"io"

	seelog "github.com/cihub/seelog"
)

var logger seelog.LoggerInterface

func init() {
	DisableLog()
}

// DisableLog disables all pipeline log output.
func DisableLog() {
	logger = seelog.Disabled
}

// UseLogger installs a caller-supplied seelog.LoggerInterface.
// Use this if the host application already runs seelog.
func UseLogger(newLogger seelog.LoggerInterface) {
	logger = newLogger
}

// SetLogWriter directs log output to an io.Writer for callers that are not
// otherwise using seelog.
func SetLogWriter(writer io.Writer) error {
	if writer == nil {
		return errors.New("flamelog: nil writer")
	}
	newLogger, err := seelog.LoggerFromWriterWithMinLevel(writer, seelog.TraceLvl)
	if err != nil {
		return err
	}
	UseLogger(newLogger)
	return nil
}

// FlushLog flushes any buffered log output. Call before process exit.
func FlushLog() {
	logger.Flush()
}

func Debugf(format string, args ...interface{}) { logger.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { logger.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { logger.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { logger.Errorf(format, args...) }
