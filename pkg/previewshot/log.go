package previewshot

import (
	"github.com/root4loot/goutils/log"
)

// Logger receives the progress lines of a run.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type stdLogger struct{}

func (stdLogger) Debugf(format string, args ...interface{}) { log.Debugf(format, args...) }
func (stdLogger) Infof(format string, args ...interface{})  { log.Infof(format, args...) }
func (stdLogger) Warnf(format string, args ...interface{})  { log.Warnf(format, args...) }
func (stdLogger) Errorf(format string, args ...interface{}) { log.Errorf(format, args...) }

// DefaultLogger returns a Logger backed by the goutils log package.
func DefaultLogger() Logger {
	return stdLogger{}
}

// Init initializes package logging at info level.
func Init() {
	log.Init("previewshot")
	log.SetLevel(log.InfoLevel)
}

// SetDebug enables or disables debug output.
func SetDebug(debug bool) {
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
