package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is usable before InitLogger runs so that packages logging during
// startup or in tests never hit a nil logger.
var Log = logrus.New()

// InitLogger configures the shared structured logger. JSON output keeps the
// archive's log stream machine-readable for the audit pipeline.
func InitLogger() {
	Log.Out = os.Stdout
	Log.SetFormatter(&logrus.JSONFormatter{})

	level := logrus.InfoLevel
	if parsed, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		level = parsed
	}
	Log.SetLevel(level)
}
