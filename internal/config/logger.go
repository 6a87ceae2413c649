package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logg.SetLevel(level)
}

// Logger returns the process-wide logger.
func Logger() *logrus.Logger {
	return logg
}

// LogError logs an error with module/function context fields.
func LogError(moduleName, funcName string, err error) {
	logg.WithFields(logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
	}).Error(err.Error())
}
