package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLogger  = newLogger(os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel)
)

// LogOptions mirrors the log section of the config file.
type LogOptions struct {
	Level      string
	Output     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.SetLevel(level)
	return l
}

// ConfigureLogger applies level and output settings. With Output "file" both
// loggers write to a rotated file as well as the console.
func ConfigureLogger(opts LogOptions) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}

	infoOut := io.Writer(os.Stdout)
	errOut := io.Writer(os.Stderr)
	if opts.Output == "file" && opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		infoOut = io.MultiWriter(os.Stdout, rotator)
		errOut = io.MultiWriter(os.Stderr, rotator)
	}

	InfoLogger = newLogger(infoOut, level)
	ErrorLogger = newLogger(errOut, logrus.ErrorLevel)
}
