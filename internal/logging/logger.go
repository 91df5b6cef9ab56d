package logging

import (
	"io"
	"os"
	"strings"

	"github.com/2beens/workoutplanner/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Rotation         RotationParams
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// RotationParams configure the log file rotation. Zero MaxBackups and
// MaxAgeDays keep every rotated file.
type RotationParams struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

const defaultMaxSizeMB = 50

func Setup(params LoggerSetupParams) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if params.SentryEnabled {
		err := sentry.Init(sentry.ClientOptions{
			Environment:      params.Environment,
			Dsn:              params.SentryDSN,
			TracesSampleRate: 1.0,
			ServerName:       params.SentryServerName,
		})
		if err != nil {
			logrus.Errorf("sentry.Init: %s", err)
		}

		hook := NewSentryHook([]logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		logrus.AddHook(hook)

		logrus.Infoln("sentry set up")
	}

	logrus.SetLevel(GetLevel(params.LogLevel))

	output := Output(params, os.Stdout)
	logrus.SetOutput(output)
	switch {
	case params.LogFileName == "":
		logrus.Println("writing logs only to STDOUT")
	case params.LogToStdout:
		logrus.Printf("writing logs to [%s] and STDOUT", fileName(params.LogFileName))
	default:
		logrus.Printf("writing logs to [%s]", fileName(params.LogFileName))
	}
}

// Output picks the log writer: stdout alone without a log file, otherwise
// the rotated file, combined with stdout when LogToStdout is set.
func Output(params LoggerSetupParams, stdout io.Writer) io.Writer {
	if params.LogFileName == "" {
		return stdout
	}

	file := NewRotatingFile(params.LogFileName, params.Rotation)
	if params.LogToStdout {
		return pkg.NewCombinedWriter(stdout, file)
	}
	return file
}

// NewRotatingFile returns a lumberjack logger for name, with a .log suffix
// added when missing. Timestamps in rotated names are UTC.
func NewRotatingFile(name string, rotation RotationParams) *lumberjack.Logger {
	maxSize := rotation.MaxSizeMB
	if maxSize <= 0 {
		maxSize = defaultMaxSizeMB
	}
	return &lumberjack.Logger{
		Filename:   fileName(name),
		MaxSize:    maxSize,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAgeDays,
		Compress:   rotation.Compress,
		LocalTime:  false,
	}
}

func fileName(name string) string {
	if strings.HasSuffix(name, ".log") {
		return name
	}
	return name + ".log"
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn":
		return logrus.WarnLevel
	default:
		return logrus.TraceLevel
	}
}
