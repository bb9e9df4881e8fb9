package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New создает логгер приложения. Режим определяется по GIN_MODE: в release
// пишется json с уровнем Info, во всех остальных окружениях - текстовый
// формат с Debug.
func New(output io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(output)

	if os.Getenv("GIN_MODE") == "release" {
		l.SetFormatter(new(logrus.JSONFormatter))
		l.SetLevel(logrus.InfoLevel)
		return l
	}

	l.SetFormatter(new(logrus.TextFormatter))
	l.SetLevel(logrus.DebugLevel)
	return l
}
