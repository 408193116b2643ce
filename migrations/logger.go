package migrations

import (
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/MrSnakeDoc/partnerfinder/internal/logger"
)

// gooseLogger sends goose progress lines to the application logger.
type gooseLogger struct {
	log logger.Logger
}

var _ goose.Logger = gooseLogger{}

// NewGooseLogger adapts log to goose.Logger.
func NewGooseLogger(log logger.Logger) goose.Logger {
	return gooseLogger{log: log.Named("migrations")}
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Fatal(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
