// Package logging builds the structured logger shared by the CLI.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

type Options struct {
	Level string
	// Format is "text", "json" or "logfmt".
	Format string
	Prefix string
}

func New(w io.Writer, opt Options) (*log.Logger, error) {
	level, err := log.ParseLevel(strings.ToLower(orDefault(opt.Level, "info")))
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	var formatter log.Formatter
	switch orDefault(opt.Format, "text") {
	case "text":
		formatter = log.TextFormatter
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	default:
		return nil, fmt.Errorf("logging: unknown format %q", opt.Format)
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		Prefix:          opt.Prefix,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	}), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
