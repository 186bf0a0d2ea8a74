package logx

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Fields is a map of structured log fields.
type Fields map[string]interface{}

// LogEntry is a single log record handed to a Formatter.
type LogEntry struct {
	Level     Level
	Message   string
	Fields    Fields
	Error     error
	Timestamp time.Time
}

// Formatter serializes a LogEntry into bytes ready for the writer.
type Formatter interface {
	Format(entry *LogEntry) ([]byte, error)
}

// ----------------------------------------------------------------------------
// Console formatter
// ----------------------------------------------------------------------------

// ConsoleFormatter renders "TIME LEVEL message key=value ..." lines.
type ConsoleFormatter struct {
	timeFormat string
}

func NewConsoleFormatter(cfg *Config) *ConsoleFormatter {
	tf := cfg.TimeFormat
	if tf == "" {
		tf = time.RFC3339
	}
	return &ConsoleFormatter{timeFormat: tf}
}

func (f *ConsoleFormatter) Format(entry *LogEntry) ([]byte, error) {
	var b strings.Builder

	b.WriteString(entry.Timestamp.Format(f.timeFormat))
	b.WriteString(fmt.Sprintf(" %-5s ", entry.Level.String()))
	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf(" %s=%v", k, entry.Fields[k]))
		}
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// ----------------------------------------------------------------------------
// JSON formatter
// ----------------------------------------------------------------------------

// JSONFormatter renders one JSON object per line.
type JSONFormatter struct {
	timeFormat string
}

func NewJSONFormatter(cfg *Config) *JSONFormatter {
	tf := cfg.TimeFormat
	if tf == "" {
		tf = time.RFC3339
	}
	return &JSONFormatter{timeFormat: tf}
}

func (f *JSONFormatter) Format(entry *LogEntry) ([]byte, error) {
	record := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		record[k] = v
	}
	record["time"] = entry.Timestamp.Format(f.timeFormat)
	record["level"] = entry.Level.String()
	record["message"] = entry.Message

	out, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
