package logger

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorRed    = "\033[31m"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var GlobalLogLevel = LogLevelInfo

// SetGlobalLevel sets the level new loggers start with. Unknown names
// fall back to info.
func SetGlobalLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		GlobalLogLevel = LogLevelDebug
	case "warn":
		GlobalLogLevel = LogLevelWarn
	case "error":
		GlobalLogLevel = LogLevelError
	default:
		GlobalLogLevel = LogLevelInfo
	}
}

type Log struct {
	level  LogLevel
	err    error
	fields map[string]any
}

func New() *Log {
	return &Log{
		level: GlobalLogLevel,
	}
}

func (l *Log) SetLevel(level LogLevel) {
	l.level = level
}

func (l *Log) WithError(err error) *Log {
	return &Log{level: l.level, err: err, fields: l.fields}
}

func (l *Log) WithField(key string, value any) *Log {
	fields := make(map[string]any, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Log{level: l.level, err: l.err, fields: fields}
}

func (l *Log) timestamp() string {
	return time.Now().Format("15:04:05")
}

func (l *Log) suffix() string {
	var sb strings.Builder
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%v", k, l.fields[k])
		}
	}
	if l.err != nil {
		fmt.Fprintf(&sb, ": %v", l.err)
	}
	return sb.String()
}

func (l *Log) print(color, tag, msg string) {
	fmt.Printf("%s[%s] %s%s %s%s%s\n", color, l.timestamp(), tag, ColorReset, msg, l.suffix(), ColorReset)
}

func (l *Log) Debug(msg string) {
	if l.level > LogLevelDebug {
		return
	}
	l.print(ColorCyan, "DBG", msg)
}

func (l *Log) Info(msg string) {
	if l.level > LogLevelInfo {
		return
	}
	l.print(ColorBlue, "INF", msg)
}

func (l *Log) Warn(msg string) {
	if l.level > LogLevelWarn {
		return
	}
	l.print(ColorYellow, "WRN", msg)
}

func (l *Log) Error(msg string) {
	l.print(ColorRed, "ERR", msg)
}
