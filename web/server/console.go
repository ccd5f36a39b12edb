package server

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warn", "error"
}

// consoleCore is a zapcore.Core that forwards entries to a web console channel
type consoleCore struct {
	zapcore.LevelEnabler
	renderID    string
	fields      []zapcore.Field
	consoleChan chan<- ConsoleMessage
}

// NewConsoleLogger returns a logger that writes to base and also sends every
// entry to consoleChan. Sends never block; messages are dropped when the
// channel is full.
func NewConsoleLogger(base *zap.Logger, renderID string, consoleChan chan<- ConsoleMessage) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	console := &consoleCore{
		LevelEnabler: zapcore.DebugLevel,
		renderID:     renderID,
		consoleChan:  consoleChan,
	}
	return zap.New(zapcore.NewTee(base.Core(), console))
}

func (c *consoleCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field(nil), c.fields...), fields...)
	return &clone
}

func (c *consoleCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *consoleCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if c.consoleChan == nil {
		return nil
	}

	msg := ConsoleMessage{
		RenderID:  c.renderID,
		Message:   formatEntry(entry.Message, append(c.fields[:len(c.fields):len(c.fields)], fields...)),
		Timestamp: entry.Time,
		Level:     entry.Level.String(),
	}
	select {
	case c.consoleChan <- msg:
	default:
		// Channel full, skip
	}
	return nil
}

func (c *consoleCore) Sync() error {
	return nil
}

// formatEntry renders "message key=value ..." with keys in sorted order
func formatEntry(message string, fields []zapcore.Field) string {
	if len(fields) == 0 {
		return message
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(message)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, enc.Fields[k])
	}
	return b.String()
}
