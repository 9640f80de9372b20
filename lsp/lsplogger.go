package lsp

import (
	"context"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// lspLogCore is a zapcore.Core that forwards log entries to the LSP client
// via window/logMessage, so server logs show up in the editor's LSP log.
type lspLogCore struct {
	client  protocol.Client
	level   zapcore.Level
	encoder zapcore.Encoder
	fields  []zapcore.Field
	mu      sync.Mutex

	ctx       context.Context
	cancelCtx context.CancelFunc

	// logQueue decouples logging from the client RPC so a slow editor
	// never blocks a handler.
	logQueue chan logEntry
}

type logEntry struct {
	level   protocol.MessageType
	message string
}

// NewLSPLogger creates a logger that tees entries to the LSP client and a
// fallback core, typically stderr.
func NewLSPLogger(client protocol.Client, fallbackCore zapcore.Core, level zapcore.Level) *zap.Logger {
	ctx, cancel := context.WithCancel(context.Background())

	core := &lspLogCore{
		client: client,
		level:  level,
		encoder: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey:     "msg",
			NameKey:        "logger",
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}),
		ctx:       ctx,
		cancelCtx: cancel,
		logQueue:  make(chan logEntry, 100), //nolint:mnd // burst buffer
	}

	go core.logSender()

	return zap.New(zapcore.NewTee(core, fallbackCore))
}

// logSender drains the queue into window/logMessage notifications. Errors
// are dropped; the client may already be gone.
func (c *lspLogCore) logSender() {
	for {
		select {
		case entry := <-c.logQueue:
			_ = c.client.LogMessage(c.ctx, &protocol.LogMessageParams{
				Type:    entry.level,
				Message: entry.message,
			})
		case <-c.ctx.Done():
			return
		}
	}
}

// Close stops the log sender goroutine.
func (c *lspLogCore) Close() {
	c.cancelCtx()
}

// Enabled implements zapcore.Core.
func (c *lspLogCore) Enabled(level zapcore.Level) bool {
	return level >= c.level
}

// With implements zapcore.Core.
func (c *lspLogCore) With(fields []zapcore.Field) zapcore.Core {
	return &lspLogCore{
		client:    c.client,
		level:     c.level,
		encoder:   c.encoder.Clone(),
		fields:    append(c.fields, fields...),
		ctx:       c.ctx,
		cancelCtx: c.cancelCtx,
		logQueue:  c.logQueue,
	}
}

// Check implements zapcore.Core.
func (c *lspLogCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return ce.AddCore(entry, c)
	}

	return ce
}

// Write implements zapcore.Core.
func (c *lspLogCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf, err := c.encoder.EncodeEntry(entry, append(c.fields, fields...))
	if err != nil {
		return err
	}

	message := strings.TrimSpace(buf.String())
	buf.Free()

	var msgType protocol.MessageType
	switch entry.Level {
	case zapcore.DebugLevel:
		msgType = protocol.MessageTypeLog
	case zapcore.InfoLevel:
		msgType = protocol.MessageTypeInfo
	case zapcore.WarnLevel:
		msgType = protocol.MessageTypeWarning
	default:
		msgType = protocol.MessageTypeError
	}

	// Non-blocking enqueue; on a full queue the message is dropped.
	select {
	case c.logQueue <- logEntry{level: msgType, message: message}:
	default:
	}

	return nil
}

// Sync implements zapcore.Core.
func (c *lspLogCore) Sync() error { return nil }
