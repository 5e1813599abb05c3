package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug lines to a
// logger. Register it with [SetAll] to trace a run with -v.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log through l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

// SetAll registers h for every hook category.
func SetAll(h *LogHooks) {
	SetBoardHooks(h)
	SetExportHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnBoardCreate(_ context.Context, boardID string, items, cols, rows int) {
	h.Logger.Debug("board created", "board", boardID, "items", items, "grid", gridString(cols, rows))
}

func (h *LogHooks) OnPointerEvent(_ context.Context, boardID, eventType string, consumed bool) {
	h.Logger.Debug("pointer", "board", boardID, "type", eventType, "consumed", consumed)
}

func (h *LogHooks) OnBoardReset(_ context.Context, boardID string) {
	h.Logger.Debug("board reset", "board", boardID)
}

func (h *LogHooks) OnCaptureStart(_ context.Context, boardID string, items int) {
	h.Logger.Debug("capture start", "board", boardID, "items", items)
}

func (h *LogHooks) OnCaptureComplete(_ context.Context, boardID string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("capture failed", "board", boardID, "duration", d, "error", err)
		return
	}
	h.Logger.Debug("capture done", "board", boardID, "duration", d)
}

func (h *LogHooks) OnExportStart(_ context.Context, boardID, format string) {
	h.Logger.Debug("export start", "board", boardID, "format", format)
}

func (h *LogHooks) OnExportComplete(_ context.Context, boardID, format string, bytes int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("export failed", "board", boardID, "format", format, "error", err)
		return
	}
	h.Logger.Debug("export done", "board", boardID, "format", format, "bytes", bytes, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}

func gridString(cols, rows int) string {
	return fmt.Sprintf("%dx%d", cols, rows)
}

var (
	_ BoardHooks  = (*LogHooks)(nil)
	_ ExportHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
)
