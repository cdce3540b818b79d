// Package cli implements the narrative command-line interface.
//
// This package provides commands for creating and editing dialogue graphs,
// moving records between stores and files, and rendering graphs as diagrams.
// The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - new, show, list, browse, delete: manage stored narratives
//   - node, choice, link: edit a stored narrative in place
//   - import, export: copy records between files and the store
//   - render: draw a narrative as DOT, SVG or PNG
//   - config: inspect the active configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// registers log-backed observability hooks. Loggers are passed through
// context.Context.
//
// # Example
//
//	import "github.com/matzehuels/narrative/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/narrative/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Rendered intro.svg (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures commands always have a valid logger even if context setup fails.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability
// =============================================================================

// logHooks reports codec, cache and render events to a logger at debug
// level. Store events are already logged by store.Instrumented.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetCodecHooks(h)
	observability.SetCacheHooks(h)
	observability.SetRenderHooks(h)
}

func (h *logHooks) OnSaveStart(_ context.Context, name string) {
	h.logger.Debug("save started", "name", name)
}

func (h *logHooks) OnSaveComplete(_ context.Context, name string, nodes, links int, d time.Duration, err error) {
	h.logger.Debug("save finished", "name", name, "nodes", nodes, "links", links, "elapsed", d, "err", err)
}

func (h *logHooks) OnLoadStart(_ context.Context, name string) {
	h.logger.Debug("load started", "name", name)
}

func (h *logHooks) OnLoadComplete(_ context.Context, name string, nodes, links int, d time.Duration, err error) {
	h.logger.Debug("load finished", "name", name, "nodes", nodes, "links", links, "elapsed", d, "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRenderStart(_ context.Context, format string, nodes int) {
	h.logger.Debug("render started", "format", format, "nodes", nodes)
}

func (h *logHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	h.logger.Debug("render finished", "format", format, "bytes", size, "elapsed", d, "err", err)
}
