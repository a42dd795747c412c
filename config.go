package loadgate

import (
	"errors"
	"log/slog"

	"github.com/loadgate/loadgate-go/metrics"
	"github.com/loadgate/loadgate-go/source"
	"github.com/loadgate/loadgate-go/view"
)

// DefaultMaxRecordCap is the ceiling a request's record cap is clamped
// to when Config.MaxRecordCap is zero.
const DefaultMaxRecordCap = 20000

// Config configures an Engine.
type Config struct {
	// Source fetches rows for every view.
	// REQUIRED: MUST NOT be nil.
	Source source.Source

	// Views are the queryable surfaces the engine serves.
	// REQUIRED: MUST contain at least one view.
	Views []*view.View

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	// Note: If LogLevel is specified, a new logger will be created with that level.
	Logger *slog.Logger

	// LogLevel sets the logging level.
	// OPTIONAL: If nil, uses Info level.
	// If Logger is also provided, LogLevel is ignored (use pre-configured logger).
	LogLevel *slog.Level

	// Metrics collects paging instrumentation.
	// OPTIONAL: If nil, nothing is collected.
	Metrics *metrics.Collector

	// MaxRecordCap is the ceiling a request's record cap is clamped to.
	// OPTIONAL: If 0, DefaultMaxRecordCap applies.
	MaxRecordCap int
}

// Standard errors returned by the loadgate package.
var (
	// ErrInvalidConfig indicates Config validation failed.
	ErrInvalidConfig = errors.New("invalid engine config")

	// ErrViewNotFound indicates a request named a view the engine does
	// not serve.
	ErrViewNotFound = errors.New("view not found")
)

// StaleBookmarkError reports a bookmark whose key no longer appears in
// the queried record set, typically because the row was deleted or the
// filter changed between pages.
type StaleBookmarkError struct {
	Key string
}

func (e *StaleBookmarkError) Error() string {
	return "bookmark refers to a row ('" + e.Key + "') that does not exist in the queried record set"
}
