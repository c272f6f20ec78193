package workflows

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/PolarWolf314/cofre/internal/audit"
	kerrors "github.com/PolarWolf314/cofre/internal/errors"
	"github.com/PolarWolf314/cofre/internal/store"
)

const dateFormat = "2006-01-02"

// LogOptions configures the log workflow.
type LogOptions struct {
	StoreDir string

	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// User filters entries by local user name.
	User string

	// Identifier filters entries by record identifier.
	Identifier string

	// Operations filters entries by operation types (comma-separated).
	Operations string

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string

	// Until filters entries before this date (YYYY-MM-DD format).
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered audit log entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// Log reads and filters the audit log.
//
// Returns ErrAuditLogNotFound if no audit log exists.
// Returns ErrInvalidDateFormat if the date format is invalid.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	layout, err := resolveLayout(opts.StoreDir, "")
	if err != nil {
		return nil, err
	}

	logPath := layout.AuditLogPath()
	exists, err := store.Exists(logPath)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, kerrors.ErrAuditLogNotFound
	}

	filter, err := newLogFilter(opts)
	if err != nil {
		return nil, err
	}

	entries, err := audit.ReadEntries(logPath)
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	filtered := make([]audit.Entry, 0, len(entries))
	for _, e := range entries {
		if filter.match(e) {
			filtered = append(filtered, e)
		}
	}

	if opts.Reverse {
		slices.Reverse(filtered)
	}

	// The limit keeps the most recent entries in either order.
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			filtered = filtered[:opts.Limit]
		} else {
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	return &LogResult{
		Entries:                  filtered,
		TotalEntriesBeforeFilter: len(entries),
	}, nil
}

// logFilter is the parsed form of the LogOptions filters. Zero fields match
// everything.
type logFilter struct {
	user       string
	identifier string
	operations map[string]bool
	since      time.Time
	until      time.Time
}

func newLogFilter(opts LogOptions) (logFilter, error) {
	f := logFilter{
		user:       opts.User,
		identifier: opts.Identifier,
	}

	if opts.Operations != "" {
		f.operations = make(map[string]bool)
		for _, op := range strings.Split(opts.Operations, ",") {
			f.operations[strings.ToLower(strings.TrimSpace(op))] = true
		}
	}

	if opts.Since != "" {
		since, err := time.Parse(dateFormat, opts.Since)
		if err != nil {
			return f, fmt.Errorf("%w: --since date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		f.since = since
	}

	if opts.Until != "" {
		until, err := time.Parse(dateFormat, opts.Until)
		if err != nil {
			return f, fmt.Errorf("%w: --until date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		// Inclusive of the whole day.
		f.until = until.Add(24*time.Hour - time.Nanosecond)
	}

	return f, nil
}

func (f logFilter) match(e audit.Entry) bool {
	if f.user != "" && !strings.EqualFold(e.User, f.user) {
		return false
	}
	if f.identifier != "" && e.Identifier != f.identifier {
		return false
	}
	if f.operations != nil && !f.operations[strings.ToLower(e.Operation)] {
		return false
	}
	if f.since.IsZero() && f.until.IsZero() {
		return true
	}

	t, ok := entryTime(e)
	if !ok {
		return false
	}
	if !f.since.IsZero() && t.Before(f.since) {
		return false
	}
	if !f.until.IsZero() && t.After(f.until) {
		return false
	}
	return true
}

func entryTime(e audit.Entry) (time.Time, bool) {
	t, err := audit.ParseTimestamp(e.Timestamp)
	if err != nil {
		t, err = time.Parse(time.RFC3339, e.Timestamp)
	}
	return t, err == nil
}
