package audit

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/PolarWolf314/cofre/internal/utils"
)

// TimestampFormat is the layout of Entry.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // Local account running the command.
	Host      string `json:"host,omitempty"`
	Operation string `json:"op"`

	// Optional fields depending on operation.
	Identifier   string   `json:"identifier,omitempty"`    // For encrypt/decrypt.
	RecordUUID   string   `json:"record_uuid,omitempty"`   // For encrypt/decrypt.
	Hash         string   `json:"hash,omitempty"`          // For encrypt.
	Iterations   int      `json:"iterations,omitempty"`    // For encrypt.
	Files        []string `json:"files,omitempty"`         // For encrypt/clean.
	RemovedCount int      `json:"removed_count,omitempty"` // For clean.
}

// NewEntry returns an entry for op with the local user and host filled in.
func NewEntry(op string) Entry {
	entry := Entry{Operation: op}

	if user, err := utils.GetUsername(); err == nil {
		entry.User = user
	}
	if host, err := utils.GetHostname(); err == nil {
		entry.Host = host
	}

	return entry
}

// Log appends an entry to the audit log at logPath.
// If logging fails, the error is dropped: operations should not fail just
// because audit logging failed.
func Log(logPath string, entry Entry) {
	if logPath == "" {
		return
	}

	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	// One write per entry keeps concurrent appends line-aligned.
	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the audit log at logPath.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(logPath string) ([]Entry, error) {
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Blank and malformed lines are skipped so that one torn write does not hide
// the rest of the log.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ParseTimestamp parses an Entry.Timestamp.
func ParseTimestamp(ts string) (time.Time, error) {
	return time.Parse(TimestampFormat, ts)
}
