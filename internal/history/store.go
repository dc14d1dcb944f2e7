// Package history persists past exchanges as a flat append-only log and
// serves the bounded window used to rebuild conversational context.
package history

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const logFileName = "parley_chat.csv"

// Exchange is one logged user/assistant turn. Immutable once written.
type Exchange struct {
	ID            string
	UserText      string
	AssistantText string
	// Seed marks synthetic persona-seed entries so context building can
	// tell them apart from real turns.
	Seed bool
}

// NewExchange assigns a fresh record ID and trims the text fields.
func NewExchange(userText, assistantText string, seed bool) Exchange {
	return Exchange{
		ID:            uuid.NewString(),
		UserText:      strings.TrimSpace(userText),
		AssistantText: strings.TrimSpace(assistantText),
		Seed:          seed,
	}
}

// Store is the durable exchange log. Records are space-delimited; fields
// containing spaces are quoted, so arbitrary text round-trips losslessly.
// The window bound applies at read time only; the file grows unboundedly.
type Store struct {
	dir    string
	path   string
	window int
}

// NewStore creates a store rooted at dir keeping a read window of `window`
// exchanges. The directory is created lazily on first append.
func NewStore(dir string, window int) *Store {
	if window < 0 {
		window = 0
	}
	return &Store{dir: dir, path: filepath.Join(dir, logFileName), window: window}
}

// Path returns the location of the underlying log file.
func (s *Store) Path() string { return s.path }

// ReadWindow returns up to the configured window of most recent exchanges in
// chronological order. A missing log file means a new conversation and yields
// an empty window, not an error. Malformed rows are skipped.
func (s *Store) ReadWindow() ([]Exchange, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ' '
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var all []Exchange
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(row) < 4 {
			continue
		}
		all = append(all, Exchange{
			ID:            strings.TrimSpace(row[0]),
			UserText:      strings.TrimSpace(row[1]),
			AssistantText: strings.TrimSpace(row[2]),
			Seed:          strings.TrimSpace(row[3]) == "1",
		})
	}

	if len(all) > s.window {
		all = all[len(all)-s.window:]
	}
	return all, nil
}

// Append durably adds one exchange, creating the data directory if absent.
func (s *Store) Append(ex Exchange) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ' '
	seed := "0"
	if ex.Seed {
		seed = "1"
	}
	if err := w.Write([]string{ex.ID, ex.UserText, ex.AssistantText, seed}); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// Clear deletes all history. Clearing an absent log is a no-op.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
