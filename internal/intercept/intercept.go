// Package intercept classifies an incoming query against the reserved
// control phrases before any remote call is made.
package intercept

import (
	"fmt"
	"slices"

	"github.com/parley-cli/parley/internal/cache"
	"github.com/parley-cli/parley/internal/history"
)

// DefaultErrorPrompts are queries that ask for the raw error of a failed
// previous request.
var DefaultErrorPrompts = []string{
	"What?",
	"Whats wrong?",
	"What's wrong?",
	"What is wrong?",
	"What happened?",
}

// DefaultClearPrompts are queries that wipe the conversation history.
var DefaultClearPrompts = []string{
	"Forget me",
	"Forget everything",
	"Clear memory",
	"Clear history",
}

const (
	clearedMessage     = "All my memories of you have been erased 😢"
	errorReplyPreamble = "😬 Sorry, the error message was not really helpful. Here is the original message:\n\n➡️ %s"
	noErrorRecorded    = "no error has been recorded yet"
)

// Result reports whether the query was handled as a control command and, if
// so, the text to emit before terminating.
type Result struct {
	Handled bool
	Output  string
}

// Interceptor short-circuits reserved control phrases. Matching is exact and
// case-sensitive; the error-retry check runs before the clear-memory check.
type Interceptor struct {
	history      *history.Store
	cache        *cache.Cache
	errorPrompts []string
	clearPrompts []string
}

func New(store *history.Store, c *cache.Cache, errorPrompts, clearPrompts []string) *Interceptor {
	if len(errorPrompts) == 0 {
		errorPrompts = DefaultErrorPrompts
	}
	if len(clearPrompts) == 0 {
		clearPrompts = DefaultClearPrompts
	}
	return &Interceptor{
		history:      store,
		cache:        c,
		errorPrompts: errorPrompts,
		clearPrompts: clearPrompts,
	}
}

// Intercept inspects the raw query. An error-retry phrase only triggers when
// the previous call did not succeed (an absent flag counts as not-succeeded,
// matching a first run after a crash); once served, the flag is reset so the
// same complaint cannot re-trigger. A clear-memory phrase always triggers.
func (i *Interceptor) Intercept(query string) (Result, error) {
	if slices.Contains(i.errorPrompts, query) {
		ok, found, err := i.cache.GetBool(cache.KeyLastRequestOK)
		if err != nil {
			return Result{}, err
		}
		if !found || !ok {
			msg := noErrorRecorded
			var detail cache.ErrorDetail
			if found, err := i.cache.Get(cache.KeyLastError, &detail); err == nil && found && detail.Message != "" {
				msg = detail.Message
			}
			if err := i.cache.Set(cache.KeyLastRequestOK, true); err != nil {
				return Result{}, err
			}
			return Result{Handled: true, Output: fmt.Sprintf(errorReplyPreamble, msg)}, nil
		}
		// Previous call succeeded: the phrase is an ordinary message.
	}

	if slices.Contains(i.clearPrompts, query) {
		if err := i.history.Clear(); err != nil {
			return Result{}, err
		}
		return Result{Handled: true, Output: clearedMessage}, nil
	}

	return Result{}, nil
}
