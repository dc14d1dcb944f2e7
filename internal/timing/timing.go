// Package timing is an optional instrumentation hook: it wraps a call with
// start/end duration logging. Attached at the orchestration boundary only.
package timing

import (
	"time"

	"github.com/rs/zerolog"
)

// Timed runs fn and logs its wall-clock duration at debug level.
func Timed[T any](log zerolog.Logger, op string, fn func() T) T {
	start := time.Now()
	v := fn()
	log.Debug().Str("op", op).Dur("took", time.Since(start)).Msg("timed")
	return v
}

// Timed2 is Timed for functions that also return an error.
func Timed2[T any](log zerolog.Logger, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	log.Debug().Str("op", op).Dur("took", time.Since(start)).Msg("timed")
	return v, err
}
