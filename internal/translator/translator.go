// Package translator is the sole interface to the external translation
// capability. It wraps a single chat-completion call with bounded retry and
// exponential backoff, and degrades terminal failures into a sentinel value
// so one bad unit never stalls a whole document run.
package translator

import (
	"context"
	"fmt"
	"strings"
)

// Translator translates one unit of text. The progress label identifies the
// unit in debug output (e.g. "paragraph 12/240, page 3").
//
// Translate never returns an error: on exhausted retries it returns a
// sentinel string embedding the failure cause. Callers must treat the
// sentinel as data to be flagged, not swallowed.
type Translator interface {
	Translate(ctx context.Context, text, label string) string
}

const (
	sentinelPrefix = "[Translation Error: "
	sentinelSuffix = "]"
)

// Sentinel formats a terminal translation failure as an error-tagged string.
func Sentinel(cause error) string {
	return fmt.Sprintf("%s%v%s", sentinelPrefix, cause, sentinelSuffix)
}

// IsSentinel reports whether s is a translation-failure sentinel.
func IsSentinel(s string) bool {
	return strings.HasPrefix(s, sentinelPrefix) && strings.HasSuffix(s, sentinelSuffix)
}

// Func adapts a plain function to the Translator interface. Used by tests
// that need a deterministic stub.
type Func func(ctx context.Context, text, label string) string

// Translate calls f.
func (f Func) Translate(ctx context.Context, text, label string) string {
	return f(ctx, text, label)
}
