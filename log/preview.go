// Package log holds helpers for logging relayed payloads.
package log

import (
	"unicode/utf8"

	"github.com/jpillora/sizestr"
)

// defaultMaxLoggedStrLen limits preview string length to prevent log spam.
const defaultMaxLoggedStrLen = 100

// Preview returns a log-safe preview of str.
//
// maxLen is optional and defaults to defaultMaxLoggedStrLen.
// Returns:
//   - Original string if len <= effective max length
//   - Truncated string followed by the full size, e.g. `{"jsonrpc":"2.0",... (1.2KB)`, otherwise
//
// Truncation never splits a UTF-8 sequence.
func Preview(str string, maxLen ...int) string {
	l := defaultMaxLoggedStrLen
	if len(maxLen) > 0 {
		l = maxLen[0]
	}
	if len(str) <= l {
		return str
	}

	cut := max(l-3, 0)
	for cut > 0 && !utf8.RuneStart(str[cut]) {
		cut--
	}
	return str[:cut] + "... (" + sizestr.ToString(int64(len(str))) + ")"
}
