// This file recovers display strings (player names, clan tags, chat-style
// text) that aren't valid UTF-8. DoD 1.3's player base skews European, so
// non-UTF-8 strings are decoded as Windows-1252, the single-byte Western
// European encoding GoldSrc clients on that locale actually send.

package demparser

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// decodeDisplayString returns s unchanged if it is already valid UTF-8;
// otherwise it is reinterpreted as Windows-1252 and transcoded to UTF-8 on
// a best-effort basis.
func decodeDisplayString(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	decoded, _, err := transform.String(charmap.Windows1252.NewDecoder(), s)
	if err != nil {
		return s
	}
	return strings.ReplaceAll(decoded, "\x00", "")
}
