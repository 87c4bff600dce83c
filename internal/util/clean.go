package util

import (
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

var utf8BOM = string([]byte{0xEF, 0xBB, 0xBF})

var charReplacer = strings.NewReplacer(
	"\u2018", "'", "\u2019", "'", "\u201C", "\"", "\u201D", "\"",
	"\u2013", "-", "\u2014", "--", "\u2026", "...", "\u00a0", " ",
	"\u0091", "'", "\u0092", "'", "\u0093", "\"", "\u0094", "\"",
	"\u0096", "-", "\u0097", "--",
)

// CleanReason normalizes free text typed or pasted by a user before it is
// classified: a leading BOM is dropped, invalid UTF-8 is replaced and
// typographic punctuation is folded to ASCII.
func CleanReason(s string) string {
	s = strings.TrimPrefix(s, utf8BOM)
	if !utf8.ValidString(s) {
		log.Warn("reason text is not valid UTF-8, replacing invalid bytes")
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	return charReplacer.Replace(s)
}
