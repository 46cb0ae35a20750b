package util

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// ambiguous width glyphs count as narrow whatever the host locale
var panelWidth = &runewidth.Condition{StrictEmojiNeutral: true}

// TrimString cuts s down to length runes
func TrimString(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}

	return string(runes[:length])
}

// DisplayWidth is the number of panel columns s takes, wide glyphs counting two
func DisplayWidth(s string) int {
	return panelWidth.StringWidth(s)
}

// TrimDisplayString trims s to fit the panel. A string carrying wide glyphs
// gets cjkLength wide glyphs worth of columns, anything else latinLength
// columns. Truncation never splits a glyph.
func TrimDisplayString(s string, cjkLength int, latinLength int) string {
	width := latinLength
	if DisplayWidth(s) > utf8.RuneCountInString(s) {
		width = cjkLength * 2
	}
	return panelWidth.Truncate(s, width, "")
}
