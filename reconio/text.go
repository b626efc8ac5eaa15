package reconio

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DecodeLocalizedText decodes a null-terminated free-text subrecord (FULL,
// DESC, NAM1, and similar human-readable fields). This format predates any
// single fixed text encoding, so a captured image may carry Windows-1252
// bytes instead of UTF-8 for non-English text; a sequence that isn't valid
// UTF-8 is reinterpreted as Windows-1252 rather than left mangled.
func DecodeLocalizedText(data []byte) string {
	raw := CString(data)
	if utf8.ValidString(raw) {
		return raw
	}
	decoded, err := charmap.Windows1252.NewDecoder().String(raw)
	if err != nil {
		return raw
	}
	return decoded
}
