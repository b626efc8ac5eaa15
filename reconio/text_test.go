package reconio

import "testing"

func TestDecodeLocalizedTextValidUTF8PassesThrough(t *testing.T) {
	data := append([]byte("Caf\xc3\xa9"), 0) // "Café" in UTF-8, null-terminated
	if got := DecodeLocalizedText(data); got != "Café" {
		t.Errorf("got %q, want %q", got, "Café")
	}
}

func TestDecodeLocalizedTextWindows1252Fallback(t *testing.T) {
	// "Caf" + 0xE9 (Windows-1252 for 'é') + null terminator: not valid
	// UTF-8 on its own, so it should be reinterpreted as Windows-1252.
	data := []byte{'C', 'a', 'f', 0xE9, 0}
	if got := DecodeLocalizedText(data); got != "Café" {
		t.Errorf("got %q, want %q", got, "Café")
	}
}

func TestDecodeLocalizedTextPlainASCII(t *testing.T) {
	data := append([]byte("Plain Text"), 0)
	if got := DecodeLocalizedText(data); got != "Plain Text" {
		t.Errorf("got %q, want %q", got, "Plain Text")
	}
}
