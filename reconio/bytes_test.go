package reconio

import (
	"testing"

	"github.com/vaultrecon/semrecon/model/reccore"
)

func TestFixedWidthReadsAgreeWithEndianness(t *testing.T) {
	little := []byte{0x01, 0x00, 0x00, 0x00}
	big := []byte{0x00, 0x00, 0x00, 0x01}

	if got := U32(little, 0, reccore.LittleEndian); got != 1 {
		t.Errorf("little-endian U32 = %d, want 1", got)
	}
	if got := U32(big, 0, reccore.BigEndian); got != 1 {
		t.Errorf("big-endian U32 = %d, want 1", got)
	}
	if got := U32(little, 0, reccore.BigEndian); got == 1 {
		t.Errorf("reading little-endian bytes as big-endian should not agree: got %d", got)
	}
}

func TestF32BigEndian(t *testing.T) {
	// 10.0 as a big-endian IEEE-754 float32 (spec.md Scenario C's value
	// type, read the opposite endianness to exercise both directions).
	data := []byte{0x41, 0x20, 0x00, 0x00}
	if got := F32(data, 0, reccore.BigEndian); got != 10.0 {
		t.Errorf("F32 = %v, want 10.0", got)
	}
}

func TestF32LittleEndianScenarioC(t *testing.T) {
	// spec.md Scenario C: little-endian bytes 0x00 0x00 0x20 0x41 decode to
	// 10.0.
	data := []byte{0x00, 0x00, 0x20, 0x41}
	if got := F32(data, 0, reccore.LittleEndian); got != 10.0 {
		t.Errorf("F32 = %v, want 10.0", got)
	}
}

func TestCString(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"empty", nil, ""},
		{"terminated", []byte("NVBook01\x00"), "NVBook01"},
		{"unterminated", []byte("NVBook01"), "NVBook01"},
		{"terminatedWithTrailingGarbage", []byte("abc\x00garbage"), "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CString(tc.data); got != tc.want {
				t.Errorf("CString(%q) = %q, want %q", tc.data, got, tc.want)
			}
		})
	}
}

func TestReadTagNotEndianSwapped(t *testing.T) {
	data := []byte("NPC_")
	got := ReadTag(data, 0)
	want := reccore.NewTag("NPC_")
	if got != want {
		t.Errorf("ReadTag = %v, want %v", got, want)
	}
}
