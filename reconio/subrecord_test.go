package reconio

import (
	"testing"

	"github.com/vaultrecon/semrecon/model/reccore"
)

func subHeader(tag string, length uint16) []byte {
	h := make([]byte, 6)
	copy(h, tag)
	h[4] = byte(length)
	h[5] = byte(length >> 8)
	return h
}

func TestSubrecordIteratorOrdinaryHeaders(t *testing.T) {
	var body []byte
	body = append(body, subHeader("EDID", 5)...)
	body = append(body, "abcd\x00"...)
	body = append(body, subHeader("FULL", 3)...)
	body = append(body, "xyz"...)

	it := NewSubrecordIterator(body, reccore.LittleEndian)
	all := it.All()
	if len(all) != 2 {
		t.Fatalf("got %d subrecords, want 2: %v", len(all), all)
	}
	if all[0].Tag.String() != "EDID" || string(all[0].Data(body)) != "abcd\x00" {
		t.Errorf("subrecord 0 = %+v, data %q", all[0], all[0].Data(body))
	}
	if all[1].Tag.String() != "FULL" || string(all[1].Data(body)) != "xyz" {
		t.Errorf("subrecord 1 = %+v, data %q", all[1], all[1].Data(body))
	}
}

func TestSubrecordIteratorExtendedLength(t *testing.T) {
	var body []byte
	body = append(body, subHeader("XXXX", 4)...)
	extLen := make([]byte, 4)
	extLen[0] = 0x00
	extLen[1] = 0x01 // 256 bytes, little-endian uint32 low word
	body = append(body, extLen...)
	body = append(body, subHeader("DATA", 0)...) // length field ignored when preceded by XXXX
	payload := make([]byte, 256)
	for i := range payload {
		payload[i] = byte(i)
	}
	body = append(body, payload...)

	it := NewSubrecordIterator(body, reccore.LittleEndian)
	sr, ok := it.Next()
	if !ok {
		t.Fatal("expected one subrecord from the XXXX-prefixed header")
	}
	if sr.Tag.String() != "DATA" {
		t.Errorf("tag = %q, want DATA", sr.Tag)
	}
	if sr.Length != 256 {
		t.Errorf("length = %d, want 256 (from the XXXX override)", sr.Length)
	}
	if len(sr.Data(body)) != 256 {
		t.Errorf("data length = %d, want 256", len(sr.Data(body)))
	}

	if _, ok := it.Next(); ok {
		t.Error("expected iteration to be exhausted after the single subrecord")
	}
}

func TestSubrecordIteratorTruncatedHeaderReportsMalformed(t *testing.T) {
	body := []byte{'E', 'D', 'I', 'D'} // 4 bytes, header needs 6
	var malformedAt int = -1
	it := NewSubrecordIterator(body, reccore.LittleEndian)
	it.OnMalformed = func(b []byte, atOffset int) { malformedAt = atOffset }

	if _, ok := it.Next(); ok {
		t.Fatal("expected Next to fail on a truncated header")
	}
	if malformedAt != 0 {
		t.Errorf("OnMalformed called at offset %d, want 0", malformedAt)
	}
}

func TestSubrecordIteratorDeclaredLengthExceedsBoundsReportsMalformed(t *testing.T) {
	body := subHeader("EDID", 100) // declares 100 bytes of data that aren't there
	var called bool
	it := NewSubrecordIterator(body, reccore.LittleEndian)
	it.OnMalformed = func(b []byte, atOffset int) { called = true }

	if _, ok := it.Next(); ok {
		t.Fatal("expected Next to fail when declared length exceeds the body")
	}
	if !called {
		t.Error("expected OnMalformed to be invoked")
	}
}

func TestSubrecordIteratorStopsAfterMalformed(t *testing.T) {
	var body []byte
	body = append(body, subHeader("EDID", 2)...)
	body = append(body, "ab"...)
	body = append(body, []byte{'B', 'A', 'D'}...) // truncated trailing header

	it := NewSubrecordIterator(body, reccore.LittleEndian)
	all := it.All()
	if len(all) != 1 {
		t.Fatalf("got %d subrecords, want 1 (iteration should stop at the malformed trailer)", len(all))
	}
}
