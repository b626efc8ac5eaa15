package reconio

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/vaultrecon/semrecon/model/reccore"
)

// fakeAccessor is a minimal in-memory ByteAccessor for tests.
type fakeAccessor struct {
	image []byte
}

func (f *fakeAccessor) Read(dst []byte, srcOffset uint64) (int, error) {
	if srcOffset >= uint64(len(f.image)) {
		return 0, nil
	}
	n := copy(dst, f.image[srcOffset:])
	return n, nil
}

func (f *fakeAccessor) ImageLength() uint64 {
	return uint64(len(f.image))
}

func TestReadRecordDataUncompressed(t *testing.T) {
	body := []byte("hello-body")
	img := &fakeAccessor{image: append(make([]byte, MainRecordHeaderLen), body...)}

	h := MainRecordHeader{Offset: 0, DataSize: uint32(len(body))}
	scratch := make([]byte, 64)
	data, ok := ReadRecordData(img, h, &scratch)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if string(data) != "hello-body" {
		t.Errorf("data = %q, want %q", data, "hello-body")
	}
}

func TestReadRecordDataOutOfRange(t *testing.T) {
	img := &fakeAccessor{image: make([]byte, MainRecordHeaderLen+4)}
	h := MainRecordHeader{Offset: 0, DataSize: 100}
	scratch := make([]byte, 200)

	_, ok := ReadRecordData(img, h, &scratch)
	if ok {
		t.Error("expected ok=false when the declared size reads past the image")
	}
}

func TestReadRecordDataCompressed(t *testing.T) {
	plain := []byte("this is the decompressed record body, repeated for zlib to have something to compress")

	var zbuf bytes.Buffer
	zw := zlib.NewWriter(&zbuf)
	if _, err := zw.Write(plain); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}

	var compressed []byte
	sizePrefix := make([]byte, 4)
	binary.BigEndian.PutUint32(sizePrefix, uint32(len(plain)))
	compressed = append(compressed, sizePrefix...)
	compressed = append(compressed, zbuf.Bytes()...)

	img := &fakeAccessor{image: append(make([]byte, MainRecordHeaderLen), compressed...)}
	h := MainRecordHeader{Offset: 0, DataSize: uint32(len(compressed)), IsCompressed: true}
	scratch := make([]byte, len(compressed)+16)

	data, ok := ReadRecordData(img, h, &scratch)
	if !ok {
		t.Fatal("expected ok=true for a well-formed compressed body")
	}
	if string(data) != string(plain) {
		t.Errorf("decompressed data = %q, want %q", data, plain)
	}
}

func TestReadRecordDataCorruptCompressedFails(t *testing.T) {
	garbage := []byte{0x00, 0x00, 0x00, 0x10, 0xff, 0xff, 0xff, 0xff}
	img := &fakeAccessor{image: append(make([]byte, MainRecordHeaderLen), garbage...)}
	h := MainRecordHeader{Offset: 0, DataSize: uint32(len(garbage)), IsCompressed: true}
	scratch := make([]byte, 64)

	_, ok := ReadRecordData(img, h, &scratch)
	if ok {
		t.Error("expected ok=false for a corrupt zlib stream")
	}
}

func TestMainRecordHeaderEndian(t *testing.T) {
	h := MainRecordHeader{IsBigEndian: true}
	if h.Endian() != reccore.BigEndian {
		t.Error("expected BigEndian")
	}
	h.IsBigEndian = false
	if h.Endian() != reccore.LittleEndian {
		t.Error("expected LittleEndian")
	}
}

func TestReadRecordDataZeroSize(t *testing.T) {
	img := &fakeAccessor{image: make([]byte, MainRecordHeaderLen)}
	h := MainRecordHeader{DataSize: 0}
	scratch := make([]byte, 16)

	data, ok := ReadRecordData(img, h, &scratch)
	if !ok || data != nil {
		t.Errorf("ReadRecordData with DataSize=0 = %v, %v, want nil, true", data, ok)
	}
}
