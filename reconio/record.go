package reconio

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/vaultrecon/semrecon/model/reccore"
)

// MainRecordHeaderLen is the fixed size, in bytes, of a main record's
// on-disk header (spec.md §6): four-byte tag, four-byte data size,
// four-byte flags, four-byte form-id, eight bytes platform-reserved.
const MainRecordHeaderLen = 24

// ByteAccessor is the random-read interface this engine consumes to read an
// absolute offset into a large, read-only image. It must be
// thread-compatible but need not be thread-safe (spec.md §5): this engine
// is itself single-threaded.
type ByteAccessor interface {
	// Read fills dst starting at srcOffset in the backing image and
	// returns the number of bytes read. Implementations follow the
	// io.Reader convention: a short read at end-of-image is not itself an
	// error, but reading entirely past the image length is reported via
	// ErrOutOfRange.
	Read(dst []byte, srcOffset uint64) (n int, err error)

	// ImageLength returns the total length of the backing image.
	ImageLength() uint64
}

// ErrOutOfRange is returned by a ByteAccessor when the requested range
// exceeds the image length. ReadRecordData does not return it; any read
// error becomes ok=false there.
var ErrOutOfRange = errors.New("reconio: requested range exceeds image length")

// MainRecordHeader is the detected header of one main record, as supplied
// by the scan result.
type MainRecordHeader struct {
	Tag          reccore.Tag
	FormID       reccore.FormID
	Offset       uint64
	DataSize     uint32
	IsCompressed bool
	IsBigEndian  bool
}

// Endian returns the endianness this header's body should be decoded with.
func (h MainRecordHeader) Endian() reccore.Endian {
	if h.IsBigEndian {
		return reccore.BigEndian
	}
	return reccore.LittleEndian
}

// ReadRecordData reads a main record's payload from img, transparently
// decompressing it if h.IsCompressed is set. It reads at most
// min(h.DataSize, len(*scratch)) bytes starting MainRecordHeaderLen bytes
// past h.Offset.
//
// Returns ok=false (never an error the caller must propagate) when the
// requested range exceeds the image length, or when a compressed body
// fails to inflate; both cases are the documented triggers for a handler
// to fall back to the shallow record shape (spec.md §4.4, §7).
func ReadRecordData(img ByteAccessor, h MainRecordHeader, scratch *[]byte) (data []byte, ok bool) {
	n := int(h.DataSize)
	if n > len(*scratch) {
		n = len(*scratch)
	}
	if n == 0 {
		return nil, true
	}

	bodyOffset := h.Offset + MainRecordHeaderLen
	if bodyOffset+uint64(n) > img.ImageLength() {
		return nil, false
	}

	buf := (*scratch)[:n]
	read, err := img.Read(buf, bodyOffset)
	if err != nil || read < n {
		return nil, false
	}

	if !h.IsCompressed {
		return buf, true
	}

	return inflate(buf)
}

// inflate decodes a compressed record body: a four-byte big-endian
// decompressed-size prefix followed by a zlib stream (spec.md §6).
func inflate(compressed []byte) (data []byte, ok bool) {
	if len(compressed) < 4 {
		return nil, false
	}
	decompressedSize := U32(compressed, 0, reccore.BigEndian)

	zr, err := zlib.NewReader(bytes.NewReader(compressed[4:]))
	if err != nil {
		return nil, false
	}
	defer zr.Close()

	out := bytes.NewBuffer(make([]byte, 0, decompressedSize))
	if _, err := io.Copy(out, zr); err != nil {
		return nil, false
	}
	return out.Bytes(), true
}
