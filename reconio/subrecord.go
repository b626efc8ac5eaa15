package reconio

import "github.com/vaultrecon/semrecon/model/reccore"

// extendedLengthTag is the sentinel subrecord tag whose 4-byte payload
// overrides the length field of the subrecord header that immediately
// follows it, used when a subrecord's true data length exceeds the 16-bit
// range of the ordinary header (spec.md §4.2, §6).
var extendedLengthTag = reccore.NewTag("XXXX")

// Subrecord is one (tag, data-offset, data-length) tuple produced by the
// iterator. Offset and Length describe a window into the record body the
// iterator was constructed over.
type Subrecord struct {
	Tag    reccore.Tag
	Offset int
	Length int
}

// Data returns the subrecord's payload, sliced out of body.
func (s Subrecord) Data(body []byte) []byte {
	return body[s.Offset : s.Offset+s.Length]
}

// MalformedSubrecordFunc, if non-nil, is invoked once per malformed
// subrecord header encountered during iteration (truncated header, or a
// declared length exceeding the record's bounds). Iteration always stops
// after invoking it; malformed data is reported via telemetry, never via a
// panic or an error return (spec.md §4.2, §7).
type MalformedSubrecordFunc func(body []byte, atOffset int)

// SubrecordIterator produces the lazy, finite, non-restartable sequence of
// subrecords in body, in the given endianness. Each call to Next advances
// the iterator; a false return means the sequence is exhausted, either
// because the body was fully consumed or because a malformed header was
// encountered (in which case OnMalformed, if set, was already invoked).
type SubrecordIterator struct {
	body        []byte
	endian      reccore.Endian
	pos         int
	OnMalformed MalformedSubrecordFunc
	done        bool
}

// NewSubrecordIterator constructs an iterator over body (a record's
// decompressed, header-stripped payload).
func NewSubrecordIterator(body []byte, endian reccore.Endian) *SubrecordIterator {
	return &SubrecordIterator{body: body, endian: endian}
}

const subrecordHeaderLen = 6

// Next advances the iterator and returns the next subrecord, or ok=false
// once the sequence is exhausted.
func (it *SubrecordIterator) Next() (sr Subrecord, ok bool) {
	if it.done {
		return Subrecord{}, false
	}

	tag, length, headerLen, malformed := it.readHeader(it.pos)
	if malformed {
		it.fail()
		return Subrecord{}, false
	}

	dataOff := it.pos + headerLen
	if dataOff+length > len(it.body) {
		it.fail()
		return Subrecord{}, false
	}

	it.pos = dataOff + length
	if it.pos >= len(it.body) {
		it.done = true
	}

	return Subrecord{Tag: tag, Offset: dataOff, Length: length}, true
}

// readHeader reads one subrecord header at pos, transparently consuming an
// extended-length XXXX sentinel if present. headerLen is the number of
// bytes the combined header(s) occupy before the subrecord's data begins.
func (it *SubrecordIterator) readHeader(pos int) (tag reccore.Tag, length, headerLen int, malformed bool) {
	if pos+subrecordHeaderLen > len(it.body) {
		return reccore.Tag{}, 0, 0, true
	}

	firstTag := ReadTag(it.body, pos)
	if firstTag == extendedLengthTag {
		extLen := int(U16(it.body, pos+4, it.endian))
		if extLen != 4 || pos+subrecordHeaderLen+4+subrecordHeaderLen > len(it.body) {
			return reccore.Tag{}, 0, 0, true
		}
		realLength := int(U32(it.body, pos+subrecordHeaderLen, it.endian))
		nextPos := pos + subrecordHeaderLen + 4
		tag = ReadTag(it.body, nextPos)
		return tag, realLength, (nextPos + subrecordHeaderLen) - pos, false
	}

	length = int(U16(it.body, pos+4, it.endian))
	return firstTag, length, subrecordHeaderLen, false
}

func (it *SubrecordIterator) fail() {
	if it.OnMalformed != nil {
		it.OnMalformed(it.body, it.pos)
	}
	it.done = true
}

// All drains the iterator into a slice. Convenience for handlers that don't
// need to short-circuit mid-record.
func (it *SubrecordIterator) All() []Subrecord {
	var out []Subrecord
	for {
		sr, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, sr)
	}
}
