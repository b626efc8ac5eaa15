package reconio

import (
	"testing"

	"github.com/vaultrecon/semrecon/model/reccore"
)

// FuzzSubrecordIterator drives the subrecord iterator over arbitrary bytes.
// The iterator's contract (spec.md §4.2, §7) is that no input, however
// malformed, may panic: malformed headers stop iteration and are reported
// through OnMalformed, nothing more. This is the native-fuzzing equivalent
// of saferwall-pe's fuzz.go Fuzz(data []byte) int entry point, which this
// module doesn't depend on dvyukov/go-fuzz for (see SPEC_FULL.md §2a) but
// keeps the same "throw arbitrary bytes at the untrusted-input boundary"
// shape.
func FuzzSubrecordIterator(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{'E', 'D', 'I', 'D', 0x01, 0x00, 'x'})
	f.Add([]byte{'X', 'X', 'X', 'X', 0x04, 0x00, 0x00, 0x01, 0x00, 0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, endian := range []reccore.Endian{reccore.LittleEndian, reccore.BigEndian} {
			it := NewSubrecordIterator(data, endian)
			for {
				_, ok := it.Next()
				if !ok {
					break
				}
			}
		}
	})
}
