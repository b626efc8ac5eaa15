package semrecon

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/vaultrecon/semrecon/model/reccore"
	"github.com/vaultrecon/semrecon/model/rectag"
	"github.com/vaultrecon/semrecon/reconio"
)

// fakeImage is a test-only ByteAccessor backed by an in-memory byte slice.
type fakeImage struct {
	data []byte
}

func (f *fakeImage) Read(dst []byte, srcOffset uint64) (int, error) {
	if srcOffset >= uint64(len(f.data)) {
		return 0, nil
	}
	return copy(dst, f.data[srcOffset:]), nil
}

func (f *fakeImage) ImageLength() uint64 {
	return uint64(len(f.data))
}

// imageBuilder assembles a sequence of main records (24-byte header,
// immediately followed by body) into one flat image, tracking each
// record's resulting MainRecordHeader for use in a ScanResult.
type imageBuilder struct {
	buf     []byte
	headers []reconio.MainRecordHeader
}

func (b *imageBuilder) add(tag reccore.Tag, form reccore.FormID, body []byte, bigEndian, compressed bool) {
	offset := uint64(len(b.buf))
	b.buf = append(b.buf, make([]byte, reconio.MainRecordHeaderLen)...) // header content is never read by ReadRecordData
	b.buf = append(b.buf, body...)
	b.headers = append(b.headers, reconio.MainRecordHeader{
		Tag:          tag,
		FormID:       form,
		Offset:       offset,
		DataSize:     uint32(len(body)),
		IsCompressed: compressed,
		IsBigEndian:  bigEndian,
	})
}

func subrecord(tag string, data []byte) []byte {
	out := make([]byte, 6)
	copy(out, tag)
	out[4] = byte(len(data))
	out[5] = byte(len(data) >> 8)
	return append(out, data...)
}

func cstringField(s string) []byte {
	return append([]byte(s), 0)
}

func compressBody(plain []byte) []byte {
	var zbuf bytes.Buffer
	zw := zlib.NewWriter(&zbuf)
	zw.Write(plain)
	zw.Close()
	sizePrefix := make([]byte, 4)
	binary.BigEndian.PutUint32(sizePrefix, uint32(len(plain)))
	return append(sizePrefix, zbuf.Bytes()...)
}

// TestReconstructAllMinimalNPCNoAccessor exercises the "minimal NPC"
// scenario: a header with no backing accessor at all yields a shallow NPC
// carrying only identity fields.
func TestReconstructAllMinimalNPCNoAccessor(t *testing.T) {
	scan := &ScanResult{
		Headers: []reconio.MainRecordHeader{
			{Tag: rectag.TagNPC, FormID: 0x1000, DataSize: 40},
		},
	}
	res := ReconstructAll(nil, scan, nil, Config{})

	if len(res.NPCs) != 1 {
		t.Fatalf("got %d NPCs, want 1", len(res.NPCs))
	}
	npc := res.NPCs[0]
	if !npc.Shallow {
		t.Error("expected a shallow NPC when no accessor is available")
	}
	if npc.FormID != 0x1000 {
		t.Errorf("FormID = %v, want 0x1000", npc.FormID)
	}
	if npc.Stats != nil {
		t.Error("shallow NPC should carry no stats block")
	}
}

// TestReconstructAllCompressedBook exercises a compressed BOOK record: the
// zlib-compressed, size-prefixed body must be transparently inflated before
// its DESC subrecord is decoded.
func TestReconstructAllCompressedBook(t *testing.T) {
	var body []byte
	body = append(body, subrecord("EDID", cstringField("TestBook01"))...)
	body = append(body, subrecord("DESC", cstringField("Once upon a time."))...)
	compressed := compressBody(body)

	ib := &imageBuilder{}
	ib.add(rectag.TagBook, 0x2000, compressed, false, true)

	img := &fakeImage{data: ib.buf}
	scan := &ScanResult{Headers: ib.headers}

	res := ReconstructAll(img, scan, nil, Config{})

	if len(res.Books) != 1 {
		t.Fatalf("got %d books, want 1", len(res.Books))
	}
	b := res.Books[0]
	if b.Shallow {
		t.Fatal("compressed book should decode successfully, not fall back to shallow")
	}
	if b.EditorID == nil || *b.EditorID != "TestBook01" {
		t.Errorf("EditorID = %v, want TestBook01", b.EditorID)
	}
	if b.Text == nil || *b.Text != "Once upon a time." {
		t.Errorf("Text = %v, want %q", b.Text, "Once upon a time.")
	}
}

// TestReconstructAllLittleEndianFloatGameSetting exercises a little-endian
// float GMST: the editor-id prefix "f" selects the float interpretation of
// the DATA subrecord's raw bytes.
func TestReconstructAllLittleEndianFloatGameSetting(t *testing.T) {
	var body []byte
	body = append(body, subrecord("EDID", cstringField("fTestSetting"))...)
	// 10.0 as little-endian IEEE-754 float32.
	body = append(body, subrecord("DATA", []byte{0x00, 0x00, 0x20, 0x41})...)

	ib := &imageBuilder{}
	ib.add(rectag.TagGameSetting, 0x3000, body, false, false)

	img := &fakeImage{data: ib.buf}
	scan := &ScanResult{Headers: ib.headers}

	res := ReconstructAll(img, scan, nil, Config{})

	if len(res.GameSettings) != 1 {
		t.Fatalf("got %d game settings, want 1", len(res.GameSettings))
	}
	gs := res.GameSettings[0]
	if gs.ValueType == nil || gs.ValueType.Name != "Float" {
		t.Fatalf("ValueType = %v, want Float", gs.ValueType)
	}
	if gs.FloatValue == nil || *gs.FloatValue != 10.0 {
		t.Errorf("FloatValue = %v, want 10.0", gs.FloatValue)
	}
}

// TestReconstructAllVirtualCellGrouping exercises the virtual-cell
// fabrication path: a placed reference with a nonzero position but no
// resolvable cell is grouped into a synthetic cell rather than dropped.
func TestReconstructAllVirtualCellGrouping(t *testing.T) {
	ib := &imageBuilder{}
	ib.add(rectag.TagPlacedRef, 0x4000, nil, false, false)

	img := &fakeImage{data: ib.buf}
	scan := &ScanResult{
		Headers: ib.headers,
		PlacedReferences: map[reccore.FormID]PlacedReferenceScan{
			0x4000: {
				BaseFormID: 0x1234,
				Position:   &reccore.Point3{X: 500, Y: 500, Z: 0},
			},
		},
	}

	res := ReconstructAll(img, scan, nil, Config{})

	if len(res.PlacedReferences) != 1 {
		t.Fatalf("got %d placed references, want 1", len(res.PlacedReferences))
	}
	ref := res.PlacedReferences[0]
	if ref.CellFormID == nil {
		t.Fatal("expected the orphaned reference to be assigned a synthetic cell")
	}
	if *ref.CellFormID < reccore.SyntheticFormIDBase {
		t.Errorf("CellFormID = %v, want a synthetic form-id (>= %v)", *ref.CellFormID, reccore.SyntheticFormIDBase)
	}

	found := false
	for _, c := range res.Cells {
		if c.Virtual && c.FormID == *ref.CellFormID {
			found = true
		}
	}
	if !found {
		t.Error("expected a matching virtual cell in res.Cells")
	}
}

// TestReconstructAllUnreconstructedTypeCounts exercises spec.md §6's tally
// of header tags with no registered kind at all.
func TestReconstructAllUnreconstructedTypeCounts(t *testing.T) {
	unknown := reccore.NewTag("ZZZZ")
	scan := &ScanResult{
		Headers: []reconio.MainRecordHeader{{Tag: unknown, FormID: 0x5000}},
	}
	res := ReconstructAll(nil, scan, nil, Config{})

	if res.UnreconstructedTypeCounts["ZZZZ"] != 1 {
		t.Errorf("UnreconstructedTypeCounts[ZZZZ] = %d, want 1", res.UnreconstructedTypeCounts["ZZZZ"])
	}
}

// TestReconstructAllCorrelationsFeedIdentifierIndex exercises C5's second
// construction source: caller-supplied correlations populate EditorIDs
// without a matching EDID subrecord ever being read.
func TestReconstructAllCorrelationsFeedIdentifierIndex(t *testing.T) {
	scan := &ScanResult{
		Headers:      []reconio.MainRecordHeader{{Tag: rectag.TagNPC, FormID: 0x6000}},
		Correlations: map[reccore.FormID]string{0x6000: "CorrelatedNPC"},
	}
	res := ReconstructAll(nil, scan, nil, Config{})

	if res.EditorIDs[0x6000] != "CorrelatedNPC" {
		t.Errorf("EditorIDs[0x6000] = %q, want %q", res.EditorIDs[0x6000], "CorrelatedNPC")
	}
}

func TestReconstructAllWellKnownIdentifiersPresent(t *testing.T) {
	res := ReconstructAll(nil, &ScanResult{}, nil, Config{})
	if res.EditorIDs[0x00000014] != "PlayerRef" {
		t.Errorf("EditorIDs[0x14] = %q, want PlayerRef", res.EditorIDs[0x00000014])
	}
}
