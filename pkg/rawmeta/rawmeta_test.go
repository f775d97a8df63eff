package rawmeta

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSupported(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"IMG_0001.CR3", true},
		{"IMG_0001.cr2", true},
		{"shot.NEF", true},
		{"shot.arw", true},
		{"scan.dng", true},
		{"frame.raw", true},
		{"picture.jpg", false},
		{"notes.txt", false},
		{"noext", false},
	}
	for _, tc := range cases {
		if got := Supported(tc.name); got != tc.want {
			t.Errorf("Supported(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestInspectTIFFContainer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.dng")
	if err := os.WriteFile(path, buildTIFFWithExif(), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	info, err := InspectFile(path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if info.CameraModel != "TestCam" {
		t.Errorf("camera model = %q, want TestCam", info.CameraModel)
	}
	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if !info.CapturedAt.Equal(want) {
		t.Errorf("captured at = %v, want %v", info.CapturedAt, want)
	}
}

func TestInspectWithoutExifIsEmpty(t *testing.T) {
	info, err := Inspect(bytes.NewReader([]byte("not a raw file at all, just filler bytes")))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !info.Empty() {
		t.Fatalf("expected empty info, got %+v", info)
	}
}

// buildTIFFWithExif assembles a minimal little-endian TIFF with Model and
// DateTime tags, the same layout RAW containers embed.
func buildTIFFWithExif() []byte {
	var tiff bytes.Buffer
	tiff.Write([]byte{0x49, 0x49, 0x2a, 0x00})
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0110)) // Model
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(38))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0132)) // DateTime
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(2))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(20))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(46))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(0))
	tiff.Write([]byte("TestCam\x00"))
	tiff.Write([]byte("2024:01:02 03:04:05\x00"))
	return tiff.Bytes()
}
