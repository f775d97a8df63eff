package rawmeta

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	exif "github.com/dsoprea/go-exif/v3"
)

// Extensions lists the RAW container types the render service accepts.
var Extensions = []string{".cr3", ".cr2", ".nef", ".arw", ".dng", ".raw"}

// Supported reports whether the filename carries an accepted RAW extension.
// The check mirrors the service's own allow-list so rejects happen before
// bytes go over the wire.
func Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// CaptureInfo is the camera metadata shown next to a file before upload.
type CaptureInfo struct {
	CameraModel string
	CapturedAt  time.Time
}

// Empty reports whether no usable metadata was found.
func (c CaptureInfo) Empty() bool {
	return c.CameraModel == "" && c.CapturedAt.IsZero()
}

// InspectFile extracts capture metadata from a local RAW file. Most RAW
// containers are TIFF-based, so a universal EXIF search finds the usual tags.
// Files without readable EXIF yield an empty CaptureInfo, not an error.
func InspectFile(path string) (CaptureInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return CaptureInfo{}, err
	}
	defer f.Close()

	return Inspect(f)
}

// Inspect extracts capture metadata from rs.
func Inspect(rs io.ReadSeeker) (CaptureInfo, error) {
	info := CaptureInfo{}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return info, err
	}

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(rs, nil, true)
	if err != nil {
		if isNoExif(err) {
			return info, nil
		}
		return info, err
	}

	for _, tag := range tags {
		switch tag.TagName {
		case "Model", "CameraModelName":
			if info.CameraModel == "" {
				info.CameraModel = strings.TrimSpace(tag.FormattedFirst)
			}
		case "DateTimeOriginal", "DateTimeDigitized", "DateTime":
			if info.CapturedAt.IsZero() {
				if ts, err := time.Parse("2006:01:02 15:04:05", strings.TrimSpace(tag.FormattedFirst)); err == nil {
					info.CapturedAt = ts
				}
			}
		}
	}

	return info, nil
}

func isNoExif(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}
