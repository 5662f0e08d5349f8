// Package imagenorm re-renders user photos into small JPEG data URLs that can be
// stored inline in a record field.
package imagenorm

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

const (
	// MaxSide bounds the longer side of a normalized image, in pixels.
	MaxSide = 600
	// Quality is the JPEG quality used on re-encode.
	Quality = 60
)

// Normalize reads one raster image and returns it as a JPEG data URL whose
// longer side is at most MaxSide. The aspect ratio is preserved.
func Normalize(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageRead, err)
	}
	return normalizeBytes(data)
}

// NormalizeFile is Normalize for a path on disk.
func NormalizeFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageRead, err)
	}
	defer f.Close()
	return Normalize(f)
}

// NormalizeDataURL normalizes an image that already travels as a data URL.
// A JPEG within bounds is only replaced when the re-encode is noticeably
// smaller, so repeated saves of a normalized image do not keep degrading it.
func NormalizeDataURL(s string) (string, error) {
	mime, data, err := DecodeDataURL(s)
	if err != nil {
		return "", err
	}
	out, err := normalizeBytes(data)
	if err != nil {
		return "", err
	}
	if mime == "image/jpeg" {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil && within(cfg.Width, cfg.Height) &&
			len(out)*10 > len(s)*9 {
			return s, nil
		}
	}
	return out, nil
}

// DecodeDataURL splits "data:<mime>;base64,<payload>" into its mime type and bytes.
func DecodeDataURL(s string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("%w: not a base64 data URL", ErrImageRead)
	}
	mime := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrImageRead, err)
	}
	return mime, data, nil
}

// EncodeDataURL wraps raw bytes into a base64 data URL.
func EncodeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Dimensions reports the pixel size of an encoded data URL image.
func Dimensions(dataURL string) (int, int, error) {
	_, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return cfg.Width, cfg.Height, nil
}

func normalizeBytes(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty input", ErrImageRead)
	}
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: content type %s", ErrImageRead, mt.String())
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	b := img.Bounds()
	if !within(b.Dx(), b.Dy()) {
		img = imaging.Fit(img, MaxSide, MaxSide, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(Quality)); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return EncodeDataURL("image/jpeg", buf.Bytes()), nil
}

func within(w, h int) bool {
	return w <= MaxSide && h <= MaxSide
}
