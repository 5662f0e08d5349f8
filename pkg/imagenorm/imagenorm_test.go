package imagenorm

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{200, 80, 120, 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeBoundsAndAspect(t *testing.T) {
	sizes := [][2]int{{1200, 800}, {800, 1200}, {601, 10}, {3000, 3000}, {640, 480}}
	for _, s := range sizes {
		out, err := Normalize(bytes.NewReader(pngBytes(t, s[0], s[1])))
		if err != nil {
			t.Fatalf("%v: %v", s, err)
		}
		if !strings.HasPrefix(out, "data:image/jpeg;base64,") {
			t.Fatalf("%v: unexpected prefix %q", s, out[:30])
		}
		w, h, err := Dimensions(out)
		if err != nil {
			t.Fatalf("%v: %v", s, err)
		}
		if max(w, h) != MaxSide {
			t.Fatalf("%v: longer side %d, want %d", s, max(w, h), MaxSide)
		}
		scale := float64(MaxSide) / float64(max(s[0], s[1]))
		idealW, idealH := float64(s[0])*scale, float64(s[1])*scale
		// within one pixel of rounding on each side
		if math.Abs(float64(w)-idealW) > 1 || math.Abs(float64(h)-idealH) > 1 {
			t.Fatalf("%v: got %dx%d want about %.1fx%.1f", s, w, h, idealW, idealH)
		}
	}
}

func TestNormalizeKeepsSmallImagesSize(t *testing.T) {
	out, err := Normalize(bytes.NewReader(pngBytes(t, 320, 200)))
	if err != nil {
		t.Fatal(err)
	}
	w, h, _ := Dimensions(out)
	if w != 320 || h != 200 {
		t.Fatalf("small image should not be resized, got %dx%d", w, h)
	}
}

func TestNormalizeErrors(t *testing.T) {
	if _, err := Normalize(bytes.NewReader(nil)); !errors.Is(err, ErrImageRead) {
		t.Fatalf("empty input: want ErrImageRead got %v", err)
	}
	if _, err := Normalize(strings.NewReader("just some text, not a photo")); !errors.Is(err, ErrImageRead) {
		t.Fatalf("text input: want ErrImageRead got %v", err)
	}
	broken := pngBytes(t, 50, 50)[:40]
	if _, err := Normalize(bytes.NewReader(broken)); !errors.Is(err, ErrImageDecode) {
		t.Fatalf("truncated png: want ErrImageDecode got %v", err)
	}
	if _, err := NormalizeFile(filepath.Join(t.TempDir(), "missing.jpg")); !errors.Is(err, ErrImageRead) {
		t.Fatalf("missing file: want ErrImageRead got %v", err)
	}
	if _, err := NormalizeDataURL("http://example.com/x.jpg"); !errors.Is(err, ErrImageRead) {
		t.Fatalf("plain url: want ErrImageRead got %v", err)
	}
}

func TestNormalizeFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "foto.png")
	if err := os.WriteFile(p, pngBytes(t, 900, 300), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := NormalizeFile(p)
	if err != nil {
		t.Fatal(err)
	}
	w, h, _ := Dimensions(out)
	if w != 600 || h != 200 {
		t.Fatalf("got %dx%d want 600x200", w, h)
	}
}

func TestNormalizeDataURLIdempotentForSmallJPEG(t *testing.T) {
	first, err := Normalize(bytes.NewReader(pngBytes(t, 1000, 500)))
	if err != nil {
		t.Fatal(err)
	}
	second, err := NormalizeDataURL(first)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Fatalf("already normalized jpeg should be returned unchanged")
	}
	big := EncodeDataURL("image/png", pngBytes(t, 1300, 650))
	out, err := NormalizeDataURL(big)
	if err != nil {
		t.Fatal(err)
	}
	if w, h, _ := Dimensions(out); w != 600 || h != 300 {
		t.Fatalf("got %dx%d want 600x300", w, h)
	}
}

// 1x1 lossless WebP
const webpPixel = "UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="

func TestNormalizeWebP(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(webpPixel)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Normalize(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("webp: %v", err)
	}
	if w, h, _ := Dimensions(out); w != 1 || h != 1 {
		t.Fatalf("got %dx%d want 1x1", w, h)
	}
	if _, err := NormalizeDataURL(EncodeDataURL("image/webp", data)); err != nil {
		t.Fatalf("webp data url: %v", err)
	}
}

func TestNormalizeDataURLShrinksHighQualityJPEG(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	img := image.NewNRGBA(image.Rect(0, 0, 500, 400))
	for i := range img.Pix {
		if i%4 == 3 {
			img.Pix[i] = 255
			continue
		}
		img.Pix[i] = uint8(rng.IntN(256))
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(100)); err != nil {
		t.Fatal(err)
	}
	in := EncodeDataURL("image/jpeg", buf.Bytes())
	out, err := NormalizeDataURL(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) >= len(in) {
		t.Fatalf("quality 100 jpeg was not re-encoded: %d >= %d bytes", len(out), len(in))
	}
	if w, h, _ := Dimensions(out); w != 500 || h != 400 {
		t.Fatalf("got %dx%d want 500x400", w, h)
	}
}
