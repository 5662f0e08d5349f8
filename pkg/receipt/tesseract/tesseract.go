// Package tesseract runs OCR over deposit receipt photos and hands the text to
// package receipt. It needs libtesseract at build time.
package tesseract

import (
	"fmt"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"memories/pkg/receipt"
)

const (
	amountWhitelist = "0123456789R$SBRLrsbl.,:()/- "
	digitWhitelist  = "0123456789., "
)

// Reader extracts amounts from receipt images.
type Reader struct {
	Language string // tesseract language pack, "por" when installed
	Log      zerolog.Logger
}

// NewReader returns a Reader using the given language (default "eng").
func NewReader(language string, log zerolog.Logger) *Reader {
	if language == "" {
		language = "eng"
	}
	return &Reader{Language: language, Log: log}
}

// ExtractAmountFromImage runs the OCR passes over the image at path and returns
// the amount in reais, a confidence proxy and the raw matched text.
func (r *Reader) ExtractAmountFromImage(path string) (decimal.Decimal, float64, string, error) {
	text, err := r.Text(path)
	if err != nil {
		return decimal.Zero, 0, "", err
	}
	amt, conf, raw, err := receipt.ExtractAmount(text)
	if err != nil {
		r.Log.Debug().Str("file", path).Str("text", snippet(text, 180)).Msg("no amount in receipt")
		return decimal.Zero, 0, "", err
	}
	r.Log.Debug().Str("file", path).Str("raw", raw).Str("amount", amt.String()).Float64("conf", conf).Msg("receipt amount")
	return amt, conf, raw, nil
}

// Text returns the aggregated text of every OCR pass.
func (r *Reader) Text(path string) (string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	tmpFile, err := os.CreateTemp("", "receipt-*.png")
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	tmp := tmpFile.Name()
	_ = tmpFile.Close()
	defer os.Remove(tmp)
	if err := imaging.Save(prepare(img), tmp); err != nil {
		return "", fmt.Errorf("save preprocessed: %w", err)
	}

	passes := []struct {
		file, whitelist string
	}{
		{tmp, amountWhitelist},
		{tmp, digitWhitelist},
		{path, ""},
	}
	var parts []string
	for _, p := range passes {
		text, err := r.run(p.file, p.whitelist)
		if err != nil {
			return "", fmt.Errorf("ocr error: %w", err)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n"), nil
}

func (r *Reader) run(file, whitelist string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(r.Language); err != nil {
		return "", err
	}
	if whitelist != "" {
		_ = client.SetWhitelist(whitelist)
	}
	if err := client.SetImage(file); err != nil {
		return "", err
	}
	return client.Text()
}

func snippet(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
