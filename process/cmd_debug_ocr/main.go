package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"

	"memories/pkg/logging"
	"memories/pkg/receipt/tesseract"
)

func main() {
	f := flag.String("file", "", "image file to OCR")
	lang := flag.String("lang", "por", "tesseract language")
	prep := flag.String("save-prep", "", "also write the preprocessed image here")
	text := flag.Bool("text", false, "print the raw OCR text")
	flag.Parse()
	if *f == "" {
		log.Fatalf("-file required")
	}
	if *prep != "" {
		if err := tesseract.SavePrepared(*f, *prep); err != nil {
			log.Fatalf("preprocess: %v", err)
		}
		fmt.Printf("preprocessed image saved to %s\n", *prep)
	}

	r := tesseract.NewReader(*lang, logging.New(zerolog.LevelDebugValue, "console", os.Stderr))
	if *text {
		out, err := r.Text(*f)
		if err != nil {
			log.Fatalf("ocr error: %v", err)
		}
		fmt.Println(out)
	}
	amt, conf, found, err := r.ExtractAmountFromImage(*f)
	if err != nil {
		log.Fatalf("ocr error: %v", err)
	}
	fmt.Printf("amt=%s conf=%.4f found=%q\n", amt.StringFixed(2), conf, found)
}
