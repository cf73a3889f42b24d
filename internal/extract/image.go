package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"

	"docuquery/internal/progress"
)

// minOCRWidth is the width small images get upscaled to before OCR; tesseract
// recognition degrades badly below roughly 300 dpi equivalents.
const minOCRWidth = 1024

// extractImage runs optical character recognition over an uploaded image.
// The image is decoded, upscaled when small, written to a temp PNG, and fed
// to the tesseract binary with the fixed default language.
func (e *Extractor) extractImage(ctx context.Context, name string, data []byte, sink progress.Sink) (string, error) {
	report(sink, name, "ocr", 8, "Decoding image")

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image failed: %w", err)
	}

	report(sink, name, "ocr", 12, "Preparing image for OCR")
	img = upscale(img)

	tempDir, err := os.MkdirTemp("", "docuquery-ocr-")
	if err != nil {
		return "", fmt.Errorf("create ocr temp dir failed: %w", err)
	}
	defer os.RemoveAll(tempDir)

	imagePath := filepath.Join(tempDir, "page.png")
	f, err := os.Create(imagePath)
	if err != nil {
		return "", fmt.Errorf("create ocr temp file failed: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encode ocr image failed: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close ocr temp file failed: %w", err)
	}

	report(sink, name, "ocr", 18, "Running text recognition")

	cmd := exec.CommandContext(ctx, "tesseract",
		imagePath,
		"stdout",
		"-l", e.ocrLang,
		"--oem", "3",
		"--psm", "3",
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run tesseract failed: %w", err)
	}

	report(sink, name, "ocr", 28, "Text recognition complete")
	return strings.TrimSpace(out.String()), nil
}

// upscale enlarges img to minOCRWidth wide when smaller, preserving aspect
// ratio.
func upscale(img image.Image) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() >= minOCRWidth || bounds.Dx() == 0 {
		return img
	}
	scale := float64(minOCRWidth) / float64(bounds.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, minOCRWidth, int(float64(bounds.Dy())*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
