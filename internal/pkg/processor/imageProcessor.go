package processor

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

type ImageProcessor interface {
	// Prepare fits an uploaded product photo inside the configured bounds.
	// Bytes come back untouched when no resize is needed or possible.
	Prepare(data []byte, mimeType string) ([]byte, string, error)
	// ToPNG decodes any supported image and re-encodes it as PNG.
	ToPNG(r io.Reader) ([]byte, error)
}

type imageProcessor struct {
	maxSide int
}

func NewImageProcessor(maxSide int) ImageProcessor {
	return &imageProcessor{maxSide: maxSide}
}

func (p *imageProcessor) Prepare(data []byte, mimeType string) ([]byte, string, error) {
	if p.maxSide <= 0 || len(data) == 0 {
		return data, mimeType, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		// the model gets the original bytes and decides for itself
		logrus.WithError(err).Warn("uploaded image could not be decoded, sending as is")
		return data, mimeType, nil
	}

	bounds := img.Bounds()
	if bounds.Dx() <= p.maxSide && bounds.Dy() <= p.maxSide {
		return data, mimeType, nil
	}

	resized := imaging.Fit(img, p.maxSide, p.maxSide, imaging.Lanczos)

	format, outMIME := imaging.PNG, "image/png"
	if mimeType == "image/jpeg" || mimeType == "image/jpg" {
		format, outMIME = imaging.JPEG, "image/jpeg"
	}

	out, err := p.encode(resized, format)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode resized image: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"from": fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"to":   fmt.Sprintf("%dx%d", resized.Bounds().Dx(), resized.Bounds().Dy()),
	}).Info("uploaded image downscaled")

	return out, outMIME, nil
}

func (p *imageProcessor) ToPNG(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, err
	}
	return p.encode(img, imaging.PNG)
}

func (p *imageProcessor) encode(img image.Image, format imaging.Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(90)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
