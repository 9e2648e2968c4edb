// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging decodes uploaded portfolio images, normalises their
// orientation and writes the original plus resized variants to disk.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/util"
)

// OriginalsDir is the subdirectory that holds processed originals.
const OriginalsDir = "originals"

// ErrUnsupportedFormat is returned for data that is not a JPEG, PNG, GIF or WebP image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Image is a processed image written to disk.
type Image struct {
	Kind     string // OriginalsDir or a variant name
	Width    int
	Height   int
	MimeType string
	Size     int64
	// RelPath is slash-separated and relative to the upload directory.
	RelPath string
}

// Processor writes images below one upload directory.
type Processor struct {
	uploadDir string
}

// NewProcessor creates a processor rooted at uploadDir.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{uploadDir: uploadDir}
}

// Dir returns the upload directory.
func (p *Processor) Dir() string { return p.uploadDir }

// DetectMimeType sniffs the MIME type of data.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// Process decodes data, applies its EXIF orientation and stores it as
// originals/<id>/<filename>. The stored copy carries no EXIF metadata and
// WebP input is stored as JPEG.
func (p *Processor) Process(data []byte, id, filename string) (*Image, error) {
	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(data))
	if format == "webp" {
		format = "jpeg"
	}

	encoded, err := encodeImage(img, format, 95)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	rel, err := p.write(OriginalsDir, id, filename, encoded)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	return &Image{
		Kind:     OriginalsDir,
		Width:    b.Dx(),
		Height:   b.Dy(),
		MimeType: formatToMimeType(format),
		Size:     int64(len(encoded)),
		RelPath:  rel,
	}, nil
}

// Variant writes a resized copy of the stored original. It returns nil
// without error when a fit variant would not be smaller than the source.
func (p *Processor) Variant(original *Image, id, filename, name string, cfg model.ImageVariantConfig) (*Image, error) {
	src, err := imaging.Open(filepath.Join(p.uploadDir, filepath.FromSlash(original.RelPath)))
	if err != nil {
		return nil, fmt.Errorf("opening original: %w", err)
	}

	b := src.Bounds()
	if !cfg.Crop && b.Dx() <= cfg.Width && b.Dy() <= cfg.Height {
		return nil, nil
	}

	var resized image.Image
	if cfg.Crop {
		resized = imaging.Fill(src, cfg.Width, cfg.Height, imaging.Center, imaging.Lanczos)
	} else {
		resized = imaging.Fit(src, cfg.Width, cfg.Height, imaging.Lanczos)
	}

	format := detectFormatFromFilename(filename)
	encoded, err := encodeImage(resized, format, cfg.Quality)
	if err != nil {
		return nil, fmt.Errorf("encoding %s variant: %w", name, err)
	}

	rel, err := p.write(name, id, filename, encoded)
	if err != nil {
		return nil, err
	}

	rb := resized.Bounds()
	return &Image{
		Kind:     name,
		Width:    rb.Dx(),
		Height:   rb.Dy(),
		MimeType: formatToMimeType(format),
		Size:     int64(len(encoded)),
		RelPath:  rel,
	}, nil
}

// Variants creates every configured variant of original. Individual
// failures are skipped; an error is returned only when every variant failed.
func (p *Processor) Variants(original *Image, id, filename string) ([]*Image, error) {
	names := make([]string, 0, len(model.ImageVariants))
	for name := range model.ImageVariants {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []*Image
	var errs []error
	for _, name := range names {
		v, err := p.Variant(original, id, filename, name, model.ImageVariants[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if v != nil {
			out = append(out, v)
		}
	}
	if len(out) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("all variants failed: %w", errors.Join(errs...))
	}
	return out, nil
}

// Remove deletes the original and every variant stored under id.
func (p *Processor) Remove(id string) error {
	if !util.ValidName(id) {
		return fmt.Errorf("invalid upload id %q", id)
	}
	dirs := []string{OriginalsDir}
	for name := range model.ImageVariants {
		dirs = append(dirs, name)
	}
	for _, dir := range dirs {
		if err := os.RemoveAll(filepath.Join(p.uploadDir, dir, id)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s/%s: %w", dir, id, err)
		}
	}
	return nil
}

// StoredIDs lists the ids that have an original on disk.
func (p *Processor) StoredIDs() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(p.uploadDir, OriginalsDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	return ids, nil
}

// write stores data as <kind>/<id>/<filename> inside the upload directory
// and returns the slash-separated relative path.
func (p *Processor) write(kind, id, filename string, data []byte) (string, error) {
	name, err := util.SanitizeFilename(filename)
	if err != nil {
		return "", err
	}

	rel := filepath.Join(kind, id, name)
	target, err := util.SafeJoinPath(p.uploadDir, rel)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", kind, err)
	}
	return filepath.ToSlash(rel), nil
}

// readExifOrientation returns the EXIF orientation tag, or 1 when absent.
func readExifOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return o
}

// applyOrientation undoes the camera rotation described by an EXIF
// orientation value (1 normal, 2 mirror, 3 rotate 180, 4 flip,
// 5 to 8 the transposed forms).
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes img. WebP has no pure Go encoder, so it is written as JPEG.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectFormat sniffs the image format of data. TIFF is rejected
// (CVE-2023-36308 in disintegration/imaging).
func detectFormat(data []byte) string {
	switch DetectMimeType(data) {
	case model.MimeTypeJPEG:
		return "jpeg"
	case model.MimeTypePNG:
		return "png"
	case model.MimeTypeGIF:
		return "gif"
	case model.MimeTypeWebP:
		return "webp"
	default:
		return ""
	}
}

func detectFormatFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		return "jpeg"
	}
}

func formatToMimeType(format string) string {
	switch format {
	case "jpeg", "jpg":
		return model.MimeTypeJPEG
	case "png":
		return model.MimeTypePNG
	case "gif":
		return model.MimeTypeGIF
	case "webp":
		return model.MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}
