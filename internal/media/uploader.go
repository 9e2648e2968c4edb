// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package media stores uploaded portfolio images and resolves them to
// public URLs.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/studio-go/internal/imaging"
	"github.com/olegiv/studio-go/internal/model"
)

// Upload limits.
const (
	MaxUploadSize    = 10 * 1024 * 1024 // 10MB
	DefaultUploadDir = "./uploads"
)

// Upload errors.
var (
	ErrTooLarge        = fmt.Errorf("file size exceeds maximum allowed (%d bytes)", MaxUploadSize)
	ErrUnsupportedType = errors.New("file type is not an accepted image")
	ErrEmptyFile       = errors.New("file is empty")
)

// Uploader processes images into the upload directory.
type Uploader struct {
	processor *imaging.Processor
	publicURL string
	logger    *slog.Logger
	now       func() time.Time
}

// NewUploader creates an uploader writing below dir. publicURL is the
// externally visible origin of the server; when empty, URLs are
// root-relative /uploads/... paths.
func NewUploader(dir, publicURL string, logger *slog.Logger) *Uploader {
	if dir == "" {
		dir = DefaultUploadDir
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{
		processor: imaging.NewProcessor(dir),
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
		now:       time.Now,
	}
}

// Dir returns the upload directory.
func (u *Uploader) Dir() string { return u.processor.Dir() }

// Upload validates and stores an image. The stored name is the upload
// time in milliseconds plus the extension of the detected type; the
// caller's filename is never used on disk.
func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader) (*model.Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}

	mimeType := imaging.DetectMimeType(data)
	if !model.IsImageMimeType(mimeType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	id := uuid.New().String()
	name := strconv.FormatInt(u.now().UnixMilli(), 10) + extensionFor(mimeType)

	orig, err := u.processor.Process(data, id, name)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
		}
		_ = u.processor.Remove(id)
		return nil, fmt.Errorf("processing image: %w", err)
	}

	up := &model.Upload{
		UUID:     id,
		Filename: name,
		MimeType: orig.MimeType,
		Size:     orig.Size,
		Width:    orig.Width,
		Height:   orig.Height,
		URL:      u.URL(orig.RelPath),
	}

	variants, err := u.processor.Variants(orig, id, name)
	if err != nil {
		u.logger.Warn("failed to create image variants", "category", model.EventCategoryMedia,
			"uuid", id, "original_name", filename, "error", err)
	}
	if len(variants) > 0 {
		up.Variants = make(map[string]string, len(variants))
		for _, v := range variants {
			up.Variants[v.Kind] = u.URL(v.RelPath)
		}
	}

	u.logger.Info("image uploaded", "uuid", id, "original_name", filename, "size", up.Size)
	return up, nil
}

// UploadImage stores an image and returns its public URL.
func (u *Uploader) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	up, err := u.Upload(ctx, filename, r)
	if err != nil {
		return "", err
	}
	return up.URL, nil
}

// URL resolves a path relative to the upload directory to its public URL.
func (u *Uploader) URL(rel string) string {
	return u.publicURL + model.UploadsPathPrefix + strings.TrimLeft(rel, "/")
}

// IDFromURL extracts the upload id from a URL produced by this package.
func IDFromURL(url string) (string, bool) {
	marker := model.UploadsPathPrefix + imaging.OriginalsDir + "/"
	i := strings.Index(url, marker)
	if i < 0 {
		return "", false
	}
	rest := url[i+len(marker):]
	j := strings.IndexByte(rest, '/')
	if j <= 0 {
		return "", false
	}
	id := rest[:j]
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// Sweep removes uploads that none of the referenced URLs point to. Uploads
// younger than grace are kept so that an image attached to a form that has
// not been submitted yet survives.
func (u *Uploader) Sweep(ctx context.Context, referenced []string, grace time.Duration) (int, error) {
	keep := make(map[string]struct{}, len(referenced))
	for _, ref := range referenced {
		if id, ok := IDFromURL(ref); ok {
			keep[id] = struct{}{}
		}
	}

	ids, err := u.processor.StoredIDs()
	if err != nil {
		return 0, fmt.Errorf("listing uploads: %w", err)
	}

	cutoff := u.now().Add(-grace)
	removed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if _, ok := keep[id]; ok {
			continue
		}
		info, err := os.Stat(filepath.Join(u.processor.Dir(), imaging.OriginalsDir, id))
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := u.processor.Remove(id); err != nil {
			return removed, err
		}
		removed++
		u.logger.Info("removed orphaned upload", "uuid", id)
	}
	return removed, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case model.MimeTypePNG:
		return ".png"
	case model.MimeTypeGIF:
		return ".gif"
	default:
		return ".jpg"
	}
}
