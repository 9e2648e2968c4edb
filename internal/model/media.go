// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Image variant types generated for uploaded portfolio images.
const (
	VariantThumbnail = "thumbnail"
	VariantMedium    = "medium"
)

// Supported image MIME types.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// ImageVariantConfig defines settings for generating image variants.
type ImageVariantConfig struct {
	Width   int
	Height  int
	Quality int
	Crop    bool // true = crop to exact size, false = fit within bounds
}

// ImageVariants defines the variants created next to every uploaded original.
var ImageVariants = map[string]ImageVariantConfig{
	VariantThumbnail: {Width: 400, Height: 300, Quality: 80, Crop: true},
	VariantMedium:    {Width: 800, Height: 600, Quality: 85, Crop: false},
}

// IsImageMimeType reports whether the MIME type is an accepted upload.
func IsImageMimeType(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}

// Upload describes a stored image and the URLs it can be fetched from.
type Upload struct {
	UUID     string            `json:"uuid"`
	Filename string            `json:"filename"`
	MimeType string            `json:"mime_type"`
	Size     int64             `json:"size"`
	Width    int               `json:"width"`
	Height   int               `json:"height"`
	URL      string            `json:"url"`
	Variants map[string]string `json:"variants,omitempty"`
}
