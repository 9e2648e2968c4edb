// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"fmt"
	"io"

	"github.com/olegiv/studio-go/internal/model"
)

// ImageUploader stores an image and resolves it to a public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

// PortfolioPanel is the portfolio admin panel. Besides the generic CRUD
// operations it can attach an uploaded image to the open form.
type PortfolioPanel struct {
	*Panel[model.PortfolioItem, model.PortfolioInput]
	uploader ImageUploader
}

// NewPortfolioPanel creates the admin panel for portfolio items. uploader
// may be nil when only direct image URLs are used.
func NewPortfolioPanel(table Table[model.PortfolioItem, model.PortfolioInput], uploader ImageUploader, opts PanelOptions) *PortfolioPanel {
	return &PortfolioPanel{
		Panel: newPanel(panelSpec[model.PortfolioItem, model.PortfolioInput]{
			name:     model.CollectionPortfolio,
			label:    "Portfolio item",
			defaults: model.NewPortfolioInput,
			toInput:  model.PortfolioItem.Input,
		}, table, opts),
		uploader: uploader,
	}
}

// AttachImage uploads r and stores the resolved URL in the open form.
// Only the URL is ever persisted with the item.
func (p *PortfolioPanel) AttachImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !p.Form().Open {
		return "", ErrFormClosed
	}
	if p.uploader == nil {
		return "", fmt.Errorf("image upload is not configured")
	}

	url, err := p.uploader.UploadImage(ctx, filename, r)
	if err != nil {
		p.notifier.Notify(Notice{Level: NoticeError, Title: "Upload Failed", Message: err.Error()})
		return "", err
	}

	if err := p.Edit(func(in *model.PortfolioInput) { in.ImageURL = url }); err != nil {
		return "", err
	}
	return url, nil
}
