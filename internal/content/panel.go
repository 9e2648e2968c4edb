// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/olegiv/studio-go/internal/model"
)

// Panel errors.
var (
	ErrFormClosed           = errors.New("no form is open")
	ErrItemNotListed        = errors.New("item is not in the list")
	ErrConfirmationRequired = errors.New("deletion requires a confirmer")
)

// Writer mutates one collection.
type Writer[T any, In any] interface {
	Insert(ctx context.Context, in In) (T, error)
	Update(ctx context.Context, id string, in In) (T, error)
	Delete(ctx context.Context, id string) error
}

// Table reads and mutates one collection.
type Table[T any, In any] interface {
	Source[T]
	Writer[T, In]
}

// Input is an editable field set that validates itself.
type Input interface {
	Validate() error
}

// Form is the state of the create/edit dialog.
type Form[In any] struct {
	Open bool
	// EditingID is the id of the record being edited, empty when creating.
	EditingID   string
	Values      In
	FieldErrors map[string]string
}

// PanelOptions carries the collaborators shared by every panel.
type PanelOptions struct {
	Notifier  Notifier
	Confirmer Confirmer
	Logger    *slog.Logger
}

// panelSpec describes one entity type to the generic Panel.
type panelSpec[T model.Entity, In Input] struct {
	name     string
	label    string
	defaults func(nextOrder int64) In
	toInput  func(T) In
}

// Panel mirrors a whole collection for the admin console. Every successful
// mutation is followed by a full re-read; the panel never patches its list
// locally.
type Panel[T model.Entity, In Input] struct {
	spec      panelSpec[T, In]
	table     Table[T, In]
	notifier  Notifier
	confirmer Confirmer
	logger    *slog.Logger

	mu      sync.Mutex
	items   []T
	loading bool
	loadErr string
	form    Form[In]
}

func newPanel[T model.Entity, In Input](spec panelSpec[T, In], table Table[T, In], opts PanelOptions) *Panel[T, In] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	return &Panel[T, In]{
		spec:      spec,
		table:     table,
		notifier:  notifier,
		confirmer: opts.Confirmer,
		logger:    logger.With("panel", spec.name),
		items:     []T{},
		loading:   true,
	}
}

// NewServicesPanel creates the admin panel for services.
func NewServicesPanel(table Table[model.Service, model.ServiceInput], opts PanelOptions) *Panel[model.Service, model.ServiceInput] {
	return newPanel(panelSpec[model.Service, model.ServiceInput]{
		name:     model.CollectionServices,
		label:    "Service",
		defaults: model.NewServiceInput,
		toInput:  model.Service.Input,
	}, table, opts)
}

// NewTestimonialsPanel creates the admin panel for testimonials.
func NewTestimonialsPanel(table Table[model.Testimonial, model.TestimonialInput], opts PanelOptions) *Panel[model.Testimonial, model.TestimonialInput] {
	return newPanel(panelSpec[model.Testimonial, model.TestimonialInput]{
		name:     model.CollectionTestimonials,
		label:    "Testimonial",
		defaults: model.NewTestimonialInput,
		toInput:  model.Testimonial.Input,
	}, table, opts)
}

// Load reads the whole collection, unfiltered, and replaces the list.
// On failure the previous list is kept.
func (p *Panel[T, In]) Load(ctx context.Context) error {
	p.mu.Lock()
	p.loading = true
	p.mu.Unlock()

	items, err := p.table.List(ctx, model.ListFilter{})

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		p.loadErr = err.Error()
		p.notifier.Notify(Notice{Level: NoticeError, Title: "Error", Message: err.Error()})
		return fmt.Errorf("loading %s: %w", p.spec.name, err)
	}
	if items == nil {
		items = []T{}
	}
	p.items = items
	p.loadErr = ""
	return nil
}

// Items returns a copy of the mirrored list.
func (p *Panel[T, In]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T(nil), p.items...)
}

// Loading reports whether a read is in progress.
func (p *Panel[T, In]) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Err returns the message of the last failed load, empty otherwise.
func (p *Panel[T, In]) Err() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadErr
}

// Form returns a copy of the form state.
func (p *Panel[T, In]) Form() Form[In] {
	p.mu.Lock()
	defer p.mu.Unlock()
	f := p.form
	if p.form.FieldErrors != nil {
		f.FieldErrors = make(map[string]string, len(p.form.FieldErrors))
		for k, v := range p.form.FieldErrors {
			f.FieldErrors[k] = v
		}
	}
	return f
}

// OpenNew opens an empty form. The suggested display order places the
// new record after the current list.
func (p *Panel[T, In]) OpenNew() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = Form[In]{Open: true, Values: p.spec.defaults(int64(len(p.items)))}
}

// OpenEdit opens the form pre-filled with the record's editable fields.
func (p *Panel[T, In]) OpenEdit(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	item, ok := p.findLocked(id)
	if !ok {
		return fmt.Errorf("%s %s: %w", p.spec.name, id, ErrItemNotListed)
	}
	p.form = Form[In]{Open: true, EditingID: id, Values: p.spec.toInput(item)}
	return nil
}

// SetValues replaces the values of the open form.
func (p *Panel[T, In]) SetValues(values In) error {
	return p.Edit(func(in *In) { *in = values })
}

// Edit applies fn to the values of the open form.
func (p *Panel[T, In]) Edit(fn func(*In)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.form.Open {
		return ErrFormClosed
	}
	fn(&p.form.Values)
	return nil
}

// CloseForm discards the form.
func (p *Panel[T, In]) CloseForm() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = Form[In]{}
}

// Submit validates the form and writes it: an insert for a new record or a
// whole-record update for an edited one. Validation failures never reach
// the store and are recorded in the form's FieldErrors. On a store failure
// the form stays open with its values so the operator can retry. On
// success the form closes and the list is re-read.
func (p *Panel[T, In]) Submit(ctx context.Context) (T, error) {
	var zero T

	p.mu.Lock()
	if !p.form.Open {
		p.mu.Unlock()
		return zero, ErrFormClosed
	}
	values := p.form.Values
	editingID := p.form.EditingID
	p.mu.Unlock()

	if err := values.Validate(); err != nil {
		var ve *model.ValidationError
		p.mu.Lock()
		if errors.As(err, &ve) {
			p.form.FieldErrors = ve.Fields
		}
		p.mu.Unlock()
		return zero, err
	}

	p.mu.Lock()
	p.form.FieldErrors = nil
	p.mu.Unlock()

	var (
		saved T
		err   error
		verb  string
	)
	if editingID == "" {
		saved, err = p.table.Insert(ctx, values)
		verb = "created"
	} else {
		saved, err = p.table.Update(ctx, editingID, values)
		verb = "updated"
	}
	if err != nil {
		// A remote store reports its own field errors.
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			p.mu.Lock()
			p.form.FieldErrors = ve.Fields
			p.mu.Unlock()
		}
		p.notifier.Notify(Notice{Level: NoticeError, Title: "Error", Message: err.Error()})
		return zero, err
	}

	p.logger.Info(p.spec.label+" "+verb, "id", saved.EntityID())
	p.notifier.Notify(Notice{Level: NoticeSuccess, Title: "Success", Message: p.spec.label + " " + verb + "!"})
	p.CloseForm()

	// The write succeeded; a failed re-read is reported by Load itself.
	_ = p.Load(ctx)
	return saved, nil
}

// Delete asks for confirmation and removes the record. It reports whether
// the record was deleted; declining is not an error. On failure the list
// is left unchanged.
func (p *Panel[T, In]) Delete(ctx context.Context, id string) (bool, error) {
	if p.confirmer == nil {
		return false, ErrConfirmationRequired
	}

	prompt := fmt.Sprintf("Are you sure you want to delete this %s?", p.spec.label)
	p.mu.Lock()
	if item, ok := p.findLocked(id); ok {
		prompt = fmt.Sprintf("Are you sure you want to delete %s %s?", p.spec.label, item.EntityID())
	}
	p.mu.Unlock()

	if !p.confirmer.Confirm(prompt) {
		return false, nil
	}

	if err := p.table.Delete(ctx, id); err != nil {
		p.notifier.Notify(Notice{Level: NoticeError, Title: "Error", Message: err.Error()})
		return false, err
	}

	p.logger.Info(p.spec.label+" deleted", "id", id)
	p.notifier.Notify(Notice{Level: NoticeSuccess, Title: "Success", Message: p.spec.label + " deleted!"})
	_ = p.Load(ctx)
	return true, nil
}

func (p *Panel[T, In]) findLocked(id string) (T, bool) {
	for _, it := range p.items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}
